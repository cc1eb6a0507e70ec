// Package labelgrid provides the dense per-voxel label buffer shared by
// every flood-fill in the analyzers, together with the adjacency rules
// used to expand a component.
//
// A Grid is a single flat []int32 indexed by ((z*Height)+y)*Width + x.
// Label 0 means unlabeled. Out-of-range coordinates are programming
// errors and panic.
package labelgrid

import (
	"fmt"

	"voxelporosity/internal/models"
)

// Grid holds one label per voxel. It is scoped to a single analysis call.
type Grid struct {
	dims   models.Dims
	labels []int32
}

// New allocates a zero-initialized grid with the given dimensions.
func New(dims models.Dims) *Grid {
	if dims.Depth <= 0 || dims.Height <= 0 || dims.Width <= 0 {
		panic(fmt.Sprintf("labelgrid: invalid dimensions %s", dims))
	}
	return &Grid{
		dims:   dims,
		labels: make([]int32, dims.Voxels()),
	}
}

// ForVolume allocates a grid sized to vol. The volume must be valid.
func ForVolume(vol *models.Volume) *Grid {
	return New(vol.Dims())
}

// Dims returns the grid extent.
func (g *Grid) Dims() models.Dims {
	return g.dims
}

// Index returns the flat offset of (z, y, x), panicking when it lies
// outside the grid.
func (g *Grid) Index(z, y, x int) int {
	if !g.dims.Contains(z, y, x) {
		panic(fmt.Sprintf("labelgrid: voxel (%d, %d, %d) outside %s", z, y, x, g.dims))
	}
	return g.dims.Index(z, y, x)
}

// Label returns the label of (z, y, x).
func (g *Grid) Label(z, y, x int) int32 {
	return g.labels[g.Index(z, y, x)]
}

// SetLabel stores label for (z, y, x).
func (g *Grid) SetLabel(z, y, x int, label int32) {
	g.labels[g.Index(z, y, x)] = label
}

// Visited reports whether (z, y, x) carries a non-zero label.
func (g *Grid) Visited(z, y, x int) bool {
	return g.Label(z, y, x) != 0
}

// Visit marks (z, y, x) with label 1.
func (g *Grid) Visit(z, y, x int) {
	g.SetLabel(z, y, x, 1)
}
