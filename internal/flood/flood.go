// Package flood implements the explicit-queue breadth-first fill shared by
// the connectivity, porosity and floating-body analyzers.
package flood

import (
	"voxelporosity/internal/models"
	"voxelporosity/pkg/labelgrid"
)

// Fill labels every voxel reachable from seed through nbh whose
// coordinates satisfy accept and are still unlabeled in grid. visit, if
// non-nil, is called once per labeled voxel in BFS order, seed first.
// Returns the number of labeled voxels.
//
// The seed must be unlabeled and accepted; the caller checks both.
func Fill(grid *labelgrid.Grid, seed models.Voxel, label int32, nbh labelgrid.Neighborhood,
	accept func(z, y, x int) bool, visit func(v models.Voxel)) int {
	dims := grid.Dims()
	plane := dims.Height * dims.Width

	grid.SetLabel(seed.Z, seed.Y, seed.X, label)
	queue := []int{dims.Index(seed.Z, seed.Y, seed.X)}

	for qi := 0; qi < len(queue); qi++ {
		idx := queue[qi]
		z, rem := idx/plane, idx%plane
		y, x := rem/dims.Width, rem%dims.Width
		if visit != nil {
			visit(models.Voxel{Z: z, Y: y, X: x})
		}
		for _, d := range nbh {
			nz, ny, nx := z+d.DZ, y+d.DY, x+d.DX
			if !dims.Contains(nz, ny, nx) || grid.Label(nz, ny, nx) != 0 || !accept(nz, ny, nx) {
				continue
			}
			grid.SetLabel(nz, ny, nx, label)
			queue = append(queue, dims.Index(nz, ny, nx))
		}
	}
	return len(queue)
}

// BodyOf returns an accept function for body voxels of vol.
func BodyOf(vol *models.Volume, rule models.BodyRule) func(z, y, x int) bool {
	return func(z, y, x int) bool {
		return rule.IsBody(vol.At(z, y, x))
	}
}

// VoidOf returns an accept function for void voxels of vol.
func VoidOf(vol *models.Volume, rule models.BodyRule) func(z, y, x int) bool {
	return func(z, y, x int) bool {
		return !rule.IsBody(vol.At(z, y, x))
	}
}
