// Package floating finds body fragments that are not anchored to the base
// layer of a volume (3D) and small isolated regions on single slices (2D).
package floating

import (
	"voxelporosity/internal/flood"
	"voxelporosity/internal/models"
	"voxelporosity/pkg/labelgrid"
)

// Bounds is the inclusive bounding box of a component.
type Bounds struct {
	Min, Max models.Voxel
}

func newBounds(v models.Voxel) Bounds {
	return Bounds{Min: v, Max: v}
}

func (b *Bounds) extend(v models.Voxel) {
	b.Min.Z, b.Max.Z = min(b.Min.Z, v.Z), max(b.Max.Z, v.Z)
	b.Min.Y, b.Max.Y = min(b.Min.Y, v.Y), max(b.Max.Y, v.Y)
	b.Min.X, b.Max.X = min(b.Min.X, v.X), max(b.Max.X, v.X)
}

// Body is a floating 3D component.
type Body struct {
	// Label is the 1-based component label in raster discovery order
	Label int32
	// Voxels is the component size
	Voxels int
	// Bounds is the component's bounding box
	Bounds Bounds
}

// DetectFloatingBodies3D labels body components with 6-connectivity and
// reports those that do not touch layer z = 0 and hold at least minVoxels
// voxels. Only z = 0 anchors a component: a large component spanning
// other layers but never z = 0 is still floating. Returns the number of
// floating components and their descriptions in label order. An invalid
// volume yields zero and nil.
func DetectFloatingBodies3D(vol *models.Volume, rule models.BodyRule, minVoxels int) (int, []Body) {
	if vol.Validate() != nil {
		return 0, nil
	}
	dims := vol.Dims()
	grid := labelgrid.ForVolume(vol)
	body := flood.BodyOf(vol, rule)

	var floating []Body
	var label int32
	for z := 0; z < dims.Depth; z++ {
		for y := 0; y < dims.Height; y++ {
			for x := 0; x < dims.Width; x++ {
				if grid.Label(z, y, x) != 0 || !body(z, y, x) {
					continue
				}
				label++
				seed := models.Voxel{Z: z, Y: y, X: x}
				anchored := false
				bounds := newBounds(seed)
				n := flood.Fill(grid, seed, label, labelgrid.Face6, body, func(v models.Voxel) {
					if v.Z == 0 {
						anchored = true
					}
					bounds.extend(v)
				})
				if !anchored && n >= minVoxels {
					floating = append(floating, Body{Label: label, Voxels: n, Bounds: bounds})
				}
			}
		}
	}
	return len(floating), floating
}
