package floating

import (
	"voxelporosity/internal/flood"
	"voxelporosity/internal/models"
	"voxelporosity/pkg/labelgrid"
)

// Island is a small 8-connected body region on a single slice.
type Island struct {
	// Slice is the z index of the slice
	Slice int
	// Component is the 1-based component id within the slice, raster order
	Component int
	// Area is the number of pixels
	Area int
	// Bounds is the bounding box; Min.Z and Max.Z equal Slice
	Bounds Bounds
}

// DetectFloatingIslands2D labels each slice independently with in-plane
// 8-connectivity and reports every body component whose area is below
// minArea. Background is never reported. An invalid volume yields nil.
func DetectFloatingIslands2D(vol *models.Volume, rule models.BodyRule, minArea int) []Island {
	if vol.Validate() != nil {
		return nil
	}
	dims := vol.Dims()
	planeDims := models.Dims{Depth: 1, Height: dims.Height, Width: dims.Width}

	var islands []Island
	for z := range vol.Slices {
		s := vol.Slices[z]
		mask := func(_, y, x int) bool { return rule.IsBody(s.At(y, x)) }
		grid := labelgrid.New(planeDims)

		var label int32
		for y := 0; y < dims.Height; y++ {
			for x := 0; x < dims.Width; x++ {
				if grid.Label(0, y, x) != 0 || !mask(0, y, x) {
					continue
				}
				label++
				seed := models.Voxel{Y: y, X: x}
				bounds := newBounds(seed)
				area := flood.Fill(grid, seed, label, labelgrid.Plane8, mask, bounds.extend)
				if area < minArea {
					bounds.Min.Z, bounds.Max.Z = z, z
					islands = append(islands, Island{Slice: z, Component: int(label), Area: area, Bounds: bounds})
				}
			}
		}
	}
	return islands
}
