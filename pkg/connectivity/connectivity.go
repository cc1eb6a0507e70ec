// Package connectivity answers whether the body of a volume is one
// face-connected mass, and whether it spans the volume from the first
// layer to the last.
package connectivity

import (
	"voxelporosity/internal/flood"
	"voxelporosity/internal/models"
	"voxelporosity/pkg/labelgrid"
)

// IsFullyConnected reports whether every body voxel belongs to a single
// 6-connected component. The seed is the first body voxel in z, y, x
// raster order. An invalid volume or a volume without body voxels
// yields false.
func IsFullyConnected(vol *models.Volume, rule models.BodyRule) bool {
	if vol.Validate() != nil {
		return false
	}
	dims := vol.Dims()

	total := 0
	var seed models.Voxel
	found := false
	for z := 0; z < dims.Depth; z++ {
		for y := 0; y < dims.Height; y++ {
			for x := 0; x < dims.Width; x++ {
				if !rule.IsBody(vol.At(z, y, x)) {
					continue
				}
				if !found {
					seed = models.Voxel{Z: z, Y: y, X: x}
					found = true
				}
				total++
			}
		}
	}
	if !found {
		return false
	}

	grid := labelgrid.ForVolume(vol)
	reached := flood.Fill(grid, seed, 1, labelgrid.Face6, flood.BodyOf(vol, rule), nil)
	return reached == total
}

// Is3DConnected reports whether the 6-connected component grown from the
// first body voxel of layer z = 0 reaches every body voxel of the last
// layer. A body absent from the first layer yields false, as does an
// invalid volume.
//
// The check is not symmetric with IsFullyConnected: body voxels on
// intermediate layers that are not reached do not matter.
func Is3DConnected(vol *models.Volume, rule models.BodyRule) bool {
	if vol.Validate() != nil {
		return false
	}
	dims := vol.Dims()

	var seed models.Voxel
	found := false
	for y := 0; y < dims.Height && !found; y++ {
		for x := 0; x < dims.Width && !found; x++ {
			if rule.IsBody(vol.At(0, y, x)) {
				seed = models.Voxel{Z: 0, Y: y, X: x}
				found = true
			}
		}
	}
	if !found {
		return false
	}

	grid := labelgrid.ForVolume(vol)
	flood.Fill(grid, seed, 1, labelgrid.Face6, flood.BodyOf(vol, rule), nil)

	last := dims.Depth - 1
	for y := 0; y < dims.Height; y++ {
		for x := 0; x < dims.Width; x++ {
			if rule.IsBody(vol.At(last, y, x)) && !grid.Visited(last, y, x) {
				return false
			}
		}
	}
	return true
}
