// Package porosity classifies the void of a volume into open voids and
// enclosed pores and reports the void fraction.
package porosity

import (
	"voxelporosity/internal/flood"
	"voxelporosity/internal/models"
	"voxelporosity/pkg/labelgrid"
)

// Stats summarizes the void of a volume.
type Stats struct {
	// Porosity is EmptyVoxels / TotalVoxels
	Porosity float64

	// PoreCount is the number of void components touching no outer face
	PoreCount int

	// EmptyVoxels is the number of void voxels over all components
	EmptyVoxels int

	// TotalVoxels is the number of voxels in the volume
	TotalVoxels int

	// PoreSizes holds the voxel count of each enclosed pore in discovery order
	PoreSizes []int
}

// ComputePorosityStats flood-fills every void component with 26-connectivity.
// A component is an enclosed pore when none of its voxels lies on an outer
// face of the volume; the decision is taken once the component is fully
// drained. An invalid volume yields zero Stats.
func ComputePorosityStats(vol *models.Volume, rule models.BodyRule) Stats {
	if vol.Validate() != nil {
		return Stats{}
	}
	dims := vol.Dims()
	grid := labelgrid.ForVolume(vol)
	void := flood.VoidOf(vol, rule)

	stats := Stats{TotalVoxels: dims.Voxels()}
	var label int32
	for z := 0; z < dims.Depth; z++ {
		for y := 0; y < dims.Height; y++ {
			for x := 0; x < dims.Width; x++ {
				if grid.Label(z, y, x) != 0 || !void(z, y, x) {
					continue
				}
				label++
				touchesBorder := false
				n := flood.Fill(grid, models.Voxel{Z: z, Y: y, X: x}, label, labelgrid.Full26, void,
					func(v models.Voxel) {
						if dims.OnBoundary(v.Z, v.Y, v.X) {
							touchesBorder = true
						}
					})
				stats.EmptyVoxels += n
				if !touchesBorder {
					stats.PoreCount++
					stats.PoreSizes = append(stats.PoreSizes, n)
				}
			}
		}
	}

	stats.Porosity = float64(stats.EmptyVoxels) / float64(stats.TotalVoxels)
	return stats
}
