package flood

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voxelporosity/internal/models"
	"voxelporosity/pkg/labelgrid"
)

func TestFillOrderAndLabels(t *testing.T) {
	// A straight 1x1x5 bar of body voxels
	vol := models.Blank(1, 1, 5)
	for x := 0; x < 5; x++ {
		vol.Set(0, 0, x, 255)
	}
	grid := labelgrid.ForVolume(vol)

	var order []models.Voxel
	n := Fill(grid, models.Voxel{X: 2}, 3, labelgrid.Face6, BodyOf(vol, models.ExactBody(255)),
		func(v models.Voxel) { order = append(order, v) })

	require.Equal(t, 5, n)
	require.Len(t, order, 5)
	assert.Equal(t, models.Voxel{X: 2}, order[0], "seed is visited first")
	for x := 0; x < 5; x++ {
		assert.Equal(t, int32(3), grid.Label(0, 0, x))
	}
}

func TestFillRespectsAdjacency(t *testing.T) {
	// Two void voxels touching only at a corner inside a solid block
	vol := models.Blank(3, 3, 3)
	for _, s := range vol.Slices {
		for i := range s.Pix {
			s.Pix[i] = 255
		}
	}
	vol.Set(0, 0, 0, 0)
	vol.Set(1, 1, 1, 0)
	void := VoidOf(vol, models.ExactBody(255))

	face := labelgrid.ForVolume(vol)
	assert.Equal(t, 1, Fill(face, models.Voxel{}, 1, labelgrid.Face6, void, nil))

	full := labelgrid.ForVolume(vol)
	assert.Equal(t, 2, Fill(full, models.Voxel{}, 1, labelgrid.Full26, void, nil))
}

func TestFillSkipsLabeledVoxels(t *testing.T) {
	vol := models.Blank(1, 1, 3)
	grid := labelgrid.ForVolume(vol)
	grid.SetLabel(0, 0, 1, 9)

	void := VoidOf(vol, models.ExactBody(255))
	assert.Equal(t, 1, Fill(grid, models.Voxel{}, 1, labelgrid.Face6, void, nil))
	assert.Equal(t, int32(9), grid.Label(0, 0, 1))
	assert.Zero(t, grid.Label(0, 0, 2))
}
