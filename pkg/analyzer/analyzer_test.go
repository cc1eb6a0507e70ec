package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voxelporosity/internal/logging"
	"voxelporosity/internal/models"
	"voxelporosity/pkg/synth"
)

func init() {
	logging.SetLogMode(logging.SilentMode)
}

func params(parallel bool) *Params {
	return &Params{
		Body:        models.ExactBody(255),
		MinVoxels3D: 10,
		MinArea2D:   30,
		Parallel:    parallel,
	}
}

func generate(t *testing.T, shape synth.Shape, size int) *models.Volume {
	t.Helper()
	vol, err := synth.NewGenerator(size, 3).Generate(shape)
	require.NoError(t, err)
	return vol
}

func TestProcessDisconnectedCube(t *testing.T) {
	a := NewAnalyzer(params(true))
	require.NoError(t, a.Process(generate(t, synth.CubeWithDisconnectedBodies, 50)))

	r, err := a.GetReport()
	require.NoError(t, err)
	assert.Equal(t, models.Dims{Depth: 50, Height: 50, Width: 50}, r.Dims)
	assert.Equal(t, 48*2500, r.BodyVoxels)
	assert.False(t, r.FullyConnected)
	assert.False(t, r.SpansDepth)
	assert.InDelta(t, 0.04, r.Porosity.Porosity, 1e-12)
	assert.Zero(t, r.Porosity.PoreCount, "the void slab reaches the sides")
	assert.Equal(t, 1, r.FloatingCount)
	assert.Equal(t, 24*2500, r.Floating[0].Voxels)
	assert.Equal(t, 1, r.FloatingSize.Count)
	assert.Equal(t, float64(24*2500), r.FloatingSize.Max)
	assert.Empty(t, r.Islands)

	m := r.Metrics()
	assert.False(t, m.Connected)
	assert.Equal(t, 1, m.FloatingParts)
	require.NotNil(t, m.Porosity)
	assert.InDelta(t, 0.04, *m.Porosity, 1e-12)
}

func TestProcessHangingStone(t *testing.T) {
	a := NewAnalyzer(params(false))
	require.NoError(t, a.Process(generate(t, synth.CubeWithHangingStone, 50)))

	r, err := a.GetReport()
	require.NoError(t, err)
	assert.False(t, r.FullyConnected, "the stone is not attached to the shell")
	assert.True(t, r.SpansDepth)
	assert.Equal(t, 1, r.Porosity.PoreCount)
	assert.Equal(t, 1, r.FloatingCount)
	assert.Equal(t, 33, r.Floating[0].Voxels)

	m := r.Metrics()
	assert.True(t, m.Connected)
	assert.Equal(t, 1, m.InternalPores)
	assert.Equal(t, 1, m.FloatingParts)
}

func TestProcessMultipleHoles(t *testing.T) {
	gen := synth.NewGenerator(40, 1)
	gen.HoleRadius = 3
	vol, err := gen.Generate(synth.CubeWithMultipleHoles)
	require.NoError(t, err)

	a := NewAnalyzer(params(false))
	require.NoError(t, a.Process(vol))
	r, err := a.GetReport()
	require.NoError(t, err)

	assert.True(t, r.FullyConnected)
	assert.Equal(t, 4, r.Porosity.PoreCount)
	assert.Equal(t, 4, r.PoreSize.Count)
	assert.Equal(t, r.PoreSize.Min, r.PoreSize.Max, "equal radii give equal pores")
	assert.InDelta(t, r.PoreSize.Min, r.PoreSize.Mean, 1e-9)
	assert.Zero(t, r.PoreSize.StdDev)
	assert.Equal(t, float64(r.Porosity.EmptyVoxels), r.PoreSize.Total)
}

func TestParallelMatchesSequential(t *testing.T) {
	for _, shape := range synth.Shapes() {
		t.Run(shape.String(), func(t *testing.T) {
			vol := generate(t, shape, 20)

			seq := NewAnalyzer(params(false))
			require.NoError(t, seq.Process(vol))
			par := NewAnalyzer(params(true))
			require.NoError(t, par.Process(vol))

			rs, _ := seq.GetReport()
			rp, _ := par.GetReport()
			rs.Elapsed, rp.Elapsed = 0, 0
			assert.Equal(t, rs, rp)
		})
	}
}

func TestProcessErrors(t *testing.T) {
	a := NewAnalyzer(params(true))
	_, err := a.GetReport()
	assert.ErrorIs(t, err, ErrNotProcessed)

	err = a.Process(&models.Volume{})
	assert.ErrorIs(t, err, models.ErrEmptyVolume)
	_, err = a.GetReport()
	assert.ErrorIs(t, err, ErrNotProcessed, "a rejected volume leaves no report")

	noRule := NewAnalyzer(&Params{})
	assert.Error(t, noRule.Process(models.Blank(1, 1, 1)))
}

func TestSizeStats(t *testing.T) {
	assert.Equal(t, SizeStats{}, newSizeStats(nil))

	one := newSizeStats([]int{7})
	assert.Equal(t, SizeStats{Count: 1, Total: 7, Mean: 7, Min: 7, Max: 7}, one)

	s := newSizeStats([]int{2, 4, 6})
	assert.Equal(t, 3, s.Count)
	assert.Equal(t, 12.0, s.Total)
	assert.Equal(t, 4.0, s.Mean)
	assert.InDelta(t, 2.0, s.StdDev, 1e-12)
	assert.Equal(t, 2.0, s.Min)
	assert.Equal(t, 6.0, s.Max)
}
