package models

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVolume(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		_, err := NewVolume(nil)
		require.ErrorIs(t, err, ErrEmptyVolume)
	})

	t.Run("ZeroSizedSlice", func(t *testing.T) {
		_, err := NewVolume([]Slice{NewSlice(0, 3)})
		require.ErrorIs(t, err, ErrEmptySlice)
	})

	t.Run("InconsistentSlices", func(t *testing.T) {
		_, err := NewVolume([]Slice{NewSlice(4, 4), NewSlice(4, 5)})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInconsistentSlice))
	})

	t.Run("ShortPixelBuffer", func(t *testing.T) {
		s := NewSlice(4, 4)
		s.Pix = s.Pix[:10]
		_, err := NewVolume([]Slice{s})
		require.ErrorIs(t, err, ErrInconsistentSlice)
	})

	t.Run("Valid", func(t *testing.T) {
		vol, err := NewVolume([]Slice{NewSlice(5, 3), NewSlice(5, 3)})
		require.NoError(t, err)
		assert.Equal(t, Dims{Depth: 2, Height: 3, Width: 5}, vol.Dims())
	})
}

func TestNilVolume(t *testing.T) {
	var vol *Volume
	assert.ErrorIs(t, vol.Validate(), ErrEmptyVolume)
	assert.Equal(t, Dims{}, vol.Dims())
}

func TestDims(t *testing.T) {
	d := Dims{Depth: 3, Height: 4, Width: 5}

	assert.Equal(t, 60, d.Voxels())
	assert.Equal(t, 0, d.Index(0, 0, 0))
	assert.Equal(t, (2*4+3)*5+4, d.Index(2, 3, 4))
	assert.Equal(t, "3x4x5", d.String())

	assert.True(t, d.Contains(2, 3, 4))
	assert.False(t, d.Contains(3, 0, 0))
	assert.False(t, d.Contains(0, -1, 0))

	assert.True(t, d.OnBoundary(0, 2, 2))
	assert.True(t, d.OnBoundary(1, 3, 2))
	assert.True(t, d.OnBoundary(1, 2, 4))
	assert.False(t, d.OnBoundary(1, 2, 2))
}

func TestVolumeAccess(t *testing.T) {
	vol := Blank(2, 3, 4)
	require.NoError(t, vol.Validate())

	vol.Set(1, 2, 3, 255)
	vol.Set(0, 0, 0, 200)

	assert.Equal(t, uint8(255), vol.At(1, 2, 3))
	assert.Equal(t, uint8(255), vol.Slices[1].Pix[2*4+3])
	assert.Equal(t, 1, vol.CountBody(ExactBody(255)))
	assert.Equal(t, 2, vol.CountBody(ThresholdBody(127)))
}

func TestSliceFromGray(t *testing.T) {
	// Sub-image with a non-zero origin and a stride larger than the width
	src := image.NewGray(image.Rect(0, 0, 6, 6))
	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			src.SetGray(x, y, color.Gray{Y: uint8(10*y + x)})
		}
	}
	sub := src.SubImage(image.Rect(2, 1, 5, 4)).(*image.Gray)

	s := SliceFromGray(sub)
	assert.Equal(t, 3, s.Width)
	assert.Equal(t, 3, s.Height)
	assert.Equal(t, uint8(12), s.At(0, 0))
	assert.Equal(t, uint8(34), s.At(2, 2))

	back := s.Gray()
	assert.Equal(t, image.Rect(0, 0, 3, 3), back.Bounds())
	assert.Equal(t, uint8(34), back.GrayAt(2, 2).Y)
}

func TestBodyRules(t *testing.T) {
	tests := []struct {
		name   string
		mode   string
		value  uint8
		input  uint8
		isBody bool
	}{
		{"exact match", "exact", 255, 255, true},
		{"exact miss", "exact", 255, 254, false},
		{"default mode is exact", "", 100, 100, true},
		{"threshold above", "threshold", 127, 128, true},
		{"threshold equal", "threshold", 127, 127, false},
		{"threshold below", "threshold", 127, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, err := ParseBodyRule(tt.mode, tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.isBody, rule.IsBody(tt.input))
		})
	}

	_, err := ParseBodyRule("fuzzy", 1)
	assert.Error(t, err)

	assert.Equal(t, "== 255", ExactBody(255).String())
	assert.Equal(t, "> 127", ThresholdBody(127).String())
}
