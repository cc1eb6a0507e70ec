package models

import (
	"errors"
	"fmt"
	"image"
)

// Sentinel errors reported by volume producers.
var (
	// ErrEmptyVolume indicates a volume with no slices.
	ErrEmptyVolume = errors.New("models: volume must contain at least one slice")
	// ErrEmptySlice indicates a slice with zero width or height.
	ErrEmptySlice = errors.New("models: slice must have at least one row and one column")
	// ErrInconsistentSlice indicates slices of differing dimensions.
	ErrInconsistentSlice = errors.New("models: all slices must have the same dimensions")
)

// Slice represents a single 2D scan slice with metadata
type Slice struct {
	// Pix holds one intensity byte per cell in row-major order
	Pix []uint8

	// Width and Height are the dimensions of the slice in cells
	Width  int
	Height int

	// Index is the position of this slice in the sequence
	Index int

	// Filename is the original filename of the slice, empty for synthetic slices
	Filename string
}

// NewSlice allocates a zero-filled (all void) slice.
func NewSlice(width, height int) Slice {
	return Slice{
		Pix:    make([]uint8, width*height),
		Width:  width,
		Height: height,
	}
}

// SliceFromGray copies a grayscale image into a Slice.
func SliceFromGray(img *image.Gray) Slice {
	b := img.Bounds()
	s := NewSlice(b.Dx(), b.Dy())
	for y := 0; y < s.Height; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+s.Width]
		copy(s.Pix[y*s.Width:(y+1)*s.Width], row)
	}
	return s
}

// At returns the intensity at (y, x).
func (s Slice) At(y, x int) uint8 {
	return s.Pix[y*s.Width+x]
}

// Set stores the intensity at (y, x).
func (s Slice) Set(y, x int, v uint8) {
	s.Pix[y*s.Width+x] = v
}

// Gray returns the slice as an image.Gray sharing no memory with the slice.
func (s Slice) Gray() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, s.Width, s.Height))
	copy(img.Pix, s.Pix)
	return img
}

// Voxel is a (z, y, x) coordinate.
type Voxel struct {
	Z, Y, X int
}

// Dims holds the extent of a volume along each axis.
type Dims struct {
	Depth, Height, Width int
}

// Voxels returns the total number of voxels.
func (d Dims) Voxels() int {
	return d.Depth * d.Height * d.Width
}

// Index maps (z, y, x) to the flat offset ((z*Height)+y)*Width + x.
func (d Dims) Index(z, y, x int) int {
	return (z*d.Height+y)*d.Width + x
}

// Contains reports whether (z, y, x) lies inside the volume.
func (d Dims) Contains(z, y, x int) bool {
	return z >= 0 && z < d.Depth && y >= 0 && y < d.Height && x >= 0 && x < d.Width
}

// OnBoundary reports whether (z, y, x) lies on any outer face of the volume.
func (d Dims) OnBoundary(z, y, x int) bool {
	return z == 0 || z == d.Depth-1 ||
		y == 0 || y == d.Height-1 ||
		x == 0 || x == d.Width-1
}

func (d Dims) String() string {
	return fmt.Sprintf("%dx%dx%d", d.Depth, d.Height, d.Width)
}

// Volume is an ordered stack of equally sized slices. Slice z holds the
// voxels with coordinate z. Analyses never mutate a Volume.
type Volume struct {
	// Slices are ordered by depth
	Slices []Slice
}

// NewVolume builds a volume from slices, failing fast when the stack is
// empty or the slices disagree on their dimensions.
func NewVolume(slices []Slice) (*Volume, error) {
	v := &Volume{Slices: slices}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return v, nil
}

// Blank allocates a volume of the given extent with every voxel void (0).
func Blank(depth, height, width int) *Volume {
	slices := make([]Slice, depth)
	for z := range slices {
		slices[z] = NewSlice(width, height)
		slices[z].Index = z
	}
	return &Volume{Slices: slices}
}

// Set stores the intensity of voxel (z, y, x). Volumes are built by
// producers; analyses never call Set.
func (v *Volume) Set(z, y, x int, val uint8) {
	v.Slices[z].Set(y, x, val)
}

// Validate checks the volume invariants: depth >= 1, non-empty slices,
// identical slice dimensions and pixel buffers of the right size.
func (v *Volume) Validate() error {
	if v == nil || len(v.Slices) == 0 {
		return ErrEmptyVolume
	}
	w, h := v.Slices[0].Width, v.Slices[0].Height
	if w <= 0 || h <= 0 {
		return ErrEmptySlice
	}
	for z, s := range v.Slices {
		if s.Width != w || s.Height != h || len(s.Pix) != w*h {
			return fmt.Errorf("slice %d is %dx%d, want %dx%d: %w", z, s.Height, s.Width, h, w, ErrInconsistentSlice)
		}
	}
	return nil
}

// Dims returns the volume extent. The result is only meaningful for a
// volume that passes Validate.
func (v *Volume) Dims() Dims {
	if v == nil || len(v.Slices) == 0 {
		return Dims{}
	}
	return Dims{Depth: len(v.Slices), Height: v.Slices[0].Height, Width: v.Slices[0].Width}
}

// At returns the intensity of voxel (z, y, x).
func (v *Volume) At(z, y, x int) uint8 {
	return v.Slices[z].At(y, x)
}

// CountBody returns the number of voxels accepted by rule.
func (v *Volume) CountBody(rule BodyRule) int {
	n := 0
	for _, s := range v.Slices {
		for _, p := range s.Pix {
			if rule.IsBody(p) {
				n++
			}
		}
	}
	return n
}
