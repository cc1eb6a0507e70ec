package visualization

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"voxelporosity/internal/models"
	"voxelporosity/pkg/sliceio"
)

// Outline colours used by the collage.
var (
	PoreColor      = color.RGBA{R: 255, A: 255}
	BodyColor      = color.RGBA{B: 255, A: 255}
	SeparatorColor = color.RGBA{A: 255}
	Background     = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

const (
	// ProjectionTile is the edge length of each view in a projection sheet
	ProjectionTile = 300

	// captionHeight is the strip below the views holding their names
	captionHeight = 20
)

// Viewer renders slices, projections and collages of a volume. It never
// modifies the volume.
type Viewer struct {
	// vol holds the 3D volume being displayed
	vol *models.Volume

	// dimensions of the volume
	dims models.Dims
}

// NewViewer creates a viewer for vol.
func NewViewer(vol *models.Volume) (*Viewer, error) {
	if err := vol.Validate(); err != nil {
		return nil, err
	}
	return &Viewer{vol: vol, dims: vol.Dims()}, nil
}

// ExtractSlice extracts a 2D slice from the volume along the specified axis.
// An x slice is laid out with z horizontal and y vertical, a y slice with
// x horizontal and z vertical.
func (v *Viewer) ExtractSlice(axis string, position int) (*image.Gray, error) {
	if position < 0 {
		return nil, fmt.Errorf("position must be non-negative")
	}

	var img *image.Gray

	switch axis {
	case "x", "X":
		// YZ plane
		if position >= v.dims.Width {
			return nil, fmt.Errorf("position %d exceeds width %d", position, v.dims.Width)
		}
		img = image.NewGray(image.Rect(0, 0, v.dims.Depth, v.dims.Height))
		for y := 0; y < v.dims.Height; y++ {
			for z := 0; z < v.dims.Depth; z++ {
				img.SetGray(z, y, color.Gray{Y: v.vol.At(z, y, position)})
			}
		}

	case "y", "Y":
		// XZ plane
		if position >= v.dims.Height {
			return nil, fmt.Errorf("position %d exceeds height %d", position, v.dims.Height)
		}
		img = image.NewGray(image.Rect(0, 0, v.dims.Width, v.dims.Depth))
		for z := 0; z < v.dims.Depth; z++ {
			for x := 0; x < v.dims.Width; x++ {
				img.SetGray(x, z, color.Gray{Y: v.vol.At(z, position, x)})
			}
		}

	case "z", "Z":
		// XY plane
		if position >= v.dims.Depth {
			return nil, fmt.Errorf("position %d exceeds depth %d", position, v.dims.Depth)
		}
		img = v.vol.Slices[position].Gray()

	default:
		return nil, fmt.Errorf("invalid axis: %s (must be x, y, or z)", axis)
	}

	return img, nil
}

// Projection sums the volume along axis and min-max normalizes the sums
// to 0..255. The image is laid out like ExtractSlice. A constant sum maps
// to 0.
func (v *Viewer) Projection(axis string) (*image.Gray, error) {
	var n int
	switch axis {
	case "x", "X":
		n = v.dims.Width
	case "y", "Y":
		n = v.dims.Height
	case "z", "Z":
		n = v.dims.Depth
	default:
		return nil, fmt.Errorf("invalid axis: %s (must be x, y, or z)", axis)
	}

	var proj *image.Gray
	var sums []float64
	for pos := 0; pos < n; pos++ {
		img, err := v.ExtractSlice(axis, pos)
		if err != nil {
			return nil, err
		}
		if proj == nil {
			proj = img
			sums = make([]float64, len(img.Pix))
		}
		for i, p := range img.Pix {
			sums[i] += float64(p)
		}
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range sums {
		lo = min(lo, s)
		hi = max(hi, s)
	}
	for i, s := range sums {
		if hi > lo {
			proj.Pix[i] = uint8(math.Round((s - lo) / (hi - lo) * 255))
		} else {
			proj.Pix[i] = 0
		}
	}
	return proj, nil
}

// ProjectionSheet places the z, y and x projections (the XY, XZ and YZ
// views) side by side, each scaled to tile x tile pixels, with a caption
// under every view.
func (v *Viewer) ProjectionSheet(tile int) (*image.Gray, error) {
	if tile <= 0 {
		return nil, fmt.Errorf("tile size must be positive, got %d", tile)
	}

	views := []struct {
		axis, caption string
	}{
		{"z", "XY"},
		{"y", "XZ"},
		{"x", "YZ"},
	}
	sheet := image.NewGray(image.Rect(0, 0, tile*len(views), tile+captionHeight))
	d := &font.Drawer{
		Dst:  sheet,
		Src:  image.NewUniform(color.Gray{Y: 255}),
		Face: basicfont.Face7x13,
	}
	for i, view := range views {
		proj, err := v.Projection(view.axis)
		if err != nil {
			return nil, err
		}
		cell := image.Rect(i*tile, 0, (i+1)*tile, tile)
		draw.BiLinear.Scale(sheet, cell, proj, proj.Bounds(), draw.Src, nil)

		width := d.MeasureString(view.caption).Round()
		d.Dot = fixed.P(cell.Min.X+(tile-width)/2, tile+captionHeight-5)
		d.DrawString(view.caption)
	}
	return sheet, nil
}

// ExtractRegion extracts a 3D subregion of the volume as a new volume.
func (v *Viewer) ExtractRegion(start models.Voxel, size models.Dims) (*models.Volume, error) {
	if start.X < 0 || start.Y < 0 || start.Z < 0 {
		return nil, fmt.Errorf("start coordinates must be non-negative")
	}

	if size.Width <= 0 || size.Height <= 0 || size.Depth <= 0 {
		return nil, fmt.Errorf("size dimensions must be positive")
	}

	if start.X+size.Width > v.dims.Width || start.Y+size.Height > v.dims.Height || start.Z+size.Depth > v.dims.Depth {
		return nil, fmt.Errorf("region extends beyond volume boundaries")
	}

	slices := make([]models.Slice, size.Depth)
	for z := range slices {
		s := models.NewSlice(size.Width, size.Height)
		s.Index = z
		for y := 0; y < size.Height; y++ {
			for x := 0; x < size.Width; x++ {
				s.Set(y, x, v.vol.At(start.Z+z, start.Y+y, start.X+x))
			}
		}
		slices[z] = s
	}
	return models.NewVolume(slices)
}

// ParseRegion reads a region written as "z,y,x:depth,height,width", the
// start voxel followed by the extent.
func ParseRegion(text string) (models.Voxel, models.Dims, error) {
	startText, sizeText, ok := strings.Cut(text, ":")
	if !ok {
		return models.Voxel{}, models.Dims{}, fmt.Errorf("region %q: expected z,y,x:depth,height,width", text)
	}
	start, err := parseTriple(startText)
	if err != nil {
		return models.Voxel{}, models.Dims{}, fmt.Errorf("region %q: start: %w", text, err)
	}
	size, err := parseTriple(sizeText)
	if err != nil {
		return models.Voxel{}, models.Dims{}, fmt.Errorf("region %q: size: %w", text, err)
	}
	return models.Voxel{Z: start[0], Y: start[1], X: start[2]},
		models.Dims{Depth: size[0], Height: size[1], Width: size[2]}, nil
}

func parseTriple(text string) ([3]int, error) {
	var out [3]int
	parts := strings.Split(text, ",")
	if len(parts) != 3 {
		return out, fmt.Errorf("expected 3 values, got %d", len(parts))
	}
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return out, err
		}
		out[i] = n
	}
	return out, nil
}

// Outline renders slice z in colour with the boundary pixels of void
// regions in PoreColor and, when bodies is set, the boundary pixels of
// body regions in BodyColor.
func (v *Viewer) Outline(z int, rule models.BodyRule, bodies bool) *image.RGBA {
	s := v.vol.Slices[z]
	img := image.NewRGBA(image.Rect(0, 0, s.Width, s.Height))
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			p := s.At(y, x)
			c := color.RGBA{R: p, G: p, B: p, A: 255}
			isBody := rule.IsBody(p)
			if edge := touchesOther(s, rule, y, x, isBody); edge {
				if !isBody {
					c = PoreColor
				} else if bodies {
					c = BodyColor
				}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// touchesOther reports whether a 4-neighbour of (y, x) has the opposite
// body/void classification.
func touchesOther(s models.Slice, rule models.BodyRule, y, x int, isBody bool) bool {
	for _, d := range [4][2]int{{0, 1}, {0, -1}, {1, 0}, {-1, 0}} {
		ny, nx := y+d[0], x+d[1]
		if ny < 0 || ny >= s.Height || nx < 0 || nx >= s.Width {
			continue
		}
		if rule.IsBody(s.At(ny, nx)) != isBody {
			return true
		}
	}
	return false
}

// Collage arranges the outlined z slices in a grid of the given number of
// columns, separated by one-pixel black lines on a white background.
func (v *Viewer) Collage(columns int, rule models.BodyRule, bodies bool) (*image.RGBA, error) {
	if columns <= 0 {
		return nil, fmt.Errorf("columns must be positive, got %d", columns)
	}
	const border = 1
	n := v.dims.Depth
	rows := (n + columns - 1) / columns
	cols := min(columns, n)
	w := cols*(v.dims.Width+border) - border
	h := rows*(v.dims.Height+border) - border

	collage := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(collage, collage.Bounds(), image.NewUniform(Background), image.Point{}, draw.Src)

	for z := 0; z < n; z++ {
		row, col := z/columns, z%columns
		x0 := col * (v.dims.Width + border)
		y0 := row * (v.dims.Height + border)
		tile := v.Outline(z, rule, bodies)
		draw.Draw(collage, image.Rect(x0, y0, x0+v.dims.Width, y0+v.dims.Height), tile, image.Point{}, draw.Src)

		if col < cols-1 {
			sep := image.Rect(x0+v.dims.Width, y0, x0+v.dims.Width+border, y0+v.dims.Height)
			draw.Draw(collage, sep, image.NewUniform(SeparatorColor), image.Point{}, draw.Src)
		}
		if row < rows-1 {
			sep := image.Rect(x0, y0+v.dims.Height, x0+v.dims.Width, y0+v.dims.Height+border)
			draw.Draw(collage, sep, image.NewUniform(SeparatorColor), image.Point{}, draw.Src)
		}
	}
	return collage, nil
}

// SaveCollage renders a collage and writes it as PNG.
func (v *Viewer) SaveCollage(path string, columns int, rule models.BodyRule, bodies bool) error {
	img, err := v.Collage(columns, rule, bodies)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return sliceio.SavePNG(img, path)
}

// SaveSliceSequence extracts and saves every slice along the specified axis
func (v *Viewer) SaveSliceSequence(axis string, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	var maxPos int
	switch axis {
	case "x", "X":
		maxPos = v.dims.Width
	case "y", "Y":
		maxPos = v.dims.Height
	case "z", "Z":
		maxPos = v.dims.Depth
	default:
		return fmt.Errorf("invalid axis: %s (must be x, y, or z)", axis)
	}

	for pos := 0; pos < maxPos; pos++ {
		img, err := v.ExtractSlice(axis, pos)
		if err != nil {
			return err
		}

		filename := filepath.Join(outputDir, fmt.Sprintf("slice_%s_%03d.png", axis, pos))
		if err := sliceio.SavePNG(img, filename); err != nil {
			return err
		}
	}

	return nil
}

// SaveProjections writes the three orthogonal projections to outputDir as
// <name>_proj_<axis>.png, plus the combined sheet as <name>_3d.png.
func (v *Viewer) SaveProjections(outputDir, name string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}
	sheet, err := v.ProjectionSheet(ProjectionTile)
	if err != nil {
		return err
	}
	if err := sliceio.SavePNG(sheet, filepath.Join(outputDir, name+"_3d.png")); err != nil {
		return err
	}
	for _, axis := range []string{"x", "y", "z"} {
		img, err := v.Projection(axis)
		if err != nil {
			return err
		}
		path := filepath.Join(outputDir, fmt.Sprintf("%s_proj_%s.png", name, axis))
		if err := sliceio.SavePNG(img, path); err != nil {
			return err
		}
	}
	return nil
}
