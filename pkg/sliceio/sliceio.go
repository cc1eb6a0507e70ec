// Package sliceio reads and writes volumes as folders of numbered slice
// images (slice_0.png, slice_1.png, ...).
package sliceio

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	// Registered decoders for image.Decode
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"

	"voxelporosity/internal/logging"
	"voxelporosity/internal/models"
)

// slicePattern matches slice_<n>.<ext> for the supported image formats.
var slicePattern = regexp.MustCompile(`(?i)^slice_(\d+)\.(png|jpe?g|tiff?|bmp)$`)

type numberedFile struct {
	index int
	name  string
}

// ListSlices returns the slice files of dir ordered by their numeric index.
// Files not named slice_<n>.<ext> are ignored.
func ListSlices(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("error accessing directory: %w", err)
	}

	var files []numberedFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := slicePattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		files = append(files, numberedFile{index: n, name: e.Name()})
	}

	// Sort numerically so slice_10 follows slice_9
	sort.Slice(files, func(i, j int) bool { return files[i].index < files[j].index })

	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.name
	}
	return names, nil
}

// LoadSlices reads every numbered slice of dir as 8-bit grayscale and
// assembles them into a volume. It fails when no slice is found or when a
// slice differs in size from the first one.
func LoadSlices(dir string) (*models.Volume, error) {
	names, err := ListSlices(dir)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no valid slices found in folder %s", dir)
	}

	slices := make([]models.Slice, 0, len(names))
	for i, name := range names {
		gray, err := LoadImage(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to load image %s: %w", name, err)
		}
		s := models.SliceFromGray(gray)
		s.Index = i
		s.Filename = name
		slices = append(slices, s)
	}

	vol, err := models.NewVolume(slices)
	if err != nil {
		return nil, fmt.Errorf("invalid slice stack in %s: %w", dir, err)
	}

	d := vol.Dims()
	logging.Infof("Loaded %d slices from %s (size: %dx%d)", d.Depth, dir, d.Height, d.Width)
	return vol, nil
}

// LoadImage decodes an image file and converts it to 8-bit grayscale.
func LoadImage(path string) (*image.Gray, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, err
	}
	return ToGray(img), nil
}

// ToGray converts img to an *image.Gray with origin (0, 0).
func ToGray(img image.Image) *image.Gray {
	b := img.Bounds()
	if g, ok := img.(*image.Gray); ok && b.Min == (image.Point{}) {
		return g
	}
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Src)
	return gray
}

// SaveSlices writes each slice of vol to dir as slice_<z>.png, creating dir
// if needed.
func SaveSlices(vol *models.Volume, dir string) error {
	if err := vol.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create slice directory: %w", err)
	}
	for z, s := range vol.Slices {
		path := filepath.Join(dir, fmt.Sprintf("slice_%d.png", z))
		if err := SavePNG(s.Gray(), path); err != nil {
			return fmt.Errorf("failed to save slice %d: %w", z, err)
		}
	}
	return nil
}

// SavePNG encodes img to path.
func SavePNG(img image.Image, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create image file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}
	return nil
}
