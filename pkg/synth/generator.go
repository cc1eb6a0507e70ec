// Package synth generates synthetic test volumes: cubes with holes,
// hanging stones, disconnected halves, noise and thin bridges, plus
// spheres. Body voxels are 255 and void voxels 0.
package synth

import (
	"fmt"
	"math/rand"

	"voxelporosity/internal/models"
)

const (
	// Body is the intensity of generated body voxels
	Body uint8 = 255
	// Void is the intensity of generated void voxels
	Void uint8 = 0
)

// Shape selects a generated volume.
type Shape int

const (
	SolidCube Shape = iota
	CubeWithCentralHole
	CubeWithMultipleHoles
	CubeWithHangingStone
	CubeWithDisconnectedBodies
	CubeWithNoise
	CubeWithThinBridge
	Sphere
	HollowSphere
)

var shapeNames = map[Shape]string{
	SolidCube:                  "solidCube",
	CubeWithCentralHole:        "cubeWithCentralHole",
	CubeWithMultipleHoles:      "cubeWithMultipleHoles",
	CubeWithHangingStone:       "cubeWithHangingStone",
	CubeWithDisconnectedBodies: "cubeWithDisconnectedBodies",
	CubeWithNoise:              "cubeWithNoise",
	CubeWithThinBridge:         "cubeWithThinBridge",
	Sphere:                     "sphere",
	HollowSphere:               "hollowSphere",
}

func (s Shape) String() string {
	if name, ok := shapeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("shape(%d)", int(s))
}

// Shapes lists every shape in declaration order.
func Shapes() []Shape {
	return []Shape{
		SolidCube, CubeWithCentralHole, CubeWithMultipleHoles, CubeWithHangingStone,
		CubeWithDisconnectedBodies, CubeWithNoise, CubeWithThinBridge, Sphere, HollowSphere,
	}
}

// ParseShape returns the shape with the given name.
func ParseShape(name string) (Shape, error) {
	for s, n := range shapeNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown shape %q", name)
}

// Generator builds volumes of Size³ voxels. Noise is drawn from the
// generator's own seeded source, so equal seeds give equal volumes.
type Generator struct {
	// Size is the edge length in voxels
	Size int

	// HoleRadius is the radius of spherical holes
	HoleRadius int

	// HoleCenters overrides the hole positions of CubeWithMultipleHoles
	HoleCenters []models.Voxel

	// NoiseProbability is the chance that a void voxel of CubeWithNoise
	// turns into a stray body voxel
	NoiseProbability float64

	rng *rand.Rand
}

// NewGenerator creates a generator with the given edge length and seed.
func NewGenerator(size int, seed int64) *Generator {
	return &Generator{
		Size:             size,
		HoleRadius:       5,
		NoiseProbability: 0.002,
		rng:              rand.New(rand.NewSource(seed)),
	}
}

// Generate builds the requested shape.
func (g *Generator) Generate(shape Shape) (*models.Volume, error) {
	if g.Size <= 0 {
		return nil, fmt.Errorf("size must be positive, got %d", g.Size)
	}

	vol := models.Blank(g.Size, g.Size, g.Size)
	switch shape {
	case SolidCube:
		g.fill(vol, Body)
	case CubeWithCentralHole:
		g.fill(vol, Body)
		c := g.Size / 2
		g.ball(vol, models.Voxel{Z: c, Y: c, X: c}, g.HoleRadius, Void)
	case CubeWithMultipleHoles:
		g.fill(vol, Body)
		for _, c := range g.holeCenters() {
			g.ball(vol, c, g.HoleRadius, Void)
		}
	case CubeWithHangingStone:
		g.fill(vol, Body)
		c := models.Voxel{Z: g.Size / 2, Y: g.Size / 2, X: g.Size / 2}
		g.ball(vol, c, 2*g.HoleRadius, Void)
		g.ball(vol, c, g.HoleRadius/2, Body)
	case CubeWithDisconnectedBodies:
		g.fill(vol, Body)
		// Two void layers split the cube into halves that do not touch
		for z := g.Size/2 - 1; z <= g.Size/2; z++ {
			if z >= 0 && z < g.Size {
				fillSlice(vol.Slices[z], Void)
			}
		}
	case CubeWithNoise:
		m := g.Size / 5
		g.box(vol, models.Voxel{Z: 0, Y: m, X: m}, models.Voxel{Z: g.Size - 1, Y: g.Size - 1 - m, X: g.Size - 1 - m}, Body)
		g.sprinkle(vol)
	case CubeWithThinBridge:
		g.thinBridge(vol)
	case Sphere:
		c := g.Size / 2
		g.ball(vol, models.Voxel{Z: c, Y: c, X: c}, g.Size/2-1, Body)
	case HollowSphere:
		c := models.Voxel{Z: g.Size / 2, Y: g.Size / 2, X: g.Size / 2}
		r := g.Size/2 - 1
		g.ball(vol, c, r, Body)
		g.ball(vol, c, r/2, Void)
	default:
		return nil, fmt.Errorf("unknown shape %v", shape)
	}
	return vol, nil
}

func fillSlice(s models.Slice, v uint8) {
	for i := range s.Pix {
		s.Pix[i] = v
	}
}

func (g *Generator) fill(vol *models.Volume, v uint8) {
	for _, s := range vol.Slices {
		fillSlice(s, v)
	}
}

// box paints the inclusive box [lo, hi] clipped to the volume.
func (g *Generator) box(vol *models.Volume, lo, hi models.Voxel, v uint8) {
	d := vol.Dims()
	for z := max(lo.Z, 0); z <= min(hi.Z, d.Depth-1); z++ {
		for y := max(lo.Y, 0); y <= min(hi.Y, d.Height-1); y++ {
			for x := max(lo.X, 0); x <= min(hi.X, d.Width-1); x++ {
				vol.Slices[z].Set(y, x, v)
			}
		}
	}
}

// ball paints every voxel within radius r of c.
func (g *Generator) ball(vol *models.Volume, c models.Voxel, r int, v uint8) {
	d := vol.Dims()
	for z := max(c.Z-r, 0); z <= min(c.Z+r, d.Depth-1); z++ {
		for y := max(c.Y-r, 0); y <= min(c.Y+r, d.Height-1); y++ {
			for x := max(c.X-r, 0); x <= min(c.X+r, d.Width-1); x++ {
				dz, dy, dx := z-c.Z, y-c.Y, x-c.X
				if dz*dz+dy*dy+dx*dx <= r*r {
					vol.Slices[z].Set(y, x, v)
				}
			}
		}
	}
}

func (g *Generator) holeCenters() []models.Voxel {
	if len(g.HoleCenters) > 0 {
		return g.HoleCenters
	}
	q, h := g.Size/4, 3*g.Size/4
	return []models.Voxel{
		{Z: q, Y: q, X: q},
		{Z: q, Y: h, X: h},
		{Z: h, Y: q, X: h},
		{Z: h, Y: h, X: q},
	}
}

// sprinkle turns random void voxels into isolated body voxels.
func (g *Generator) sprinkle(vol *models.Volume) {
	for _, s := range vol.Slices {
		for i, p := range s.Pix {
			if p == Void && g.rng.Float64() < g.NoiseProbability {
				s.Pix[i] = Body
			}
		}
	}
}

// thinBridge builds a lower and an upper block joined by a one-voxel
// wide column through the gap between them.
func (g *Generator) thinBridge(vol *models.Volume) {
	n := g.Size
	gapLo, gapHi := n/2-2, n/2+1
	g.box(vol, models.Voxel{}, models.Voxel{Z: gapLo - 1, Y: n - 1, X: n - 1}, Body)
	g.box(vol, models.Voxel{Z: gapHi + 1}, models.Voxel{Z: n - 1, Y: n - 1, X: n - 1}, Body)
	c := n / 2
	g.box(vol, models.Voxel{Z: gapLo, Y: c, X: c}, models.Voxel{Z: gapHi, Y: c, X: c}, Body)
}
