// Package analyzer runs the full set of structural analyses on one volume:
// body connectivity, depth spanning, porosity, floating bodies and
// per-slice islands.
package analyzer

import (
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"voxelporosity/internal/logging"
	"voxelporosity/internal/models"
	"voxelporosity/pkg/connectivity"
	"voxelporosity/pkg/floating"
	"voxelporosity/pkg/porosity"
	"voxelporosity/pkg/reference"
)

// ErrNotProcessed is returned by GetReport before Process has succeeded.
var ErrNotProcessed = errors.New("analyzer: volume has not been processed")

// Params holds the analysis parameters.
type Params struct {
	// Body is the foreground convention used by every analysis
	Body models.BodyRule

	// MinVoxels3D is the smallest floating body that gets reported
	MinVoxels3D int

	// MinArea2D is the area below which a slice component is reported as an island
	MinArea2D int

	// Parallel runs the analyses concurrently. Each analysis owns its label
	// grid and only reads the volume.
	Parallel bool
}

// SizeStats summarizes component sizes in voxels.
type SizeStats struct {
	Count  int
	Total  float64
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

func newSizeStats(sizes []int) SizeStats {
	if len(sizes) == 0 {
		return SizeStats{}
	}
	xs := make([]float64, len(sizes))
	for i, s := range sizes {
		xs[i] = float64(s)
	}
	s := SizeStats{
		Count: len(xs),
		Total: floats.Sum(xs),
		Min:   floats.Min(xs),
		Max:   floats.Max(xs),
	}
	if len(xs) > 1 {
		s.Mean, s.StdDev = stat.MeanStdDev(xs, nil)
	} else {
		s.Mean = xs[0]
	}
	return s
}

// Report collects the results of every analysis of one volume.
type Report struct {
	Dims       models.Dims
	BodyVoxels int

	// FullyConnected is true when the body is a single 6-connected component
	FullyConnected bool

	// SpansDepth is true when the component grown from layer 0 covers every
	// body voxel of the last layer
	SpansDepth bool

	Porosity porosity.Stats
	PoreSize SizeStats

	FloatingCount int
	Floating      []floating.Body
	FloatingSize  SizeStats

	Islands []floating.Island

	Elapsed time.Duration
}

// Metrics returns the values compared against reference metrics. The
// reference connectivity flag is the layer-spanning check, so a cube with
// an enclosed loose stone still counts as connected.
func (r *Report) Metrics() reference.Metrics {
	return reference.Metrics{
		Connected:     r.SpansDepth,
		Porosity:      reference.Float(r.Porosity.Porosity),
		InternalPores: r.Porosity.PoreCount,
		FloatingParts: r.FloatingCount,
	}
}

// Analyzer runs the analyses of one volume. It holds the volume only for
// the duration of Process.
type Analyzer struct {
	params *Params
	report *Report
}

// NewAnalyzer creates an analyzer with the given parameters.
func NewAnalyzer(params *Params) *Analyzer {
	return &Analyzer{params: params}
}

// Process runs every analysis on vol. Invalid volumes are rejected up
// front so their sentinel results are never mistaken for a disconnected
// body.
func (a *Analyzer) Process(vol *models.Volume) error {
	if a.params == nil || a.params.Body == nil {
		return fmt.Errorf("analyzer: body convention must be set")
	}
	if err := vol.Validate(); err != nil {
		return fmt.Errorf("volume is not analyzable: %w", err)
	}

	start := time.Now()
	p := a.params
	r := &Report{Dims: vol.Dims()}

	tasks := []func(){
		func() { r.BodyVoxels = vol.CountBody(p.Body) },
		func() { r.FullyConnected = connectivity.IsFullyConnected(vol, p.Body) },
		func() { r.SpansDepth = connectivity.Is3DConnected(vol, p.Body) },
		func() { r.Porosity = porosity.ComputePorosityStats(vol, p.Body) },
		func() { r.FloatingCount, r.Floating = floating.DetectFloatingBodies3D(vol, p.Body, p.MinVoxels3D) },
		func() { r.Islands = floating.DetectFloatingIslands2D(vol, p.Body, p.MinArea2D) },
	}

	if p.Parallel {
		var g errgroup.Group
		for _, task := range tasks {
			g.Go(func() error {
				task()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	} else {
		for _, task := range tasks {
			task()
		}
	}

	r.PoreSize = newSizeStats(r.Porosity.PoreSizes)
	sizes := make([]int, len(r.Floating))
	for i, b := range r.Floating {
		sizes[i] = b.Voxels
	}
	r.FloatingSize = newSizeStats(sizes)
	r.Elapsed = time.Since(start)

	logging.Infof("Analyzed %s volume (%s voxels, %s body) in %s",
		r.Dims, humanize.Comma(int64(r.Dims.Voxels())), humanize.Comma(int64(r.BodyVoxels)), r.Elapsed)
	for _, b := range r.Floating {
		logging.Debugf("Floating body %d: %s voxels, z %d..%d", b.Label, humanize.Comma(int64(b.Voxels)), b.Bounds.Min.Z, b.Bounds.Max.Z)
	}
	for _, is := range r.Islands {
		logging.Debugf("Island on slice %d: component %d, area %d pixels", is.Slice, is.Component, is.Area)
	}

	a.report = r
	return nil
}

// GetReport returns the report of the last successful Process call.
func (a *Analyzer) GetReport() (*Report, error) {
	if a.report == nil {
		return nil, ErrNotProcessed
	}
	return a.report, nil
}
