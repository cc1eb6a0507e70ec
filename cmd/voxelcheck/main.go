package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"voxelporosity/internal/logging"
	"voxelporosity/internal/models"
	"voxelporosity/pkg/analyzer"
	"voxelporosity/pkg/config"
	"voxelporosity/pkg/reference"
	"voxelporosity/pkg/sliceio"
	"voxelporosity/pkg/visualization"
)

func main() {
	// Parse command line arguments
	inputDir := flag.String("input", "", "Directory containing numbered slices (slice_<n>.png)")
	configPath := flag.String("config", "voxelporosity.yaml", "YAML configuration file")
	name := flag.String("name", "", "Volume name used for reference lookup and output files (default: input folder name)")
	refPath := flag.String("reference", "", "Reference metrics file (YAML or JSON) to compare against")
	collage := flag.Bool("collage", false, "Save a slice collage with pore and body outlines")
	projections := flag.Bool("projections", false, "Save orthogonal sum projections and the combined projection sheet")
	outputDir := flag.String("output", "output", "Directory for collages and projections")
	verbose := flag.Bool("verbose", false, "Log every floating body and island")
	region := flag.String("region", "", "Analyze only the region z,y,x:depth,height,width")
	sliceAxis := flag.String("slices", "", "Save every slice along this axis (x, y or z) to -output")
	flag.Parse()

	if *inputDir == "" {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg.Log.SetLogger()
	defer logging.Shutdown()
	if *verbose || cfg.Output.Verbose {
		logging.SetLogMode(logging.DebugMode)
	}

	rule, err := cfg.BodyRule()
	if err != nil {
		log.Fatalf("Invalid body convention: %v", err)
	}
	volName := *name
	if volName == "" {
		volName = filepath.Base(filepath.Clean(*inputDir))
	}

	vol, err := sliceio.LoadSlices(*inputDir)
	if err != nil {
		log.Fatalf("Failed to load slices: %v", err)
	}
	if *region != "" {
		if vol, err = cropRegion(vol, *region); err != nil {
			log.Fatalf("Failed to extract region: %v", err)
		}
	}

	a := analyzer.NewAnalyzer(&analyzer.Params{
		Body:        rule,
		MinVoxels3D: cfg.Analysis.MinVoxels3D,
		MinArea2D:   cfg.Analysis.MinArea2D,
		Parallel:    cfg.Analysis.Parallel,
	})
	if err := a.Process(vol); err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}
	report, err := a.GetReport()
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}

	fmt.Println("================================")
	fmt.Printf("VOXEL CONNECTIVITY & POROSITY: %s\n", volName)
	fmt.Println("================================")
	fmt.Printf("Volume: %s (%s voxels), body %s\n", report.Dims, humanize.Comma(int64(report.Dims.Voxels())), rule)
	fmt.Printf("Fully connected: %s\n", yesNo(report.FullyConnected))
	fmt.Printf("Spans first to last layer: %s\n", yesNo(report.SpansDepth))
	fmt.Printf("Porosity: %.4f%% (%s void voxels)\n", report.Porosity.Porosity*100, humanize.Comma(int64(report.Porosity.EmptyVoxels)))
	fmt.Printf("Internal pores: %d", report.Porosity.PoreCount)
	if report.PoreSize.Count > 0 {
		fmt.Printf(" (mean %.1f, max %.0f voxels)", report.PoreSize.Mean, report.PoreSize.Max)
	}
	fmt.Println()
	fmt.Printf("Floating bodies (>= %d voxels): %d\n", cfg.Analysis.MinVoxels3D, report.FloatingCount)
	for _, b := range report.Floating {
		fmt.Printf("  - component %d: %s voxels\n", b.Label, humanize.Comma(int64(b.Voxels)))
	}
	fmt.Printf("2D islands (< %d pixels): %d\n", cfg.Analysis.MinArea2D, len(report.Islands))
	for _, is := range report.Islands {
		fmt.Printf("  - slice %d, component %d: %d pixels\n", is.Slice, is.Component, is.Area)
	}
	fmt.Printf("Analysis time: %s\n", report.Elapsed)

	if *collage || *projections || *sliceAxis != "" || cfg.Output.Collage {
		viewer, err := visualization.NewViewer(vol)
		if err != nil {
			log.Fatalf("Failed to create viewer: %v", err)
		}
		if *collage || cfg.Output.Collage {
			path := filepath.Join(*outputDir, "collages", volName+"_collage_with_contours.png")
			bodies := strings.Contains(strings.ToLower(volName), "disconnected") || report.FloatingCount > 0
			if err := viewer.SaveCollage(path, cfg.Output.CollageColumns, rule, bodies); err != nil {
				logging.Warningf("Failed to save collage: %v", err)
			} else {
				fmt.Printf("Collage saved to: %s\n", path)
			}
		}
		if *projections {
			dir := filepath.Join(*outputDir, "projections")
			if err := viewer.SaveProjections(dir, volName); err != nil {
				logging.Warningf("Failed to save projections: %v", err)
			} else {
				fmt.Printf("Projections saved to: %s\n", dir)
			}
		}
		if *sliceAxis != "" {
			dir := filepath.Join(*outputDir, "slices", volName+"_"+strings.ToLower(*sliceAxis))
			if err := viewer.SaveSliceSequence(*sliceAxis, dir); err != nil {
				logging.Warningf("Failed to save slices: %v", err)
			} else {
				fmt.Printf("Slices saved to: %s\n", dir)
			}
		}
	}

	if *refPath != "" {
		compareWithReference(*refPath, volName, cfg.Output.ResultsDir, report)
	}
}

// cropRegion returns the part of vol described by region, written as
// z,y,x:depth,height,width.
func cropRegion(vol *models.Volume, region string) (*models.Volume, error) {
	start, size, err := visualization.ParseRegion(region)
	if err != nil {
		return nil, err
	}
	viewer, err := visualization.NewViewer(vol)
	if err != nil {
		return nil, err
	}
	cropped, err := viewer.ExtractRegion(start, size)
	if err != nil {
		return nil, err
	}
	logging.Infof("Analyzing region %s of %s starting at %+v", size, vol.Dims(), start)
	return cropped, nil
}

func compareWithReference(path, name, resultsDir string, report *analyzer.Report) {
	refs, err := reference.Load(path)
	if err != nil {
		logging.Warningf("%v", err)
		return
	}
	c, err := refs.Compare(name, report.Metrics())
	if err != nil {
		logging.Warningf("%v", err)
		return
	}

	fmt.Println("\nComparison with reference metrics:")
	fmt.Printf("- Connectivity: %s (expected: %s)\n", okMark(c.ConnectedMatch), yesNo(c.Expected.Connected))
	if c.Expected.Porosity != nil && *c.Expected.Porosity >= 0 {
		fmt.Printf("- Porosity: %.6f (expected: %.6f) %s (diff = %.6f)\n",
			report.Porosity.Porosity, *c.Expected.Porosity, okMark(c.PorosityMatch), c.PorosityDiff)
	} else {
		fmt.Printf("- Porosity: %.6f (no reference)\n", report.Porosity.Porosity)
	}
	fmt.Printf("- Internal pores: %d (expected: %d) %s\n", report.Porosity.PoreCount, c.Expected.InternalPores, okMark(c.InternalPoresMatch))
	fmt.Printf("- Floating bodies: %d (expected: %d) %s\n", report.FloatingCount, c.Expected.FloatingParts, okMark(c.FloatingPartsMatch))

	out, err := reference.SaveResult(resultsDir, name, c)
	if err != nil {
		logging.Errorf("Failed to save comparison: %v", err)
		return
	}
	fmt.Printf("Result saved to: %s\n", out)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func okMark(b bool) string {
	if b {
		return "OK"
	}
	return "MISMATCH"
}
