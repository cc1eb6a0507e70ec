package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"voxelporosity/internal/logging"
	"voxelporosity/pkg/config"
	"voxelporosity/pkg/sliceio"
	"voxelporosity/pkg/synth"
)

func main() {
	configPath := flag.String("config", "voxelporosity.yaml", "YAML configuration file")
	outputDir := flag.String("output", "data/input", "Directory receiving one slice folder per shape")
	shapes := flag.String("shapes", "", "Comma separated shape names (default: all)")
	size := flag.Int("size", 0, "Edge length in voxels (default: from config)")
	seed := flag.Int64("seed", 0, "Noise seed (default: from config; 0 is a valid seed when given)")
	writeConfig := flag.Bool("write-config", false, "Write the default configuration to -config and exit")
	flag.Parse()

	if *writeConfig {
		if err := config.CreateDefaultConfigFile(*configPath); err != nil {
			log.Fatalf("Failed to write config: %v", err)
		}
		fmt.Printf("Default configuration written to: %s\n", *configPath)
		return
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg.Log.SetLogger()
	defer logging.Shutdown()

	applyOverrides(flag.CommandLine, cfg, *size, *seed)

	selected := synth.Shapes()
	if *shapes != "" {
		selected = selected[:0]
		for _, name := range strings.Split(*shapes, ",") {
			s, err := synth.ParseShape(strings.TrimSpace(name))
			if err != nil {
				log.Fatalf("%v", err)
			}
			selected = append(selected, s)
		}
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	// Each shape gets its own generator so noise does not depend on
	// scheduling order.
	var g errgroup.Group
	for _, shape := range selected {
		g.Go(func() error {
			gen := synth.NewGenerator(cfg.Synthesis.Size, cfg.Synthesis.Seed)
			gen.HoleRadius = cfg.Synthesis.HoleRadius
			vol, err := gen.Generate(shape)
			if err != nil {
				return fmt.Errorf("%s: %w", shape, err)
			}
			dir := filepath.Join(*outputDir, shape.String())
			if err := sliceio.SaveSlices(vol, dir); err != nil {
				return fmt.Errorf("%s: %w", shape, err)
			}
			logging.Infof("Saved %d slices of %s to %s", len(vol.Slices), shape, dir)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatalf("Generation failed: %v", err)
	}
	fmt.Printf("Generated %d volumes in %s\n", len(selected), *outputDir)
}

// applyOverrides copies the flags given on the command line into cfg. A
// seed passed explicitly wins even when it is 0.
func applyOverrides(fs *flag.FlagSet, cfg *config.Config, size int, seed int64) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "size":
			if size > 0 {
				cfg.Synthesis.Size = size
			}
		case "seed":
			cfg.Synthesis.Seed = seed
		}
	})
}
