// Package reference compares analysis results with expected metrics kept
// in a reference file and records the outcome per volume.
//
// The reference file maps a volume name to its expected metrics. It is
// read as YAML, so JSON reference files load unchanged:
//
//	solidCube:
//	  connected: true
//	  porosity: 0.0
//	  internal_pores: 0
//	  floating_parts: 0
package reference

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// PorosityTolerance is the largest porosity difference still counted as a match.
const PorosityTolerance = 0.001

// ErrNoReference indicates the reference file has no entry for a volume.
var ErrNoReference = errors.New("reference: no reference metrics for volume")

// Metrics are the values compared against a reference.
type Metrics struct {
	Connected     bool     `yaml:"connected"`
	Porosity      *float64 `yaml:"porosity,omitempty"`
	InternalPores int      `yaml:"internal_pores"`
	FloatingParts int      `yaml:"floating_parts"`
}

// Set maps volume names to expected metrics.
type Set map[string]Metrics

// Load reads a reference file.
func Load(path string) (Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading reference file: %w", err)
	}
	set := Set{}
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("error parsing reference file: %w", err)
	}
	return set, nil
}

// Comparison is the per-field outcome of comparing actual metrics with a
// reference.
type Comparison struct {
	Matches            bool    `yaml:"matches"`
	ConnectedMatch     bool    `yaml:"connected_match"`
	PorosityMatch      bool    `yaml:"porosity_match"`
	PorosityDiff       float64 `yaml:"porosity_diff"`
	InternalPoresMatch bool    `yaml:"internal_pores_match"`
	FloatingPartsMatch bool    `yaml:"floating_parts_match"`
	Expected           Metrics `yaml:"expected"`
	Actual             Metrics `yaml:"actual"`
}

// Compare checks actual against the reference entry for name. Porosity
// matches only when the reference defines it and the difference is within
// PorosityTolerance.
func (s Set) Compare(name string, actual Metrics) (Comparison, error) {
	ref, ok := s[name]
	if !ok {
		return Comparison{}, fmt.Errorf("%w: %s", ErrNoReference, name)
	}

	c := Comparison{
		Expected:           ref,
		Actual:             actual,
		ConnectedMatch:     actual.Connected == ref.Connected,
		InternalPoresMatch: actual.InternalPores == ref.InternalPores,
		FloatingPartsMatch: actual.FloatingParts == ref.FloatingParts,
	}
	if ref.Porosity != nil && *ref.Porosity >= 0 && actual.Porosity != nil {
		c.PorosityDiff = math.Abs(*actual.Porosity - *ref.Porosity)
		c.PorosityMatch = c.PorosityDiff <= PorosityTolerance
	}
	c.Matches = c.ConnectedMatch && c.PorosityMatch && c.InternalPoresMatch && c.FloatingPartsMatch
	return c, nil
}

// SaveResult records the comparison for name in dir/<name>_result.yaml,
// keeping entries for other names already present in that file.
func SaveResult(dir, name string, c Comparison) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("error creating results directory: %w", err)
	}
	path := filepath.Join(dir, name+"_result.yaml")

	results := map[string]Comparison{}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &results); err != nil {
			return "", fmt.Errorf("error parsing existing result file: %w", err)
		}
	}
	results[name] = c

	data, err := yaml.Marshal(results)
	if err != nil {
		return "", fmt.Errorf("error marshaling result: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("error writing result file: %w", err)
	}
	return path, nil
}

// Float returns a pointer to f, for building Metrics literals.
func Float(f float64) *float64 {
	return &f
}
