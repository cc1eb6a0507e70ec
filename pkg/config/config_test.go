package config

import (
	"os"
	"path/filepath"
	"testing"

	"voxelporosity/internal/models"
)

// TestLoadConfigDefaults verifies that a missing file yields the defaults
func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Analysis.BodyValue != 255 || cfg.Analysis.BodyMode != "exact" {
		t.Errorf("Unexpected body convention %s %d", cfg.Analysis.BodyMode, cfg.Analysis.BodyValue)
	}
	if cfg.Analysis.MinVoxels3D != 10 || cfg.Analysis.MinArea2D != 30 {
		t.Errorf("Unexpected thresholds %d/%d", cfg.Analysis.MinVoxels3D, cfg.Analysis.MinArea2D)
	}
	rule, err := cfg.BodyRule()
	if err != nil {
		t.Fatalf("Failed to build body rule: %v", err)
	}
	if rule != models.ExactBody(255) {
		t.Errorf("Expected exact 255 rule, got %v", rule)
	}
}

// TestSaveAndLoadConfig verifies that a saved configuration loads unchanged
func TestSaveAndLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Analysis.BodyMode = "threshold"
	cfg.Analysis.BodyValue = 127
	cfg.Log.Logfile = "analysis.log"
	cfg.Synthesis.Seed = 7
	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if loaded.Analysis.BodyMode != "threshold" || loaded.Analysis.BodyValue != 127 {
		t.Errorf("Body convention not preserved: %s %d", loaded.Analysis.BodyMode, loaded.Analysis.BodyValue)
	}
	if loaded.Log.Logfile != "analysis.log" || loaded.Synthesis.Seed != 7 {
		t.Errorf("Log or synthesis section not preserved: %+v %+v", loaded.Log, loaded.Synthesis)
	}
	rule, _ := loaded.BodyRule()
	if !rule.IsBody(128) || rule.IsBody(127) {
		t.Errorf("Threshold rule misbehaves: %v", rule)
	}
}

// TestLoadConfigPartial verifies that unspecified fields keep their defaults
func TestLoadConfigPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("analysis:\n  minVoxels3D: 3\n"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Analysis.MinVoxels3D != 3 {
		t.Errorf("Expected minVoxels3D 3, got %d", cfg.Analysis.MinVoxels3D)
	}
	if cfg.Analysis.MinArea2D != 30 || cfg.Output.CollageColumns != 10 {
		t.Error("Defaults were not kept for unspecified fields")
	}
}

// TestLoadConfigErrors verifies parse and validation failures
func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("analysis: [unclosed"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	if _, err := LoadConfig(bad); err == nil {
		t.Error("Expected error for malformed YAML, got nil")
	}

	mode := filepath.Join(dir, "mode.yaml")
	if err := os.WriteFile(mode, []byte("analysis:\n  bodyMode: fuzzy\n"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	if _, err := LoadConfig(mode); err == nil {
		t.Error("Expected error for unknown body mode, got nil")
	}
}

// TestCreateDefaultConfigFile verifies the default file is written
func TestCreateDefaultConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "voxelporosity.yaml")
	if err := CreateDefaultConfigFile(path); err != nil {
		t.Fatalf("Failed to create default config: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Config file was not created: %v", err)
	}
}
