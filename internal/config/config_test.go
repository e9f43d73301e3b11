package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Particles != 1000 {
		t.Errorf("expected 1000 particles, got %d", cfg.Particles)
	}
	if cfg.Backend != "cpu" {
		t.Errorf("expected cpu backend, got %s", cfg.Backend)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "swarm.yaml")
	data := []byte("particles: 250\nseed: 7\nbackend: serial\nrecord:\n  frames: 30\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Particles != 250 || cfg.Seed != 7 || cfg.Backend != "serial" {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.Record.Frames != 30 {
		t.Errorf("expected 30 frames, got %d", cfg.Record.Frames)
	}
	if cfg.Width != DefaultWidth || cfg.Record.Dt != DefaultDt {
		t.Errorf("unset fields should keep defaults, got width=%g dt=%g", cfg.Width, cfg.Record.Dt)
	}
}

func TestLoadOverPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "swarm.yaml")
	if err := os.WriteFile(path, []byte("seed: 99\n"), 0644); err != nil {
		t.Fatal(err)
	}

	base := GetPreset("galaxy")
	cfg, err := LoadOver(path, base)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Seed != 99 {
		t.Errorf("expected seed 99, got %d", cfg.Seed)
	}
	if cfg.Particles != base.Particles || cfg.Backend != "barneshut" {
		t.Errorf("preset values should survive, got %+v", cfg)
	}
	if base.Seed != 0 {
		t.Error("base config was modified")
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("particles: [oops"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := DefaultConfig()
	cfg.Particles = 321
	cfg.Seed = -4

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if *got != *cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero particles", func(c *Config) { c.Particles = 0 }},
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"negative height", func(c *Config) { c.Height = -5 }},
		{"zero fps", func(c *Config) { c.FPS = 0 }},
		{"negative workers", func(c *Config) { c.Workers = -1 }},
		{"negative theta", func(c *Config) { c.Theta = -0.1 }},
		{"unknown backend", func(c *Config) { c.Backend = "cuda" }},
		{"unknown engine", func(c *Config) { c.Engine = "sdl" }},
		{"zero frames", func(c *Config) { c.Record.Frames = 0 }},
		{"zero dt", func(c *Config) { c.Record.Dt = 0 }},
		{"negative snapshot interval", func(c *Config) { c.Record.SnapshotEvery = -1 }},
		{"zero runs", func(c *Config) { c.Record.Runs = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("classic")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Particles != 1000 || cfg.Width != 200 || cfg.Height != 200 {
		t.Errorf("unexpected classic preset %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("preset should validate: %v", err)
	}

	galaxy := GetPreset("galaxy")
	if galaxy.Backend != "barneshut" || galaxy.Theta != 0.7 {
		t.Errorf("unexpected galaxy preset %+v", galaxy)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	if len(presets) != len(Presets) {
		t.Fatalf("expected %d presets, got %d", len(Presets), len(presets))
	}
	for _, name := range presets {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}

func TestComputeOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Workers = 3
	cfg.Theta = 0.9

	opts := cfg.ComputeOptions()
	if opts.Workers != 3 || opts.Theta != 0.9 {
		t.Errorf("unexpected options %+v", opts)
	}

	cfg.Workers = 0
	if cfg.ComputeOptions().Workers < 1 {
		t.Error("zero workers should fall back to the default")
	}
}
