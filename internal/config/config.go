package config

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/dotswarm/internal/compute"
	"github.com/san-kum/dotswarm/internal/sim"
)

const (
	DefaultParticles     = 1000
	DefaultWidth         = 800
	DefaultHeight        = 600
	DefaultFPS           = 60
	DefaultFrames        = 600
	DefaultDt            = 1.0 / 60
	DefaultSnapshotEvery = 60
	DefaultTheta         = 0.5
	DefaultBackend       = "cpu"
	DefaultEngine        = "raylib"
	DefaultTheme         = "cyberpunk"
)

var ErrInvalid = errors.New("config: invalid value")

var Engines = []string{"raylib", "ebiten"}

// Config holds the simulation seed and count plus host settings. Only
// Particles and Seed change what the swarm does; the rest decides where and
// how fast it is shown or recorded.
type Config struct {
	Particles int   `yaml:"particles"`
	Seed      int64 `yaml:"seed"`

	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	FPS    int     `yaml:"fps"`
	Engine string  `yaml:"engine"`
	Theme  string  `yaml:"theme"`

	Backend string  `yaml:"backend"`
	Workers int     `yaml:"workers"`
	Theta   float64 `yaml:"theta"`

	Record RecordConfig `yaml:"record"`
}

type RecordConfig struct {
	Frames        int     `yaml:"frames"`
	Dt            float64 `yaml:"dt"`
	SnapshotEvery int     `yaml:"snapshot_every"`
	Runs          int     `yaml:"runs"`
}

func DefaultConfig() *Config {
	return &Config{
		Particles: DefaultParticles,
		Width:     DefaultWidth,
		Height:    DefaultHeight,
		FPS:       DefaultFPS,
		Engine:    DefaultEngine,
		Theme:     DefaultTheme,
		Backend:   DefaultBackend,
		Theta:     DefaultTheta,
		Record: RecordConfig{
			Frames:        DefaultFrames,
			Dt:            DefaultDt,
			SnapshotEvery: DefaultSnapshotEvery,
			Runs:          1,
		},
	}
}

func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads path on top of base. Keys missing from the file keep
// base's values. base is not modified.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := *base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Bounds() sim.Bounds {
	return sim.Bounds{Width: c.Width, Height: c.Height}
}

func (c *Config) ComputeOptions() compute.Options {
	opts := compute.DefaultOptions()
	if c.Workers > 0 {
		opts.Workers = c.Workers
	}
	opts.Theta = c.Theta
	return opts
}

func (c *Config) Validate() error {
	if c.Particles <= 0 {
		return fmt.Errorf("%w: particles must be positive, got %d", ErrInvalid, c.Particles)
	}
	if err := sim.Validate(0, c.Bounds()); err != nil {
		return fmt.Errorf("%w: %v (width=%g height=%g)", ErrInvalid, err, c.Width, c.Height)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("%w: fps must be positive, got %d", ErrInvalid, c.FPS)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalid, c.Workers)
	}
	if c.Theta < 0 {
		return fmt.Errorf("%w: theta must not be negative, got %g", ErrInvalid, c.Theta)
	}
	if !slices.Contains(compute.Names(), c.Backend) {
		return fmt.Errorf("%w: backend %q (available: %v)", ErrInvalid, c.Backend, compute.Names())
	}
	if !slices.Contains(Engines, c.Engine) {
		return fmt.Errorf("%w: engine %q (available: %v)", ErrInvalid, c.Engine, Engines)
	}
	return c.Record.validate()
}

func (r RecordConfig) validate() error {
	if r.Frames <= 0 {
		return fmt.Errorf("%w: record.frames must be positive, got %d", ErrInvalid, r.Frames)
	}
	if err := sim.Validate(r.Dt, sim.Bounds{Width: 1, Height: 1}); err != nil || r.Dt == 0 {
		return fmt.Errorf("%w: record.dt must be finite and positive, got %g", ErrInvalid, r.Dt)
	}
	if r.SnapshotEvery < 0 {
		return fmt.Errorf("%w: record.snapshot_every must not be negative, got %d", ErrInvalid, r.SnapshotEvery)
	}
	if r.Runs <= 0 {
		return fmt.Errorf("%w: record.runs must be positive, got %d", ErrInvalid, r.Runs)
	}
	return nil
}
