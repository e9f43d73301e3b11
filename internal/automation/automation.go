package automation

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/dotswarm/internal/experiment"
	"github.com/san-kum/dotswarm/internal/sim"
	"github.com/san-kum/dotswarm/internal/storage"
)

// Scenario is a scripted list of headless runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep overrides the base run. Zero fields keep the base value.
type ScenarioStep struct {
	Particles     int     `yaml:"particles"`
	Seed          int64   `yaml:"seed"`
	Width         float64 `yaml:"width"`
	Height        float64 `yaml:"height"`
	Frames        int     `yaml:"frames"`
	Dt            float64 `yaml:"dt"`
	SnapshotEvery int     `yaml:"snapshot_every"`
	Backend       string  `yaml:"backend"`
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s has no steps", path)
	}

	return &scenario, nil
}

// Apply returns base with the step's non-zero fields laid over it.
func (s ScenarioStep) Apply(base experiment.Config) experiment.Config {
	cfg := base
	if s.Particles != 0 {
		cfg.Particles = s.Particles
	}
	if s.Seed != 0 {
		cfg.Seed = s.Seed
	}
	if s.Width != 0 || s.Height != 0 {
		cfg.Bounds = sim.Bounds{Width: s.Width, Height: s.Height}
	}
	if s.Frames != 0 {
		cfg.Frames = s.Frames
	}
	if s.Dt != 0 {
		cfg.Dt = s.Dt
	}
	if s.SnapshotEvery != 0 {
		cfg.SnapshotEvery = s.SnapshotEvery
	}
	if s.Backend != "" {
		cfg.Backend = s.Backend
	}
	return cfg
}

// RunScenario executes every step in order and saves each run. It stops at
// the first failure and returns the IDs saved so far.
func RunScenario(ctx context.Context, scenario *Scenario, base experiment.Config, st *storage.Store, log *slog.Logger) ([]string, error) {
	ids := make([]string, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg := step.Apply(base)
		log.Info("scenario step", "scenario", scenario.Name, "step", i+1, "of", len(scenario.Steps), "particles", cfg.Particles, "seed", cfg.Seed)

		exp, err := experiment.New(cfg, log)
		if err != nil {
			return ids, fmt.Errorf("step %d: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return ids, fmt.Errorf("step %d run: %w", i+1, err)
		}

		id, err := st.Save(cfg, result)
		if err != nil {
			return ids, fmt.Errorf("step %d save: %w", i+1, err)
		}
		ids = append(ids, id)
	}

	return ids, nil
}

// CountSweep runs the same seed at several particle counts.
type CountSweep struct {
	Base   experiment.Config
	Counts []int
}

type SweepResult struct {
	Particles int
	Final     map[string]float64
	Wall      time.Duration
}

// PerFrame is the mean wall time of one step.
func (r SweepResult) PerFrame(frames int) time.Duration {
	if frames <= 0 {
		return 0
	}
	return r.Wall / time.Duration(frames)
}

func RunSweep(ctx context.Context, sweep *CountSweep, log *slog.Logger) ([]SweepResult, error) {
	results := make([]SweepResult, 0, len(sweep.Counts))

	for i, n := range sweep.Counts {
		cfg := sweep.Base
		cfg.Particles = n

		exp, err := experiment.New(cfg, log)
		if err != nil {
			return results, err
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, err
		}

		results = append(results, SweepResult{
			Particles: n,
			Final:     result.Final,
			Wall:      result.Wall,
		})

		log.Debug("sweep", "step", i+1, "of", len(sweep.Counts), "particles", n)
	}

	return results, nil
}
