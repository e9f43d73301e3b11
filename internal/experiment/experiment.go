package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/san-kum/dotswarm/internal/compute"
	"github.com/san-kum/dotswarm/internal/metrics"
	"github.com/san-kum/dotswarm/internal/sim"
)

// Config describes a headless run at a fixed frame time.
type Config struct {
	Particles     int
	Seed          int64
	Bounds        sim.Bounds
	Frames        int
	Dt            float64
	SnapshotEvery int
	Backend       string
	Compute       compute.Options
}

type Snapshot struct {
	Frame     int
	Time      float64
	Particles []sim.Particle
}

type Result struct {
	Seed      int64
	Frames    int
	Times     []float64
	Series    map[string][]float64
	Final     map[string]float64
	Snapshots []Snapshot
	Wall      time.Duration
}

type Experiment struct {
	cfg       Config
	simulator *sim.Simulator
	metrics   []sim.Metric
	log       *slog.Logger
}

func New(cfg Config, log *slog.Logger) (*Experiment, error) {
	if cfg.Frames <= 0 {
		return nil, fmt.Errorf("experiment: frames must be positive, got %d", cfg.Frames)
	}
	if err := sim.Validate(cfg.Dt, cfg.Bounds); err != nil {
		return nil, fmt.Errorf("experiment: %w", err)
	}
	if log == nil {
		log = slog.Default()
	}

	backend, err := compute.New(cfg.Backend, cfg.Compute)
	if err != nil {
		return nil, err
	}

	s, err := sim.NewSeeded(cfg.Particles, cfg.Seed, cfg.Bounds, sim.WithBackend(backend))
	if err != nil {
		return nil, err
	}

	ms := metrics.Default()
	for _, m := range ms {
		s.AddMetric(m)
	}

	return &Experiment{
		cfg:       cfg,
		simulator: s,
		metrics:   ms,
		log:       log.With("seed", cfg.Seed, "backend", backend.Name()),
	}, nil
}

// Run steps the swarm cfg.Frames times. On cancellation it returns what was
// recorded so far together with the context error.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	for _, m := range e.metrics {
		m.Reset()
	}
	rec := newRecorder(e.cfg, e.metrics)
	e.simulator.AddObserver(rec)
	rec.snapshot(0, 0, e.simulator.Snapshot())

	e.log.Debug("run started", "particles", e.cfg.Particles, "frames", e.cfg.Frames)
	start := time.Now()

	for i := 0; i < e.cfg.Frames; i++ {
		select {
		case <-ctx.Done():
			res := rec.result(e.cfg.Seed, time.Since(start))
			e.log.Warn("run canceled", "frame", e.simulator.Frame())
			return res, ctx.Err()
		default:
		}
		e.simulator.Step(e.cfg.Dt, e.cfg.Bounds)
	}

	if last := rec.lastSnapshotFrame(); last != e.simulator.Frame() {
		rec.snapshot(e.simulator.Frame(), e.simulator.Time(), e.simulator.Snapshot())
	}

	res := rec.result(e.cfg.Seed, time.Since(start))
	e.log.Info("run finished", "frames", res.Frames, "wall", res.Wall)
	return res, nil
}
