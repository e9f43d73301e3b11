package experiment

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"testing"

	"github.com/san-kum/dotswarm/internal/compute"
	"github.com/san-kum/dotswarm/internal/sim"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func testConfig() Config {
	return Config{
		Particles:     30,
		Seed:          11,
		Bounds:        sim.Bounds{Width: 200, Height: 200},
		Frames:        20,
		Dt:            1.0 / 60,
		SnapshotEvery: 5,
		Backend:       "serial",
		Compute:       compute.DefaultOptions(),
	}
}

func TestExperimentRun(t *testing.T) {
	exp, err := New(testConfig(), quiet)
	if err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	res, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if res.Frames != 20 || len(res.Times) != 20 {
		t.Errorf("expected 20 frames, got %d (%d times)", res.Frames, len(res.Times))
	}
	if res.Seed != 11 {
		t.Errorf("expected seed 11, got %d", res.Seed)
	}

	wantFrames := []int{0, 5, 10, 15, 20}
	if len(res.Snapshots) != len(wantFrames) {
		t.Fatalf("expected %d snapshots, got %d", len(wantFrames), len(res.Snapshots))
	}
	for i, snap := range res.Snapshots {
		if snap.Frame != wantFrames[i] {
			t.Errorf("snapshot %d at frame %d, want %d", i, snap.Frame, wantFrames[i])
		}
		if len(snap.Particles) != 30 {
			t.Errorf("snapshot %d has %d particles", i, len(snap.Particles))
		}
	}

	for name, series := range res.Series {
		if len(series) != 20 {
			t.Errorf("series %s has %d samples", name, len(series))
		}
		if res.Final[name] != series[len(series)-1] {
			t.Errorf("final %s = %v, last sample %v", name, res.Final[name], series[len(series)-1])
		}
	}
	if _, ok := res.Final["mean_speed"]; !ok {
		t.Error("mean_speed missing from final metrics")
	}
}

func TestExperimentSnapshotsAreCopies(t *testing.T) {
	exp, err := New(testConfig(), quiet)
	if err != nil {
		t.Fatal(err)
	}
	res, err := exp.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	first, last := res.Snapshots[0], res.Snapshots[len(res.Snapshots)-1]
	if reflect.DeepEqual(first.Particles, last.Particles) {
		t.Error("snapshots share storage with the live particle set")
	}
}

func TestExperimentFinalSnapshotWithoutInterval(t *testing.T) {
	cfg := testConfig()
	cfg.SnapshotEvery = 0
	cfg.Frames = 7

	exp, err := New(cfg, quiet)
	if err != nil {
		t.Fatal(err)
	}
	res, err := exp.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if len(res.Snapshots) != 2 || res.Snapshots[1].Frame != 7 {
		t.Errorf("expected initial and final snapshots, got %+v", res.Snapshots)
	}
}

func TestExperimentDeterministic(t *testing.T) {
	run := func() *Result {
		exp, err := New(testConfig(), quiet)
		if err != nil {
			t.Fatal(err)
		}
		res, err := exp.Run(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		return res
	}

	a, b := run(), run()
	if !reflect.DeepEqual(a.Snapshots, b.Snapshots) {
		t.Error("same seed produced different snapshots")
	}
	if !reflect.DeepEqual(a.Series, b.Series) {
		t.Error("same seed produced different metric series")
	}
}

func TestExperimentCanceled(t *testing.T) {
	exp, err := New(testConfig(), quiet)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := exp.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if res == nil || res.Frames != 0 {
		t.Errorf("expected an empty partial result, got %+v", res)
	}
}

func TestExperimentInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero frames", func(c *Config) { c.Frames = 0 }},
		{"negative dt", func(c *Config) { c.Dt = -1 }},
		{"zero width", func(c *Config) { c.Bounds.Width = 0 }},
		{"unknown backend", func(c *Config) { c.Backend = "quantum" }},
		{"negative particles", func(c *Config) { c.Particles = -3 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)
			if _, err := New(cfg, quiet); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestEnsemble(t *testing.T) {
	cfg := testConfig()
	cfg.Frames = 5

	results, err := NewEnsemble(cfg, 3, quiet).Run(context.Background())
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, res := range results {
		if res.Seed != cfg.Seed+int64(i) {
			t.Errorf("result %d has seed %d", i, res.Seed)
		}
	}
	if reflect.DeepEqual(results[0].Snapshots[0], results[1].Snapshots[0]) {
		t.Error("different seeds produced the same initial swarm")
	}
}

func TestEnsemblePropagatesErrors(t *testing.T) {
	cfg := testConfig()
	cfg.Backend = "nope"

	if _, err := NewEnsemble(cfg, 2, quiet).Run(context.Background()); !errors.Is(err, compute.ErrUnknownBackend) {
		t.Errorf("expected ErrUnknownBackend, got %v", err)
	}
}
