package experiment

import (
	"time"

	"github.com/san-kum/dotswarm/internal/sim"
)

type recorder struct {
	every     int
	metrics   []sim.Metric
	times     []float64
	series    map[string][]float64
	snapshots []Snapshot
}

func newRecorder(cfg Config, metrics []sim.Metric) *recorder {
	series := make(map[string][]float64, len(metrics))
	for _, m := range metrics {
		series[m.Name()] = make([]float64, 0, cfg.Frames)
	}
	return &recorder{
		every:   cfg.SnapshotEvery,
		metrics: metrics,
		times:   make([]float64, 0, cfg.Frames),
		series:  series,
	}
}

func (r *recorder) OnStep(f sim.Frame) {
	r.times = append(r.times, f.Time)
	for _, m := range r.metrics {
		r.series[m.Name()] = append(r.series[m.Name()], m.Value())
	}
	if r.every > 0 && f.Index%r.every == 0 {
		ps := make([]sim.Particle, len(f.Particles))
		copy(ps, f.Particles)
		r.snapshot(f.Index, f.Time, ps)
	}
}

func (r *recorder) snapshot(frame int, t float64, ps []sim.Particle) {
	r.snapshots = append(r.snapshots, Snapshot{Frame: frame, Time: t, Particles: ps})
}

func (r *recorder) lastSnapshotFrame() int {
	if len(r.snapshots) == 0 {
		return -1
	}
	return r.snapshots[len(r.snapshots)-1].Frame
}

func (r *recorder) result(seed int64, wall time.Duration) *Result {
	final := make(map[string]float64, len(r.metrics))
	for _, m := range r.metrics {
		final[m.Name()] = m.Value()
	}
	return &Result{
		Seed:      seed,
		Frames:    len(r.times),
		Times:     r.times,
		Series:    r.series,
		Final:     final,
		Snapshots: r.snapshots,
		Wall:      wall,
	}
}
