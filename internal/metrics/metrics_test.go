package metrics_test

import (
	"testing"

	. "github.com/onsi/gomega"

	"github.com/san-kum/dotswarm/internal/metrics"
	"github.com/san-kum/dotswarm/internal/sim"
)

func frame(ps ...sim.Particle) sim.Frame {
	return sim.Frame{
		Index:     1,
		Bounds:    sim.Bounds{Width: 100, Height: 100},
		Particles: ps,
	}
}

func TestMeanSpeed(t *testing.T) {
	g := NewWithT(t)
	m := metrics.NewMeanSpeed()

	m.Observe(frame(sim.Particle{DX: 3, DY: 4}, sim.Particle{DX: 0, DY: -1}))
	g.Expect(m.Value()).To(BeNumerically("~", 3.0, 1e-12))

	m.Observe(frame())
	g.Expect(m.Value()).To(BeZero())
}

func TestPeakSpeedKeepsMaximum(t *testing.T) {
	g := NewWithT(t)
	m := metrics.NewPeakSpeed()

	m.Observe(frame(sim.Particle{DX: 6, DY: 8}))
	m.Observe(frame(sim.Particle{DX: 1}))
	g.Expect(m.Value()).To(Equal(10.0))

	m.Reset()
	g.Expect(m.Value()).To(BeZero())
}

func TestKineticEnergy(t *testing.T) {
	g := NewWithT(t)
	k := metrics.NewKineticEnergy()

	k.Observe(frame(sim.Particle{DX: 2}, sim.Particle{DY: -2}, sim.Particle{}))
	g.Expect(k.Value()).To(Equal(4.0))

	k.Reset()
	g.Expect(k.Value()).To(BeZero())
}

func TestEscaped(t *testing.T) {
	g := NewWithT(t)
	e := metrics.NewEscaped()

	e.Observe(frame(
		sim.Particle{X: 50, Y: 50},
		sim.Particle{X: 100, Y: 0},
		sim.Particle{X: 101, Y: 50},
		sim.Particle{X: 50, Y: -0.5},
	))
	g.Expect(e.Value()).To(Equal(2.0))

	e.Observe(frame(sim.Particle{X: 1, Y: 1}))
	g.Expect(e.Value()).To(BeZero())
}

func TestDefaultNamesAreUnique(t *testing.T) {
	g := NewWithT(t)

	seen := map[string]bool{}
	for _, m := range metrics.Default() {
		g.Expect(seen).NotTo(HaveKey(m.Name()))
		seen[m.Name()] = true
	}
	g.Expect(seen).To(HaveLen(4))
}

func TestMetricsThroughSimulator(t *testing.T) {
	g := NewWithT(t)

	s := sim.New([]sim.Particle{{X: 95, Y: 50, DX: 10}})
	for _, m := range metrics.Default() {
		s.AddMetric(m)
	}
	s.Step(1, sim.Bounds{Width: 100, Height: 100})

	values := s.Metrics()
	g.Expect(values).To(HaveKeyWithValue("escaped", 1.0))
	g.Expect(values).To(HaveKeyWithValue("mean_speed", 10.0))
	g.Expect(values).To(HaveKeyWithValue("kinetic_energy", 50.0))
}
