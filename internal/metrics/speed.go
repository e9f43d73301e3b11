package metrics

import (
	"math"

	"github.com/san-kum/dotswarm/internal/sim"
)

// MeanSpeed is the average |v| over the swarm on the latest frame.
type MeanSpeed struct {
	value float64
}

func NewMeanSpeed() *MeanSpeed { return &MeanSpeed{} }

func (m *MeanSpeed) Name() string { return "mean_speed" }

func (m *MeanSpeed) Observe(f sim.Frame) {
	if len(f.Particles) == 0 {
		m.value = 0
		return
	}
	sum := 0.0
	for _, p := range f.Particles {
		sum += math.Sqrt(p.Speed2())
	}
	m.value = sum / float64(len(f.Particles))
}

func (m *MeanSpeed) Value() float64 { return m.value }
func (m *MeanSpeed) Reset()         { m.value = 0 }

// PeakSpeed is the largest |v| seen since the last reset.
type PeakSpeed struct {
	peak float64
}

func NewPeakSpeed() *PeakSpeed { return &PeakSpeed{} }

func (m *PeakSpeed) Name() string { return "peak_speed" }

func (m *PeakSpeed) Observe(f sim.Frame) {
	for _, p := range f.Particles {
		m.peak = math.Max(m.peak, math.Sqrt(p.Speed2()))
	}
}

func (m *PeakSpeed) Value() float64 { return m.peak }
func (m *PeakSpeed) Reset()         { m.peak = 0 }
