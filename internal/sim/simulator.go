package sim

import (
	"math"

	"github.com/san-kum/dotswarm/internal/compute"
)

// Simulator owns a fixed set of particles and advances it one frame per Step.
// It is not safe for concurrent use; the attraction backend may fan out
// internally but Step returns only once the frame is complete.
type Simulator struct {
	particles []Particle
	backend   compute.Backend
	observers []Observer
	metrics   []Metric

	// scratch buffers reused across frames
	px, py   []float64
	dvx, dvy []float64

	frame int
	time  float64
}

type Option func(*Simulator)

func WithBackend(b compute.Backend) Option {
	return func(s *Simulator) {
		if b != nil {
			s.backend = b
		}
	}
}

// New takes ownership of particles; the caller must not touch the slice
// afterwards.
func New(particles []Particle, opts ...Option) *Simulator {
	n := len(particles)
	s := &Simulator{
		particles: particles,
		backend:   compute.Default(),
		px:        make([]float64, n),
		py:        make([]float64, n),
		dvx:       make([]float64, n),
		dvy:       make([]float64, n),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }
func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }

func (s *Simulator) Len() int                 { return len(s.particles) }
func (s *Simulator) Backend() compute.Backend { return s.backend }
func (s *Simulator) Frame() int               { return s.frame }
func (s *Simulator) Time() float64            { return s.time }

// Each calls fn for every particle in order. fn gets a copy.
func (s *Simulator) Each(fn func(i int, p Particle)) {
	for i, p := range s.particles {
		fn(i, p)
	}
}

func (s *Simulator) Snapshot() []Particle {
	out := make([]Particle, len(s.particles))
	copy(out, s.particles)
	return out
}

// Metrics returns the current value of every registered metric.
func (s *Simulator) Metrics() map[string]float64 {
	out := make(map[string]float64, len(s.metrics))
	for _, m := range s.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

// Validate reports whether Step would accept these inputs.
func Validate(elapsed float64, b Bounds) error {
	if math.IsNaN(elapsed) || math.IsInf(elapsed, 0) || elapsed < 0 {
		return ErrInvalidElapsed
	}
	if !(b.Width > 0) || !(b.Height > 0) || math.IsInf(b.Width, 0) || math.IsInf(b.Height, 0) {
		return ErrInvalidBounds
	}
	return nil
}

// Step advances every particle by elapsed seconds inside b.
//
// Positions are integrated first and velocities are reflected on the axis
// that left [0, size]. The attraction pass then reads the bounced positions
// and its deltas only reach velocity, so they move particles next frame.
//
// Step panics with a *StepError if elapsed is negative or non-finite, or if
// either side of b is not a finite positive number.
func (s *Simulator) Step(elapsed float64, b Bounds) {
	if err := Validate(elapsed, b); err != nil {
		panic(&StepError{Frame: s.frame, Elapsed: elapsed, Bounds: b, Wrapped: err})
	}

	s.integrate(elapsed, b)
	s.attract()

	s.frame++
	s.time += elapsed
	s.notify(elapsed, b)
}

func (s *Simulator) integrate(elapsed float64, b Bounds) {
	for i := range s.particles {
		p := &s.particles[i]
		p.X += elapsed * p.DX
		p.Y += elapsed * p.DY
		if p.X > b.Width || p.X < 0 {
			p.DX = -p.DX
		}
		if p.Y > b.Height || p.Y < 0 {
			p.DY = -p.DY
		}
		s.px[i] = p.X
		s.py[i] = p.Y
	}
}

func (s *Simulator) attract() {
	if len(s.particles) < 2 {
		return
	}

	clear(s.dvx)
	clear(s.dvy)
	s.backend.Attract(s.px, s.py, s.dvx, s.dvy)

	for i := range s.particles {
		s.particles[i].DX += s.dvx[i]
		s.particles[i].DY += s.dvy[i]
	}
}

func (s *Simulator) notify(elapsed float64, b Bounds) {
	if len(s.observers) == 0 && len(s.metrics) == 0 {
		return
	}

	f := Frame{
		Index:     s.frame,
		Time:      s.time,
		Elapsed:   elapsed,
		Bounds:    b,
		Particles: s.particles,
	}
	for _, m := range s.metrics {
		m.Observe(f)
	}
	for _, o := range s.observers {
		o.OnStep(f)
	}
}
