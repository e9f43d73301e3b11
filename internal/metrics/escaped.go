package metrics

import "github.com/san-kum/dotswarm/internal/sim"

// Escaped counts particles outside the viewport after the bounce pass. The
// reflection does not clamp, so a nonzero value is normal for a frame or two.
type Escaped struct {
	count int
}

func NewEscaped() *Escaped { return &Escaped{} }

func (e *Escaped) Name() string { return "escaped" }

func (e *Escaped) Observe(f sim.Frame) {
	e.count = 0
	for _, p := range f.Particles {
		if !f.Bounds.Contains(p.X, p.Y) {
			e.count++
		}
	}
}

func (e *Escaped) Value() float64 { return float64(e.count) }
func (e *Escaped) Reset()         { e.count = 0 }
