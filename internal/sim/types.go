package sim

// MaxInitialSpeed bounds each initial velocity component to [-MaxInitialSpeed, MaxInitialSpeed).
const MaxInitialSpeed = 100.0

// Particle is a point in viewport coordinates with a velocity in units per
// second. Position may sit outside the viewport for a frame after a bounce.
type Particle struct {
	X, Y   float64
	DX, DY float64
}

func (p Particle) Speed2() float64 {
	return p.DX*p.DX + p.DY*p.DY
}

type Bounds struct {
	Width, Height float64
}

func (b Bounds) Contains(x, y float64) bool {
	return x >= 0 && x <= b.Width && y >= 0 && y <= b.Height
}

// Frame is what observers see after a step. Particles aliases the
// simulator's set: read it during the callback, copy it to keep it.
type Frame struct {
	Index     int
	Time      float64
	Elapsed   float64
	Bounds    Bounds
	Particles []Particle
}

type Observer interface {
	OnStep(f Frame)
}

type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}
