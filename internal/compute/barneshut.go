package compute

import (
	"math"

	"gonum.org/v1/gonum/spatial/barneshut"
	"gonum.org/v1/gonum/spatial/r2"
)

type body struct {
	pos r2.Vec
}

func (b *body) Coord2() r2.Vec { return b.pos }
func (b *body) Mass() float64  { return 1 }

// attraction is the pair law expressed as a gonum force. v points from p1 to
// the (possibly aggregated) mass m2, so a cluster of k particles pulls with
// k times the single-particle contribution at its centroid.
func attraction(_, _ barneshut.Particle2, _, m2 float64, v r2.Vec) r2.Vec {
	d := math.Sqrt(v.X*v.X + v.Y*v.Y)
	if d == 0 {
		return r2.Vec{}
	}
	f := m2 / (d * math.Sqrt(d))
	return r2.Vec{X: v.X * f, Y: v.Y * f}
}

// BarnesHutBackend approximates the attraction pass in O(n log n).
type BarnesHutBackend struct {
	theta     float64
	workers   int
	bodies    []body
	particles []barneshut.Particle2
	fallback  *CPUBackend
}

func NewBarnesHutBackend(theta float64, workers int) *BarnesHutBackend {
	if theta < 0 {
		theta = 0
	}
	fb := NewCPUBackend(workers)
	return &BarnesHutBackend{
		theta:    theta,
		workers:  fb.Workers(),
		fallback: fb,
	}
}

func (b *BarnesHutBackend) Name() string { return "barneshut" }

func (b *BarnesHutBackend) Theta() float64 { return b.theta }

func (b *BarnesHutBackend) Attract(px, py, dvx, dvy []float64) {
	n := len(px)
	b.load(px, py)

	plane, err := barneshut.NewPlane(b.particles)
	if err != nil {
		// the tree cannot separate some particles; the exact kernel can
		b.fallback.Attract(px, py, dvx, dvy)
		return
	}

	ParallelFor(n, b.workers, parallelThreshold/4, func(start, end int) {
		for i := start; i < end; i++ {
			f := plane.ForceOn(b.particles[i], b.theta, attraction)
			dvx[i] += f.X
			dvy[i] += f.Y
		}
	})
}

func (b *BarnesHutBackend) load(px, py []float64) {
	n := len(px)
	if cap(b.bodies) < n {
		b.bodies = make([]body, n)
		b.particles = make([]barneshut.Particle2, n)
	}
	b.bodies = b.bodies[:n]
	b.particles = b.particles[:n]
	for i := range b.bodies {
		b.bodies[i].pos = r2.Vec{X: px[i], Y: py[i]}
		b.particles[i] = &b.bodies[i]
	}
}
