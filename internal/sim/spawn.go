package sim

import (
	"fmt"
	"math/rand"
)

// Spawn creates n particles with positions uniform in b and each velocity
// component uniform in [-MaxInitialSpeed, MaxInitialSpeed). rng is consumed
// here and never again by the simulation.
func Spawn(n int, b Bounds, rng *rand.Rand) ([]Particle, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCount, n)
	}
	if err := Validate(0, b); err != nil {
		return nil, err
	}

	particles := make([]Particle, n)
	for i := range particles {
		particles[i] = Particle{
			X:  rng.Float64() * b.Width,
			Y:  rng.Float64() * b.Height,
			DX: uniform(rng, -MaxInitialSpeed, MaxInitialSpeed),
			DY: uniform(rng, -MaxInitialSpeed, MaxInitialSpeed),
		}
	}
	return particles, nil
}

// NewSeeded spawns n particles from seed and wraps them in a Simulator.
func NewSeeded(n int, seed int64, b Bounds, opts ...Option) (*Simulator, error) {
	particles, err := Spawn(n, b, rand.New(rand.NewSource(seed)))
	if err != nil {
		return nil, err
	}
	return New(particles, opts...), nil
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
