package metrics

import "github.com/san-kum/dotswarm/internal/sim"

// Default returns a fresh instance of every swarm metric.
func Default() []sim.Metric {
	return []sim.Metric{
		NewMeanSpeed(),
		NewPeakSpeed(),
		NewKineticEnergy(),
		NewEscaped(),
	}
}
