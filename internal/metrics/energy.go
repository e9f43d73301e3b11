package metrics

import "github.com/san-kum/dotswarm/internal/sim"

// KineticEnergy is ½Σ|v|² with unit mass on the latest frame.
type KineticEnergy struct {
	value float64
}

func NewKineticEnergy() *KineticEnergy { return &KineticEnergy{} }

func (k *KineticEnergy) Name() string { return "kinetic_energy" }

func (k *KineticEnergy) Observe(f sim.Frame) {
	ke := 0.0
	for _, p := range f.Particles {
		ke += 0.5 * p.Speed2()
	}
	k.value = ke
}

func (k *KineticEnergy) Value() float64 { return k.value }
func (k *KineticEnergy) Reset()         { k.value = 0 }
