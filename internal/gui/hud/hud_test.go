package hud

import (
	"strings"
	"testing"

	"github.com/san-kum/dotswarm/internal/compute"
	"github.com/san-kum/dotswarm/internal/sim"
)

func TestTextWithoutMetrics(t *testing.T) {
	s := sim.New(make([]sim.Particle, 3), sim.WithBackend(compute.NewSerialBackend()))

	if got, want := Text(s, 60), "3 particles  serial  60 FPS"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestTextReportsAttachedMetrics(t *testing.T) {
	s := sim.New([]sim.Particle{{X: 95, Y: 50, DX: 10}}, sim.WithBackend(compute.NewSerialBackend()))
	Attach(s)
	s.Step(1, sim.Bounds{Width: 100, Height: 100})

	lines := strings.Split(Text(s, 30), "\n")
	want := []string{"1 particles  serial  30 FPS", "escaped 1.00", "mean_speed 10.00"}
	if len(lines) != len(want) {
		t.Fatalf("got %q", lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d: got %q, want %q", i, lines[i], want[i])
		}
	}
}
