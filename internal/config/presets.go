package config

import "sort"

// Presets vary the particle count and the host settings that keep it
// interactive. The swarm rules are the same in all of them.
var Presets = map[string]*Config{
	"classic": {
		Particles: 1000, Width: 200, Height: 200, FPS: 60,
		Backend: "cpu",
	},
	"sparse": {
		Particles: 150, Width: 800, Height: 600, FPS: 60,
		Backend: "serial",
	},
	"dense": {
		Particles: 4000, Width: 1280, Height: 720, FPS: 30,
		Backend: "cpu",
	},
	"galaxy": {
		Particles: 20000, Width: 1280, Height: 720, FPS: 30,
		Backend: "barneshut", Theta: 0.7,
	},
}

// GetPreset returns a full config with the preset applied over the
// defaults, or nil if the name is unknown.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Particles = p.Particles
	cfg.Width = p.Width
	cfg.Height = p.Height
	cfg.FPS = p.FPS
	cfg.Backend = p.Backend
	if p.Theta != 0 {
		cfg.Theta = p.Theta
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
