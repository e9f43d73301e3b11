package compute

import (
	"errors"
	"fmt"
	"runtime"
	"sort"
)

var ErrUnknownBackend = errors.New("compute: unknown backend")

// Backend accumulates attraction deltas. px and py are only read; dvx and dvy
// must be zeroed by the caller and have the same length as px.
type Backend interface {
	Name() string
	Attract(px, py, dvx, dvy []float64)
}

type Options struct {
	Workers int
	// Theta is the Barnes-Hut opening angle. Zero means exact.
	Theta float64
}

func DefaultOptions() Options {
	return Options{
		Workers: runtime.NumCPU(),
		Theta:   0.5,
	}
}

var factories = map[string]func(Options) Backend{
	"serial":    func(Options) Backend { return NewSerialBackend() },
	"cpu":       func(o Options) Backend { return NewCPUBackend(o.Workers) },
	"barneshut": func(o Options) Backend { return NewBarnesHutBackend(o.Theta, o.Workers) },
}

func New(name string, opts Options) (Backend, error) {
	f, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownBackend, name, Names())
	}
	return f(opts), nil
}

func Names() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func Default() Backend {
	return NewCPUBackend(runtime.NumCPU())
}
