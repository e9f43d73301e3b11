// Package sim advances a fixed swarm of particles one frame at a time.
//
// A frame is two passes over the set:
//
//  1. integrate positions by the elapsed time and reflect the velocity
//     component of any axis that left the viewport
//  2. pull every particle toward every other one with a strength of
//     1/sqrt(distance), using the positions from pass 1
//
// # Example
//
//	s, _ := sim.NewSeeded(1000, seed, sim.Bounds{Width: 200, Height: 200})
//	clock := sim.NewClock()
//	for running {
//	    s.Step(clock.Tick(), viewport)
//	    s.Each(draw)
//	}
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe. The attraction backend may use
// several goroutines but always finishes before Step returns.
package sim
