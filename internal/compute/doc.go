// Package compute provides the attraction backends used by the simulator.
//
// Every backend fills per-particle velocity deltas from a read-only snapshot
// of positions:
//
//   - serial: exact double loop on the calling goroutine
//   - cpu: exact, the self index range split across worker goroutines
//   - barneshut: approximate, gonum Barnes-Hut tree with the same force law
//
// # Usage
//
//	backend, err := compute.New("cpu", compute.Options{Workers: 8})
//	backend.Attract(px, py, dvx, dvy)
//
// The pair contribution is (r/|r|)/sqrt(|r|) where r points from self to
// other. Coincident pairs (|r| == 0) contribute nothing.
package compute
