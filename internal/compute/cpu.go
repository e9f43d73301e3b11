package compute

import (
	"math"
	"runtime"
	"sync"
)

// parallelThreshold is the particle count below which the cpu backend stays
// on the calling goroutine.
const parallelThreshold = 128

// PairDelta is the velocity change applied to the particle at (sx, sy) by
// the particle at (ox, oy).
func PairDelta(sx, sy, ox, oy float64) (float64, float64) {
	rx := ox - sx
	ry := oy - sy
	distance := math.Sqrt(rx*rx + ry*ry)
	if distance == 0 {
		return 0, 0
	}
	influence := math.Sqrt(distance)
	return rx / distance / influence, ry / distance / influence
}

// attractRange fills dvx/dvy for selves in [start, end).
func attractRange(px, py, dvx, dvy []float64, start, end int) {
	n := len(px)
	for i := start; i < end; i++ {
		sx, sy := px[i], py[i]
		ax, ay := 0.0, 0.0
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			ddx, ddy := PairDelta(sx, sy, px[j], py[j])
			ax += ddx
			ay += ddy
		}
		dvx[i] += ax
		dvy[i] += ay
	}
}

type SerialBackend struct{}

func NewSerialBackend() *SerialBackend { return &SerialBackend{} }

func (s *SerialBackend) Name() string { return "serial" }

func (s *SerialBackend) Attract(px, py, dvx, dvy []float64) {
	attractRange(px, py, dvx, dvy, 0, len(px))
}

type CPUBackend struct {
	workers int
}

func NewCPUBackend(workers int) *CPUBackend {
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	return &CPUBackend{workers: workers}
}

func (c *CPUBackend) Name() string { return "cpu" }

func (c *CPUBackend) Workers() int { return c.workers }

func (c *CPUBackend) Attract(px, py, dvx, dvy []float64) {
	n := len(px)
	if n < parallelThreshold || c.workers == 1 {
		attractRange(px, py, dvx, dvy, 0, n)
		return
	}

	ParallelFor(n, c.workers, parallelThreshold/4, func(start, end int) {
		attractRange(px, py, dvx, dvy, start, end)
	})
}

// ParallelFor runs fn over disjoint chunks of [0, n) on up to workers
// goroutines and returns once every chunk is done.
func ParallelFor(n, workers, minChunk int, fn func(start, end int)) {
	if minChunk < 1 {
		minChunk = 1
	}
	if n <= minChunk || workers <= 1 {
		fn(0, n)
		return
	}

	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}

	wg.Wait()
}
