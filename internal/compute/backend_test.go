package compute_test

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/dotswarm/internal/compute"
)

func scatter(n int, seed int64) ([]float64, []float64) {
	rng := rand.New(rand.NewSource(seed))
	px := make([]float64, n)
	py := make([]float64, n)
	for i := 0; i < n; i++ {
		px[i] = rng.Float64() * 200
		py[i] = rng.Float64() * 200
	}
	return px, py
}

func run(b compute.Backend, px, py []float64) ([]float64, []float64) {
	dvx := make([]float64, len(px))
	dvy := make([]float64, len(px))
	b.Attract(px, py, dvx, dvy)
	return dvx, dvy
}

var _ = Describe("PairDelta", func() {
	It("pulls toward the other particle scaled by 1/sqrt(distance)", func() {
		dx, dy := compute.PairDelta(0, 0, 10, 0)
		Expect(dx).To(BeNumerically("~", 1/math.Sqrt(10), 1e-12))
		Expect(dy).To(BeZero())
	})

	It("is the exact negation for the reversed pair", func() {
		ax, ay := compute.PairDelta(3.5, -2, 17.25, 40)
		bx, by := compute.PairDelta(17.25, 40, 3.5, -2)
		Expect(bx).To(Equal(-ax))
		Expect(by).To(Equal(-ay))
	})

	It("contributes nothing for coincident particles", func() {
		dx, dy := compute.PairDelta(5, 5, 5, 5)
		Expect(dx).To(BeZero())
		Expect(dy).To(BeZero())
		Expect(math.IsNaN(dx) || math.IsNaN(dy)).To(BeFalse())
	})
})

var _ = Describe("Backends", func() {
	It("rejects unknown names", func() {
		_, err := compute.New("gpu", compute.DefaultOptions())
		Expect(err).To(MatchError(compute.ErrUnknownBackend))
	})

	It("lists every registered backend", func() {
		Expect(compute.Names()).To(Equal([]string{"barneshut", "cpu", "serial"}))
	})

	It("builds each registered backend by name", func() {
		for _, name := range compute.Names() {
			b, err := compute.New(name, compute.DefaultOptions())
			Expect(err).NotTo(HaveOccurred())
			Expect(b.Name()).To(Equal(name))
		}
	})

	Describe("serial", func() {
		It("matches the two-particle scenario", func() {
			dvx, dvy := run(compute.NewSerialBackend(), []float64{0, 10}, []float64{0, 0})
			Expect(dvx[0]).To(BeNumerically("~", 0.316, 1e-3))
			Expect(dvx[1]).To(BeNumerically("~", -0.316, 1e-3))
			Expect(dvy).To(Equal([]float64{0, 0}))
		})

		It("leaves a lone particle untouched", func() {
			dvx, dvy := run(compute.NewSerialBackend(), []float64{42}, []float64{7})
			Expect(dvx[0]).To(BeZero())
			Expect(dvy[0]).To(BeZero())
		})

		It("adds to existing deltas instead of overwriting them", func() {
			dvx := []float64{1, 1}
			dvy := []float64{0, 0}
			compute.NewSerialBackend().Attract([]float64{0, 10}, []float64{0, 0}, dvx, dvy)
			Expect(dvx[0]).To(BeNumerically(">", 1))
			Expect(dvx[1]).To(BeNumerically("<", 1))
		})
	})

	Describe("cpu", func() {
		It("is bit-identical to serial across worker counts", func() {
			px, py := scatter(600, 7)
			wantX, wantY := run(compute.NewSerialBackend(), px, py)
			for _, workers := range []int{1, 2, 3, 8} {
				gotX, gotY := run(compute.NewCPUBackend(workers), px, py)
				Expect(gotX).To(Equal(wantX), "workers=%d", workers)
				Expect(gotY).To(Equal(wantY), "workers=%d", workers)
			}
		})

		It("defaults to at least one worker", func() {
			Expect(compute.NewCPUBackend(0).Workers()).To(BeNumerically(">=", 1))
		})
	})

	Describe("barneshut", func() {
		It("is exact with a zero opening angle", func() {
			px, py := scatter(300, 11)
			wantX, wantY := run(compute.NewSerialBackend(), px, py)
			gotX, gotY := run(compute.NewBarnesHutBackend(0, 4), px, py)
			for i := range px {
				Expect(gotX[i]).To(BeNumerically("~", wantX[i], 1e-9))
				Expect(gotY[i]).To(BeNumerically("~", wantY[i], 1e-9))
			}
		})

		It("approximates the exact pass in aggregate", func() {
			px, py := scatter(800, 3)
			wantX, wantY := run(compute.NewSerialBackend(), px, py)
			gotX, gotY := run(compute.NewBarnesHutBackend(0.5, 4), px, py)

			var errSum, refSum float64
			for i := range px {
				errSum += math.Hypot(gotX[i]-wantX[i], gotY[i]-wantY[i])
				refSum += math.Hypot(wantX[i], wantY[i])
			}
			Expect(errSum / refSum).To(BeNumerically("<", 0.05))
		})

		It("clamps a negative opening angle to zero", func() {
			Expect(compute.NewBarnesHutBackend(-1, 1).Theta()).To(BeZero())
		})
	})
})

var _ = Describe("ParallelFor", func() {
	DescribeTable("visits every index exactly once",
		func(n, workers, minChunk int) {
			hits := make([]int, n)
			compute.ParallelFor(n, workers, minChunk, func(start, end int) {
				for i := start; i < end; i++ {
					hits[i]++
				}
			})
			for i, h := range hits {
				Expect(h).To(Equal(1), "index %d", i)
			}
		},
		Entry("serial fallback", 10, 4, 32),
		Entry("even split", 1000, 4, 16),
		Entry("uneven split", 1001, 7, 16),
		Entry("more workers than chunks", 100, 64, 16),
		Entry("zero min chunk", 50, 3, 0),
	)
})
