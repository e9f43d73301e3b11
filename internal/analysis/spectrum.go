package analysis

import (
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Spectrum is the one-sided amplitude spectrum of a real series.
type Spectrum struct {
	Freqs []float64
	Power []float64
}

// PowerSpectrum transforms data sampled every dt seconds. The mean is
// removed first so the zero-frequency bin only holds what is left of it.
func PowerSpectrum(data []float64, dt float64) Spectrum {
	n := len(data)
	if n == 0 || dt <= 0 {
		return Spectrum{}
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(n)

	centered := make([]float64, n)
	for i, v := range data {
		centered[i] = v - mean
	}

	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, centered)

	s := Spectrum{
		Freqs: make([]float64, len(coeffs)),
		Power: make([]float64, len(coeffs)),
	}
	for i, c := range coeffs {
		s.Freqs[i] = fft.Freq(i) / dt
		s.Power[i] = cmplx.Abs(c)
	}
	return s
}

// Dominant returns the strongest non-zero frequency, or zeros when the
// spectrum has no such bin.
func (s Spectrum) Dominant() (freq, power float64) {
	for i := 1; i < len(s.Power); i++ {
		if s.Power[i] > power {
			freq, power = s.Freqs[i], s.Power[i]
		}
	}
	return freq, power
}
