package analysis

import (
	"math"
	"testing"
)

func TestPowerSpectrumFindsSine(t *testing.T) {
	const (
		n    = 200
		dt   = 0.01
		freq = 2.0
	)
	data := make([]float64, n)
	for i := range data {
		data[i] = 5 + math.Sin(2*math.Pi*freq*float64(i)*dt)
	}

	s := PowerSpectrum(data, dt)
	if len(s.Freqs) != n/2+1 {
		t.Fatalf("expected %d bins, got %d", n/2+1, len(s.Freqs))
	}

	got, power := s.Dominant()
	if math.Abs(got-freq) > 1e-9 {
		t.Errorf("expected dominant frequency %.2f, got %.4f", freq, got)
	}
	if power <= 0 {
		t.Error("expected positive power")
	}
	if s.Power[0] > 1e-9 {
		t.Errorf("mean should be removed, dc power %g", s.Power[0])
	}
}

func TestPowerSpectrumDegenerate(t *testing.T) {
	if s := PowerSpectrum(nil, 0.1); len(s.Freqs) != 0 {
		t.Error("expected empty spectrum for empty input")
	}
	if s := PowerSpectrum([]float64{1, 2}, 0); len(s.Freqs) != 0 {
		t.Error("expected empty spectrum for non-positive dt")
	}

	f, p := PowerSpectrum([]float64{3, 3, 3, 3}, 0.5).Dominant()
	if f != 0 || p != 0 {
		t.Errorf("constant series should have no dominant frequency, got %g (%g)", f, p)
	}
}
