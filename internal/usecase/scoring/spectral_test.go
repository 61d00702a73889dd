package scoring

import (
	"math"
	"testing"

	"github.com/natelgrw/peak-prophet/internal/domain/compound"
	"github.com/natelgrw/peak-prophet/internal/domain/match"
)

func spectrum(masses []float64, intensities []float64) *compound.Spectrum {
	return &compound.Spectrum{Masses: masses, Intensities: intensities}
}

func TestSpectralCosine_IdenticalSpectra(t *testing.T) {
	s := spectrum([]float64{100.0, 150.5, 220.1}, []float64{10, 50, 25})
	got := SpectralCosine(s, s, match.AbsoluteDa(0.01))
	if math.Abs(got-1.0) > 1e-6 {
		t.Errorf("identical spectra = %g, want 1.0", got)
	}
}

func TestSpectralCosine_NoMassesWithinTolerance(t *testing.T) {
	a := spectrum([]float64{100.0, 200.0}, []float64{10, 10})
	b := spectrum([]float64{150.0, 250.0}, []float64{10, 10})
	if got := SpectralCosine(a, b, match.AbsoluteDa(0.01)); got != 0.0 {
		t.Errorf("disjoint spectra = %g, want 0", got)
	}
}

func TestSpectralCosine_EmptyAfterFiltering(t *testing.T) {
	empty := spectrum(nil, nil)
	nonPositive := spectrum([]float64{100, 200}, []float64{0, -5})
	healthy := spectrum([]float64{100}, []float64{10})

	if got := SpectralCosine(empty, healthy, match.AbsoluteDa(0.01)); got != 0.0 {
		t.Errorf("empty predicted = %g, want 0", got)
	}
	if got := SpectralCosine(healthy, nonPositive, match.AbsoluteDa(0.01)); got != 0.0 {
		t.Errorf("observed with no positive intensities = %g, want 0", got)
	}
}

func TestSpectralCosine_PartialOverlapDropsUnmatched(t *testing.T) {
	// The extra predicted peak at 300 has no partner and is dropped; the
	// remaining aligned pair matches perfectly.
	pred := spectrum([]float64{100.0, 300.0}, []float64{40, 15})
	obs := spectrum([]float64{100.0}, []float64{40})
	got := SpectralCosine(pred, obs, match.AbsoluteDa(0.01))
	if math.Abs(got-1.0) > 1e-6 {
		t.Errorf("partial overlap = %g, want 1.0 on the shared peak", got)
	}
}

func TestSpectralCosine_PPMTolerance(t *testing.T) {
	pred := spectrum([]float64{400.0}, []float64{10})
	obs := spectrum([]float64{400.0012}, []float64{10})

	// 5 ppm at 400 Da = 0.002 Da window: aligns.
	if got := SpectralCosine(pred, obs, match.PartsPerMillion(5)); math.Abs(got-1.0) > 1e-6 {
		t.Errorf("within 5 ppm = %g, want 1.0", got)
	}
	// 1 ppm at 400 Da = 0.0004 Da window: misses.
	if got := SpectralCosine(pred, obs, match.PartsPerMillion(1)); got != 0.0 {
		t.Errorf("outside 1 ppm = %g, want 0", got)
	}
}

func TestSpectralCosine_NearestNeighborWins(t *testing.T) {
	// Two observed peaks straddle the predicted mass; the nearer one (100.02)
	// must be chosen.
	pred := spectrum([]float64{100.0}, []float64{10})
	obs := spectrum([]float64{99.95, 100.02}, []float64{3, 7})
	got := SpectralCosine(pred, obs, match.AbsoluteDa(0.1))
	// Single aligned pair always yields cosine 1 regardless of magnitude.
	if math.Abs(got-1.0) > 1e-6 {
		t.Errorf("single aligned pair = %g, want 1.0", got)
	}
}

func TestSpectralCosine_ConsumedPeakNotReused(t *testing.T) {
	// Both predicted peaks sit near the same observed peak; only one can
	// claim it, the other is dropped.
	pred := spectrum([]float64{100.00, 100.01}, []float64{10, 10})
	obs := spectrum([]float64{100.005}, []float64{10})
	got := SpectralCosine(pred, obs, match.AbsoluteDa(0.05))
	if math.Abs(got-1.0) > 1e-6 {
		t.Errorf("one alignment expected, cosine = %g, want 1.0", got)
	}
}

func TestSpectralCosine_NearSymmetry(t *testing.T) {
	// With unambiguous pairings the greedy alignment is side-independent.
	// (With peaks competing for partners it is only approximately symmetric.)
	a := spectrum([]float64{100.0, 150.0, 200.0}, []float64{10, 30, 60})
	b := spectrum([]float64{100.004, 149.998, 200.005}, []float64{12, 28, 55})

	fwd := SpectralCosine(a, b, match.AbsoluteDa(0.01))
	rev := SpectralCosine(b, a, match.AbsoluteDa(0.01))
	if math.Abs(fwd-rev) > 1e-9 {
		t.Errorf("asymmetric alignment: %g vs %g", fwd, rev)
	}
	if fwd <= 0.9 {
		t.Errorf("close spectra should score high, got %g", fwd)
	}
}

func TestSpectralCosine_ClampedToUnitInterval(t *testing.T) {
	a := spectrum([]float64{100, 110, 120}, []float64{1, 2, 3})
	b := spectrum([]float64{100.001, 110.001, 119.999}, []float64{3, 2, 1})
	got := SpectralCosine(a, b, match.AbsoluteDa(0.01))
	if got < 0 || got > 1 {
		t.Errorf("score %g outside [0,1]", got)
	}
}
