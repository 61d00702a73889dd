package scoring

import (
	"math"
	"sort"

	"github.com/natelgrw/peak-prophet/internal/domain/compound"
	"github.com/natelgrw/peak-prophet/internal/domain/match"
)

// peak is one centroid retained after intensity filtering.
type peak struct {
	mass  float64
	inten float64
}

// SpectralCosine scores two centroided spectra by aligning peaks within the
// mass tolerance and taking the cosine of the aligned intensity vectors.
//
// Alignment is greedy: predicted peaks are walked in ascending mass order and
// each claims its nearest unused observed peak within tolerance (checking the
// floor and ceiling neighbors in the mass-sorted observed list). Peaks left
// unmatched on either side are dropped from the comparison — partial overlap
// is scored only on the shared peaks. Greedy claiming makes the score an
// approximation of a symmetric alignment; swapping the two sides can move the
// result by a small margin when peaks compete for the same partner.
//
// Returns 0 when either spectrum is empty after dropping non-positive
// intensities, or when no peaks align.
func SpectralCosine(pred, obs *compound.Spectrum, tol match.Tolerance) float64 {
	predPeaks := positivePeaks(pred)
	obsPeaks := positivePeaks(obs)
	if len(predPeaks) == 0 || len(obsPeaks) == 0 {
		return 0.0
	}

	sort.Slice(predPeaks, func(i, j int) bool { return predPeaks[i].mass < predPeaks[j].mass })
	sort.Slice(obsPeaks, func(i, j int) bool { return obsPeaks[i].mass < obsPeaks[j].mass })

	obsMasses := make([]float64, len(obsPeaks))
	for i, p := range obsPeaks {
		obsMasses[i] = p.mass
	}
	used := make([]bool, len(obsPeaks))

	var v1, v2 []float64
	for _, pp := range predPeaks {
		window := tol.WindowAt(pp.mass)
		j := sort.SearchFloat64s(obsMasses, pp.mass)

		best := -1
		bestDelta := math.Inf(1)
		for _, k := range []int{j, j - 1} {
			if k < 0 || k >= len(obsPeaks) || used[k] {
				continue
			}
			delta := math.Abs(obsMasses[k] - pp.mass)
			if delta <= window && delta < bestDelta {
				bestDelta = delta
				best = k
			}
		}
		if best >= 0 {
			used[best] = true
			v1 = append(v1, pp.inten)
			v2 = append(v2, obsPeaks[best].inten)
		}
	}

	if len(v1) == 0 {
		return 0.0
	}
	return clampedCosine(v1, v2)
}

// positivePeaks copies a spectrum keeping only positive intensities.
// A nil or inconsistent spectrum yields no peaks; structural validation
// happens before scoring, in the matrix builder.
func positivePeaks(s *compound.Spectrum) []peak {
	if s.Empty() || !s.Consistent() {
		return nil
	}
	peaks := make([]peak, 0, len(s.Masses))
	for i, m := range s.Masses {
		if s.Intensities[i] > 0 {
			peaks = append(peaks, peak{mass: m, inten: s.Intensities[i]})
		}
	}
	return peaks
}

// clampedCosine L2-normalizes both vectors and clamps the dot product to [0,1].
func clampedCosine(v1, v2 []float64) float64 {
	var n1, n2 float64
	for i := range v1 {
		n1 += v1[i] * v1[i]
		n2 += v2[i] * v2[i]
	}
	n1 = math.Sqrt(n1)
	n2 = math.Sqrt(n2)
	if n1 == 0 || n2 == 0 {
		return 0.0
	}

	var dot float64
	for i := range v1 {
		dot += (v1[i] / n1) * (v2[i] / n2)
	}
	if dot < 0 {
		return 0.0
	}
	if dot > 1 {
		return 1.0
	}
	return dot
}
