// Package scoring implements the per-channel similarity scorers and the
// weighted score-matrix builder of the matching core.
package scoring

import (
	"runtime"
	"sync"

	"github.com/natelgrw/peak-prophet/internal/domain"
	"github.com/natelgrw/peak-prophet/internal/domain/compound"
	"github.com/natelgrw/peak-prophet/internal/domain/match"
)

// Builder computes the dense predicted×observed score matrix.
type Builder struct {
	params  match.Params
	workers int
}

// NewBuilder creates a matrix builder for the given parameters.
func NewBuilder(params match.Params) *Builder {
	return &Builder{params: params, workers: runtime.NumCPU()}
}

// WithWorkers overrides the row-level parallelism. n <= 0 keeps the default.
func (b *Builder) WithWorkers(n int) *Builder {
	if n > 0 {
		b.workers = n
	}
	return b
}

// Build validates the configuration and every record's spectrum, then fills
// the matrix. Validation failures abort before any cell is computed.
//
// Cells are pure functions of immutable records, so rows are scored
// concurrently; each worker writes only its own rows.
func (b *Builder) Build(preds []compound.Predicted, obs []compound.Observed) (*match.ScoreMatrix, error) {
	if err := b.params.Validate(); err != nil {
		return nil, err
	}
	for i := range preds {
		if !preds[i].Spectrum.Consistent() {
			return nil, domain.NewMalformedSpectrum("predicted", i,
				len(preds[i].Spectrum.Masses), len(preds[i].Spectrum.Intensities))
		}
	}
	for j := range obs {
		if !obs[j].Spectrum.Consistent() {
			return nil, domain.NewMalformedSpectrum("observed", j,
				len(obs[j].Spectrum.Masses), len(obs[j].Spectrum.Intensities))
		}
	}

	m := match.NewScoreMatrix(len(preds), len(obs))
	if m.Empty() {
		return m, nil
	}

	workers := b.workers
	if workers > len(preds) {
		workers = len(preds)
	}

	rows := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range rows {
				for j := range obs {
					m.Set(i, j, b.cellScore(&preds[i], &obs[j]))
				}
			}
		}()
	}
	for i := range preds {
		rows <- i
	}
	close(rows)
	wg.Wait()

	return m, nil
}

// cellScore combines the available channel scores into one weighted average.
//
// A channel contributes only when both sides carry its data; the denominator
// is the sum of weights of the channels actually evaluated, so different
// cells may normalize by different totals. Absent evidence adds nothing to
// numerator or denominator rather than counting as a zero score.
func (b *Builder) cellScore(p *compound.Predicted, o *compound.Observed) float64 {
	var weighted, total float64

	if !p.Spectrum.Empty() && !o.Spectrum.Empty() {
		w := b.params.Weights[match.ChannelMS]
		weighted += w * SpectralCosine(p.Spectrum, o.Spectrum, b.params.Tolerance)
		total += w
	}
	if p.RetentionTime != nil && o.RetentionTime != nil {
		w := b.params.Weights[match.ChannelRT]
		weighted += w * Gaussian(p.RetentionTime, o.RetentionTime, b.params.RTSigma)
		total += w
	}
	if p.LambdaMax != nil && o.LambdaMax != nil {
		w := b.params.Weights[match.ChannelLambdaMax]
		weighted += w * Gaussian(p.LambdaMax, o.LambdaMax, b.params.LambdaSigma)
		total += w
	}

	if total <= 0 {
		return 0.0
	}
	return weighted / total
}
