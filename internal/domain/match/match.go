// Package match holds the matching core's value types: channel weights,
// mass tolerance, the pairwise score matrix, and assignment results.
package match

import (
	"fmt"
	"time"

	"github.com/natelgrw/peak-prophet/internal/domain"
	"github.com/natelgrw/peak-prophet/internal/domain/compound"
)

// Channel is one similarity dimension between a predicted and observed record.
type Channel string

const (
	// ChannelMS compares centroided mass spectra.
	ChannelMS Channel = "ms"
	// ChannelRT compares retention times.
	ChannelRT Channel = "rt"
	// ChannelLambdaMax compares absorption maxima.
	ChannelLambdaMax Channel = "lmax"
)

// Channels lists all similarity channels in evaluation order.
func Channels() []Channel {
	return []Channel{ChannelMS, ChannelRT, ChannelLambdaMax}
}

// Weights maps a channel to its non-negative aggregate weight.
// Weights need not sum to 1; each cell renormalizes over the channels that
// actually had data on both sides.
type Weights map[Channel]float64

// DefaultWeights returns the pipeline defaults: ms 0.5, rt 0.3, lmax 0.2.
func DefaultWeights() Weights {
	return Weights{ChannelMS: 0.5, ChannelRT: 0.3, ChannelLambdaMax: 0.2}
}

// Validate rejects negative weights.
func (w Weights) Validate() error {
	for ch, v := range w {
		if v < 0 {
			return fmt.Errorf("%w: weight for channel %q is negative (%g)",
				domain.ErrInvalidConfig, ch, v)
		}
	}
	return nil
}

// Tolerance is the spectral alignment window: an absolute window in Da or a
// relative one in parts-per-million, never both.
type Tolerance struct {
	absDa *float64
	ppm   *float64
}

// AbsoluteDa builds an absolute tolerance in daltons.
func AbsoluteDa(v float64) Tolerance { return Tolerance{absDa: &v} }

// PartsPerMillion builds a relative tolerance in ppm.
func PartsPerMillion(v float64) Tolerance { return Tolerance{ppm: &v} }

// DefaultTolerance returns the pipeline default of 0.01 Da absolute.
func DefaultTolerance() Tolerance { return AbsoluteDa(0.01) }

// Validate rejects a tolerance with both or neither mode set, or a
// non-positive window.
func (t Tolerance) Validate() error {
	switch {
	case t.absDa == nil && t.ppm == nil:
		return fmt.Errorf("%w: no mass tolerance set", domain.ErrInvalidConfig)
	case t.absDa != nil && t.ppm != nil:
		return fmt.Errorf("%w: both absolute and ppm mass tolerance set", domain.ErrInvalidConfig)
	case t.absDa != nil && *t.absDa <= 0:
		return fmt.Errorf("%w: absolute mass tolerance must be positive, got %g",
			domain.ErrInvalidConfig, *t.absDa)
	case t.ppm != nil && *t.ppm <= 0:
		return fmt.Errorf("%w: ppm mass tolerance must be positive, got %g",
			domain.ErrInvalidConfig, *t.ppm)
	}
	return nil
}

// WindowAt returns the alignment window in Da at the given mass.
func (t Tolerance) WindowAt(mass float64) float64 {
	if t.ppm != nil {
		return *t.ppm * mass / 1e6
	}
	if t.absDa != nil {
		return *t.absDa
	}
	return 0
}

// IsPPM reports whether the tolerance is relative.
func (t Tolerance) IsPPM() bool { return t.ppm != nil }

// Value returns the raw tolerance value in its native unit.
func (t Tolerance) Value() float64 {
	if t.ppm != nil {
		return *t.ppm
	}
	if t.absDa != nil {
		return *t.absDa
	}
	return 0
}

// Params bundles the full matching configuration for one invocation.
// Nothing here is read from ambient state; callers pass Params explicitly.
type Params struct {
	Weights     Weights
	Tolerance   Tolerance
	RTSigma     float64 // Gaussian width for retention time, minutes
	LambdaSigma float64 // Gaussian width for absorption maximum, nm
}

// DefaultParams returns the original pipeline defaults.
func DefaultParams() Params {
	return Params{
		Weights:     DefaultWeights(),
		Tolerance:   DefaultTolerance(),
		RTSigma:     0.5,
		LambdaSigma: 15.0,
	}
}

// Validate checks all configuration before any scoring happens.
func (p Params) Validate() error {
	if err := p.Weights.Validate(); err != nil {
		return err
	}
	if err := p.Tolerance.Validate(); err != nil {
		return err
	}
	if p.RTSigma <= 0 {
		return fmt.Errorf("%w: rt sigma must be positive, got %g",
			domain.ErrInvalidConfig, p.RTSigma)
	}
	if p.LambdaSigma <= 0 {
		return fmt.Errorf("%w: lmax sigma must be positive, got %g",
			domain.ErrInvalidConfig, p.LambdaSigma)
	}
	return nil
}

// Pair is one matched (predicted, observed) index pair with its cell score.
type Pair struct {
	Pred  int
	Obs   int
	Score float64
}

// Assignment is a partial one-to-one matching: each predicted and observed
// index appears at most once.
type Assignment []Pair

// Total sums the matched cell scores.
func (a Assignment) Total() float64 {
	var t float64
	for _, p := range a {
		t += p.Score
	}
	return t
}

// MatchedRecord joins one assignment pair back to its source records.
type MatchedRecord struct {
	Pair
	Predicted compound.Predicted
	Observed  compound.Observed
}

// Result is the full outcome of one matching invocation, kept auditable:
// the score matrix, the assignment, unmatched leftovers, and whether the
// degraded (non-optimal) solver produced it.
type Result struct {
	Matrix  *ScoreMatrix
	Matches []MatchedRecord
	// Predicted and Observed are the original input records, in input order,
	// so unmatched entries stay inspectable.
	Predicted      []compound.Predicted
	Observed       []compound.Observed
	UnmatchedPreds []int
	UnmatchedObs   []int
	Total          float64
	Strategy       string
	Degraded       bool
	CreatedAt      time.Time
}
