package peakprophet

import (
	"time"

	"github.com/natelgrw/peak-prophet/internal/domain/compound"
	"github.com/natelgrw/peak-prophet/internal/domain/match"
)

// Spectrum is a centroided mass spectrum: parallel mass and intensity slices.
type Spectrum struct {
	Masses      []float64
	Intensities []float64
}

// Predicted is a compound record on the prediction side. Optional scalars are
// pointers; use Scalar to build them inline.
type Predicted struct {
	Label         string
	Spectrum      *Spectrum
	RetentionTime *float64
	LambdaMax     *float64
}

// Observed is a detected peak record.
type Observed struct {
	Spectrum      *Spectrum
	RetentionTime *float64
	LambdaMax     *float64
	PeakRef       string
}

// Scalar returns a pointer to v, for optional record fields.
func Scalar(v float64) *float64 { return &v }

// Match is one assigned (predicted, observed) pair.
type Match struct {
	PredIndex int
	ObsIndex  int
	Label     string
	PeakRef   string
	Score     float64
}

// Result is the outcome of one matching invocation.
type Result struct {
	// RunID is set when run persistence is configured.
	RunID string

	Matches            []Match
	UnmatchedPredicted []int
	UnmatchedObserved  []int

	// Matrix holds the full pairwise score table, rows predicted.
	Matrix [][]float64

	Total     float64
	Strategy  string
	Degraded  bool
	CreatedAt time.Time
}

// RunSummary is the listing projection of a stored run.
type RunSummary struct {
	ID        string
	CreatedAt time.Time
	Strategy  string
	Degraded  bool
	Total     float64
	Predicted int
	Observed  int
	Matched   int
}

func spectrumToInternal(s *Spectrum) *compound.Spectrum {
	if s == nil {
		return nil
	}
	return &compound.Spectrum{Masses: s.Masses, Intensities: s.Intensities}
}

func predictedToInternal(records []Predicted) []compound.Predicted {
	out := make([]compound.Predicted, len(records))
	for i, r := range records {
		out[i] = compound.Predicted{
			Label:         r.Label,
			Spectrum:      spectrumToInternal(r.Spectrum),
			RetentionTime: r.RetentionTime,
			LambdaMax:     r.LambdaMax,
		}
	}
	return out
}

func observedToInternal(records []Observed) []compound.Observed {
	out := make([]compound.Observed, len(records))
	for i, r := range records {
		out[i] = compound.Observed{
			Spectrum:      spectrumToInternal(r.Spectrum),
			RetentionTime: r.RetentionTime,
			LambdaMax:     r.LambdaMax,
			PeakRef:       r.PeakRef,
		}
	}
	return out
}

func resultFromInternal(runID string, res *match.Result) *Result {
	out := &Result{
		RunID:              runID,
		Matches:            make([]Match, 0, len(res.Matches)),
		UnmatchedPredicted: res.UnmatchedPreds,
		UnmatchedObserved:  res.UnmatchedObs,
		Matrix:             res.Matrix.ToRows(),
		Total:              res.Total,
		Strategy:           res.Strategy,
		Degraded:           res.Degraded,
		CreatedAt:          res.CreatedAt,
	}
	for _, m := range res.Matches {
		out.Matches = append(out.Matches, Match{
			PredIndex: m.Pred,
			ObsIndex:  m.Obs,
			Label:     m.Predicted.Label,
			PeakRef:   m.Observed.PeakRef,
			Score:     m.Score,
		})
	}
	return out
}
