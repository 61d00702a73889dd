package run

import (
	"time"

	"github.com/natelgrw/peak-prophet/internal/domain/compound"
	"github.com/natelgrw/peak-prophet/internal/domain/match"
)

// runDoc is the persisted JSON shape of one match run.
type runDoc struct {
	ID             string        `json:"id"`
	CreatedAt      time.Time     `json:"created_at"`
	Strategy       string        `json:"strategy"`
	Degraded       bool          `json:"degraded"`
	Total          float64       `json:"total"`
	Matrix         [][]float64   `json:"matrix"`
	Matches        []matchDoc    `json:"matches"`
	UnmatchedPreds []int         `json:"unmatched_predicted,omitempty"`
	UnmatchedObs   []int         `json:"unmatched_observed,omitempty"`
	Predicted      []predDoc     `json:"predicted"`
	Observed       []observedDoc `json:"observed"`
}

type matchDoc struct {
	Pred  int     `json:"pred_index"`
	Obs   int     `json:"obs_index"`
	Score float64 `json:"score"`
}

type spectrumDoc struct {
	Masses      []float64 `json:"masses"`
	Intensities []float64 `json:"intensities"`
}

type predDoc struct {
	Label         string       `json:"label"`
	Spectrum      *spectrumDoc `json:"spectrum,omitempty"`
	RetentionTime *float64     `json:"rt,omitempty"`
	LambdaMax     *float64     `json:"lmax,omitempty"`
}

type observedDoc struct {
	Spectrum      *spectrumDoc `json:"spectrum,omitempty"`
	RetentionTime *float64     `json:"rt,omitempty"`
	LambdaMax     *float64     `json:"lmax,omitempty"`
	PeakRef       string       `json:"peak_ref,omitempty"`
}

// Summary is the listing projection of a stored run.
type Summary struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Strategy  string    `json:"strategy"`
	Degraded  bool      `json:"degraded"`
	Total     float64   `json:"total"`
	Predicted int       `json:"predicted"`
	Observed  int       `json:"observed"`
	Matched   int       `json:"matched"`
}

func buildDoc(id string, res *match.Result) runDoc {
	doc := runDoc{
		ID:             id,
		CreatedAt:      res.CreatedAt,
		Strategy:       res.Strategy,
		Degraded:       res.Degraded,
		Total:          res.Total,
		Matrix:         res.Matrix.ToRows(),
		UnmatchedPreds: res.UnmatchedPreds,
		UnmatchedObs:   res.UnmatchedObs,
	}
	doc.Predicted = make([]predDoc, len(res.Predicted))
	for i, p := range res.Predicted {
		doc.Predicted[i] = toPredDoc(p)
	}
	doc.Observed = make([]observedDoc, len(res.Observed))
	for j, o := range res.Observed {
		doc.Observed[j] = toObservedDoc(o)
	}
	for _, mr := range res.Matches {
		doc.Matches = append(doc.Matches, matchDoc{Pred: mr.Pred, Obs: mr.Obs, Score: mr.Score})
	}
	return doc
}

func (d runDoc) toResult() *match.Result {
	res := &match.Result{
		Matrix:         match.FromRows(d.Matrix),
		Total:          d.Total,
		Strategy:       d.Strategy,
		Degraded:       d.Degraded,
		CreatedAt:      d.CreatedAt,
		UnmatchedPreds: d.UnmatchedPreds,
		UnmatchedObs:   d.UnmatchedObs,
	}
	res.Predicted = make([]compound.Predicted, len(d.Predicted))
	for i, p := range d.Predicted {
		res.Predicted[i] = fromPredDoc(p)
	}
	res.Observed = make([]compound.Observed, len(d.Observed))
	for j, o := range d.Observed {
		res.Observed[j] = fromObservedDoc(o)
	}
	for _, m := range d.Matches {
		mr := match.MatchedRecord{Pair: match.Pair{Pred: m.Pred, Obs: m.Obs, Score: m.Score}}
		if m.Pred < len(d.Predicted) {
			mr.Predicted = fromPredDoc(d.Predicted[m.Pred])
		}
		if m.Obs < len(d.Observed) {
			mr.Observed = fromObservedDoc(d.Observed[m.Obs])
		}
		res.Matches = append(res.Matches, mr)
	}
	return res
}

func (d runDoc) summary() Summary {
	return Summary{
		ID:        d.ID,
		CreatedAt: d.CreatedAt,
		Strategy:  d.Strategy,
		Degraded:  d.Degraded,
		Total:     d.Total,
		Predicted: len(d.Predicted),
		Observed:  len(d.Observed),
		Matched:   len(d.Matches),
	}
}

func toSpectrumDoc(s *compound.Spectrum) *spectrumDoc {
	if s.Empty() {
		return nil
	}
	return &spectrumDoc{Masses: s.Masses, Intensities: s.Intensities}
}

func fromSpectrumDoc(d *spectrumDoc) *compound.Spectrum {
	if d == nil {
		return nil
	}
	return &compound.Spectrum{Masses: d.Masses, Intensities: d.Intensities}
}

func toPredDoc(p compound.Predicted) predDoc {
	return predDoc{
		Label:         p.Label,
		Spectrum:      toSpectrumDoc(p.Spectrum),
		RetentionTime: p.RetentionTime,
		LambdaMax:     p.LambdaMax,
	}
}

func fromPredDoc(d predDoc) compound.Predicted {
	return compound.Predicted{
		Label:         d.Label,
		Spectrum:      fromSpectrumDoc(d.Spectrum),
		RetentionTime: d.RetentionTime,
		LambdaMax:     d.LambdaMax,
	}
}

func toObservedDoc(o compound.Observed) observedDoc {
	return observedDoc{
		Spectrum:      toSpectrumDoc(o.Spectrum),
		RetentionTime: o.RetentionTime,
		LambdaMax:     o.LambdaMax,
		PeakRef:       o.PeakRef,
	}
}

func fromObservedDoc(d observedDoc) compound.Observed {
	return compound.Observed{
		Spectrum:      fromSpectrumDoc(d.Spectrum),
		RetentionTime: d.RetentionTime,
		LambdaMax:     d.LambdaMax,
		PeakRef:       d.PeakRef,
	}
}
