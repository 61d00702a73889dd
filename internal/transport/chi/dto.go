package chi

import (
	"fmt"
	"time"

	"github.com/natelgrw/peak-prophet/internal/domain/compound"
	"github.com/natelgrw/peak-prophet/internal/domain/match"
)

// Request and response shapes for the JSON API. Optional scalars are
// pointers so "absent" and "zero" stay distinguishable on the wire.

type spectrumDTO struct {
	Masses      []float64 `json:"masses"`
	Intensities []float64 `json:"intensities"`
}

type predictedDTO struct {
	Label         string       `json:"label"`
	Spectrum      *spectrumDTO `json:"spectrum,omitempty"`
	RetentionTime *float64     `json:"rt,omitempty"`
	LambdaMax     *float64     `json:"lmax,omitempty"`
}

type observedDTO struct {
	Spectrum      *spectrumDTO `json:"spectrum,omitempty"`
	RetentionTime *float64     `json:"rt,omitempty"`
	LambdaMax     *float64     `json:"lmax,omitempty"`
	PeakRef       string       `json:"peak_ref,omitempty"`
}

// paramsDTO overrides the server's configured matching defaults per request.
// Absent fields keep the defaults.
type paramsDTO struct {
	Weights     map[string]float64 `json:"weights,omitempty"`
	MzTolDa     *float64           `json:"mz_tol_da,omitempty"`
	MzTolPPM    *float64           `json:"mz_tol_ppm,omitempty"`
	RTSigma     *float64           `json:"rt_sigma,omitempty"`
	LambdaSigma *float64           `json:"lmax_sigma,omitempty"`
}

type matchRequest struct {
	Predicted []predictedDTO `json:"predicted"`
	Observed  []observedDTO  `json:"observed"`
	Params    *paramsDTO     `json:"params,omitempty"`
	Strategy  string         `json:"strategy,omitempty"`
}

type matchedDTO struct {
	PredIndex int          `json:"pred_index"`
	ObsIndex  int          `json:"obs_index"`
	Score     float64      `json:"score"`
	Predicted predictedDTO `json:"predicted"`
	Observed  observedDTO  `json:"observed"`
}

type matchResponse struct {
	RunID          string       `json:"run_id,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	Strategy       string       `json:"strategy"`
	Degraded       bool         `json:"degraded"`
	Total          float64      `json:"total"`
	Matrix         [][]float64  `json:"matrix"`
	Matches        []matchedDTO `json:"matches"`
	UnmatchedPreds []int        `json:"unmatched_predicted,omitempty"`
	UnmatchedObs   []int        `json:"unmatched_observed,omitempty"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func spectrumFromDTO(d *spectrumDTO) *compound.Spectrum {
	if d == nil {
		return nil
	}
	return &compound.Spectrum{Masses: d.Masses, Intensities: d.Intensities}
}

func spectrumToDTO(s *compound.Spectrum) *spectrumDTO {
	if s == nil || s.Empty() {
		return nil
	}
	return &spectrumDTO{Masses: s.Masses, Intensities: s.Intensities}
}

func predictedFromDTO(d predictedDTO) compound.Predicted {
	return compound.Predicted{
		Label:         d.Label,
		Spectrum:      spectrumFromDTO(d.Spectrum),
		RetentionTime: d.RetentionTime,
		LambdaMax:     d.LambdaMax,
	}
}

func predictedToDTO(p compound.Predicted) predictedDTO {
	return predictedDTO{
		Label:         p.Label,
		Spectrum:      spectrumToDTO(p.Spectrum),
		RetentionTime: p.RetentionTime,
		LambdaMax:     p.LambdaMax,
	}
}

func observedFromDTO(d observedDTO) compound.Observed {
	return compound.Observed{
		Spectrum:      spectrumFromDTO(d.Spectrum),
		RetentionTime: d.RetentionTime,
		LambdaMax:     d.LambdaMax,
		PeakRef:       d.PeakRef,
	}
}

func observedToDTO(o compound.Observed) observedDTO {
	return observedDTO{
		Spectrum:      spectrumToDTO(o.Spectrum),
		RetentionTime: o.RetentionTime,
		LambdaMax:     o.LambdaMax,
		PeakRef:       o.PeakRef,
	}
}

func predictedRecords(dtos []predictedDTO) []compound.Predicted {
	out := make([]compound.Predicted, len(dtos))
	for i, d := range dtos {
		out[i] = predictedFromDTO(d)
	}
	return out
}

func observedRecords(dtos []observedDTO) []compound.Observed {
	out := make([]compound.Observed, len(dtos))
	for i, d := range dtos {
		out[i] = observedFromDTO(d)
	}
	return out
}

// paramsFromDTO layers request overrides over the configured defaults.
func paramsFromDTO(defaults match.Params, d *paramsDTO) (match.Params, error) {
	p := defaults
	if d == nil {
		return p, nil
	}
	if d.Weights != nil {
		w := match.Weights{}
		for ch, v := range d.Weights {
			w[match.Channel(ch)] = v
		}
		p.Weights = w
	}
	if d.MzTolDa != nil && d.MzTolPPM != nil {
		return match.Params{}, fmt.Errorf("mz_tol_da and mz_tol_ppm are mutually exclusive")
	}
	if d.MzTolDa != nil {
		p.Tolerance = match.AbsoluteDa(*d.MzTolDa)
	}
	if d.MzTolPPM != nil {
		p.Tolerance = match.PartsPerMillion(*d.MzTolPPM)
	}
	if d.RTSigma != nil {
		p.RTSigma = *d.RTSigma
	}
	if d.LambdaSigma != nil {
		p.LambdaSigma = *d.LambdaSigma
	}
	return p, nil
}

func resultToResponse(runID string, res *match.Result) matchResponse {
	resp := matchResponse{
		RunID:          runID,
		CreatedAt:      res.CreatedAt,
		Strategy:       res.Strategy,
		Degraded:       res.Degraded,
		Total:          res.Total,
		Matrix:         res.Matrix.ToRows(),
		Matches:        make([]matchedDTO, 0, len(res.Matches)),
		UnmatchedPreds: res.UnmatchedPreds,
		UnmatchedObs:   res.UnmatchedObs,
	}
	for _, m := range res.Matches {
		resp.Matches = append(resp.Matches, matchedDTO{
			PredIndex: m.Pred,
			ObsIndex:  m.Obs,
			Score:     m.Score,
			Predicted: predictedToDTO(m.Predicted),
			Observed:  observedToDTO(m.Observed),
		})
	}
	return resp
}
