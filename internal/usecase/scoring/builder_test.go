package scoring

import (
	"errors"
	"math"
	"testing"

	"github.com/natelgrw/peak-prophet/internal/domain"
	"github.com/natelgrw/peak-prophet/internal/domain/compound"
	"github.com/natelgrw/peak-prophet/internal/domain/match"
)

func TestBuild_EmptyInputs(t *testing.T) {
	b := NewBuilder(match.DefaultParams())

	m, err := b.Build(nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !m.Empty() {
		t.Errorf("expected empty matrix, got %dx%d", m.Rows(), m.Cols())
	}

	m, err = b.Build([]compound.Predicted{{Label: "CO"}}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Rows() != 1 || m.Cols() != 0 {
		t.Errorf("expected 1x0 matrix, got %dx%d", m.Rows(), m.Cols())
	}
}

func TestBuild_NegativeWeightFailsFast(t *testing.T) {
	params := match.DefaultParams()
	params.Weights[match.ChannelRT] = -1

	_, err := NewBuilder(params).Build(
		[]compound.Predicted{{Label: "CO"}},
		[]compound.Observed{{}},
	)
	if !errors.Is(err, domain.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestBuild_BadToleranceFailsFast(t *testing.T) {
	tests := []struct {
		name string
		tol  match.Tolerance
	}{
		{"neither mode set", match.Tolerance{}},
		{"non-positive absolute", match.AbsoluteDa(0)},
		{"non-positive ppm", match.PartsPerMillion(-5)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			params := match.DefaultParams()
			params.Tolerance = tc.tol

			_, err := NewBuilder(params).Build(
				[]compound.Predicted{{Label: "CO"}},
				[]compound.Observed{{}},
			)
			if !errors.Is(err, domain.ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestBuild_MalformedSpectrumSurfaced(t *testing.T) {
	preds := []compound.Predicted{{
		Label:    "CO",
		Spectrum: &compound.Spectrum{Masses: []float64{1, 2, 3}, Intensities: []float64{1}},
	}}
	obs := []compound.Observed{{}}

	_, err := NewBuilder(match.DefaultParams()).Build(preds, obs)
	if !errors.Is(err, domain.ErrMalformedSpectrum) {
		t.Fatalf("expected ErrMalformedSpectrum, got %v", err)
	}

	var malformed *domain.MalformedSpectrumError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedSpectrumError, got %T", err)
	}
	if malformed.Side != "predicted" || malformed.Index != 0 {
		t.Errorf("unexpected error detail: %+v", malformed)
	}
}

func TestBuild_CellsInUnitInterval(t *testing.T) {
	rt1, rt2 := 2.4, 2.5
	lm1, lm2 := 272.0, 280.0
	preds := []compound.Predicted{
		{
			Label:         "O=C(O)c1ccccc1O",
			Spectrum:      spectrum([]float64{137.02, 138.03}, []float64{100, 12}),
			RetentionTime: &rt1,
			LambdaMax:     &lm1,
		},
		{Label: "CO", RetentionTime: &rt2},
	}
	obs := []compound.Observed{
		{
			Spectrum:      spectrum([]float64{137.021, 139.0}, []float64{90, 5}),
			RetentionTime: &rt2,
			LambdaMax:     &lm2,
		},
		{LambdaMax: &lm1},
	}

	m, err := NewBuilder(match.DefaultParams()).WithWorkers(2).Build(preds, obs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < m.Rows(); i++ {
		for j := 0; j < m.Cols(); j++ {
			if v := m.At(i, j); v < 0 || v > 1 {
				t.Errorf("cell (%d,%d) = %g outside [0,1]", i, j, v)
			}
		}
	}
}

func TestBuild_NoMutualChannelScoresZero(t *testing.T) {
	rt := 2.4
	lm := 272.0
	preds := []compound.Predicted{{Label: "CO", RetentionTime: &rt}}
	obs := []compound.Observed{{LambdaMax: &lm}}

	m, err := NewBuilder(match.DefaultParams()).Build(preds, obs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := m.At(0, 0); got != 0.0 {
		t.Errorf("cell without mutual channel = %g, want 0", got)
	}
}

func TestBuild_PerCellRenormalization(t *testing.T) {
	// Row 0 has rt on both sides only: the cell equals the raw Gaussian even
	// though the rt weight is 0.3 — the denominator is per cell, not global.
	rtP, rtO := 3.6, 3.7
	lm := 272.0
	preds := []compound.Predicted{{Label: "CO", RetentionTime: &rtP}}
	obs := []compound.Observed{
		{RetentionTime: &rtO},
		{RetentionTime: &rtO, LambdaMax: &lm},
	}

	params := match.DefaultParams()
	m, err := NewBuilder(params).Build(preds, obs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := Gaussian(&rtP, &rtO, params.RTSigma)
	if math.Abs(m.At(0, 0)-want) > 1e-12 {
		t.Errorf("rt-only cell = %g, want raw Gaussian %g", m.At(0, 0), want)
	}
	// The second observed record adds no lmax evidence for this pair either
	// (predicted side has none), so both cells renormalize to the same value.
	if math.Abs(m.At(0, 1)-want) > 1e-12 {
		t.Errorf("cell with absent lmax on one side = %g, want %g", m.At(0, 1), want)
	}
}

func TestBuild_ZeroWeightChannelContributesNothing(t *testing.T) {
	rt := 2.4
	preds := []compound.Predicted{{Label: "CO", RetentionTime: &rt}}
	obs := []compound.Observed{{RetentionTime: &rt}}

	params := match.DefaultParams()
	params.Weights = match.Weights{match.ChannelRT: 0}

	m, err := NewBuilder(params).Build(preds, obs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := m.At(0, 0); got != 0.0 {
		t.Errorf("all-zero-weight cell = %g, want 0", got)
	}
}

func TestBuild_MatchesSequentialComputation(t *testing.T) {
	// Concurrency must not change results: compare a 1-worker build against
	// a many-worker build on the same inputs.
	var preds []compound.Predicted
	var obs []compound.Observed
	for i := 0; i < 20; i++ {
		rt := 1.0 + float64(i)*0.3
		lm := 220.0 + float64(i*7%80)
		preds = append(preds, compound.Predicted{
			Label:         "P",
			Spectrum:      spectrum([]float64{100 + float64(i)}, []float64{50}),
			RetentionTime: &rt,
			LambdaMax:     &lm,
		})
		rtO := rt + 0.05*float64(i%3)
		obs = append(obs, compound.Observed{
			Spectrum:      spectrum([]float64{100 + float64(i) + 0.002}, []float64{40}),
			RetentionTime: &rtO,
			LambdaMax:     &lm,
		})
	}

	params := match.DefaultParams()
	seq, err := NewBuilder(params).WithWorkers(1).Build(preds, obs)
	if err != nil {
		t.Fatalf("sequential build: %v", err)
	}
	par, err := NewBuilder(params).WithWorkers(8).Build(preds, obs)
	if err != nil {
		t.Fatalf("parallel build: %v", err)
	}

	for i := 0; i < seq.Rows(); i++ {
		for j := 0; j < seq.Cols(); j++ {
			if seq.At(i, j) != par.At(i, j) {
				t.Fatalf("cell (%d,%d) differs: %g vs %g", i, j, seq.At(i, j), par.At(i, j))
			}
		}
	}
}
