package peakprophet

import (
	"context"
	"errors"
	"testing"

	"github.com/natelgrw/peak-prophet/internal/domain/match"
)

func TestNew_Defaults(t *testing.T) {
	c, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer c.Close()

	if c.params.RTSigma != 0.5 || c.params.LambdaSigma != 15.0 {
		t.Errorf("unexpected default sigmas: %g / %g", c.params.RTSigma, c.params.LambdaSigma)
	}
	if c.params.Tolerance.IsPPM() || c.params.Tolerance.Value() != 0.01 {
		t.Errorf("unexpected default tolerance: %+v", c.params.Tolerance)
	}
	if c.store != nil || c.runs != nil {
		t.Error("persistence must be off by default")
	}
}

func TestNew_OptionOverrides(t *testing.T) {
	c, err := New(
		WithWeights(0.6, 0.4, 0),
		WithTolerancePPM(5),
		WithRTSigma(0.25),
		WithLambdaSigma(10),
		WithWorkers(2),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer c.Close()

	if c.params.Weights[match.ChannelMS] != 0.6 || c.params.Weights[match.ChannelLambdaMax] != 0 {
		t.Errorf("weights not applied: %+v", c.params.Weights)
	}
	if !c.params.Tolerance.IsPPM() || c.params.Tolerance.Value() != 5 {
		t.Errorf("ppm tolerance not applied: %+v", c.params.Tolerance)
	}
	if c.params.RTSigma != 0.25 || c.params.LambdaSigma != 10 {
		t.Errorf("sigmas not applied: %g / %g", c.params.RTSigma, c.params.LambdaSigma)
	}
}

func TestNew_InvalidOptions(t *testing.T) {
	if _, err := New(WithStrategy("simplex")); err == nil {
		t.Error("unknown strategy must fail")
	}
	if _, err := New(WithToleranceDa(0.01), WithTolerancePPM(5)); err == nil {
		t.Error("conflicting tolerances must fail")
	}
	if _, err := New(WithRTSigma(-1)); err == nil {
		t.Error("negative sigma must fail")
	}
	if _, err := New(WithWeights(-0.5, 0.3, 0.2)); err == nil {
		t.Error("negative weight must fail")
	}
}

func TestClientMatch(t *testing.T) {
	c, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer c.Close()

	res, err := c.Match(context.Background(),
		[]Predicted{
			{Label: "CO", RetentionTime: Scalar(2.4)},
			{Label: "O=C(O)c1ccccc1O", RetentionTime: Scalar(3.6)},
		},
		[]Observed{
			{PeakRef: "peak-1", RetentionTime: Scalar(3.65)},
			{PeakRef: "peak-2", RetentionTime: Scalar(2.45)},
		},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.RunID != "" {
		t.Errorf("run ID must be empty without persistence, got %q", res.RunID)
	}
	if len(res.Matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(res.Matches))
	}
	for _, m := range res.Matches {
		if m.PredIndex == m.ObsIndex {
			t.Errorf("expected cross assignment, got (%d,%d)", m.PredIndex, m.ObsIndex)
		}
		if m.Score <= 0.95 {
			t.Errorf("score %g, want > 0.95", m.Score)
		}
	}
	if res.Strategy != "hungarian" || res.Degraded {
		t.Errorf("unexpected strategy/degraded: %q/%v", res.Strategy, res.Degraded)
	}
}

func TestClientMatch_GreedyDegraded(t *testing.T) {
	c, err := New(WithStrategy("greedy"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer c.Close()

	res, err := c.Match(context.Background(),
		[]Predicted{{Label: "CO", RetentionTime: Scalar(1.0)}},
		[]Observed{{RetentionTime: Scalar(1.1)}},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Degraded || res.Strategy != "greedy" {
		t.Errorf("expected degraded greedy result, got %q/%v", res.Strategy, res.Degraded)
	}
}

func TestRunOperations_WithoutPersistence(t *testing.T) {
	c, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer c.Close()

	ctx := context.Background()
	if _, err := c.GetRun(ctx, "x"); !errors.Is(err, ErrNoPersistence) {
		t.Errorf("GetRun: expected ErrNoPersistence, got %v", err)
	}
	if _, err := c.ListRuns(ctx); !errors.Is(err, ErrNoPersistence) {
		t.Errorf("ListRuns: expected ErrNoPersistence, got %v", err)
	}
	if err := c.DeleteRun(ctx, "x"); !errors.Is(err, ErrNoPersistence) {
		t.Errorf("DeleteRun: expected ErrNoPersistence, got %v", err)
	}
}
