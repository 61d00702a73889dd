package assign

import (
	"time"

	"github.com/natelgrw/peak-prophet/internal/domain/compound"
	"github.com/natelgrw/peak-prophet/internal/domain/match"
	"github.com/natelgrw/peak-prophet/internal/metrics"
	"github.com/natelgrw/peak-prophet/internal/usecase/scoring"
)

// Service runs the full matching pipeline: score matrix, assignment, result
// assembly. It is stateless across calls; parameters arrive per invocation.
type Service struct {
	strategy Strategy
	workers  int
}

// New creates a matching service with the given assignment strategy.
func New(strategy Strategy) *Service {
	return &Service{strategy: strategy}
}

// WithWorkers overrides matrix-build parallelism. n <= 0 keeps the default.
func (s *Service) WithWorkers(n int) *Service {
	s.workers = n
	return s
}

// Strategy returns the configured assignment strategy.
func (s *Service) Strategy() Strategy { return s.strategy }

// Match scores every (predicted, observed) pair, solves the assignment, and
// joins matched indices back to their records. Empty inputs yield an empty,
// valid result. Configuration and structural errors abort before any cell is
// scored.
func (s *Service) Match(
	preds []compound.Predicted, obs []compound.Observed, params match.Params,
) (*match.Result, error) {
	builder := scoring.NewBuilder(params)
	if s.workers > 0 {
		builder = builder.WithWorkers(s.workers)
	}

	buildStart := time.Now()
	matrix, err := builder.Build(preds, obs)
	if err != nil {
		metrics.MatchRequestsTotal.WithLabelValues(s.strategy.Name(), "error").Inc()
		return nil, err
	}
	metrics.MatrixBuildDuration.Observe(time.Since(buildStart).Seconds())
	metrics.MatrixCells.Observe(float64(matrix.Rows() * matrix.Cols()))

	solveStart := time.Now()
	assignment := s.strategy.Solve(matrix)
	metrics.SolveDuration.WithLabelValues(s.strategy.Name()).Observe(time.Since(solveStart).Seconds())

	degraded := !s.strategy.Optimal()
	if degraded {
		metrics.DegradedSolvesTotal.Inc()
	}
	metrics.MatchRequestsTotal.WithLabelValues(s.strategy.Name(), "ok").Inc()

	return assemble(matrix, assignment, preds, obs, s.strategy.Name(), degraded), nil
}

// assemble joins the assignment back to the source records and collects the
// unmatched leftovers on both sides.
func assemble(
	matrix *match.ScoreMatrix, assignment match.Assignment,
	preds []compound.Predicted, obs []compound.Observed,
	strategy string, degraded bool,
) *match.Result {
	predTaken := make([]bool, len(preds))
	obsTaken := make([]bool, len(obs))

	matches := make([]match.MatchedRecord, 0, len(assignment))
	for _, p := range assignment {
		predTaken[p.Pred] = true
		obsTaken[p.Obs] = true
		matches = append(matches, match.MatchedRecord{
			Pair:      p,
			Predicted: preds[p.Pred],
			Observed:  obs[p.Obs],
		})
	}

	// Records on the larger side with no partner are not an error: they mean
	// no corresponding partner was identified.
	var unmatchedPreds, unmatchedObs []int
	for i, taken := range predTaken {
		if !taken {
			unmatchedPreds = append(unmatchedPreds, i)
		}
	}
	for j, taken := range obsTaken {
		if !taken {
			unmatchedObs = append(unmatchedObs, j)
		}
	}

	return &match.Result{
		Matrix:         matrix,
		Matches:        matches,
		Predicted:      preds,
		Observed:       obs,
		UnmatchedPreds: unmatchedPreds,
		UnmatchedObs:   unmatchedObs,
		Total:          assignment.Total(),
		Strategy:       strategy,
		Degraded:       degraded,
		CreatedAt:      time.Now().UTC(),
	}
}
