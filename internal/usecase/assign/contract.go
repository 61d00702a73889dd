package assign

import (
	"context"
	"fmt"

	"github.com/natelgrw/peak-prophet/internal/domain"
	"github.com/natelgrw/peak-prophet/internal/domain/match"
)

// Strategy solves the one-to-one assignment over a score matrix.
// Implementations must be safe for concurrent use; they hold no state
// between calls.
type Strategy interface {
	// Name identifies the strategy ("hungarian", "greedy").
	Name() string
	// Optimal reports whether the strategy guarantees a maximum-similarity
	// matching. The greedy fallback does not.
	Optimal() bool
	// Solve returns a partial matching of size at most min(rows, cols),
	// injective on both sides. An empty matrix yields an empty assignment.
	Solve(m *match.ScoreMatrix) match.Assignment
}

// RunStore persists completed match results for later inspection.
type RunStore interface {
	Save(ctx context.Context, id string, res *match.Result) error
}

// Strategy names accepted by ForName and the config surface.
const (
	StrategyHungarian = "hungarian"
	StrategyGreedy    = "greedy"
)

// ForName returns the strategy registered under name.
func ForName(name string) (Strategy, error) {
	switch name {
	case StrategyHungarian, "":
		return Hungarian{}, nil
	case StrategyGreedy:
		return Greedy{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownStrategy, name)
	}
}
