package assign

import "github.com/natelgrw/peak-prophet/internal/domain/match"

// Greedy is the degraded assignment strategy: it repeatedly takes the single
// largest remaining cell and retires its row and column. It is not optimal in
// general (a large cell can block two slightly smaller ones) and exists only
// as a fallback; results it produces are flagged degraded.
//
// Ties break deterministically on the lowest row index, then the lowest
// column index.
type Greedy struct{}

// Name implements Strategy.
func (Greedy) Name() string { return StrategyGreedy }

// Optimal implements Strategy.
func (Greedy) Optimal() bool { return false }

// Solve implements Strategy.
func (Greedy) Solve(m *match.ScoreMatrix) match.Assignment {
	if m == nil || m.Empty() {
		return match.Assignment{}
	}

	rows, cols := m.Rows(), m.Cols()

	// Eligibility masks, not zeroing: a masked cell must never be re-picked
	// even when its value happens to equal a live zero.
	rowDone := make([]bool, rows)
	colDone := make([]bool, cols)

	out := match.Assignment{}
	for {
		bestI, bestJ := -1, -1
		best := 0.0
		for i := 0; i < rows; i++ {
			if rowDone[i] {
				continue
			}
			for j := 0; j < cols; j++ {
				if colDone[j] {
					continue
				}
				if v := m.At(i, j); v > best {
					best = v
					bestI, bestJ = i, j
				}
			}
		}
		if bestI < 0 {
			break
		}
		rowDone[bestI] = true
		colDone[bestJ] = true
		out = append(out, match.Pair{Pred: bestI, Obs: bestJ, Score: best})
	}

	return out
}
