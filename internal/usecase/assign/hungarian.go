// Package assign solves the optimal one-to-one correspondence between
// predicted and observed records over an aggregate score matrix.
package assign

import (
	"math"
	"sort"

	"github.com/natelgrw/peak-prophet/internal/domain/match"
)

// Hungarian is the exact assignment strategy. It converts similarities to
// costs (cost = 1 - score) and runs the Kuhn–Munkres algorithm with row and
// column potentials, yielding a matching of size min(rows, cols) that
// maximizes total similarity in O(n^3).
type Hungarian struct{}

// Name implements Strategy.
func (Hungarian) Name() string { return StrategyHungarian }

// Optimal implements Strategy.
func (Hungarian) Optimal() bool { return true }

// Solve implements Strategy.
func (Hungarian) Solve(m *match.ScoreMatrix) match.Assignment {
	if m == nil || m.Empty() {
		return match.Assignment{}
	}

	rows, cols := m.Rows(), m.Cols()

	// The potential method below wants rows <= cols; transpose otherwise.
	transposed := rows > cols
	n, w := rows, cols
	if transposed {
		n, w = cols, rows
	}
	cost := func(i, j int) float64 {
		if transposed {
			return 1.0 - m.At(j, i)
		}
		return 1.0 - m.At(i, j)
	}

	rowOf := minCostMatching(n, w, cost)

	out := make(match.Assignment, 0, n)
	for j, i := range rowOf {
		if i == 0 {
			continue
		}
		pi, oj := i-1, j
		if transposed {
			pi, oj = oj, pi
		}
		out = append(out, match.Pair{Pred: pi, Obs: oj, Score: m.At(pi, oj)})
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Pred < out[b].Pred })
	return out
}

// minCostMatching computes a minimum-cost perfect matching of the n rows into
// the w columns (n <= w) via shortest augmenting paths over the reduced cost
// graph. The returned slice maps column j (0-based) to its matched row
// (1-based), 0 when the column is free.
func minCostMatching(n, w int, cost func(i, j int) float64) []int {
	u := make([]float64, n+1) // row potentials
	v := make([]float64, w+1) // column potentials
	rowOf := make([]int, w+1)
	way := make([]int, w+1)

	for i := 1; i <= n; i++ {
		rowOf[0] = i
		j0 := 0
		minv := make([]float64, w+1)
		used := make([]bool, w+1)
		for j := range minv {
			minv[j] = math.Inf(1)
		}

		for {
			used[j0] = true
			i0 := rowOf[j0]
			delta := math.Inf(1)
			j1 := 0
			for j := 1; j <= w; j++ {
				if used[j] {
					continue
				}
				cur := cost(i0-1, j-1) - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			for j := 0; j <= w; j++ {
				if used[j] {
					u[rowOf[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if rowOf[j0] == 0 {
				break
			}
		}

		// Walk the augmenting path back, flipping matched edges.
		for j0 != 0 {
			j1 := way[j0]
			rowOf[j0] = rowOf[j1]
			j0 = j1
		}
	}

	return rowOf[1:]
}
