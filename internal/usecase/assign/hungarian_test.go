package assign

import (
	"math"
	"testing"

	"github.com/natelgrw/peak-prophet/internal/domain/match"
)

func matrixFrom(rows [][]float64) *match.ScoreMatrix {
	return match.FromRows(rows)
}

func assertInjective(t *testing.T, a match.Assignment) {
	t.Helper()
	preds := map[int]bool{}
	obs := map[int]bool{}
	for _, p := range a {
		if preds[p.Pred] {
			t.Fatalf("predicted index %d assigned twice", p.Pred)
		}
		if obs[p.Obs] {
			t.Fatalf("observed index %d assigned twice", p.Obs)
		}
		preds[p.Pred] = true
		obs[p.Obs] = true
	}
}

func TestHungarian_DiagonalDominant(t *testing.T) {
	// 4x4 with 0.9 on the diagonal and 0.1 elsewhere: the diagonal is the
	// unique optimum, total 3.6.
	rows := make([][]float64, 4)
	for i := range rows {
		rows[i] = make([]float64, 4)
		for j := range rows[i] {
			if i == j {
				rows[i][j] = 0.9
			} else {
				rows[i][j] = 0.1
			}
		}
	}

	a := Hungarian{}.Solve(matrixFrom(rows))
	if len(a) != 4 {
		t.Fatalf("expected 4 pairs, got %d", len(a))
	}
	assertInjective(t, a)
	for _, p := range a {
		if p.Pred != p.Obs {
			t.Errorf("expected diagonal pair, got (%d,%d)", p.Pred, p.Obs)
		}
	}
	if math.Abs(a.Total()-3.6) > 1e-9 {
		t.Errorf("total = %g, want 3.6", a.Total())
	}
}

func TestHungarian_BeatsGreedyOnBlockingMatrix(t *testing.T) {
	// Greedy takes the 0.9 at (0,0) and is then forced into 0.0 for row 1;
	// the optimum pairs the two 0.8 cells instead.
	m := matrixFrom([][]float64{
		{0.9, 0.8},
		{0.8, 0.0},
	})

	exact := Hungarian{}.Solve(m)
	greedy := Greedy{}.Solve(m)

	if exact.Total() <= greedy.Total() {
		t.Fatalf("exact total %g not above greedy total %g", exact.Total(), greedy.Total())
	}
	if math.Abs(exact.Total()-1.6) > 1e-9 {
		t.Errorf("exact total = %g, want 1.6", exact.Total())
	}
}

func TestHungarian_AdversarialTieMatrix(t *testing.T) {
	// A first-seen-maximum greedy can be lured off the diagonal by the tied
	// 0.9s; the exact solver must still find total 2.3.
	m := matrixFrom([][]float64{
		{0.9, 0.85, 0},
		{0.85, 0.9, 0},
		{0, 0, 0.5},
	})

	exact := Hungarian{}.Solve(m)
	greedy := Greedy{}.Solve(m)

	assertInjective(t, exact)
	if math.Abs(exact.Total()-2.3) > 1e-9 {
		t.Errorf("exact total = %g, want 2.3", exact.Total())
	}
	if exact.Total() < greedy.Total() {
		t.Errorf("exact %g below greedy %g", exact.Total(), greedy.Total())
	}
}

func TestHungarian_RectangularWideAndTall(t *testing.T) {
	wide := matrixFrom([][]float64{
		{0.1, 0.9, 0.2, 0.3},
		{0.8, 0.1, 0.1, 0.2},
	})
	a := Hungarian{}.Solve(wide)
	if len(a) != 2 {
		t.Fatalf("wide: expected 2 pairs, got %d", len(a))
	}
	assertInjective(t, a)
	if math.Abs(a.Total()-1.7) > 1e-9 {
		t.Errorf("wide total = %g, want 1.7", a.Total())
	}

	tall := matrixFrom([][]float64{
		{0.1, 0.8},
		{0.9, 0.1},
		{0.2, 0.3},
	})
	a = Hungarian{}.Solve(tall)
	if len(a) != 2 {
		t.Fatalf("tall: expected 2 pairs, got %d", len(a))
	}
	assertInjective(t, a)
	if math.Abs(a.Total()-1.7) > 1e-9 {
		t.Errorf("tall total = %g, want 1.7", a.Total())
	}
}

func TestHungarian_EmptyMatrix(t *testing.T) {
	if a := (Hungarian{}).Solve(match.NewScoreMatrix(0, 5)); len(a) != 0 {
		t.Errorf("0x5 matrix: expected empty assignment, got %d pairs", len(a))
	}
	if a := (Hungarian{}).Solve(match.NewScoreMatrix(3, 0)); len(a) != 0 {
		t.Errorf("3x0 matrix: expected empty assignment, got %d pairs", len(a))
	}
	if a := (Hungarian{}).Solve(nil); len(a) != 0 {
		t.Errorf("nil matrix: expected empty assignment, got %d pairs", len(a))
	}
}

func TestHungarian_AlwaysAtLeastGreedy(t *testing.T) {
	// Deterministic pseudo-random matrices: on every one of them the exact
	// total must dominate the greedy total.
	seed := uint64(0x9e3779b97f4a7c15)
	next := func() float64 {
		seed ^= seed << 13
		seed ^= seed >> 7
		seed ^= seed << 17
		return float64(seed%1000) / 1000.0
	}

	for trial := 0; trial < 25; trial++ {
		rows := 1 + int(seed%7)
		cols := 1 + int((seed>>8)%7)
		m := match.NewScoreMatrix(rows, cols)
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				m.Set(i, j, next())
			}
		}

		exact := Hungarian{}.Solve(m)
		greedy := Greedy{}.Solve(m)
		assertInjective(t, exact)

		if exact.Total()+1e-9 < greedy.Total() {
			t.Fatalf("trial %d (%dx%d): exact %g below greedy %g",
				trial, rows, cols, exact.Total(), greedy.Total())
		}
		if want := min(rows, cols); len(exact) != want {
			t.Fatalf("trial %d: expected %d pairs, got %d", trial, want, len(exact))
		}
	}
}

func TestStrategyMarkers(t *testing.T) {
	if !(Hungarian{}).Optimal() || (Hungarian{}).Name() != StrategyHungarian {
		t.Error("hungarian markers wrong")
	}
	if (Greedy{}).Optimal() || (Greedy{}).Name() != StrategyGreedy {
		t.Error("greedy markers wrong")
	}
}
