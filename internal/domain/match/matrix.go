package match

// ScoreMatrix is a dense P×O table of aggregate similarity scores in [0,1].
// Row i is predicted record i, column j is observed record j. A cell is 0
// when no channel was mutually available for that pair.
type ScoreMatrix struct {
	rows, cols int
	cells      []float64 // row-major
}

// NewScoreMatrix allocates a zeroed rows×cols matrix.
func NewScoreMatrix(rows, cols int) *ScoreMatrix {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	return &ScoreMatrix{rows: rows, cols: cols, cells: make([]float64, rows*cols)}
}

// Rows returns the predicted-side dimension.
func (m *ScoreMatrix) Rows() int { return m.rows }

// Cols returns the observed-side dimension.
func (m *ScoreMatrix) Cols() int { return m.cols }

// Empty reports whether either dimension is zero.
func (m *ScoreMatrix) Empty() bool { return m.rows == 0 || m.cols == 0 }

// At returns the cell (i, j).
func (m *ScoreMatrix) At(i, j int) float64 { return m.cells[i*m.cols+j] }

// Set writes the cell (i, j). Distinct cells may be written concurrently.
func (m *ScoreMatrix) Set(i, j int, v float64) { m.cells[i*m.cols+j] = v }

// Row returns a view of row i. The slice aliases the matrix storage.
func (m *ScoreMatrix) Row(i int) []float64 {
	return m.cells[i*m.cols : (i+1)*m.cols]
}

// ToRows copies the matrix into a fresh [][]float64, for serialization.
func (m *ScoreMatrix) ToRows() [][]float64 {
	out := make([][]float64, m.rows)
	for i := range out {
		out[i] = make([]float64, m.cols)
		copy(out[i], m.Row(i))
	}
	return out
}

// FromRows rebuilds a matrix from row data. Ragged input yields a matrix
// truncated/padded per row; callers deserializing trusted data only.
func FromRows(rows [][]float64) *ScoreMatrix {
	r := len(rows)
	c := 0
	if r > 0 {
		c = len(rows[0])
	}
	m := NewScoreMatrix(r, c)
	for i, row := range rows {
		for j := 0; j < c && j < len(row); j++ {
			m.Set(i, j, row[j])
		}
	}
	return m
}
