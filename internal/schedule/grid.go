package schedule

import "strings"

// Cell is one recognized table cell: its position and its text.
type Cell struct {
	Row  int
	Col  int
	Text string
}

// Grid is a dense, rectangular table of trimmed cell strings.
// Positions not covered by any cell hold "".
type Grid [][]string

// BuildGrid reconstructs a dense grid from sparse cells. The grid is
// (maxRow+1) x (maxCol+1); an empty cell list yields an empty grid.
func BuildGrid(cells []Cell) Grid {
	if len(cells) == 0 {
		return Grid{}
	}

	maxRow, maxCol := 0, 0
	for _, c := range cells {
		if c.Row > maxRow {
			maxRow = c.Row
		}
		if c.Col > maxCol {
			maxCol = c.Col
		}
	}

	g := make(Grid, maxRow+1)
	for r := range g {
		g[r] = make([]string, maxCol+1)
	}
	for _, c := range cells {
		if c.Row < 0 || c.Col < 0 {
			continue
		}
		g[c.Row][c.Col] = strings.TrimSpace(c.Text)
	}
	return g
}

// NewGrid pads ragged rows (as produced by spreadsheet readers) into a dense
// grid, trimming every value.
func NewGrid(rows [][]string) Grid {
	cols := 0
	for _, row := range rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	g := make(Grid, len(rows))
	for r, row := range rows {
		g[r] = make([]string, cols)
		for c, v := range row {
			g[r][c] = strings.TrimSpace(v)
		}
	}
	return g
}

// Rows returns the number of rows.
func (g Grid) Rows() int { return len(g) }

// Cols returns the number of columns.
func (g Grid) Cols() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// At returns the cell text, or "" when (r, c) is out of range.
func (g Grid) At(r, c int) string {
	if r < 0 || r >= len(g) || c < 0 || c >= len(g[r]) {
		return ""
	}
	return g[r][c]
}
