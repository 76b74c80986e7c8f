package parser

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// MinColumns is the narrowest grid the normalizer will produce. The fixed
// template addresses columns up to K, so every row materializes at least
// this many cells even when the sheet's real content is narrower.
const MinColumns = 15

// Cell is one normalized cell value. Absent cells (never written, or
// unreadable) carry OK=false, which is distinct from a written empty string.
type Cell struct {
	Value string
	OK    bool
}

// Grid is a dense, 0-indexed view of one worksheet.
type Grid [][]Cell

// Cell returns the value at (row, col). Out-of-range coordinates and absent
// cells both report ok=false.
func (g Grid) Cell(row, col int) (string, bool) {
	if row < 0 || row >= len(g) {
		return "", false
	}
	if col < 0 || col >= len(g[row]) {
		return "", false
	}
	c := g[row][col]
	return c.Value, c.OK
}

// NormalizeSheet reads one worksheet into a dense grid. excelize flattens
// rich-text cells into their concatenated plain text, so every cell arrives
// as a scalar string; cells excelize could not read stay absent. An empty
// sheet yields an empty grid, not an error.
func NormalizeSheet(f *excelize.File, sheet string) (Grid, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	grid := make(Grid, len(rows))
	for i, row := range rows {
		width := len(row)
		if width < MinColumns {
			width = MinColumns
		}
		cells := make([]Cell, width)
		for j, v := range row {
			if v == "" {
				continue
			}
			cells[j] = Cell{Value: v, OK: true}
		}
		grid[i] = cells
	}
	return grid, nil
}
