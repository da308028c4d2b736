package stats

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// textTable lays out rows in space-separated, width-aligned columns.
type textTable struct {
	headers []string
	rows    [][]string
	right   map[int]bool
}

func (t textTable) lines() []string {
	cols := len(t.headers)
	for _, row := range t.rows {
		cols = max(cols, len(row))
	}
	if cols == 0 {
		return nil
	}
	widths := make([]int, cols)
	measure := func(row []string) {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	measure(t.headers)
	for _, row := range t.rows {
		measure(row)
	}

	out := make([]string, 0, len(t.rows)+1)
	if len(t.headers) > 0 {
		out = append(out, t.format(t.headers, widths))
	}
	for _, row := range t.rows {
		out = append(out, t.format(row, widths))
	}
	return out
}

func (t textTable) format(row []string, widths []int) string {
	cells := make([]string, len(widths))
	for i, width := range widths {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		if t.right[i] {
			cells[i] = runewidth.FillLeft(cell, width)
		} else {
			cells[i] = runewidth.FillRight(cell, width)
		}
	}
	return strings.Join(cells, " ")
}
