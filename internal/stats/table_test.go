package stats

import "testing"

func TestTextTableAlignsColumns(t *testing.T) {
	tbl := textTable{
		headers: []string{"Level", "Accuracy", "Tests"},
		rows: [][]string{
			{"easy", "97.50%", "12"},
			{"medium", "8.00%", "3"},
		},
		right: map[int]bool{1: true, 2: true},
	}

	lines := tbl.lines()
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Level  Accuracy Tests" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "easy     97.50%    12" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "medium    8.00%     3" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestTextTablePadsShortRows(t *testing.T) {
	tbl := textTable{headers: []string{"A", "B"}, rows: [][]string{{"x"}}}
	lines := tbl.lines()
	if lines[1] != "x  " {
		t.Fatalf("unexpected padded row: %q", lines[1])
	}
}
