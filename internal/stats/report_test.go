package stats

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/typist/internal/model"
	"github.com/verte-zerg/typist/internal/store"
)

func TestBuildReport(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "typist.db")
	st, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	var ids []int64
	for i := 0; i < 3; i++ {
		res := model.TestResult{
			User:              "ana",
			CreatedAt:         time.Unix(0, 0).Add(time.Duration(i) * time.Minute),
			Difficulty:        model.Difficulty(i % 2),
			WPM:               float64(40 + 10*i),
			Accuracy:          90,
			ElapsedSeconds:    30,
			CorrectCharacters: 100,
			TotalCharacters:   110,
		}
		id, err := st.SaveResult(ctx, res)
		if err != nil {
			t.Fatalf("save result: %v", err)
		}
		ids = append(ids, id)
	}

	report, err := BuildReport(ctx, st, model.StatsConfig{User: "ana", Last: 2, CurveWindow: 2})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(report.Results))
	}
	if report.Results[0].ID != ids[1] || report.Results[1].ID != ids[2] {
		t.Fatalf("unexpected result ids: %+v", report.Results)
	}
	if report.Summary.Tests != 2 || report.Summary.BestWPM != 60 {
		t.Fatalf("unexpected summary: %+v", report.Summary)
	}
	if report.Totals.TotalTests != 3 {
		t.Fatalf("expected unfiltered totals over 3 tests, got %d", report.Totals.TotalTests)
	}
	if len(report.Bests) != 2 {
		t.Fatalf("expected bests for 2 difficulties, got %d", len(report.Bests))
	}
	if got := report.Window(1); len(got) != 1 || got[0].ID != ids[2] {
		t.Fatalf("unexpected window: %+v", got)
	}
}
