package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/typist/internal/model"
)

func TestSummarize(t *testing.T) {
	s := Summarize([]model.TestResult{
		{WPM: 40, Accuracy: 90, ElapsedSeconds: 60},
		{WPM: 60, Accuracy: 100, ElapsedSeconds: 30},
	})
	if s.Tests != 2 || s.AverageWPM != 50 || s.BestWPM != 60 {
		t.Fatalf("unexpected wpm summary: %+v", s)
	}
	if s.AverageAccuracy != 95 || s.BestAccuracy != 100 || s.TotalSeconds != 90 {
		t.Fatalf("unexpected accuracy summary: %+v", s)
	}
	if empty := Summarize(nil); empty != (Summary{}) {
		t.Fatalf("expected zero summary, got %+v", empty)
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: expected %v, got %v", i, want[i], got[i])
		}
	}
	same := MovingAverage([]float64{1, 5}, 1)
	if same[0] != 1 || same[1] != 5 {
		t.Fatalf("window 1 should copy values, got %v", same)
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 9}); got != " @" {
		t.Fatalf("unexpected sparkline %q", got)
	}
	if got := Sparkline([]float64{3, 3, 3}); got != "+++" {
		t.Fatalf("unexpected flat sparkline %q", got)
	}
}

func TestTrend(t *testing.T) {
	results := []model.TestResult{{WPM: 10}, {WPM: 30}, {WPM: 40}, {WPM: 50}}
	if got := Trend(results, 3); got != "Recent WPM: [ +@] 30.0 -> 50.0 over 3 tests" {
		t.Fatalf("unexpected trend %q", got)
	}
	if got := Trend(results, 0); !strings.Contains(got, "over 4 tests") {
		t.Fatalf("expected every result without a limit, got %q", got)
	}
	if got := Trend(nil, TrendLength); got != "" {
		t.Fatalf("expected empty trend, got %q", got)
	}

	var buf bytes.Buffer
	if err := RenderTrend(&buf, nil, TrendLength); err != nil || buf.Len() != 0 {
		t.Fatalf("expected no output for no results, got %q (%v)", buf.String(), err)
	}
	if err := RenderTrend(&buf, results, TrendLength); err != nil {
		t.Fatalf("render trend: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "Recent WPM: [") {
		t.Fatalf("unexpected trend output %q", buf.String())
	}
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	us := model.UserStats{
		User: "ana", TotalTests: 4, AverageWPM: 51.3, BestWPM: 70,
		AverageAccuracy: 93.5, BestAccuracy: 99, TotalSeconds: 240,
		LastTestAt: time.Now(),
	}
	bests := []model.TestResult{{Difficulty: model.Hard, WPM: 70, Accuracy: 96, CreatedAt: time.Now()}}
	if err := RenderSummary(&buf, "ana", us, bests); err != nil {
		t.Fatalf("render summary: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Total Tests: 4", "Average WPM: 51.3", "Total Time: 4.0 minutes", "Personal Bests", "Hard"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := RenderSummary(&buf, "nobody", model.UserStats{}, nil); err != nil {
		t.Fatalf("render empty summary: %v", err)
	}
	if !strings.Contains(buf.String(), "No tests recorded for nobody.") {
		t.Fatalf("unexpected empty output %q", buf.String())
	}
}

func TestRenderHistoryTable(t *testing.T) {
	var buf bytes.Buffer
	results := []model.TestResult{{
		CreatedAt: time.Now(), Difficulty: model.Easy, WPM: 33.3, Accuracy: 88,
		ElapsedSeconds: 45, CorrectCharacters: 120, TotalCharacters: 130,
	}}
	if err := RenderHistoryTable(&buf, results); err != nil {
		t.Fatalf("render history: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and one row, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "Date") || !strings.Contains(lines[1], "120/130") {
		t.Fatalf("unexpected table:\n%s", buf.String())
	}
}

func TestRenderCurves(t *testing.T) {
	var buf bytes.Buffer
	results := []model.TestResult{{WPM: 30, Accuracy: 90}, {WPM: 40, Accuracy: 95}, {WPM: 50, Accuracy: 97}}
	if err := RenderCurvesWithSize(&buf, results, 2, 40, 4, false); err != nil {
		t.Fatalf("render curves: %v", err)
	}
	if !strings.Contains(buf.String(), "Learning Curves") {
		t.Fatalf("expected curves title")
	}
	buf.Reset()
	if err := RenderCurves(&buf, nil, 2); err != nil || buf.Len() != 0 {
		t.Fatalf("expected no output for no results, got %q (%v)", buf.String(), err)
	}
}
