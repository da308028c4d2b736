// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/typist/internal/model"
)

const sparkChars = " .:-=+*#%@"

// TrendLength is the number of latest results drawn by RenderTrend.
const TrendLength = 20

// Summary aggregates a list of results.
type Summary struct {
	Tests           int
	AverageWPM      float64
	BestWPM         float64
	AverageAccuracy float64
	BestAccuracy    float64
	TotalSeconds    int
}

// Summarize computes averages and bests over results.
func Summarize(results []model.TestResult) Summary {
	var s Summary
	if len(results) == 0 {
		return s
	}
	var wpm, acc float64
	for _, r := range results {
		wpm += r.WPM
		acc += r.Accuracy
		s.BestWPM = math.Max(s.BestWPM, r.WPM)
		s.BestAccuracy = math.Max(s.BestAccuracy, r.Accuracy)
		s.TotalSeconds += r.ElapsedSeconds
	}
	s.Tests = len(results)
	s.AverageWPM = wpm / float64(s.Tests)
	s.AverageAccuracy = acc / float64(s.Tests)
	return s
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		n := i + 1
		if i >= window {
			sum -= values[i-window]
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi-lo < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	top := float64(len(sparkChars) - 1)
	for _, v := range values {
		idx := int(math.Round((v - lo) / (hi - lo) * top))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// Trend formats the WPM sparkline of the last n results (all when n is not
// positive), oldest first. It returns "" without results.
func Trend(results []model.TestResult, n int) string {
	if n > 0 && len(results) > n {
		results = results[len(results)-n:]
	}
	if len(results) == 0 {
		return ""
	}
	wpms := make([]float64, len(results))
	for i, r := range results {
		wpms[i] = r.WPM
	}
	return fmt.Sprintf("Recent WPM: [%s] %.1f -> %.1f over %d tests",
		Sparkline(wpms), wpms[0], wpms[len(wpms)-1], len(wpms))
}

// RenderTrend prints the Trend line followed by a blank line.
func RenderTrend(w io.Writer, results []model.TestResult, n int) error {
	line := Trend(results, n)
	if line == "" {
		return nil
	}
	_, err := fmt.Fprintf(w, "%s\n\n", line)
	return err
}

// RenderSummary prints the per-user statistics block and personal bests.
func RenderSummary(w io.Writer, user string, us model.UserStats, bests []model.TestResult) error {
	if us.TotalTests == 0 {
		_, err := fmt.Fprintf(w, "No tests recorded for %s.\n", user)
		return err
	}
	lines := []string{
		fmt.Sprintf("User Statistics: %s", user),
		fmt.Sprintf("Total Tests: %d", us.TotalTests),
		fmt.Sprintf("Average WPM: %.1f", us.AverageWPM),
		fmt.Sprintf("Best WPM: %.1f", us.BestWPM),
		fmt.Sprintf("Average Accuracy: %.1f%%", us.AverageAccuracy),
		fmt.Sprintf("Best Accuracy: %.1f%%", us.BestAccuracy),
		fmt.Sprintf("Total Time: %.1f minutes", float64(us.TotalSeconds)/60),
	}
	if !us.LastTestAt.IsZero() {
		lines = append(lines, fmt.Sprintf("Last Test: %s", us.LastTestAt.Local().Format(time.DateTime)))
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if len(bests) > 0 {
		if _, err := fmt.Fprintln(w, "\nPersonal Bests"); err != nil {
			return err
		}
		for _, line := range bestsTable(bests).lines() {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

func bestsTable(bests []model.TestResult) textTable {
	rows := make([][]string, 0, len(bests))
	for _, b := range bests {
		rows = append(rows, []string{
			b.Difficulty.Title(),
			fmt.Sprintf("%.1f", b.WPM),
			fmt.Sprintf("%.1f%%", b.Accuracy),
			b.CreatedAt.Local().Format(time.DateOnly),
		})
	}
	return textTable{
		headers: []string{"Difficulty", "WPM", "Accuracy", "Date"},
		rows:    rows,
		right:   map[int]bool{1: true, 2: true},
	}
}

// HistoryRows formats results as table rows: date, difficulty, WPM,
// accuracy, time and characters.
func HistoryRows(results []model.TestResult) [][]string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			r.Difficulty.Title(),
			fmt.Sprintf("%.1f", r.WPM),
			fmt.Sprintf("%.1f%%", r.Accuracy),
			fmt.Sprintf("%ds", r.ElapsedSeconds),
			fmt.Sprintf("%d/%d", r.CorrectCharacters, r.TotalCharacters),
		})
	}
	return rows
}

// HistoryHeaders names the HistoryRows columns.
var HistoryHeaders = []string{"Date", "Difficulty", "WPM", "Accuracy", "Time", "Chars"}

// RenderHistoryTable prints results as an aligned table.
func RenderHistoryTable(w io.Writer, results []model.TestResult) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "No results found.")
		return err
	}
	t := textTable{
		headers: HistoryHeaders,
		rows:    HistoryRows(results),
		right:   map[int]bool{2: true, 3: true, 4: true, 5: true},
	}
	for _, line := range t.lines() {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCurves prints WPM and accuracy learning curves, oldest result first.
func RenderCurves(w io.Writer, results []model.TestResult, window int) error {
	return RenderCurvesWithSize(w, results, window, 0, defaultPlotHeight, false)
}

// RenderCurvesWithSize prints learning curves sized to totalWidth columns.
func RenderCurvesWithSize(w io.Writer, results []model.TestResult, window, totalWidth, height int, forceColor bool) error {
	if len(results) == 0 {
		return nil
	}
	wpms := make([]float64, len(results))
	accs := make([]float64, len(results))
	for i, r := range results {
		wpms[i] = r.WPM
		accs[i] = r.Accuracy
	}
	opts := PlotOptions{Height: height, ForceColor: forceColor}
	if totalWidth > 0 {
		opts.Width = PlotWidthFor(totalWidth)
	}
	return Plot(w, "Learning Curves", []Series{
		{Name: "WPM", Values: MovingAverage(wpms, window)},
		{Name: "Accuracy", Values: MovingAverage(accs, window), Fixed: true, Min: 0, Max: 100},
	}, opts)
}
