package statsui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/typist/internal/model"
	"github.com/verte-zerg/typist/internal/store"
	"github.com/verte-zerg/typist/internal/theme"
)

func seededStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "typist.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, d := range []model.Difficulty{model.Easy, model.Medium, model.Medium, model.Hard} {
		_, err := st.SaveResult(context.Background(), model.TestResult{
			User:              "ana",
			CreatedAt:         base.Add(time.Duration(i) * 24 * time.Hour),
			Difficulty:        d,
			WPM:               float64(40 + 10*i),
			Accuracy:          90 + float64(i),
			ElapsedSeconds:    60,
			CorrectCharacters: 200,
			TotalCharacters:   210,
		})
		require.NoError(t, err)
	}
	return st
}

func newTestModel(t *testing.T) *Model {
	t.Helper()
	m := NewModel(seededStore(t), model.StatsConfig{User: "ana", CurveWindow: 1}, theme.NewManager().Current().Styles())
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestOverviewShowsSummary(t *testing.T) {
	m := newTestModel(t)
	require.Empty(t, m.errMsg)
	assert.Len(t, m.report.Results, 4)

	view := m.View()
	assert.Contains(t, view, "Overview")
	assert.Contains(t, view, "Avg WPM")
	assert.Contains(t, view, "55.0")
	assert.Contains(t, view, "Recent WPM: [ -*@] 40.0 -> 70.0 over 4 tests")
	assert.Contains(t, view, "Learning Curves")
}

func TestHistoryTabListsNewestFirst(t *testing.T) {
	m := newTestModel(t)
	m.Update(runes("l"))
	require.Equal(t, tabHistory, m.activeTab)

	rows := m.history.Rows()
	require.Len(t, rows, 4)
	assert.Equal(t, "Hard", rows[0][1])
	assert.Equal(t, "Easy", rows[3][1])
	assert.Contains(t, m.View(), "Difficulty")
}

func TestBestsTab(t *testing.T) {
	m := newTestModel(t)
	m.Update(runes("h"))
	require.Equal(t, tabBests, m.activeTab)

	view := m.View()
	assert.Contains(t, view, "User Statistics: ana")
	assert.Contains(t, view, "Personal Bests")
}

func TestFilterByDifficulty(t *testing.T) {
	m := newTestModel(t)
	m.Update(runes("/"))
	require.True(t, m.filterMode)

	m.Update(runes("medium"))
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m.Update(runes("1"))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.False(t, m.filterMode)
	require.NotNil(t, m.cfg.Difficulty)
	assert.Equal(t, model.Medium, *m.cfg.Difficulty)
	assert.Equal(t, 1, m.cfg.Last)
	require.Len(t, m.report.Results, 1)
	assert.Equal(t, 60.0, m.report.Results[0].WPM)
	assert.Equal(t, 4, m.report.Totals.TotalTests)
	assert.Contains(t, m.View(), "difficulty=medium")
}

func TestFilterRejectsBadInput(t *testing.T) {
	m := newTestModel(t)
	m.Update(runes("/"))
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m.Update(runes("yesterday"))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.True(t, m.filterMode)
	assert.Contains(t, m.filterError, "invalid since date")
	assert.Nil(t, m.cfg.Since)

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.filterMode)
	assert.Empty(t, m.filterError)
}

func TestCurveWindowKeys(t *testing.T) {
	m := newTestModel(t)
	m.Update(runes("="))
	assert.Equal(t, 5, m.cfg.CurveWindow)
	m.Update(runes("="))
	assert.Equal(t, 10, m.cfg.CurveWindow)
	m.Update(runes("-"))
	m.Update(runes("-"))
	assert.Equal(t, 1, m.cfg.CurveWindow)
	assert.True(t, strings.Contains(m.View(), "window=1"))
}

func TestQuitKeys(t *testing.T) {
	m := newTestModel(t)
	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestCurveWindowSteps(t *testing.T) {
	cases := []struct{ in, next, prev int }{
		{0, 5, 1},
		{1, 5, 1},
		{5, 10, 1},
		{7, 10, 5},
		{10, 15, 5},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.next, nextCurveWindow(tc.in), "next(%d)", tc.in)
		assert.Equal(t, tc.prev, prevCurveWindow(tc.in), "prev(%d)", tc.in)
	}
}
