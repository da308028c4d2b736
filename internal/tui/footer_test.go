package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/verte-zerg/typist/internal/model"
)

func TestRenderFooterFormats(t *testing.T) {
	m := NewModel(Options{User: "ana"})
	m.hasLast = true
	m.last = model.TestResult{WPM: 72.4, Accuracy: 97.8}
	m.allTests = 3
	m.allWPM = 68.1
	m.allAcc = 96.9

	out := m.renderFooter()
	for _, want := range []string{"Progress 0%", "Last 72.4 WPM", "97.8%", "All-time 68.1 WPM", "96.9%", "user ana"} {
		assert.Contains(t, out, want)
	}
}

func TestRenderFooterWithoutHistory(t *testing.T) {
	out := NewModel(Options{}).renderFooter()
	assert.NotContains(t, out, "Last")
	assert.NotContains(t, out, "All-time")
}
