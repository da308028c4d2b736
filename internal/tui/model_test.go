package tui

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/typist/internal/engine"
	"github.com/verte-zerg/typist/internal/model"
	"github.com/verte-zerg/typist/internal/sound"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

type fakeRecorder struct {
	saved []model.TestResult
	err   error
	stats model.UserStats
}

func (r *fakeRecorder) SaveResult(_ context.Context, res model.TestResult) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	r.saved = append(r.saved, res)
	return int64(len(r.saved)), nil
}

func (r *fakeRecorder) UserStats(context.Context, string) (model.UserStats, error) {
	return r.stats, nil
}

type fakeSink struct{ played []sound.Type }

func (s *fakeSink) Play(t sound.Type, _ []sound.Beep, _ float64) error {
	s.played = append(s.played, t)
	return nil
}

var sampleText = strings.Repeat("a", 200)

type harness struct {
	m     *Model
	clock *fakeClock
	rec   *fakeRecorder
	sink  *fakeSink
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	eng := engine.New(
		engine.WithClock(clock),
		engine.WithRand(rand.New(rand.NewSource(1))),
		engine.WithSentences(model.Medium, []string{sampleText}),
	)
	rec := &fakeRecorder{stats: model.UserStats{TotalTests: 1, AverageWPM: 40, AverageAccuracy: 90}}
	sink := &fakeSink{}
	m := NewModel(Options{User: "ana", Engine: eng, Recorder: rec, Sound: sound.NewPlayer(sink)})
	return &harness{m: m, clock: clock, rec: rec, sink: sink}
}

func (h *harness) send(msg tea.Msg) tea.Cmd {
	_, cmd := h.m.Update(msg)
	return cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestEnterStartsTest(t *testing.T) {
	h := newHarness(t)
	cmd := h.send(tea.KeyMsg{Type: tea.KeyEnter})
	assert.NotNil(t, cmd, "expected tick command")
	assert.True(t, h.m.eng.Active())
	assert.Equal(t, []sound.Type{sound.TestStart}, h.sink.played)
	assert.Equal(t, sampleText, h.m.eng.SampleText())
}

func TestTypingToEndSavesOnce(t *testing.T) {
	h := newHarness(t)
	h.send(tea.KeyMsg{Type: tea.KeyEnter})
	h.clock.now = h.clock.now.Add(30 * time.Second)
	h.send(runes(sampleText[:199]))
	require.True(t, h.m.eng.Active())
	h.send(runes("ab"))

	require.True(t, h.m.eng.Complete())
	require.Len(t, h.rec.saved, 1)
	res := h.rec.saved[0]
	assert.Equal(t, "ana", res.User)
	assert.Equal(t, 200, res.CorrectCharacters)
	assert.Equal(t, 100.0, res.Accuracy)
	assert.Equal(t, 30, res.ElapsedSeconds)
	assert.Equal(t, sound.Achievement, h.sink.played[len(h.sink.played)-1])

	assert.True(t, h.m.hasLast)
	assert.Equal(t, int64(1), h.m.last.ID)
	assert.Equal(t, 2, h.m.allTests)
	assert.InDelta(t, 95.0, h.m.allAcc, 1e-9)

	h.send(runes("a"))
	assert.Len(t, h.rec.saved, 1)
}

func TestLowAccuracyPlaysComplete(t *testing.T) {
	h := newHarness(t)
	h.send(tea.KeyMsg{Type: tea.KeyEnter})
	h.clock.now = h.clock.now.Add(10 * time.Second)
	h.send(runes(strings.Repeat("b", 200)))
	require.True(t, h.m.eng.Complete())
	assert.Equal(t, sound.TestComplete, h.sink.played[len(h.sink.played)-1])
}

func TestCommandKeysAreTypedWhileActive(t *testing.T) {
	h := newHarness(t)
	h.send(tea.KeyMsg{Type: tea.KeyEnter})
	cmd := h.send(runes("q"))
	assert.Nil(t, cmd)
	assert.Equal(t, "q", h.m.eng.Input())

	h.send(tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, "", h.m.eng.Input())

	h.send(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, engine.Idle, h.m.eng.State())
}

func TestTimeoutViaTick(t *testing.T) {
	h := newHarness(t)
	h.send(runes("t")) // 60s -> 120s
	h.send(runes("t")) // 120s -> 15s
	require.Equal(t, 15*time.Second, h.m.eng.Config().Duration)
	h.send(tea.KeyMsg{Type: tea.KeyEnter})
	h.send(runes("aaa"))

	h.clock.now = h.clock.now.Add(16 * time.Second)
	cmd := h.send(tickMsg{gen: h.m.tickGen})
	assert.Nil(t, cmd)
	require.True(t, h.m.eng.Complete())
	assert.Equal(t, engine.ReasonTimeUp, h.m.eng.Reason())
	require.Len(t, h.rec.saved, 1)
	assert.Equal(t, 3, h.rec.saved[0].CorrectCharacters)
	assert.Contains(t, h.m.View(), "Time's up!")
}

func TestStaleTickIgnored(t *testing.T) {
	h := newHarness(t)
	h.send(tea.KeyMsg{Type: tea.KeyEnter})
	stale := h.m.tickGen
	h.send(tea.KeyMsg{Type: tea.KeyEsc})
	h.send(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, h.send(tickMsg{gen: stale}))
	assert.NotNil(t, h.send(tickMsg{gen: h.m.tickGen}))
}

func TestSaveFailureKeepsResult(t *testing.T) {
	h := newHarness(t)
	h.rec.err = errors.New("disk full")
	h.send(tea.KeyMsg{Type: tea.KeyEnter})
	h.clock.now = h.clock.now.Add(time.Minute - time.Second)
	h.send(runes(sampleText))

	require.True(t, h.m.eng.Complete())
	assert.True(t, h.m.hasLast)
	assert.Contains(t, h.m.status, "disk full")
	assert.Contains(t, h.m.View(), "failed to save result")

	h.send(tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, h.m.eng.Active())
	assert.Empty(t, h.m.status)
}

func TestIdleSettingKeys(t *testing.T) {
	h := newHarness(t)
	h.send(runes("d"))
	assert.Equal(t, model.Hard, h.m.eng.Config().Difficulty)

	h.send(runes("m"))
	assert.Equal(t, model.Lesson, h.m.eng.Config().Mode)
	assert.Contains(t, h.m.View(), "Ready for Home Row Keys (Level 1)")

	h.send(runes("+"))
	assert.Equal(t, 2, h.m.eng.Config().LessonLevel)
	assert.Equal(t, sound.LevelUp, h.sink.played[len(h.sink.played)-1])

	h.send(runes("-"))
	h.send(runes("-"))
	assert.Equal(t, 1, h.m.eng.Config().LessonLevel)

	h.send(runes("l"))
	assert.NotEqual(t, 0, int(h.m.eng.Config().LessonType))
	h.send(runes("L"))
	assert.Equal(t, 0, int(h.m.eng.Config().LessonType))

	h.send(runes("k"))
	assert.True(t, h.m.sound.KeystrokeEnabled())
	h.send(runes("s"))
	assert.False(t, h.m.sound.Enabled())
	assert.False(t, h.m.sound.KeystrokeEnabled())

	before := h.m.themes.Current().Kind
	h.send(runes("c"))
	assert.NotEqual(t, before, h.m.themes.Current().Kind)

	h.send(runes("?"))
	assert.True(t, h.m.showHelp)
}

func TestKeystrokeSounds(t *testing.T) {
	h := newHarness(t)
	h.m.sound.SetKeystrokeEnabled(true)
	h.send(tea.KeyMsg{Type: tea.KeyEnter})
	h.send(runes("ab"))
	assert.Equal(t, []sound.Type{sound.TestStart, sound.KeystrokeCorrect, sound.KeystrokeIncorrect}, h.sink.played)
}

func TestQuitFromIdle(t *testing.T) {
	h := newHarness(t)
	cmd := h.send(runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestCountdownCues(t *testing.T) {
	h := newHarness(t)
	h.send(runes("t")) // 60s -> 120s
	h.send(runes("t")) // 120s -> 15s
	h.send(tea.KeyMsg{Type: tea.KeyEnter})

	step := func(at time.Duration) {
		h.clock.now = h.clock.now.Add(at)
		h.send(tickMsg{gen: h.m.tickGen})
	}
	step(5 * time.Second) // 10 left
	step(100 * time.Millisecond)
	step(4900 * time.Millisecond) // 5 left
	step(time.Second)             // 4 left

	assert.Equal(t, []sound.Type{sound.TestStart, sound.Warning, sound.Tick, sound.Tick}, h.sink.played)
}
