package engine

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/typist/internal/lesson"
	"github.com/verte-zerg/typist/internal/model"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestEngine(t *testing.T, opts ...Option) (*Engine, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	base := []Option{WithClock(clock), WithRand(rand.New(rand.NewSource(7)))}
	return New(append(base, opts...)...), clock
}

func startWithSample(t *testing.T, e *Engine, sample string) {
	t.Helper()
	e.Start()
	e.sample = []rune(sample)
}

func TestIdleMetrics(t *testing.T) {
	e, _ := newTestEngine(t)
	assert.Equal(t, Idle, e.State())
	assert.Equal(t, 100.0, e.Accuracy())
	assert.Equal(t, 0.0, e.WPM())
	assert.Equal(t, 0, e.Progress())
	assert.NotEmpty(t, e.SampleText())
}

func TestInputIgnoredWhenIdle(t *testing.T) {
	e, _ := newTestEngine(t)
	e.InputChanged("abc")
	assert.Empty(t, e.Input())
	assert.Equal(t, 0, e.TotalCharacters())
}

func TestScenarioOneWrongCharacter(t *testing.T) {
	e, clock := newTestEngine(t)
	startWithSample(t, e, "the cat sat")
	clock.advance(6 * time.Second)
	e.InputChanged("the cat sag")

	assert.Equal(t, 10, e.CorrectCharacters())
	assert.Equal(t, 11, e.TotalCharacters())
	assert.InDelta(t, 90.909, e.Accuracy(), 0.01)
	assert.InDelta(t, (10.0/5.0)/0.1, e.WPM(), 1e-9)
	assert.True(t, e.Complete())
	assert.Equal(t, ReasonFinished, e.Reason())
}

func TestEmptyInputDefaults(t *testing.T) {
	e, _ := newTestEngine(t)
	startWithSample(t, e, "abc")
	e.InputChanged("")
	assert.Equal(t, 100.0, e.Accuracy())
	assert.Equal(t, 0.0, e.WPM())
	assert.Equal(t, 0, e.Progress())
	assert.True(t, e.Active())
}

func TestWPMZeroWithoutElapsedTime(t *testing.T) {
	e, _ := newTestEngine(t)
	startWithSample(t, e, "abcdef")
	e.InputChanged("abc")
	assert.Equal(t, 0.0, e.WPM())
}

func TestProgressMonotonicAndCapped(t *testing.T) {
	e, clock := newTestEngine(t)
	sample := "hello world"
	startWithSample(t, e, sample)
	last := 0
	for i := 1; i < len(sample); i++ {
		clock.advance(200 * time.Millisecond)
		e.InputChanged(sample[:i])
		require.GreaterOrEqual(t, e.Progress(), last)
		last = e.Progress()
		assert.GreaterOrEqual(t, e.Accuracy(), 0.0)
		assert.LessOrEqual(t, e.Accuracy(), 100.0)
		assert.GreaterOrEqual(t, e.WPM(), 0.0)
	}
	e.InputChanged(sample + "xx")
	assert.Equal(t, 100, e.Progress())
}

func TestOverflowCountsAgainstAccuracy(t *testing.T) {
	e, clock := newTestEngine(t)
	startWithSample(t, e, "ab")
	clock.advance(time.Second)
	e.InputChanged("abcd")
	assert.Equal(t, 2, e.CorrectCharacters())
	assert.Equal(t, 4, e.TotalCharacters())
	assert.Equal(t, 50.0, e.Accuracy())
	assert.True(t, e.Complete())
}

func TestCompletionIgnoresLaterInput(t *testing.T) {
	e, _ := newTestEngine(t)
	startWithSample(t, e, "ab")
	e.InputChanged("ab")
	require.True(t, e.Complete())
	e.InputChanged("a")
	assert.Equal(t, "ab", e.Input())
}

func TestTimeoutCompletesWithPartialInput(t *testing.T) {
	e, clock := newTestEngine(t)
	e.SetDuration(15 * time.Second)
	startWithSample(t, e, "a long sample text that is not finished")
	clock.advance(5 * time.Second)
	e.InputChanged("a lo")
	correct, acc := e.CorrectCharacters(), e.Accuracy()

	var completed []Snapshot
	e.OnComplete(func(s Snapshot) { completed = append(completed, s) })

	clock.advance(11 * time.Second)
	e.Tick()

	assert.True(t, e.Complete())
	assert.Equal(t, ReasonTimeUp, e.Reason())
	assert.Equal(t, 16, e.ElapsedSeconds())
	assert.Equal(t, correct, e.CorrectCharacters())
	assert.Equal(t, acc, e.Accuracy())
	require.Len(t, completed, 1)
	assert.Equal(t, ReasonTimeUp, completed[0].Reason)

	e.Tick()
	assert.Len(t, completed, 1)
}

func TestTickBeforeDurationRecomputes(t *testing.T) {
	e, clock := newTestEngine(t)
	startWithSample(t, e, "abcdefghij")
	clock.advance(30 * time.Second)
	e.InputChanged("abcde")
	wpmAt30 := e.WPM()
	clock.advance(30*time.Second - time.Millisecond)
	e.Tick()
	assert.True(t, e.Active())
	assert.Equal(t, 59, e.ElapsedSeconds())
	assert.Less(t, e.WPM(), wpmAt30)
}

func TestZeroDurationNeverExpires(t *testing.T) {
	e, clock := newTestEngine(t, WithConfig(Config{Duration: 0, Difficulty: model.Easy}))
	e.Start()
	clock.advance(time.Hour)
	e.Tick()
	assert.True(t, e.Active())
}

func TestTickIgnoredWhenIdle(t *testing.T) {
	e, clock := newTestEngine(t)
	clock.advance(time.Minute)
	e.Tick()
	assert.Equal(t, 0, e.ElapsedSeconds())
	assert.Equal(t, Idle, e.State())
}

func TestResetIsIdempotent(t *testing.T) {
	e, clock := newTestEngine(t)
	e.Start()
	clock.advance(3 * time.Second)
	e.InputChanged("xyz")

	e.Reset()
	first := e.Snapshot()
	e.Reset()
	second := e.Snapshot()

	for _, snap := range []Snapshot{first, second} {
		assert.Equal(t, Idle, snap.State)
		assert.Empty(t, snap.Input)
		assert.Equal(t, 0, snap.Correct)
		assert.Equal(t, 0, snap.Total)
		assert.Equal(t, 0.0, snap.WPM)
		assert.Equal(t, 100.0, snap.Accuracy)
		assert.Equal(t, 0, snap.ElapsedSeconds)
		assert.Equal(t, 0, snap.Progress)
	}
}

func TestStandardTextLength(t *testing.T) {
	for _, d := range model.Difficulties {
		e, _ := newTestEngine(t, WithConfig(Config{Difficulty: d, Duration: time.Minute}))
		for i := 0; i < 20; i++ {
			e.Reset()
			text := e.SampleText()
			runes := []rune(text)
			assert.GreaterOrEqual(t, len(runes), 150, "%s: %q", d, text)
			assert.LessOrEqual(t, len(runes), maxStandardLength, "%s: %q", d, text)
			assert.False(t, strings.HasSuffix(text, " "))
		}
	}
}

func TestStandardTextNotTruncatedWithoutSpace(t *testing.T) {
	long := strings.Repeat("x", 300)
	e, _ := newTestEngine(t, WithSentences(model.Medium, []string{long}))
	assert.Equal(t, long, e.SampleText())
}

func TestStandardTextUsesCustomSentences(t *testing.T) {
	e, _ := newTestEngine(t, WithSentences(model.Easy, []string{"go go go.", "  "}),
		WithConfig(Config{Difficulty: model.Easy, Duration: time.Minute}))
	for _, word := range strings.Fields(e.SampleText()) {
		assert.Contains(t, []string{"go", "go."}, word)
	}
}

func TestLessonModeFallsBackForShortDrills(t *testing.T) {
	e, _ := newTestEngine(t)
	e.SetLessonType(lesson.HomeRow)
	e.SetMode(model.Lesson)
	// Level one drills 20 characters, below the 50 character minimum.
	text := e.SampleText()
	assert.LessOrEqual(t, len(text), fallbackLessonLength)
	assert.NotEmpty(t, text)

	e.SetLessonLevel(5)
	text = e.SampleText()
	assert.Equal(t, 60, len(strings.ReplaceAll(text, " ", "")))
	for _, r := range strings.ReplaceAll(text, " ", "") {
		assert.Contains(t, "asdfghjkl;", string(r))
	}
}

func TestSetLessonLevelClamps(t *testing.T) {
	e, _ := newTestEngine(t)
	e.SetLessonLevel(9)
	assert.Equal(t, 5, e.Config().LessonLevel)
	e.SetLessonLevel(-1)
	assert.Equal(t, 1, e.Config().LessonLevel)
}

func TestSettersDoNotRegenerateWhileActive(t *testing.T) {
	e, _ := newTestEngine(t)
	e.Start()
	sample := e.SampleText()
	e.SetDifficulty(model.Hard)
	e.SetMode(model.Lesson)
	e.SetLessonType(lesson.Numbers)
	e.SetLessonLevel(3)
	assert.Equal(t, sample, e.SampleText())
	assert.Equal(t, model.Hard, e.Config().Difficulty)
	assert.Equal(t, model.Lesson, e.Config().Mode)
}

func TestSettersRegenerateWhileIdle(t *testing.T) {
	e, _ := newTestEngine(t)
	var changes int
	e.OnChange(func(Snapshot) { changes++ })
	e.SetMode(model.Lesson)
	e.SetLessonType(lesson.Numbers)
	for _, r := range e.SampleText() {
		assert.Contains(t, "1234567890 ", string(r))
	}
	assert.Equal(t, 2, changes)
}

func TestLessonSettersIgnoredInStandardMode(t *testing.T) {
	e, _ := newTestEngine(t)
	sample := e.SampleText()
	e.SetLessonType(lesson.Programming)
	e.SetLessonLevel(4)
	assert.Equal(t, sample, e.SampleText())
}

func TestChangeNotifications(t *testing.T) {
	e, clock := newTestEngine(t)
	var states []State
	e.OnChange(func(s Snapshot) { states = append(states, s.State) })
	e.Start()
	clock.advance(TickInterval)
	e.Tick()
	e.InputChanged("x")
	e.Reset()
	assert.Equal(t, []State{Active, Active, Active, Idle}, states)
}

func TestResult(t *testing.T) {
	e, clock := newTestEngine(t, WithConfig(Config{Difficulty: model.Hard, Duration: time.Minute}))
	startWithSample(t, e, "abcd")
	clock.advance(12 * time.Second)
	e.InputChanged("abcx")

	res := e.Result("ada")
	assert.Equal(t, "ada", res.User)
	assert.Equal(t, model.Hard, res.Difficulty)
	assert.Equal(t, 3, res.CorrectCharacters)
	assert.Equal(t, 4, res.TotalCharacters)
	assert.Equal(t, 12, res.ElapsedSeconds)
	assert.Equal(t, 75.0, res.Accuracy)
	assert.Equal(t, clock.now, res.CreatedAt)
}
