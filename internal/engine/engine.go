// Package engine implements the typing test state machine and its metrics.
package engine

import (
	"math/rand"
	"strings"
	"time"

	"github.com/verte-zerg/typist/internal/lesson"
	"github.com/verte-zerg/typist/internal/model"
)

// TickInterval is how often a host should call Tick while a test is active.
const TickInterval = 100 * time.Millisecond

const (
	charsPerWord = 5.0

	minLessonLength      = 50
	fallbackLessonLength = 100
	minStandardLength    = 200
	maxStandardLength    = 250
)

// State is the lifecycle state of a test attempt.
type State int

// Engine states.
const (
	Idle State = iota
	Active
	Complete
)

func (s State) String() string {
	switch s {
	case Active:
		return "active"
	case Complete:
		return "complete"
	default:
		return "idle"
	}
}

// Reason records why an attempt completed.
type Reason int

// Completion reasons.
const (
	ReasonNone Reason = iota
	ReasonFinished
	ReasonTimeUp
)

// Clock abstracts time so tests can drive the engine deterministically.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// Config holds the settings of a test. It persists across attempts.
type Config struct {
	Difficulty  model.Difficulty
	Duration    time.Duration
	Mode        model.Mode
	LessonType  lesson.Type
	LessonLevel int
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Difficulty:  model.Medium,
		Duration:    60 * time.Second,
		Mode:        model.Standard,
		LessonType:  lesson.HomeRow,
		LessonLevel: model.MinLessonLevel,
	}
}

// Snapshot is a copy of the engine's observable state.
type Snapshot struct {
	State          State
	Reason         Reason
	Config         Config
	SampleText     string
	Input          string
	WPM            float64
	Accuracy       float64
	ElapsedSeconds int
	Progress       int
	Correct        int
	Total          int
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the time source.
func WithClock(c Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithLessons sets the lesson generator used in lesson mode.
func WithLessons(g *lesson.Generator) Option {
	return func(e *Engine) { e.lessons = g }
}

// WithRand sets the random source used to pick sentences.
func WithRand(rnd *rand.Rand) Option {
	return func(e *Engine) { e.rnd = rnd }
}

// WithConfig sets the initial test configuration.
func WithConfig(cfg Config) Option {
	return func(e *Engine) {
		cfg.LessonLevel = model.ClampLevel(cfg.LessonLevel)
		e.cfg = cfg
	}
}

// WithSentences replaces the built-in sentence pool for a difficulty.
// Blank sentences are dropped; an empty result keeps the built-in pool.
func WithSentences(d model.Difficulty, sentences []string) Option {
	return func(e *Engine) {
		kept := make([]string, 0, len(sentences))
		for _, s := range sentences {
			if s = strings.TrimSpace(s); s != "" {
				kept = append(kept, s)
			}
		}
		if len(kept) > 0 {
			e.sentences[d] = kept
		}
	}
}

// Engine owns the sample text, the typed input and the derived metrics of a
// typing test. It is not safe for concurrent use; hosts call it from one
// goroutine (the UI loop).
type Engine struct {
	cfg       Config
	clock     Clock
	lessons   *lesson.Generator
	rnd       *rand.Rand
	sentences map[model.Difficulty][]string

	state     State
	reason    Reason
	sample    []rune
	input     []rune
	startedAt time.Time
	elapsed   time.Duration

	correct  int
	total    int
	wpm      float64
	accuracy float64

	onChange   []func(Snapshot)
	onComplete []func(Snapshot)
}

// New returns an idle engine with a freshly generated sample text.
func New(opts ...Option) *Engine {
	e := &Engine{
		cfg:       DefaultConfig(),
		clock:     SystemClock{},
		sentences: defaultSentences(),
		accuracy:  100,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rnd == nil {
		e.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if e.lessons == nil {
		e.lessons = lesson.NewWithRand(e.rnd)
	}
	e.generateSampleText()
	return e
}

// OnChange registers a callback fired whenever observable state changes.
func (e *Engine) OnChange(fn func(Snapshot)) {
	e.onChange = append(e.onChange, fn)
}

// OnComplete registers a callback fired once per attempt when it completes.
func (e *Engine) OnComplete(fn func(Snapshot)) {
	e.onComplete = append(e.onComplete, fn)
}

// Start begins a new attempt with a new sample text.
func (e *Engine) Start() {
	e.clear()
	e.generateSampleText()
	e.state = Active
	e.startedAt = e.clock.Now()
	e.notify()
}

// Reset abandons any attempt and previews the next sample text.
func (e *Engine) Reset() {
	e.clear()
	e.generateSampleText()
	e.notify()
}

func (e *Engine) clear() {
	e.state = Idle
	e.reason = ReasonNone
	e.input = nil
	e.startedAt = time.Time{}
	e.elapsed = 0
	e.correct = 0
	e.total = 0
	e.wpm = 0
	e.accuracy = 100
}

// InputChanged replaces the typed text. It is ignored unless a test is active.
func (e *Engine) InputChanged(text string) {
	if e.state != Active {
		return
	}
	e.input = []rune(text)
	e.elapsed = e.clock.Now().Sub(e.startedAt)
	e.calculate()
	if len(e.input) >= len(e.sample) {
		e.finish(ReasonFinished)
	}
	e.notify()
}

// Tick refreshes elapsed time from the clock.
func (e *Engine) Tick() {
	e.Advance(e.clock.Now())
}

// Advance refreshes elapsed time as of now and completes the test when the
// configured duration is used up. A non-positive duration never expires.
func (e *Engine) Advance(now time.Time) {
	if e.state != Active {
		return
	}
	e.elapsed = now.Sub(e.startedAt)
	if e.expired() {
		e.finish(ReasonTimeUp)
		e.notify()
		return
	}
	e.calculate()
	e.notify()
}

func (e *Engine) expired() bool {
	limit := int(e.cfg.Duration / time.Second)
	if limit <= 0 {
		return false
	}
	return e.ElapsedSeconds() >= limit
}

func (e *Engine) finish(reason Reason) {
	e.state = Complete
	e.reason = reason
	snap := e.Snapshot()
	for _, fn := range e.onComplete {
		fn(snap)
	}
}

func (e *Engine) calculate() {
	e.total = len(e.input)
	e.correct = 0
	for i := 0; i < len(e.input) && i < len(e.sample); i++ {
		if e.input[i] == e.sample[i] {
			e.correct++
		}
	}
	if e.total > 0 {
		e.accuracy = float64(e.correct) / float64(e.total) * 100
	} else {
		e.accuracy = 100
	}
	minutes := e.elapsed.Minutes()
	if minutes > 0 {
		e.wpm = (float64(e.correct) / charsPerWord) / minutes
	} else {
		e.wpm = 0
	}
	if e.wpm < 0 {
		e.wpm = 0
	}
}

func (e *Engine) notify() {
	if len(e.onChange) == 0 {
		return
	}
	snap := e.Snapshot()
	for _, fn := range e.onChange {
		fn(snap)
	}
}

// SetDifficulty changes the sentence pool. An idle engine regenerates its text.
func (e *Engine) SetDifficulty(d model.Difficulty) {
	e.cfg.Difficulty = d
	e.regenerateIfIdle(true)
}

// SetDuration changes the time limit of the next checks.
func (e *Engine) SetDuration(d time.Duration) {
	e.cfg.Duration = d
}

// SetMode switches between standard and lesson text.
func (e *Engine) SetMode(m model.Mode) {
	e.cfg.Mode = m
	e.regenerateIfIdle(true)
}

// SetLessonType changes the lesson drilled in lesson mode.
func (e *Engine) SetLessonType(t lesson.Type) {
	e.cfg.LessonType = t
	e.regenerateIfIdle(e.cfg.Mode == model.Lesson)
}

// SetLessonLevel changes the lesson level, clamped to 1-5.
func (e *Engine) SetLessonLevel(level int) {
	e.cfg.LessonLevel = model.ClampLevel(level)
	e.regenerateIfIdle(e.cfg.Mode == model.Lesson)
}

func (e *Engine) regenerateIfIdle(relevant bool) {
	if !relevant || e.state != Idle {
		return
	}
	e.generateSampleText()
	e.notify()
}

func (e *Engine) generateSampleText() {
	if e.cfg.Mode == model.Lesson {
		text := e.lessons.ProgressiveLesson(e.cfg.LessonType, e.cfg.LessonLevel)
		if len([]rune(text)) < minLessonLength {
			text = e.lessons.LessonText(e.cfg.LessonType, fallbackLessonLength)
		}
		e.sample = []rune(text)
		return
	}
	e.sample = []rune(e.standardText())
}

func (e *Engine) standardText() string {
	pool := e.sentences[e.cfg.Difficulty]
	if len(pool) == 0 {
		pool = mediumSentences
	}
	var text []rune
	for len(text) < minStandardLength {
		if len(text) > 0 {
			text = append(text, ' ')
		}
		text = append(text, []rune(pool[e.rnd.Intn(len(pool))])...)
	}
	if len(text) > maxStandardLength {
		if cut := lastSpaceAtOrBefore(text, maxStandardLength); cut > 0 {
			text = text[:cut]
		}
	}
	return string(text)
}

func lastSpaceAtOrBefore(text []rune, idx int) int {
	if idx >= len(text) {
		idx = len(text) - 1
	}
	for i := idx; i >= 0; i-- {
		if text[i] == ' ' {
			return i
		}
	}
	return -1
}

// State returns the lifecycle state.
func (e *Engine) State() State { return e.state }

// Active reports whether a test is running.
func (e *Engine) Active() bool { return e.state == Active }

// Complete reports whether the current attempt has completed.
func (e *Engine) Complete() bool { return e.state == Complete }

// Reason returns why the current attempt completed.
func (e *Engine) Reason() Reason { return e.reason }

// Config returns the current configuration.
func (e *Engine) Config() Config { return e.cfg }

// SampleText returns the text to reproduce.
func (e *Engine) SampleText() string { return string(e.sample) }

// Input returns the typed text.
func (e *Engine) Input() string { return string(e.input) }

// WPM returns words per minute counting only correct characters.
func (e *Engine) WPM() float64 { return e.wpm }

// Accuracy returns the percentage of typed characters that are correct.
func (e *Engine) Accuracy() float64 { return e.accuracy }

// CorrectCharacters returns the number of positions matching the sample.
func (e *Engine) CorrectCharacters() int { return e.correct }

// TotalCharacters returns the number of typed characters.
func (e *Engine) TotalCharacters() int { return e.total }

// ElapsedSeconds returns whole seconds since the test started.
func (e *Engine) ElapsedSeconds() int {
	return int(e.elapsed / time.Second)
}

// Progress returns the typed share of the sample as a 0-100 percentage.
func (e *Engine) Progress() int {
	if len(e.sample) == 0 {
		return 0
	}
	progress := len(e.input) * 100 / len(e.sample)
	if progress > 100 {
		return 100
	}
	return progress
}

// Snapshot copies the observable state.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		State:          e.state,
		Reason:         e.reason,
		Config:         e.cfg,
		SampleText:     string(e.sample),
		Input:          string(e.input),
		WPM:            e.wpm,
		Accuracy:       e.accuracy,
		ElapsedSeconds: e.ElapsedSeconds(),
		Progress:       e.Progress(),
		Correct:        e.correct,
		Total:          e.total,
	}
}

// Result builds the record written to the result recorder.
func (e *Engine) Result(user string) model.TestResult {
	return model.TestResult{
		User:              user,
		CreatedAt:         e.clock.Now(),
		Difficulty:        e.cfg.Difficulty,
		WPM:               e.wpm,
		Accuracy:          e.accuracy,
		ElapsedSeconds:    e.ElapsedSeconds(),
		CorrectCharacters: e.correct,
		TotalCharacters:   e.total,
	}
}
