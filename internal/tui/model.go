// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typist/internal/engine"
	"github.com/verte-zerg/typist/internal/lesson"
	"github.com/verte-zerg/typist/internal/logging"
	"github.com/verte-zerg/typist/internal/model"
	"github.com/verte-zerg/typist/internal/sound"
	"github.com/verte-zerg/typist/internal/theme"
)

// Durations offered by the duration key, in cycling order.
var Durations = []time.Duration{15 * time.Second, 30 * time.Second, 60 * time.Second, 120 * time.Second}

// achievementAccuracy is the accuracy that earns the achievement sound.
const achievementAccuracy = 95.0

// Countdown cues, in seconds left.
const (
	warningSecondsLeft = 10
	tickSecondsLeft    = 5
)

// Recorder persists finished tests and reports the aggregate shown in the footer.
type Recorder interface {
	SaveResult(ctx context.Context, res model.TestResult) (int64, error)
	UserStats(ctx context.Context, user string) (model.UserStats, error)
}

// Options wires a Model.
type Options struct {
	User     string
	Engine   *engine.Engine
	Recorder Recorder
	Sound    *sound.Player
	Themes   *theme.Manager
	Logger   *slog.Logger
}

type tickMsg struct {
	gen int
}

// Model implements the Bubble Tea typing UI.
type Model struct {
	user     string
	eng      *engine.Engine
	recorder Recorder
	sound    *sound.Player
	themes   *theme.Manager
	styles   theme.Styles
	log      *slog.Logger

	keys     keyMap
	help     help.Model
	bar      progress.Model
	showHelp bool

	width  int
	height int

	input     []rune
	tickGen   int
	lastCue   int
	completed bool
	status    string

	last    model.TestResult
	hasLast bool

	allTests int
	allWPM   float64
	allAcc   float64
}

// NewModel constructs a typing TUI model.
func NewModel(opts Options) *Model {
	m := &Model{
		user:     opts.User,
		eng:      opts.Engine,
		recorder: opts.Recorder,
		sound:    opts.Sound,
		themes:   opts.Themes,
		log:      opts.Logger,
		keys:     defaultKeyMap(),
		help:     help.New(),
	}
	if m.eng == nil {
		m.eng = engine.New()
	}
	if m.themes == nil {
		m.themes = theme.NewManager()
	}
	if m.log == nil {
		m.log = logging.Discard()
	}
	m.applyTheme(m.themes.Current())
	m.eng.OnComplete(func(s engine.Snapshot) {
		m.completed = true
		m.log.Info("test complete",
			"user", m.user,
			"reason", reasonName(s.Reason),
			"wpm", s.WPM,
			"accuracy", s.Accuracy,
			"elapsed", s.ElapsedSeconds,
		)
	})
	m.loadFooterStats()
	return m
}

func reasonName(r engine.Reason) string {
	switch r {
	case engine.ReasonFinished:
		return "finished"
	case engine.ReasonTimeUp:
		return "time-up"
	default:
		return "none"
	}
}

func (m *Model) applyTheme(th theme.Theme) {
	m.styles = th.Styles()
	m.bar = progress.New(progress.WithSolidFill(th.Palette.Accent), progress.WithoutPercentage())
	m.bar.EmptyColor = th.Palette.Border
	m.bar.Width = max(10, m.contentWidth())
	m.help.Styles.ShortKey = m.styles.Accent
	m.help.Styles.FullKey = m.styles.Accent
	m.help.Styles.ShortDesc = m.styles.Muted
	m.help.Styles.FullDesc = m.styles.Muted
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = max(10, m.contentWidth())
		m.help.Width = m.width
		return m, nil
	case tickMsg:
		if msg.gen != m.tickGen || !m.eng.Active() {
			return m, nil
		}
		m.eng.Tick()
		m.countdown()
		m.afterEngine()
		if m.eng.Active() {
			return m, m.tick()
		}
		return m, nil
	case tea.KeyMsg:
		if m.eng.Active() {
			return m.updateActive(msg)
		}
		return m.updateIdle(msg)
	default:
		return m, nil
	}
}

func (m *Model) updateActive(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.reset()
		return m, nil
	case tea.KeyBackspace, tea.KeyDelete:
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
			m.eng.InputChanged(string(m.input))
		}
		return m, nil
	case tea.KeySpace:
		m.typeRunes([]rune{' '})
	case tea.KeyRunes:
		m.typeRunes(msg.Runes)
	}
	m.afterEngine()
	return m, nil
}

func (m *Model) typeRunes(runes []rune) {
	sample := []rune(m.eng.SampleText())
	for _, r := range runes {
		if !m.eng.Active() {
			return
		}
		pos := len(m.input)
		m.input = append(m.input, r)
		if pos < len(sample) {
			m.play(func() (bool, error) { return m.sound.PlayKeystroke(r == sample[pos]) })
		}
		m.eng.InputChanged(string(m.input))
	}
}

func (m *Model) updateIdle(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cfg := m.eng.Config()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Start):
		return m, m.start()
	case key.Matches(msg, m.keys.Back):
		m.reset()
	case key.Matches(msg, m.keys.Difficulty):
		m.eng.SetDifficulty(cfg.Difficulty.Next())
	case key.Matches(msg, m.keys.Duration):
		m.eng.SetDuration(nextDuration(cfg.Duration))
	case key.Matches(msg, m.keys.Mode):
		if cfg.Mode == model.Lesson {
			m.eng.SetMode(model.Standard)
		} else {
			m.eng.SetMode(model.Lesson)
		}
	case key.Matches(msg, m.keys.NextLesson):
		m.eng.SetLessonType(cfg.LessonType.Next())
	case key.Matches(msg, m.keys.PrevLesson):
		m.eng.SetLessonType(cfg.LessonType.Prev())
	case key.Matches(msg, m.keys.LevelUp):
		m.eng.SetLessonLevel(cfg.LessonLevel + 1)
		if m.eng.Config().LessonLevel > cfg.LessonLevel {
			m.play(func() (bool, error) { return m.sound.Play(sound.LevelUp) })
		}
	case key.Matches(msg, m.keys.LevelDown):
		m.eng.SetLessonLevel(cfg.LessonLevel - 1)
	case key.Matches(msg, m.keys.Sound):
		if m.sound != nil {
			m.sound.SetEnabled(!m.sound.Enabled())
		}
	case key.Matches(msg, m.keys.Keystrokes):
		if m.sound != nil && m.sound.Enabled() {
			m.sound.SetKeystrokeEnabled(!m.sound.KeystrokeEnabled())
		}
	case key.Matches(msg, m.keys.Theme):
		m.applyTheme(m.themes.Cycle())
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func nextDuration(current time.Duration) time.Duration {
	for i, d := range Durations {
		if d == current {
			return Durations[(i+1)%len(Durations)]
		}
	}
	return Durations[0]
}

func (m *Model) start() tea.Cmd {
	m.input = nil
	m.completed = false
	m.status = ""
	m.eng.Start()
	m.play(func() (bool, error) { return m.sound.Play(sound.TestStart) })
	m.lastCue = -1
	m.tickGen++
	return m.tick()
}

func (m *Model) tick() tea.Cmd {
	gen := m.tickGen
	return tea.Tick(engine.TickInterval, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

// countdown plays Warning once when ten seconds are left and Tick on each of
// the last five seconds.
func (m *Model) countdown() {
	limit := int(m.eng.Config().Duration / time.Second)
	if limit <= 0 || !m.eng.Active() {
		return
	}
	left := limit - m.eng.ElapsedSeconds()
	if left == m.lastCue {
		return
	}
	m.lastCue = left
	switch {
	case left == warningSecondsLeft:
		m.play(func() (bool, error) { return m.sound.Play(sound.Warning) })
	case left > 0 && left <= tickSecondsLeft:
		m.play(func() (bool, error) { return m.sound.Play(sound.Tick) })
	}
}

func (m *Model) reset() {
	m.input = nil
	m.completed = false
	m.status = ""
	m.tickGen++
	m.eng.Reset()
}

// afterEngine records a completion reported by the engine. The save runs
// inside Update so no new attempt can start before it returns.
func (m *Model) afterEngine() {
	if !m.completed {
		return
	}
	m.completed = false
	res := m.eng.Result(m.user)
	m.recordResult(res)
	if res.Accuracy >= achievementAccuracy {
		m.play(func() (bool, error) { return m.sound.Play(sound.Achievement) })
	} else {
		m.play(func() (bool, error) { return m.sound.Play(sound.TestComplete) })
	}
}

func (m *Model) recordResult(res model.TestResult) {
	m.last = res
	m.hasLast = true
	m.allWPM = (m.allWPM*float64(m.allTests) + res.WPM) / float64(m.allTests+1)
	m.allAcc = (m.allAcc*float64(m.allTests) + res.Accuracy) / float64(m.allTests+1)
	m.allTests++

	if m.recorder == nil {
		return
	}
	id, err := m.recorder.SaveResult(context.Background(), res)
	if err != nil {
		m.log.Error("failed to save result", "user", m.user, "err", err)
		m.status = fmt.Sprintf("failed to save result: %v", err)
		return
	}
	m.last.ID = id
	m.log.Debug("result saved", "id", id, "user", m.user)
}

func (m *Model) play(fn func() (bool, error)) {
	if m.sound == nil {
		return
	}
	if _, err := fn(); err != nil {
		m.log.Warn("sound playback failed", "err", err)
	}
}

func (m *Model) loadFooterStats() {
	if m.recorder == nil || m.user == "" {
		return
	}
	us, err := m.recorder.UserStats(context.Background(), m.user)
	if err != nil {
		m.log.Error("failed to load user stats", "user", m.user, "err", err)
		return
	}
	m.allTests = us.TotalTests
	m.allWPM = us.AverageWPM
	m.allAcc = us.AverageAccuracy
}

func (m *Model) contentWidth() int {
	if m.width <= 0 {
		return 0
	}
	return max(1, int(float64(m.width)*0.70))
}

// View implements tea.Model.
func (m *Model) View() string {
	width := m.contentWidth()
	sections := []string{m.styles.Title.Render("typist") + "  " + m.styles.Muted.Render(m.settingsLine())}
	switch m.eng.State() {
	case engine.Active:
		sections = append(sections, m.liveStats(), m.renderSample(width), m.bar.ViewAs(float64(m.eng.Progress())/100))
	case engine.Complete:
		sections = append(sections, m.renderResult())
	default:
		gl := styleSample([]rune(m.eng.SampleText()), nil, -1, m.styles)
		sections = append(sections, m.styles.Text.Render(m.idlePrompt()), wrapGlyphs(gl, width))
	}
	if m.status != "" {
		sections = append(sections, m.styles.Error.Render(m.status))
	}
	content := strings.Join(sections, "\n\n")
	if width > 0 {
		content = lipgloss.NewStyle().Width(width).Render(content)
	}
	footer := m.renderFooter()
	var helpView string
	if !m.eng.Active() {
		if m.showHelp {
			helpView = m.help.FullHelpView(m.keys.FullHelp())
		} else {
			helpView = m.help.ShortHelpView(m.keys.ShortHelp())
		}
	}
	if m.width == 0 || m.height < 4 {
		return strings.Join([]string{content, footer, helpView}, "\n")
	}
	bottom := lipgloss.JoinVertical(lipgloss.Center, footer, helpView)
	bodyHeight := max(1, m.height-lipgloss.Height(bottom))
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	return body + "\n" + lipgloss.PlaceHorizontal(m.width, lipgloss.Center, bottom)
}

func (m *Model) settingsLine() string {
	cfg := m.eng.Config()
	parts := []string{}
	if cfg.Mode == model.Lesson {
		parts = append(parts, fmt.Sprintf("lesson: %s", lesson.Title(cfg.LessonType)), fmt.Sprintf("level %d", cfg.LessonLevel))
	} else {
		parts = append(parts, fmt.Sprintf("difficulty: %s", cfg.Difficulty))
	}
	parts = append(parts, fmt.Sprintf("%ds", int(cfg.Duration/time.Second)), fmt.Sprintf("theme: %s", m.themes.Current().Kind))
	if m.sound != nil && m.sound.Enabled() {
		label := "sound on"
		if m.sound.KeystrokeEnabled() {
			label += " (keys)"
		}
		parts = append(parts, label)
	} else {
		parts = append(parts, "sound off")
	}
	return strings.Join(parts, " · ")
}

func (m *Model) idlePrompt() string {
	cfg := m.eng.Config()
	if cfg.Mode == model.Lesson {
		return fmt.Sprintf("Ready for %s (Level %d)\n%s\nPress enter to begin...",
			lesson.Title(cfg.LessonType), cfg.LessonLevel, lesson.Description(cfg.LessonType))
	}
	return fmt.Sprintf("Press enter to begin %s difficulty test (%d seconds)...",
		cfg.Difficulty.Title(), int(cfg.Duration/time.Second))
}

func (m *Model) liveStats() string {
	return m.styles.Accent.Render(fmt.Sprintf("WPM: %.0f   Accuracy: %.1f%%   Time: %ds",
		m.eng.WPM(), m.eng.Accuracy(), m.eng.ElapsedSeconds()))
}

func (m *Model) renderSample(width int) string {
	sample := []rune(m.eng.SampleText())
	cursor := -1
	if len(m.input) < len(sample) {
		cursor = len(m.input)
	}
	return wrapGlyphs(styleSample(sample, m.input, cursor, m.styles), width)
}

func (m *Model) renderResult() string {
	title := "Test Complete!"
	if m.eng.Reason() == engine.ReasonTimeUp {
		title = "Time's up!"
	}
	lines := []string{
		m.styles.Success.Render(title),
		fmt.Sprintf("Final WPM: %.1f", m.eng.WPM()),
		fmt.Sprintf("Accuracy: %.1f%%", m.eng.Accuracy()),
		fmt.Sprintf("Time: %ds", m.eng.ElapsedSeconds()),
		m.styles.Muted.Render("enter: new test · esc: back"),
	}
	return m.styles.Box.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderFooter() string {
	segments := []string{fmt.Sprintf("Progress %d%%", m.eng.Progress())}
	if m.hasLast {
		segments = append(segments, fmt.Sprintf("Last %.1f WPM · %.1f%%", m.last.WPM, m.last.Accuracy))
	}
	if m.allTests > 0 {
		segments = append(segments, fmt.Sprintf("All-time %.1f WPM · %.1f%%", m.allWPM, m.allAcc))
	}
	if m.user != "" {
		segments = append(segments, "user "+m.user)
	}
	return m.styles.Muted.Render(strings.Join(segments, "  "))
}
