// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typist/internal/model"
	"github.com/verte-zerg/typist/internal/stats"
	"github.com/verte-zerg/typist/internal/store"
	"github.com/verte-zerg/typist/internal/theme"
)

const (
	tabOverview = iota
	tabHistory
	tabBests
)

const (
	plotHeight = 10
	dateLayout = "2006-01-02"
)

// Model implements the Bubble Tea stats UI.
type Model struct {
	store  *store.Store
	cfg    model.StatsConfig
	styles theme.Styles

	report stats.Report
	errMsg string

	tabs      []string
	activeTab int
	viewports []viewport.Model
	history   table.Model

	width  int
	height int

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string
}

// NewModel constructs a stats UI model for cfg.User.
func NewModel(st *store.Store, cfg model.StatsConfig, styles theme.Styles) *Model {
	m := &Model{
		store:  st,
		cfg:    cfg,
		styles: styles,
		tabs:   []string{"Overview", "History", "Personal Bests"},
	}
	m.initInputs()
	m.initViewports()
	m.history = newHistoryTable(styles)
	m.refreshReport()
	return m
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
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l", "tab":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "=", "+":
			m.cfg.CurveWindow = nextCurveWindow(m.cfg.CurveWindow)
			m.renderTabContents()
			return m, nil
		case "-":
			m.cfg.CurveWindow = prevCurveWindow(m.cfg.CurveWindow)
			m.renderTabContents()
			return m, nil
		case "/":
			return m.startFilter()
		case "r":
			m.refreshReport()
			return m, nil
		case "g", "home":
			if m.activeTab == tabHistory {
				m.history.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabHistory {
				m.history.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			var cmd tea.Cmd
			if m.activeTab == tabHistory {
				m.history, cmd = m.history.Update(msg)
				return m, cmd
			}
			m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fit(m.renderHeader(), m.width, headerHeight)
	body := fit(m.renderBody(), m.width, bodyHeight)
	footer := fit(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) initInputs() {
	m.filterInputs = []textinput.Model{
		newFilterInput("Difficulty: ", "easy, medium, hard"),
		newFilterInput("Since (YYYY-MM-DD): ", ""),
		newFilterInput("Last: ", ""),
		newFilterInput("Curve window: ", ""),
	}
	m.setInputsFromConfig()
}

func newFilterInput(prompt, placeholder string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.Placeholder = placeholder
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) setInputsFromConfig() {
	if m.cfg.Difficulty != nil {
		m.filterInputs[0].SetValue(m.cfg.Difficulty.String())
	} else {
		m.filterInputs[0].SetValue("")
	}
	if m.cfg.Since != nil {
		m.filterInputs[1].SetValue(m.cfg.Since.Format(dateLayout))
	} else {
		m.filterInputs[1].SetValue("")
	}
	if m.cfg.Last > 0 {
		m.filterInputs[2].SetValue(strconv.Itoa(m.cfg.Last))
	} else {
		m.filterInputs[2].SetValue("")
	}
	m.filterInputs[3].SetValue(strconv.Itoa(m.cfg.CurveWindow))
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := max(1, lipgloss.Height(m.styles.ActiveTab.Render("X")))
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if !m.filterMode && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = max(1, m.height-headerHeight-footerHeight)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = bodyHeight
	}
	m.history.SetWidth(m.width)
	m.fitHistoryHeight(bodyHeight)
	for i := range m.filterInputs {
		promptWidth := lipgloss.Width(m.filterInputs[i].Prompt)
		m.filterInputs[i].Width = max(10, m.width-promptWidth-2)
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	next := (m.activeTab + delta + count) % count
	m.activeTab = next
	if m.activeTab == tabHistory {
		m.history.Focus()
	} else {
		m.history.Blur()
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, m.styles.ActiveTab.Render(tab))
		} else {
			parts = append(parts, m.styles.Tab.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	return m.renderTabs() + "\n" + m.renderFilterSummary()
}

func (m *Model) renderFilterSummary() string {
	difficulty := "any"
	if m.cfg.Difficulty != nil {
		difficulty = m.cfg.Difficulty.String()
	}
	since := "any"
	if m.cfg.Since != nil {
		since = m.cfg.Since.Format(dateLayout)
	}
	last := "all"
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	summary := fmt.Sprintf("User: %s  difficulty=%s  since=%s  last=%s  window=%d",
		m.cfg.User, difficulty, since, last, m.cfg.CurveWindow)
	return m.styles.Muted.Render(summary)
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return m.styles.Muted.Render("tab/shift+tab: next field  enter: apply  esc: cancel")
	}
	help := m.styles.Muted.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Window: -/=  Filter: /  Reload: r  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + m.styles.Error.Render(m.errMsg)
	}
	return help
}

func (m *Model) renderFilterForm() string {
	lines := []string{m.styles.Title.Render("Filter (enter to apply, esc to cancel)")}
	for _, input := range m.filterInputs {
		lines = append(lines, input.View())
	}
	if m.filterError != "" {
		lines = append(lines, m.styles.Error.Render(m.filterError))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderBody() string {
	if m.filterMode {
		return m.renderFilterForm()
	}
	if m.activeTab == tabHistory {
		if len(m.report.Results) == 0 {
			return "No results found."
		}
		return m.history.View()
	}
	return m.viewports[m.activeTab].View()
}

func (m *Model) refreshReport() {
	report, err := stats.BuildReport(context.Background(), m.store, m.cfg)
	if err != nil {
		m.errMsg = err.Error()
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to load stats.")
		}
		m.history.SetRows(nil)
		return
	}
	m.errMsg = ""
	m.report = report
	m.history.SetRows(historyRows(report.Results))
	m.history.GotoTop()
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	if m.errMsg != "" {
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabOverview].SetContent(m.renderOverview(width))
	m.viewports[tabBests].SetContent(m.renderBests())
}

func (m *Model) renderOverview(width int) string {
	if len(m.report.Results) == 0 {
		return fmt.Sprintf("No tests recorded for %s.", m.cfg.User)
	}
	cards := m.renderSummaryCards(width) + "\n" + m.styles.Accent.Render(stats.Trend(m.report.Results, stats.TrendLength))
	var buf bytes.Buffer
	if err := stats.RenderCurvesWithSize(&buf, m.report.Results, m.cfg.CurveWindow, width, plotHeight, true); err != nil {
		return cards + "\n\n" + fmt.Sprintf("Failed to render curves: %v", err)
	}
	return strings.TrimRight(cards+"\n\n"+buf.String(), "\n")
}

func (m *Model) renderSummaryCards(width int) string {
	s := m.report.Summary
	cards := []string{
		m.metricCard("Tests", strconv.Itoa(s.Tests)),
		m.metricCard("Avg WPM", fmt.Sprintf("%.1f", s.AverageWPM)),
		m.metricCard("Best WPM", fmt.Sprintf("%.1f", s.BestWPM)),
		m.metricCard("Avg Acc", fmt.Sprintf("%.1f%%", s.AverageAccuracy)),
		m.metricCard("Best Acc", fmt.Sprintf("%.1f%%", s.BestAccuracy)),
		m.metricCard("Time", fmt.Sprintf("%.1f min", float64(s.TotalSeconds)/60)),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[:3]...)
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3:]...)
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func (m *Model) metricCard(label, value string) string {
	content := m.styles.Muted.Render(label) + "\n" + m.styles.Text.Bold(true).Render(value)
	return m.styles.Box.Render(content)
}

func (m *Model) renderBests() string {
	var buf bytes.Buffer
	if err := stats.RenderSummary(&buf, m.cfg.User, m.report.Totals, m.report.Bests); err != nil {
		return fmt.Sprintf("Failed to render personal bests: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

var historyWidths = []int{16, 10, 6, 9, 6, 9}

func newHistoryTable(styles theme.Styles) table.Model {
	columns := make([]table.Column, len(stats.HistoryHeaders))
	for i, h := range stats.HistoryHeaders {
		columns[i] = table.Column{Title: h, Width: historyWidths[i]}
	}
	t := table.New(table.WithColumns(columns), table.WithHeight(1))
	ts := table.DefaultStyles()
	ts.Header = styles.Muted.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		Bold(true).
		PaddingRight(1)
	ts.Cell = styles.Text.PaddingRight(1)
	ts.Selected = styles.Accent.Bold(true)
	t.SetStyles(ts)
	return t
}

// historyRows lists results newest first.
func historyRows(results []model.TestResult) []table.Row {
	formatted := stats.HistoryRows(results)
	rows := make([]table.Row, 0, len(formatted))
	for i := len(formatted) - 1; i >= 0; i-- {
		rows = append(rows, table.Row(formatted[i]))
	}
	return rows
}

// fitHistoryHeight sizes the table so its rendered view fills bodyHeight.
func (m *Model) fitHistoryHeight(bodyHeight int) {
	target := max(1, bodyHeight)
	m.history.SetHeight(target)
	if extra := lipgloss.Height(m.history.View()) - target; extra > 0 {
		m.history.SetHeight(max(1, target-extra))
	}
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterError = ""
	m.setInputsFromConfig()
	return m, m.setFilterIndex(0)
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterError = ""
		return m, nil
	case tea.KeyEnter:
		cfg, err := m.parseFilter()
		if err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.cfg = cfg
		m.filterMode = false
		m.filterError = ""
		m.refreshReport()
		m.updateLayout()
		return m, nil
	case tea.KeyTab, tea.KeyDown:
		return m, m.setFilterIndex(m.filterIndex + 1)
	case tea.KeyShiftTab, tea.KeyUp:
		return m, m.setFilterIndex(m.filterIndex - 1)
	}
	var cmd tea.Cmd
	m.filterInputs[m.filterIndex], cmd = m.filterInputs[m.filterIndex].Update(msg)
	return m, cmd
}

func (m *Model) setFilterIndex(idx int) tea.Cmd {
	count := len(m.filterInputs)
	m.filterIndex = (idx + count) % count
	var cmd tea.Cmd
	for i := range m.filterInputs {
		if i == m.filterIndex {
			cmd = m.filterInputs[i].Focus()
		} else {
			m.filterInputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) parseFilter() (model.StatsConfig, error) {
	cfg := model.StatsConfig{User: m.cfg.User}

	if raw := strings.TrimSpace(m.filterInputs[0].Value()); raw != "" && !strings.EqualFold(raw, "any") {
		d, err := model.ParseDifficulty(raw)
		if err != nil {
			return cfg, fmt.Errorf("invalid difficulty (use easy, medium or hard)")
		}
		cfg.Difficulty = &d
	}

	if raw := strings.TrimSpace(m.filterInputs[1].Value()); raw != "" {
		parsed, err := time.ParseInLocation(dateLayout, raw, time.Local)
		if err != nil {
			return cfg, fmt.Errorf("invalid since date (expected YYYY-MM-DD)")
		}
		cfg.Since = &parsed
	}

	if raw := strings.TrimSpace(m.filterInputs[2].Value()); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return cfg, fmt.Errorf("invalid last value (use 0 or positive integer)")
		}
		cfg.Last = parsed
	}

	if raw := strings.TrimSpace(m.filterInputs[3].Value()); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return cfg, fmt.Errorf("invalid curve window (use integer >= 1)")
		}
		cfg.CurveWindow = parsed
	}
	return cfg, nil
}

func nextCurveWindow(n int) int {
	if n < 5 {
		return 5
	}
	return (n/5 + 1) * 5
}

func prevCurveWindow(n int) int {
	if n <= 5 {
		return 1
	}
	if n%5 == 0 {
		return n - 5
	}
	return (n / 5) * 5
}

// fit pads and clips s to exactly width by height cells.
func fit(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		MaxWidth(width).
		MaxHeight(height).
		Render(s)
}
