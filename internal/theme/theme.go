// Package theme resolves color palettes into lipgloss styles.
package theme

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Kind names a palette.
type Kind int

// Palettes, in cycling order.
const (
	Light Kind = iota
	Dark
	HighContrast
	Custom
)

var kindNames = map[Kind]string{
	Light:        "light",
	Dark:         "dark",
	HighContrast: "high-contrast",
	Custom:       "custom",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("theme(%d)", int(k))
}

// ErrUnknownKind is returned by ParseKind for unrecognized names.
var ErrUnknownKind = errors.New("unknown theme")

// ParseKind converts a theme name such as "dark" into a Kind.
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return Dark, nil
	}
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return Dark, fmt.Errorf("%w %q", ErrUnknownKind, name)
}

// Palette holds the hex colors of a theme.
type Palette struct {
	Foreground string
	Accent     string
	Correct    string
	Incorrect  string
	Current    string
	Remaining  string
	Border     string
	Success    string
	Warning    string
	Error      string
}

var palettes = map[Kind]Palette{
	Light: {
		Foreground: "#212529",
		Accent:     "#007bff",
		Correct:    "#28a745",
		Incorrect:  "#dc3545",
		Current:    "#17a2b8",
		Remaining:  "#6c757d",
		Border:     "#ced4da",
		Success:    "#28a745",
		Warning:    "#ffc107",
		Error:      "#dc3545",
	},
	Dark: {
		Foreground: "#f8f9fa",
		Accent:     "#007bff",
		Correct:    "#28a745",
		Incorrect:  "#dc3545",
		Current:    "#17a2b8",
		Remaining:  "#6c757d",
		Border:     "#495057",
		Success:    "#28a745",
		Warning:    "#ffc107",
		Error:      "#dc3545",
	},
	HighContrast: {
		Foreground: "#ffffff",
		Accent:     "#ffff00",
		Correct:    "#00ff00",
		Incorrect:  "#ff0000",
		Current:    "#00ffff",
		Remaining:  "#c0c0c0",
		Border:     "#ffffff",
		Success:    "#00ff00",
		Warning:    "#ffff00",
		Error:      "#ff0000",
	},
}

// Theme is a resolved palette.
type Theme struct {
	Kind         Kind
	HighContrast bool
	Palette      Palette
}

// Manager tracks the selected theme and the custom palette.
type Manager struct {
	current   Theme
	custom    Palette
	hasCustom bool
}

// NewManager returns a manager showing the dark theme.
func NewManager() *Manager {
	m := &Manager{}
	m.Apply(Dark, false)
	return m
}

// Current returns the selected theme.
func (m *Manager) Current() Theme {
	return m.current
}

// Apply selects a palette. With highContrast set, palettes other than
// HighContrast get darker correct text, lighter incorrect text and a darker
// border. Custom without a stored palette falls back to Dark.
func (m *Manager) Apply(kind Kind, highContrast bool) Theme {
	var p Palette
	switch {
	case kind == Custom && m.hasCustom:
		p = m.custom
	case kind == Custom:
		kind = Dark
		p = palettes[Dark]
	default:
		var ok bool
		if p, ok = palettes[kind]; !ok {
			kind = Dark
			p = palettes[Dark]
		}
	}
	if highContrast && kind != HighContrast {
		p.Correct = darker(p.Correct, 1.5)
		p.Incorrect = lighter(p.Incorrect, 1.5)
		p.Border = darker(p.Border, 2)
	}
	m.current = Theme{Kind: kind, HighContrast: highContrast, Palette: p}
	return m.current
}

// SetCustom validates p, stores it and selects it. Empty colors are taken
// from the dark palette.
func (m *Manager) SetCustom(p Palette) (Theme, error) {
	base := palettes[Dark]
	fields := []struct {
		name string
		dst  *string
		def  string
	}{
		{"foreground", &p.Foreground, base.Foreground},
		{"accent", &p.Accent, base.Accent},
		{"correct", &p.Correct, base.Correct},
		{"incorrect", &p.Incorrect, base.Incorrect},
		{"current", &p.Current, base.Current},
		{"remaining", &p.Remaining, base.Remaining},
		{"border", &p.Border, base.Border},
		{"success", &p.Success, base.Success},
		{"warning", &p.Warning, base.Warning},
		{"error", &p.Error, base.Error},
	}
	for _, f := range fields {
		if strings.TrimSpace(*f.dst) == "" {
			*f.dst = f.def
			continue
		}
		c, err := colorful.Hex(strings.TrimSpace(*f.dst))
		if err != nil {
			return m.current, fmt.Errorf("invalid %s color %q: %w", f.name, *f.dst, err)
		}
		*f.dst = c.Hex()
	}
	m.custom = p
	m.hasCustom = true
	return m.Apply(Custom, m.current.HighContrast), nil
}

// Cycle selects the next palette, skipping Custom when none is stored.
func (m *Manager) Cycle() Theme {
	next := m.current.Kind + 1
	if next > Custom || (next == Custom && !m.hasCustom) {
		next = Light
	}
	return m.Apply(next, m.current.HighContrast)
}

// darker divides the HSV value by factor.
func darker(hex string, factor float64) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	h, s, v := c.Hsv()
	return colorful.Hsv(h, s, v/factor).Clamped().Hex()
}

// lighter multiplies the HSV value by factor. Value beyond full brightness
// is taken out of the saturation instead.
func lighter(hex string, factor float64) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	h, s, v := c.Hsv()
	v *= factor
	if v > 1 {
		s = max(0, s-(v-1))
		v = 1
	}
	return colorful.Hsv(h, s, v).Clamped().Hex()
}

// Styles are the lipgloss styles derived from a theme.
type Styles struct {
	Text      lipgloss.Style
	Accent    lipgloss.Style
	Title     lipgloss.Style
	Correct   lipgloss.Style
	Incorrect lipgloss.Style
	Current   lipgloss.Style
	Remaining lipgloss.Style
	Muted     lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Box       lipgloss.Style
	ActiveTab lipgloss.Style
	Tab       lipgloss.Style
}

// Styles builds the lipgloss styles for the theme.
func (t Theme) Styles() Styles {
	p := t.Palette
	color := func(hex string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
	}
	tab := lipgloss.NewStyle().
		Padding(0, 1).
		Border(lipgloss.RoundedBorder(), true)
	return Styles{
		Text:      color(p.Foreground),
		Accent:    color(p.Accent),
		Title:     color(p.Accent).Bold(true),
		Correct:   color(p.Correct),
		Incorrect: color(p.Incorrect).Underline(true),
		Current:   color(p.Current).Underline(true),
		Remaining: color(p.Remaining),
		Muted:     color(p.Remaining),
		Success:   color(p.Success).Bold(true),
		Warning:   color(p.Warning),
		Error:     color(p.Error),
		Box: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color(p.Border)),
		ActiveTab: tab.
			Foreground(lipgloss.Color(p.Foreground)).
			Bold(true).
			BorderForeground(lipgloss.Color(p.Accent)),
		Tab: tab.
			Foreground(lipgloss.Color(p.Remaining)).
			BorderForeground(lipgloss.Color(p.Border)),
	}
}
