package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Start      key.Binding
	Back       key.Binding
	Difficulty key.Binding
	Duration   key.Binding
	Mode       key.Binding
	NextLesson key.Binding
	PrevLesson key.Binding
	LevelUp    key.Binding
	LevelDown  key.Binding
	Sound      key.Binding
	Keystrokes key.Binding
	Theme      key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Start:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "start")),
		Back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "reset")),
		Difficulty: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "difficulty")),
		Duration:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "duration")),
		Mode:       key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mode")),
		NextLesson: key.NewBinding(key.WithKeys("l"), key.WithHelp("l/L", "lesson")),
		PrevLesson: key.NewBinding(key.WithKeys("L")),
		LevelUp:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "level")),
		LevelDown:  key.NewBinding(key.WithKeys("-")),
		Sound:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sound")),
		Keystrokes: key.NewBinding(key.WithKeys("k"), key.WithHelp("k", "key sounds")),
		Theme:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "theme")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Mode, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Start, k.Back, k.Help, k.Quit},
		{k.Difficulty, k.Duration, k.Mode},
		{k.NextLesson, k.LevelUp},
		{k.Sound, k.Keystrokes, k.Theme},
	}
}
