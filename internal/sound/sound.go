// Package sound maps feedback events to beep sequences and plays them.
package sound

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/verte-zerg/typist/internal/logging"
)

// Type is a feedback event.
type Type int

// Feedback events.
const (
	KeystrokeCorrect Type = iota
	KeystrokeIncorrect
	TestStart
	TestComplete
	LevelUp
	Achievement
	Tick
	Warning
)

var typeNames = map[Type]string{
	KeystrokeCorrect:   "keystroke-correct",
	KeystrokeIncorrect: "keystroke-incorrect",
	TestStart:          "test-start",
	TestComplete:       "test-complete",
	LevelUp:            "level-up",
	Achievement:        "achievement",
	Tick:               "tick",
	Warning:            "warning",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("sound(%d)", int(t))
}

// Beep is one tone of a sequence, starting Offset after the sequence.
type Beep struct {
	Frequency int
	Duration  time.Duration
	Offset    time.Duration
}

func beep(freq, durMs, offsetMs int) Beep {
	return Beep{
		Frequency: freq,
		Duration:  time.Duration(durMs) * time.Millisecond,
		Offset:    time.Duration(offsetMs) * time.Millisecond,
	}
}

var sequences = map[Type][]Beep{
	KeystrokeCorrect:   {beep(800, 50, 0)},
	KeystrokeIncorrect: {beep(300, 100, 0)},
	TestStart:          {beep(660, 200, 0)},
	TestComplete:       {beep(880, 300, 0)},
	LevelUp:            {beep(440, 100, 0), beep(550, 100, 100), beep(660, 150, 200)},
	Achievement:        {beep(880, 100, 0), beep(1100, 100, 100), beep(880, 100, 200), beep(1320, 200, 300)},
	Tick:               {beep(1000, 30, 0)},
	Warning:            {beep(220, 150, 0)},
}

// Sequence returns the beeps played for t.
func Sequence(t Type) []Beep {
	return append([]Beep(nil), sequences[t]...)
}

// Sink renders a beep sequence.
type Sink interface {
	Play(t Type, beeps []Beep, volume float64) error
}

// BellSink rings the terminal bell once per sequence and logs every beep.
type BellSink struct {
	w      io.Writer
	logger *slog.Logger
	mu     sync.Mutex
}

// NewBellSink writes the bell to w. A nil logger discards beep records.
func NewBellSink(w io.Writer, logger *slog.Logger) *BellSink {
	if logger == nil {
		logger = logging.Discard()
	}
	return &BellSink{w: w, logger: logger}
}

// Play implements Sink.
func (s *BellSink) Play(t Type, beeps []Beep, volume float64) error {
	for _, b := range beeps {
		s.logger.Debug("beep",
			"sound", t.String(),
			"hz", b.Frequency,
			"duration_ms", b.Duration.Milliseconds(),
			"offset_ms", b.Offset.Milliseconds(),
			"volume", volume,
		)
	}
	if s.w == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := io.WriteString(s.w, "\a")
	return err
}

// Defaults applied by NewPlayer.
const (
	DefaultVolume = 0.5
)

// Player decides whether an event is audible and forwards it to a Sink.
type Player struct {
	sink       Sink
	enabled    bool
	keystrokes bool
	volume     float64
}

// NewPlayer returns an enabled player with keystroke sounds off.
func NewPlayer(sink Sink) *Player {
	return &Player{sink: sink, enabled: true, volume: DefaultVolume}
}

// SetEnabled turns all sounds on or off. Disabling also turns off
// keystroke sounds.
func (p *Player) SetEnabled(enabled bool) {
	p.enabled = enabled
	if !enabled {
		p.keystrokes = false
	}
}

// Enabled reports whether sounds are on.
func (p *Player) Enabled() bool { return p.enabled }

// SetKeystrokeEnabled turns per-keystroke sounds on or off.
func (p *Player) SetKeystrokeEnabled(enabled bool) {
	p.keystrokes = enabled
}

// KeystrokeEnabled reports whether per-keystroke sounds are on.
func (p *Player) KeystrokeEnabled() bool { return p.keystrokes }

// SetVolume sets the volume, clamped to [0, 1].
func (p *Player) SetVolume(v float64) {
	p.volume = min(1, max(0, v))
}

// Volume returns the current volume.
func (p *Player) Volume() float64 { return p.volume }

// Play sends the sequence for t to the sink unless the player is silent.
// It reports whether anything was played.
func (p *Player) Play(t Type) (bool, error) {
	if p == nil || p.sink == nil || !p.enabled || p.volume <= 0 {
		return false, nil
	}
	if (t == KeystrokeCorrect || t == KeystrokeIncorrect) && !p.keystrokes {
		return false, nil
	}
	beeps, ok := sequences[t]
	if !ok {
		return false, nil
	}
	if err := p.sink.Play(t, beeps, p.volume); err != nil {
		return false, fmt.Errorf("failed to play %s: %w", t, err)
	}
	return true, nil
}

// PlayKeystroke plays the correct or incorrect keystroke sound.
func (p *Player) PlayKeystroke(correct bool) (bool, error) {
	if correct {
		return p.Play(KeystrokeCorrect)
	}
	return p.Play(KeystrokeIncorrect)
}
