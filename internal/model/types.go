// Package model defines shared data structures.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Difficulty selects the sentence pool for standard tests.
type Difficulty int

// Difficulty levels. The numeric values are persisted.
const (
	Easy Difficulty = iota
	Medium
	Hard
)

// Difficulties lists every difficulty in display order.
var Difficulties = []Difficulty{Easy, Medium, Hard}

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	default:
		return fmt.Sprintf("difficulty(%d)", int(d))
	}
}

// Title returns the capitalized difficulty name.
func (d Difficulty) Title() string {
	s := d.String()
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Next returns the following difficulty, wrapping around.
func (d Difficulty) Next() Difficulty {
	return Difficulty((int(d) + 1) % len(Difficulties))
}

// MarshalText encodes the difficulty by name.
func (d Difficulty) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText decodes a difficulty name.
func (d *Difficulty) UnmarshalText(text []byte) error {
	parsed, err := ParseDifficulty(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDifficulty converts a name such as "easy" into a Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return Easy, nil
	case "medium", "":
		return Medium, nil
	case "hard":
		return Hard, nil
	}
	return Medium, fmt.Errorf("unknown difficulty %q (want easy, medium or hard)", s)
}

// Mode selects how sample text is produced.
type Mode int

// Test modes.
const (
	Standard Mode = iota
	Lesson
)

func (m Mode) String() string {
	if m == Lesson {
		return "lesson"
	}
	return "standard"
}

// ParseMode converts "standard" or "lesson" into a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "standard", "":
		return Standard, nil
	case "lesson":
		return Lesson, nil
	}
	return Standard, fmt.Errorf("unknown mode %q (want standard or lesson)", s)
}

// Lesson level bounds.
const (
	MinLessonLevel = 1
	MaxLessonLevel = 5
)

// ClampLevel bounds a lesson level to [MinLessonLevel, MaxLessonLevel].
func ClampLevel(level int) int {
	if level < MinLessonLevel {
		return MinLessonLevel
	}
	if level > MaxLessonLevel {
		return MaxLessonLevel
	}
	return level
}

// TestResult is a finished attempt as written to the recorder.
type TestResult struct {
	ID                int64      `json:"id" yaml:"id"`
	User              string     `json:"user" yaml:"user"`
	CreatedAt         time.Time  `json:"created_at" yaml:"created_at"`
	Difficulty        Difficulty `json:"difficulty" yaml:"difficulty"`
	WPM               float64    `json:"wpm" yaml:"wpm"`
	Accuracy          float64    `json:"accuracy" yaml:"accuracy"`
	ElapsedSeconds    int        `json:"elapsed_seconds" yaml:"elapsed_seconds"`
	CorrectCharacters int        `json:"correct_characters" yaml:"correct_characters"`
	TotalCharacters   int        `json:"total_characters" yaml:"total_characters"`
}

// UserStats aggregates all results of a user.
type UserStats struct {
	User            string
	TotalTests      int
	AverageWPM      float64
	BestWPM         float64
	AverageAccuracy float64
	BestAccuracy    float64
	TotalSeconds    int
	LastTestAt      time.Time
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	User        string
	Difficulty  *Difficulty
	Since       *time.Time
	Last        int
	CurveWindow int
}
