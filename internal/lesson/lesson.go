// Package lesson builds practice text from fixed lesson tables.
package lesson

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// Type identifies a lesson category.
type Type int

// Lesson categories, in display order.
const (
	HomeRow Type = iota
	TopRow
	BottomRow
	Numbers
	Punctuation
	CommonWords
	FingerSpecific
	Bigrams
	Trigrams
	Programming
)

// Fallback strings for types missing from the lesson table.
const (
	NotFoundText       = "Lesson type not found."
	UnknownTitle       = "Unknown Lesson"
	UnknownDescription = "No description available."
)

// ErrUnknownType is returned by ParseType for names that match no lesson.
var ErrUnknownType = errors.New("unknown lesson type")

var allTypes = []Type{
	HomeRow, TopRow, BottomRow, Numbers, Punctuation,
	CommonWords, FingerSpecific, Bigrams, Trigrams, Programming,
}

var typeNames = map[Type]string{
	HomeRow:        "home-row",
	TopRow:         "top-row",
	BottomRow:      "bottom-row",
	Numbers:        "numbers",
	Punctuation:    "punctuation",
	CommonWords:    "common-words",
	FingerSpecific: "finger-specific",
	Bigrams:        "bigrams",
	Trigrams:       "trigrams",
	Programming:    "programming",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("lesson(%d)", int(t))
}

// Next returns the following lesson type, wrapping around.
func (t Type) Next() Type {
	return allTypes[(indexOf(t)+1)%len(allTypes)]
}

// Prev returns the preceding lesson type, wrapping around.
func (t Type) Prev() Type {
	return allTypes[(indexOf(t)+len(allTypes)-1)%len(allTypes)]
}

func indexOf(t Type) int {
	for i, candidate := range allTypes {
		if candidate == t {
			return i
		}
	}
	return 0
}

// ParseType converts a kebab-case name such as "home-row" into a Type.
func ParseType(name string) (Type, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for t, n := range typeNames {
		if n == name {
			return t, nil
		}
	}
	return HomeRow, fmt.Errorf("%w %q", ErrUnknownType, name)
}

// AllTypes returns every lesson type in display order.
func AllTypes() []Type {
	return append([]Type(nil), allTypes...)
}

// Title returns the lesson title.
func Title(t Type) string {
	if d, ok := descriptors[t]; ok {
		return d.title
	}
	return UnknownTitle
}

// Description returns the lesson description.
func Description(t Type) string {
	if d, ok := descriptors[t]; ok {
		return d.description
	}
	return UnknownDescription
}

// Chars returns the character set drilled by the lesson, or "" for word lessons.
func Chars(t Type) string {
	return descriptors[t].chars
}

// BaseLength is the target length of a progressive lesson at the given level.
func BaseLength(level int) int {
	return 20 + (level-1)*10
}

// Generator produces randomized lesson text.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithRand(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewWithRand returns a Generator drawing from rnd.
func NewWithRand(rnd *rand.Rand) *Generator {
	return &Generator{rnd: rnd}
}

// Title returns the lesson title.
func (g *Generator) Title(t Type) string { return Title(t) }

// Description returns the lesson description.
func (g *Generator) Description(t Type) string { return Description(t) }

// AllTypes returns every lesson type in display order.
func (g *Generator) AllTypes() []Type { return AllTypes() }

// LessonText joins random fragments of the lesson until the next one would
// exceed targetLength. Fragments are never cut.
func (g *Generator) LessonText(t Type, targetLength int) string {
	d, ok := descriptors[t]
	if !ok {
		return NotFoundText
	}
	return g.assemble(d.content, targetLength)
}

func (g *Generator) assemble(fragments []string, targetLength int) string {
	var b strings.Builder
	length := 0
	for length < targetLength && len(fragments) > 0 {
		fragment := fragments[g.rnd.Intn(len(fragments))]
		if length+len(fragment)+1 > targetLength {
			break
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
			length++
		}
		b.WriteString(fragment)
		length += len(fragment)
	}
	return b.String()
}

// ProgressiveLesson returns a drill whose breadth grows with level (1-5).
func (g *Generator) ProgressiveLesson(t Type, level int) string {
	base := BaseLength(level)
	d, ok := descriptors[t]
	if !ok {
		return NotFoundText
	}
	switch d.progression {
	case progressRow:
		if chars, ok := rows[t].charsFor(level); ok {
			return g.CharacterDrill(chars, base)
		}
	case progressWords:
		return g.WordDrill(prefix(commonWords, level*10), base/4)
	case progressBigrams:
		return g.BigramDrill(prefix(commonBigrams, level*5), base)
	}
	return g.LessonText(t, base)
}

func prefix(items []string, n int) []string {
	if n < 0 {
		n = 0
	}
	if n > len(items) {
		n = len(items)
	}
	return items[:n]
}

// CharacterDrill draws length characters from chars with replacement. A space
// follows every fourth drawn character for readability; spaces are extra.
func (g *Generator) CharacterDrill(chars string, length int) string {
	set := []rune(chars)
	if len(set) == 0 || length <= 0 {
		return ""
	}
	var b strings.Builder
	for i := 0; i < length; i++ {
		b.WriteRune(set[g.rnd.Intn(len(set))])
		if i > 0 && i%4 == 0 && i < length-1 {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// WordDrill joins count words sampled with replacement.
func (g *Generator) WordDrill(words []string, count int) string {
	if len(words) == 0 || count <= 0 {
		return ""
	}
	out := make([]string, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, words[g.rnd.Intn(len(words))])
	}
	return strings.Join(out, " ")
}

// BigramDrill appends sampled bigrams until the text reaches length.
func (g *Generator) BigramDrill(bigrams []string, length int) string {
	if len(bigrams) == 0 {
		return ""
	}
	var b strings.Builder
	for b.Len() < length {
		b.WriteString(bigrams[g.rnd.Intn(len(bigrams))])
		b.WriteByte(' ')
	}
	return strings.TrimRight(b.String(), " ")
}
