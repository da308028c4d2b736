package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/typist/internal/theme"
)

// mistypedSpace marks a space in the sample that received another character.
const mistypedSpace = '•'

type glyph struct {
	s       string
	width   int
	isSpace bool
}

// styleSample renders every sample rune against the typed input. The
// cursor is -1 once the input covers the sample.
func styleSample(sample, input []rune, cursor int, st theme.Styles) []glyph {
	word, hasWord := wordAt(wordSpans(sample), cursor)

	out := make([]glyph, 0, len(sample))
	for i, want := range sample {
		shown := want
		style := st.Remaining
		switch {
		case i < len(input) && want == ' ' && input[i] != ' ':
			shown = mistypedSpace
			style = st.Incorrect
		case i < len(input) && input[i] == want:
			style = st.Correct
		case i < len(input):
			style = st.Incorrect
		case i == cursor:
			style = st.Current
		case hasWord && want != ' ' && i >= word.start && i < word.end:
			style = st.Text
		}
		out = append(out, glyph{
			s:       style.Render(string(shown)),
			width:   runewidth.RuneWidth(shown),
			isSpace: want == ' ',
		})
	}
	return out
}

type span struct {
	start int
	end   int
}

func wordSpans(sample []rune) []span {
	var spans []span
	start := -1
	for i, r := range sample {
		switch {
		case r == ' ' && start >= 0:
			spans = append(spans, span{start: start, end: i})
			start = -1
		case r != ' ' && start < 0:
			start = i
		}
	}
	if start >= 0 {
		spans = append(spans, span{start: start, end: len(sample)})
	}
	return spans
}

// wordAt returns the word containing the cursor, or the next word when the
// cursor sits on a space.
func wordAt(spans []span, cursor int) (span, bool) {
	if len(spans) == 0 || cursor < 0 {
		return span{}, false
	}
	for _, s := range spans {
		if cursor < s.end {
			return s, true
		}
	}
	return span{}, false
}

func joinGlyphs(glyphs []glyph) string {
	var b strings.Builder
	for _, g := range glyphs {
		b.WriteString(g.s)
	}
	return b.String()
}

// wrapGlyphs breaks lines at the last space that fits within width. Words
// longer than a line are split.
func wrapGlyphs(glyphs []glyph, width int) string {
	if width <= 0 {
		return joinGlyphs(glyphs)
	}
	var lines []string
	line := make([]glyph, 0, width)
	lineWidth := 0
	lastSpace := -1
	for i := 0; i < len(glyphs); {
		g := glyphs[i]
		if lineWidth+g.width > width && len(line) > 0 {
			if g.isSpace {
				lines = append(lines, joinGlyphs(line))
				line = line[:0]
				lineWidth, lastSpace = 0, -1
				i++
				continue
			}
			if lastSpace >= 0 {
				lines = append(lines, joinGlyphs(line[:lastSpace]))
				line = append([]glyph{}, line[lastSpace+1:]...)
			} else {
				lines = append(lines, joinGlyphs(line))
				line = line[:0]
			}
			lineWidth, lastSpace = measure(line)
			continue
		}
		line = append(line, g)
		lineWidth += g.width
		if g.isSpace {
			lastSpace = len(line) - 1
		}
		i++
	}
	lines = append(lines, joinGlyphs(line))
	return strings.Join(lines, "\n")
}

func measure(line []glyph) (width, lastSpace int) {
	lastSpace = -1
	for i, g := range line {
		width += g.width
		if g.isSpace {
			lastSpace = i
		}
	}
	return width, lastSpace
}
