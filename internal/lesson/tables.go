package lesson

// Key rows and symbol sets.
const (
	homeRowChars     = "asdfghjkl;"
	topRowChars      = "qwertyuiop"
	bottomRowChars   = "zxcvbnm,./"
	numberChars      = "1234567890"
	punctuationChars = ".,;:!?'\""
	programmingChars = "(){}[]<>=+-*/\\|&%$#@"
)

// commonWords is ordered by frequency; progressive lessons take prefixes.
var commonWords = []string{
	"the", "and", "for", "are", "but", "not", "you", "all",
	"can", "had", "her", "was", "one", "our", "out", "day",
	"get", "has", "him", "his", "how", "man", "new", "now",
	"old", "see", "two", "way", "who", "boy", "did", "its",
	"let", "put", "say", "she", "too", "use", "what", "when",
	"where", "which", "with", "have", "this", "will", "your",
	"from", "they", "know", "want", "been", "good", "much",
	"some", "time", "very", "when", "come", "here", "just",
	"like", "long", "make", "many", "over", "such", "take",
	"than", "them", "well", "were",
}

var commonBigrams = []string{
	"th", "he", "in", "er", "an", "re", "ed", "nd",
	"on", "en", "at", "ou", "it", "is", "or", "ti",
	"hi", "st", "ar", "ne", "ng", "al", "se", "to",
	"as", "de", "rt", "ve", "te", "es", "le", "nt",
}

var commonTrigrams = []string{
	"the", "and", "ing", "her", "hat", "his", "tha",
	"ere", "for", "ent", "ion", "ter", "was", "you",
	"ith", "ver", "all", "wit", "thi", "tio", "end",
}

var fingerDrills = []string{
	"aqa", "aza", "sws", "sxs", "ded", "dcd", "frf", "fvf",
	"ftf", "fgf", "fbf", "juj", "jmj", "jyj", "jhj", "jnj",
	"kik", "k,k", "lol", "l.l", ";p;", ";/;", "fjfj", "dkdk",
	"slsl", "a;a;", "grgr", "huhu",
}

// rowDrill describes a row lesson: each level drills a longer prefix of the row.
type rowDrill struct {
	prefixes [5]int
	chars    string
}

func (r rowDrill) charsFor(level int) (string, bool) {
	if level < 1 || level > len(r.prefixes) {
		return "", false
	}
	n := r.prefixes[level-1]
	if n > len(r.chars) {
		n = len(r.chars)
	}
	return r.chars[:n], true
}

// descriptor is the per-type lookup entry.
type descriptor struct {
	title       string
	description string
	chars       string
	content     []string
	progression progression
}

// progression selects the drill used by ProgressiveLesson.
type progression int

const (
	progressText progression = iota
	progressRow
	progressWords
	progressBigrams
)

var rows = map[Type]rowDrill{
	HomeRow:   {prefixes: [5]int{4, 6, 8, 9, 10}, chars: homeRowChars},
	TopRow:    {prefixes: [5]int{4, 6, 8, 9, 10}, chars: topRowChars},
	BottomRow: {prefixes: [5]int{4, 6, 7, 8, 10}, chars: bottomRowChars},
}

var descriptors = map[Type]descriptor{
	HomeRow: {
		title:       "Home Row Keys",
		description: "Practice the foundation keys: a s d f g h j k l ;",
		chars:       homeRowChars,
		content: []string{
			"asdf", "jkl;", "fjfj", "dkdk", "slsl", "a;a;",
			"asdf jkl;", "fjdk slgh", "asdfjkl;", "glad", "hall",
			"fall", "ask", "flask", "glass", "fast", "last",
		},
		progression: progressRow,
	},
	TopRow: {
		title:       "Top Row Keys",
		description: "Master the top row: q w e r t y u i o p",
		chars:       topRowChars,
		content: []string{
			"qwer", "tyui", "op", "quip", "tire", "wire",
			"quit", "were", "power", "tower", "quote", "write",
			"quite", "poetry", "typewriter", "query", "worry",
		},
		progression: progressRow,
	},
	BottomRow: {
		title:       "Bottom Row Keys",
		description: "Learn the bottom row: z x c v b n m , . /",
		chars:       bottomRowChars,
		content: []string{
			"zxcv", "bnm", ",./", "zoom", "next", "come",
			"move", "bronze", "complex", "maximum", "examine",
			"example", "mixture", "boxing", "frozen", "dozen",
		},
		progression: progressRow,
	},
	Numbers: {
		title:       "Number Practice",
		description: "Number typing practice: 1 2 3 4 5 6 7 8 9 0",
		chars:       numberChars,
		content: []string{
			"123", "456", "789", "0", "12345", "67890",
			"1234567890", "123 456 789", "1 2 3 4 5", "6 7 8 9 0",
		},
	},
	Punctuation: {
		title:       "Punctuation Practice",
		description: "Common punctuation marks and symbols",
		chars:       punctuationChars,
		content: []string{
			".,;", ":!?", "'\"", "Hello, world!", "Yes; no.",
			"What? Why!", "I said, \"Hello.\"", "Can't you see?",
			"It's great!", "Time: 3:30", "Cost: $10.50",
		},
	},
	CommonWords: {
		title:       "Common Words",
		description: "Most frequently used English words",
		content:     commonWords,
		progression: progressWords,
	},
	FingerSpecific: {
		title:       "Finger-Specific Training",
		description: "Targeted exercises for each finger",
		content:     fingerDrills,
	},
	Bigrams: {
		title:       "Letter Pairs (Bigrams)",
		description: "Common two-letter combinations",
		content:     commonBigrams,
		progression: progressBigrams,
	},
	Trigrams: {
		title:       "Letter Combinations (Trigrams)",
		description: "Common three-letter patterns",
		content:     commonTrigrams,
	},
	Programming: {
		title:       "Programming Characters",
		description: "Special characters used in programming",
		chars:       programmingChars,
		content: []string{
			"()", "{}", "[]", "<>", "=+", "-*", "/\\",
			"|&", "%$", "#@", "if (x == y)", "array[i]",
			"function() {}", "x += y;", "return true;",
			"#include <stdio.h>", "var x = 10;", "print(\"hello\");",
		},
	},
}
