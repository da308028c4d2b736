// Package textpool loads user-supplied sentence files for standard tests.
package textpool

import (
	"bufio"
	"errors"
	"os"
	"strings"
)

// ErrEmpty is returned when a file holds no usable sentences.
var ErrEmpty = errors.New("sentence file is empty")

// LoadSentences reads one sentence per line from path. Blank lines and lines
// starting with '#' are skipped.
func LoadSentences(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only sentence file.
			_ = cerr
		}
	}()

	var sentences []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		sentences = append(sentences, strings.Join(strings.Fields(line), " "))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(sentences) == 0 {
		return nil, ErrEmpty
	}
	return sentences, nil
}

// FilterTypeable keeps sentences made only of printable ASCII, which every
// keyboard layout the lessons target can produce.
func FilterTypeable(sentences []string) []string {
	kept := make([]string, 0, len(sentences))
	for _, s := range sentences {
		if typeable(s) {
			kept = append(kept, s)
		}
	}
	return kept
}

func typeable(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < ' ' || s[i] > '~' {
			return false
		}
	}
	return true
}
