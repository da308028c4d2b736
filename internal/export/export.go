// Package export writes test history in machine-readable formats.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/typist/internal/model"
)

// Supported formats.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// ErrUnknownFormat is returned for formats other than yaml and json.
var ErrUnknownFormat = errors.New("unknown export format")

type document struct {
	Results []model.TestResult `json:"results" yaml:"results"`
}

// Write encodes results to w in the given format.
func Write(w io.Writer, format string, results []model.TestResult) error {
	if results == nil {
		results = []model.TestResult{}
	}
	doc := document{Results: results}
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatYAML, "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("%w %q (want yaml or json)", ErrUnknownFormat, format)
	}
}
