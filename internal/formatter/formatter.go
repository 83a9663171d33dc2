package formatter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yildizm/linefit/internal/results"
)

// Report is the input of every formatter
type Report struct {
	Source  string
	Results []results.Result
	Skipped []Skipped
}

// Skipped records a dataset row that could not be fitted
type Skipped struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// Formatter defines the interface for output formatting
type Formatter interface {
	Format(report *Report) ([]byte, error)
}

// Names of the supported formats
const (
	FormatTSV      = "tsv"
	FormatJSON     = "json"
	FormatText     = "text"
	FormatMarkdown = "markdown"
)

// New returns the formatter registered under name
func New(name string, color bool) (Formatter, error) {
	switch strings.ToLower(name) {
	case "", FormatTSV:
		return NewTSV(), nil
	case FormatJSON:
		return NewJSON(), nil
	case FormatText:
		return NewTerminal(color), nil
	case FormatMarkdown, "md":
		return NewMarkdown(), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (must be one of: %s)", name, strings.Join(Formats(), ", "))
	}
}

// Formats lists the supported format names
func Formats() []string {
	return []string{FormatTSV, FormatJSON, FormatText, FormatMarkdown}
}

// WriteFile formats the report and writes it to path
func WriteFile(path string, f Formatter, report *Report) error {
	data, err := f.Format(report)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	// #nosec G306 - results are meant to be shared
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
