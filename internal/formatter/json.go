package formatter

import (
	"encoding/json"

	"github.com/yildizm/linefit/internal/results"
)

// jsonFormatter formats output as JSON
type jsonFormatter struct{}

// NewJSON creates a new JSON formatter
func NewJSON() Formatter {
	return &jsonFormatter{}
}

// JSONOutput is the document written by the JSON formatter
type JSONOutput struct {
	Source  string           `json:"source,omitempty"`
	Count   int              `json:"count"`
	Results []results.Result `json:"results"`
	Skipped []Skipped        `json:"skipped,omitempty"`
}

func (f *jsonFormatter) Format(report *Report) ([]byte, error) {
	rows := report.Results
	if rows == nil {
		rows = []results.Result{}
	}
	output := &JSONOutput{
		Source:  report.Source,
		Count:   len(rows),
		Results: rows,
		Skipped: report.Skipped,
	}

	return json.MarshalIndent(output, "", "  ")
}
