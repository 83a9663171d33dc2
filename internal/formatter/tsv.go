package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
)

// TSVHeader is the header row of exported result files
var TSVHeader = []string{"row", "slope", "intercept", "r_value"}

// tsvFormatter writes the results table as tab-separated text
type tsvFormatter struct{}

// NewTSV creates a new TSV formatter
func NewTSV() Formatter {
	return &tsvFormatter{}
}

func (f *tsvFormatter) Format(report *Report) ([]byte, error) {
	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	writer.Comma = '\t'

	if err := writer.Write(TSVHeader); err != nil {
		return nil, fmt.Errorf("failed to write TSV header: %w", err)
	}

	for _, r := range report.Results {
		record := []string{
			strconv.Itoa(r.Row),
			FormatFloat(r.Slope),
			FormatFloat(r.Intercept),
			FormatFloat(r.RValue),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write TSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("TSV writer error: %w", err)
	}

	return b.Bytes(), nil
}
