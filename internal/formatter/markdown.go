package formatter

import (
	"fmt"
	"strings"
)

// markdownFormatter formats output as a Markdown table
type markdownFormatter struct{}

// NewMarkdown creates a new Markdown formatter
func NewMarkdown() Formatter {
	return &markdownFormatter{}
}

func (f *markdownFormatter) Format(report *Report) ([]byte, error) {
	var b strings.Builder

	b.WriteString("# Linear Fit Results\n\n")
	if report.Source != "" {
		fmt.Fprintf(&b, "Source: `%s`\n\n", report.Source)
	}

	b.WriteString("| Row | Label | Slope | Intercept | R-value |\n")
	b.WriteString("|----:|-------|------:|----------:|--------:|\n")
	for _, r := range report.Results {
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s |\n",
			r.Row, escapeMarkdown(r.Label), FormatFloat(r.Slope), FormatFloat(r.Intercept), FormatFloat(r.RValue))
	}

	if len(report.Skipped) > 0 {
		b.WriteString("\n## Skipped Rows\n\n")
		for _, s := range report.Skipped {
			fmt.Fprintf(&b, "- Row %d: %s\n", s.Row, s.Reason)
		}
	}

	return []byte(b.String()), nil
}

func escapeMarkdown(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
