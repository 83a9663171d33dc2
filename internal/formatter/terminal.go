package formatter

import (
	"fmt"
	"math"
	"strings"

	"github.com/yildizm/go-termfmt"

	"github.com/yildizm/linefit/internal/emoji"
)

// terminalFormatter formats output as plain text for terminal display using go-termfmt
type terminalFormatter struct {
	opts *termfmt.TerminalOptions
}

// NewTerminal creates a new terminal formatter with optional color support
func NewTerminal(color bool) Formatter {
	opts := termfmt.DefaultOptions()
	opts.Color = color
	opts.Emoji = !emoji.IsEmojiDisabled()
	return &terminalFormatter{opts: opts}
}

func (f *terminalFormatter) Format(report *Report) ([]byte, error) {
	var b strings.Builder

	f.writeHeader(&b)
	f.writeSummary(&b, report)

	if len(report.Results) > 0 {
		f.writeResults(&b, report)
	}
	if len(report.Skipped) > 0 {
		f.writeSkipped(&b, report.Skipped)
	}

	return []byte(b.String()), nil
}

// writeHeader writes a boxed title
func (f *terminalFormatter) writeHeader(b *strings.Builder) {
	header := "Linear Fit Summary"
	headerLen := len(header)

	b.WriteString("╔" + strings.Repeat("═", headerLen+2) + "╗\n")
	b.WriteString("║ " + header + " ║\n")
	b.WriteString("╚" + strings.Repeat("═", headerLen+2) + "╝\n\n")
}

func (f *terminalFormatter) writeSummary(b *strings.Builder, report *Report) {
	symbol := termfmt.GetEmoji("statistics", f.opts)
	b.WriteString(symbol + " Statistics\n")

	source := report.Source
	if source == "" {
		source = "N/A"
	}
	items := []termfmt.TreeItem{
		{Label: "Source", Value: source},
		{Label: "Fitted Rows", Value: fmt.Sprintf("%d", len(report.Results))},
		{Label: "Skipped Rows", Value: fmt.Sprintf("%d", len(report.Skipped)), Last: true},
	}

	tree := termfmt.TreeViewWithOptions(items, f.opts)
	b.WriteString(tree + "\n\n")
}

// writeResults lists every fit with a bar showing the strength of the correlation
func (f *terminalFormatter) writeResults(b *strings.Builder, report *Report) {
	symbol := termfmt.GetEmoji("info", f.opts)
	b.WriteString(symbol + " Fits\n")

	items := make([]termfmt.TreeItem, 0, len(report.Results))
	for i, r := range report.Results {
		bar := termfmt.CreateConfidenceBar(math.Abs(r.RValue), f.opts)
		items = append(items, termfmt.TreeItem{
			Label: fmt.Sprintf("Row %d %s", r.Row, r.Label),
			Value: fmt.Sprintf("slope=%.6g intercept=%.6g", r.Slope, r.Intercept),
			Children: []termfmt.TreeItem{
				{Label: fmt.Sprintf("%s r=%.4f", bar, r.RValue), Value: ""},
			},
			Last: i == len(report.Results)-1,
		})
	}

	tree := termfmt.TreeViewWithOptions(items, f.opts)
	b.WriteString(tree + "\n\n")
}

func (f *terminalFormatter) writeSkipped(b *strings.Builder, skipped []Skipped) {
	symbol := termfmt.GetEmoji("warning", f.opts)
	b.WriteString(symbol + " Skipped\n")
	for _, s := range skipped {
		fmt.Fprintf(b, "• Row %d: %s\n", s.Row, s.Reason)
	}
}
