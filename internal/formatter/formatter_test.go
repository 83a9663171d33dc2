package formatter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/yildizm/linefit/internal/results"
)

func sampleReport() *Report {
	return &Report{
		Source: "data.txt",
		Results: []results.Result{
			{Row: 2, Label: "b", Slope: 4, Intercept: 0.6, RValue: 0.8},
			{Row: 1, Label: "a", Slope: -1.5, Intercept: 1e-7, RValue: -0.9999999999999998},
		},
		Skipped: []Skipped{{Row: 3, Reason: "empty row"}},
	}
}

func TestTSVFormat(t *testing.T) {
	data, err := NewTSV().Format(sampleReport())
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	want := "row\tslope\tintercept\tr_value\n" +
		"2\t4\t0.6\t0.8\n" +
		"1\t-1.5\t1e-07\t-0.9999999999999998\n"
	if string(data) != want {
		t.Errorf("Format() =\n%q\nwant\n%q", data, want)
	}
}

func TestTSVRoundTripsValues(t *testing.T) {
	report := sampleReport()
	data, err := NewTSV().Format(report)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	if len(lines) != len(report.Results)+1 {
		t.Fatalf("want %d lines, got %d", len(report.Results)+1, len(lines))
	}

	for i, line := range lines[1:] {
		fields := strings.Split(line, "\t")
		want := report.Results[i]
		row, _ := strconv.Atoi(fields[0])
		slope, _ := strconv.ParseFloat(fields[1], 64)
		intercept, _ := strconv.ParseFloat(fields[2], 64)
		r, _ := strconv.ParseFloat(fields[3], 64)
		if row != want.Row || slope != want.Slope || intercept != want.Intercept || r != want.RValue {
			t.Errorf("line %d = %q does not reproduce %+v", i+1, line, want)
		}
	}
}

func TestTSVEmptyTable(t *testing.T) {
	data, err := NewTSV().Format(&Report{})
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if string(data) != "row\tslope\tintercept\tr_value\n" {
		t.Errorf("want header only, got %q", data)
	}
}

func TestJSONFormat(t *testing.T) {
	data, err := NewJSON().Format(sampleReport())
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	var out JSONOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if out.Count != 2 || out.Source != "data.txt" {
		t.Errorf("unexpected summary: %+v", out)
	}
	if out.Results[0].Label != "b" || out.Results[0].Slope != 4 {
		t.Errorf("unexpected first result: %+v", out.Results[0])
	}
	if len(out.Skipped) != 1 || out.Skipped[0].Row != 3 {
		t.Errorf("unexpected skipped rows: %+v", out.Skipped)
	}

	empty, err := NewJSON().Format(&Report{})
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !strings.Contains(string(empty), `"results": []`) {
		t.Errorf("empty report should have an empty results array, got %s", empty)
	}
}

func TestMarkdownFormat(t *testing.T) {
	report := sampleReport()
	report.Results[0].Label = "a|b"
	data, err := NewMarkdown().Format(report)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	output := string(data)
	for _, want := range []string{"| Row | Label |", `a\|b`, "## Skipped Rows", "Row 3: empty row"} {
		if !strings.Contains(output, want) {
			t.Errorf("markdown output missing %q", want)
		}
	}
}

func TestTerminalFormat(t *testing.T) {
	data, err := NewTerminal(false).Format(sampleReport())
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	output := string(data)
	for _, want := range []string{"Linear Fit Summary", "Statistics", "data.txt", "Row 2 b", "Row 3: empty row"} {
		if !strings.Contains(output, want) {
			t.Errorf("terminal output missing %q", want)
		}
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{name: "", wantErr: false},
		{name: "tsv", wantErr: false},
		{name: "JSON", wantErr: false},
		{name: "text", wantErr: false},
		{name: "md", wantErr: false},
		{name: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := New(tt.name, false)
			if (err != nil) != tt.wantErr {
				t.Errorf("New(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if !tt.wantErr && f == nil {
				t.Errorf("New(%q) returned nil formatter", tt.name)
			}
		})
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "results.txt")
	if err := WriteFile(path, NewTSV(), sampleReport()); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read back: %v", err)
	}
	if !strings.HasPrefix(string(data), "row\tslope\tintercept\tr_value\n") {
		t.Errorf("unexpected file content: %q", data)
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{4, "4"},
		{0.6, "0.6"},
		{-2.5, "-2.5"},
		{1e-7, "1e-07"},
		{1e20, "1e+20"},
	}
	for _, tt := range tests {
		if got := FormatFloat(tt.in); got != tt.want {
			t.Errorf("FormatFloat(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
