package dataset

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// SampleCount is the number of numeric samples every row carries after its label
const SampleCount = 5

// XValues are the fixed x positions the samples of a row are plotted and fitted against
var XValues = [SampleCount]float64{0.2, 0.4, 0.6, 0.8, 1.0}

// DefaultMaxLineLength bounds a single line when no explicit limit is given
const DefaultMaxLineLength = 1024 * 1024

var (
	// ErrEmptyRow is returned for blank lines
	ErrEmptyRow = errors.New("empty row")
	// ErrFieldCount is returned when a row does not carry exactly SampleCount samples
	ErrFieldCount = errors.New("unexpected number of samples")
	// ErrOutOfRange is returned for row indexes outside the dataset
	ErrOutOfRange = errors.New("row index out of range")
)

// ParseError describes a sample token that is not a number
type ParseError struct {
	Index int // position of the sample, 0-based, label excluded
	Token string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("sample %d: invalid number %q", e.Index+1, e.Token)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Row is one parsed line of a dataset
type Row struct {
	Label  string
	Values [SampleCount]float64
}

// Samples returns the row values as a slice
func (r Row) Samples() []float64 {
	out := make([]float64, SampleCount)
	copy(out, r.Values[:])
	return out
}

// Options configures dataset loading
type Options struct {
	MaxLineLength int
}

// Dataset is the ordered sequence of raw lines read from a file.
// Lines are kept verbatim and parsed on demand.
type Dataset struct {
	Path  string
	lines []string
}

// New creates a dataset from in-memory lines
func New(path string, lines []string) *Dataset {
	cp := make([]string, len(lines))
	copy(cp, lines)
	return &Dataset{Path: path, lines: cp}
}

// Load reads every line of the file at path
func Load(path string, opts Options) (*Dataset, error) {
	// #nosec G304 - the path is chosen interactively by the user
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	ds, err := Parse(file, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	ds.Path = path
	return ds, nil
}

// Parse reads every line from r
func Parse(r io.Reader, opts Options) (*Dataset, error) {
	maxLen := opts.MaxLineLength
	if maxLen <= 0 {
		maxLen = DefaultMaxLineLength
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, min(64*1024, maxLen)), maxLen)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanner error: %w", err)
	}

	return &Dataset{lines: lines}, nil
}

// Len returns the number of lines
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.lines)
}

// Line returns the raw line at index i
func (d *Dataset) Line(i int) (string, error) {
	if i < 0 || i >= d.Len() {
		return "", fmt.Errorf("%w: %d", ErrOutOfRange, i)
	}
	return d.lines[i], nil
}

// Row parses the line at index i
func (d *Dataset) Row(i int) (Row, error) {
	line, err := d.Line(i)
	if err != nil {
		return Row{}, err
	}
	row, err := ParseRow(line)
	if err != nil {
		return Row{}, fmt.Errorf("row %d: %w", i+1, err)
	}
	return row, nil
}

// Label returns the first token of the line at index i without parsing the samples
func (d *Dataset) Label(i int) string {
	line, err := d.Line(i)
	if err != nil {
		return ""
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// ParseRow splits a line into its label and samples
func ParseRow(line string) (Row, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Row{}, ErrEmptyRow
	}
	if len(fields)-1 != SampleCount {
		return Row{}, fmt.Errorf("%w: got %d, want %d", ErrFieldCount, len(fields)-1, SampleCount)
	}

	row := Row{Label: fields[0]}
	for i, tok := range fields[1:] {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return Row{}, &ParseError{Index: i, Token: tok, Err: err}
		}
		row.Values[i] = v
	}
	return row, nil
}
