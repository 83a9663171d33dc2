// Package session holds the row viewer state: the loaded dataset, the row
// cursor, the per-row analysis flag and the accumulated results.
//
// A Session is owned by a single goroutine (the UI event loop) and is not
// safe for concurrent use.
package session

import (
	"errors"
	"fmt"

	"github.com/yildizm/linefit/internal/dataset"
	"github.com/yildizm/linefit/internal/formatter"
	"github.com/yildizm/linefit/internal/logger"
	"github.com/yildizm/linefit/internal/regression"
	"github.com/yildizm/linefit/internal/results"
)

// ErrNoData is returned by operations that need a loaded dataset
var ErrNoData = errors.New("no data loaded")

// State is the position of the session in its lifecycle
type State int

const (
	StateIdle State = iota
	StateRowView
	StateRowAnalyzed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRowView:
		return "row-view"
	case StateRowAnalyzed:
		return "row-analyzed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Analysis is the outcome of one successful trigger
type Analysis struct {
	Row    dataset.Row
	Index  int
	Fit    *regression.Result
	Stored results.Result
}

// Session is the row cursor and regression controller
type Session struct {
	data     *dataset.Dataset
	cursor   int
	analyzed bool
	last     *Analysis
	results  *results.Table
	opts     dataset.Options
	log      *logger.Logger
}

// New creates an idle session
func New(opts dataset.Options, log *logger.Logger) *Session {
	if log == nil {
		log = logger.Nop()
	}
	return &Session{
		results: results.NewTable(),
		opts:    opts,
		log:     log.WithComponent("session"),
	}
}

// Load replaces the dataset with the lines of the file at path.
// On failure the previous dataset and cursor are kept.
func (s *Session) Load(path string) error {
	ds, err := dataset.Load(path, s.opts)
	if err != nil {
		s.log.Warn("load failed: %v", err)
		return err
	}
	s.SetDataset(ds)
	s.log.InfoWithFields("dataset loaded", []logger.Field{logger.Path(path), logger.Rows(ds.Len())})
	return nil
}

// SetDataset installs ds and resets the cursor and analysis flag
func (s *Session) SetDataset(ds *dataset.Dataset) {
	s.data = ds
	s.cursor = 0
	s.clearAnalysis()
}

// Reload re-reads the current file, keeping the cursor where possible
func (s *Session) Reload() error {
	if s.data == nil || s.data.Path == "" {
		return ErrNoData
	}
	ds, err := dataset.Load(s.data.Path, s.opts)
	if err != nil {
		s.log.Warn("reload failed: %v", err)
		return err
	}

	s.data = ds
	if s.cursor >= ds.Len() {
		s.cursor = max(0, ds.Len()-1)
	}
	s.clearAnalysis()
	s.log.InfoWithFields("dataset reloaded", []logger.Field{logger.Path(ds.Path), logger.Rows(ds.Len())})
	return nil
}

// Up moves the cursor to the previous row. It reports whether the cursor moved.
func (s *Session) Up() bool {
	if s.cursor <= 0 {
		return false
	}
	s.cursor--
	s.clearAnalysis()
	return true
}

// Down moves the cursor to the next row. It reports whether the cursor moved.
func (s *Session) Down() bool {
	if s.cursor >= s.Len()-1 {
		return false
	}
	s.cursor++
	s.clearAnalysis()
	return true
}

// Analyze fits the row under the cursor and stores the result. When the row
// was already analyzed since the cursor last moved, or nothing is loaded, it
// returns nil without error.
func (s *Session) Analyze() (*Analysis, error) {
	if s.analyzed || s.Len() == 0 {
		return nil, nil
	}

	row, err := s.data.Row(s.cursor)
	if err != nil {
		return nil, err
	}
	fit, err := regression.FitRow(row)
	if err != nil {
		return nil, fmt.Errorf("row %d: %w", s.cursor+1, err)
	}

	stored := results.Result{
		Row:       s.cursor + 1,
		Label:     row.Label,
		Slope:     fit.Slope,
		Intercept: fit.Intercept,
		RValue:    fit.RValue,
	}
	s.results.Add(stored)
	s.analyzed = true
	s.last = &Analysis{Row: row, Index: s.cursor, Fit: fit, Stored: stored}

	s.log.DebugWithFields("row analyzed", []logger.Field{
		logger.Row(stored.Row),
		logger.F("slope", fit.Slope),
		logger.F("intercept", fit.Intercept),
		logger.F("r", fit.RValue),
	})
	return s.last, nil
}

// Export writes the results table to path in the given format (TSV when empty)
func (s *Session) Export(path, format string) error {
	f, err := formatter.New(format, false)
	if err != nil {
		return err
	}
	if err := formatter.WriteFile(path, f, s.Report()); err != nil {
		return err
	}
	s.log.InfoWithFields("results exported", []logger.Field{logger.Path(path), logger.Rows(s.results.Len())})
	return nil
}

// Report returns the results table ready for a formatter
func (s *Session) Report() *formatter.Report {
	report := &formatter.Report{Results: s.results.All()}
	if s.data != nil {
		report.Source = s.data.Path
	}
	return report
}

// Current parses the row under the cursor
func (s *Session) Current() (dataset.Row, error) {
	if s.Len() == 0 {
		return dataset.Row{}, ErrNoData
	}
	return s.data.Row(s.cursor)
}

// LastAnalysis returns the fit of the current row, if it has been analyzed
func (s *Session) LastAnalysis() (*Analysis, bool) {
	if !s.analyzed || s.last == nil {
		return nil, false
	}
	return s.last, true
}

// State reports the lifecycle state
func (s *Session) State() State {
	switch {
	case s.data == nil:
		return StateIdle
	case s.analyzed:
		return StateRowAnalyzed
	default:
		return StateRowView
	}
}

// StatusLine describes the row under the cursor
func (s *Session) StatusLine() string {
	if s.Len() == 0 {
		return "No data loaded"
	}
	return fmt.Sprintf("Row %d of %d, label: %s", s.cursor+1, s.Len(), s.data.Label(s.cursor))
}

// Cursor returns the index of the current row
func (s *Session) Cursor() int { return s.cursor }

// Analyzed reports whether the current row has been analyzed
func (s *Session) Analyzed() bool { return s.analyzed }

// Len returns the number of rows in the dataset
func (s *Session) Len() int { return s.data.Len() }

// Path returns the path of the loaded file
func (s *Session) Path() string {
	if s.data == nil {
		return ""
	}
	return s.data.Path
}

// Results returns the stored results in insertion order
func (s *Session) Results() []results.Result { return s.results.All() }

func (s *Session) clearAnalysis() {
	s.analyzed = false
	s.last = nil
}
