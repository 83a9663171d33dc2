package results

// Result is one stored regression of a dataset row
type Result struct {
	Row       int     `json:"row"` // 1-based line number in the dataset
	Label     string  `json:"label"`
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	RValue    float64 `json:"r_value"`
}

// Table is the append-only list of results in insertion order
type Table struct {
	rows []Result
}

// NewTable creates an empty table
func NewTable() *Table {
	return &Table{}
}

// Add appends a result
func (t *Table) Add(r Result) {
	t.rows = append(t.rows, r)
}

// Len returns the number of stored results
func (t *Table) Len() int {
	return len(t.rows)
}

// All returns a copy of the stored results in insertion order
func (t *Table) All() []Result {
	out := make([]Result, len(t.rows))
	copy(out, t.rows)
	return out
}

// Last returns the most recently added result
func (t *Table) Last() (Result, bool) {
	if len(t.rows) == 0 {
		return Result{}, false
	}
	return t.rows[len(t.rows)-1], true
}
