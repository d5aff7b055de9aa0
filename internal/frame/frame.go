// Package frame implements the small in-memory relational engine the
// analytics pipeline runs on: typed tables (frames), hash joins, grouped
// aggregation, projection, and sorting, executed through an explicitly
// constructed Session.
//
// The package is intentionally narrow. It is not a SQL planner and not a
// storage engine; it covers exactly the operator set the pipeline needs and
// keeps the semantics simple enough to reason about in tests:
//
//   - A Frame is immutable once built. Operations return new frames and
//     never mutate their inputs.
//   - Cell values are nil, int64, float64, string, or time.Time; the
//     column's Kind pins which one.
//   - Row order is always deterministic: filters preserve input order,
//     joins preserve left-row order, group results appear in first-seen
//     order, and sorts are stable.
package frame

import (
	"fmt"
	"time"
)

// Kind identifies the value type held by a column.
type Kind uint8

const (
	// KindString columns hold string cells.
	KindString Kind = iota
	// KindInt64 columns hold int64 cells.
	KindInt64
	// KindFloat64 columns hold float64 cells.
	KindFloat64
	// KindTime columns hold time.Time cells.
	KindTime
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt64:
		return "int64"
	case KindFloat64:
		return "float64"
	case KindTime:
		return "time"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Column describes one column of a Frame: its name and value kind.
type Column struct {
	Name string
	Kind Kind
}

// Frame is a table with named, typed columns and positional rows.
// Cells are nil (absent value) or the Go value matching the column's Kind.
type Frame struct {
	cols   []Column
	byName map[string]int
	rows   [][]any
}

// New builds a Frame from a column list and rows. Column names must be
// non-empty and unique; every row must have exactly len(cols) cells.
// Cell values are not kind-checked here; ingestion and the operators are
// responsible for producing canonical values.
func New(cols []Column, rows [][]any) (*Frame, error) {
	if len(cols) == 0 {
		return nil, fmt.Errorf("frame: at least one column is required")
	}
	byName := make(map[string]int, len(cols))
	for i, c := range cols {
		if c.Name == "" {
			return nil, fmt.Errorf("frame: column %d has an empty name", i)
		}
		if _, dup := byName[c.Name]; dup {
			return nil, fmt.Errorf("frame: duplicate column %q", c.Name)
		}
		byName[c.Name] = i
	}
	for i, r := range rows {
		if len(r) != len(cols) {
			return nil, fmt.Errorf("frame: row %d has %d cells, want %d", i, len(r), len(cols))
		}
	}
	cp := make([]Column, len(cols))
	copy(cp, cols)
	return &Frame{cols: cp, byName: byName, rows: rows}, nil
}

// Len returns the number of rows.
func (f *Frame) Len() int { return len(f.rows) }

// Width returns the number of columns.
func (f *Frame) Width() int { return len(f.cols) }

// Columns returns a copy of the column definitions in order.
func (f *Frame) Columns() []Column {
	cp := make([]Column, len(f.cols))
	copy(cp, f.cols)
	return cp
}

// Col returns the index of the named column and whether it exists.
func (f *Frame) Col(name string) (int, bool) {
	i, ok := f.byName[name]
	return i, ok
}

// ColumnKind returns the kind of the named column.
func (f *Frame) ColumnKind(name string) (Kind, bool) {
	i, ok := f.byName[name]
	if !ok {
		return 0, false
	}
	return f.cols[i].Kind, true
}

// Rows returns the underlying row slice. Callers must treat it as read-only;
// frames are shared between operations.
func (f *Frame) Rows() [][]any { return f.rows }

// Row returns row i. The returned slice is read-only.
func (f *Frame) Row(i int) []any { return f.rows[i] }

// At returns the cell at row i of the named column.
func (f *Frame) At(i int, col string) (any, error) {
	j, ok := f.byName[col]
	if !ok {
		return nil, fmt.Errorf("frame: no column %q", col)
	}
	return f.rows[i][j], nil
}

// StringAt returns the string cell at row i of col. A nil cell yields the
// empty string.
func (f *Frame) StringAt(i int, col string) (string, error) {
	v, err := f.At(i, col)
	if err != nil || v == nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("frame: column %q row %d holds %T, not string", col, i, v)
	}
	return s, nil
}

// IntAt returns the int64 cell at row i of col. A nil cell yields 0.
func (f *Frame) IntAt(i int, col string) (int64, error) {
	v, err := f.At(i, col)
	if err != nil || v == nil {
		return 0, err
	}
	n, ok := v.(int64)
	if !ok {
		return 0, fmt.Errorf("frame: column %q row %d holds %T, not int64", col, i, v)
	}
	return n, nil
}

// FloatAt returns the float64 cell at row i of col. A nil cell yields 0.
// An int64 cell is widened, so aggregates can be read uniformly.
func (f *Frame) FloatAt(i int, col string) (float64, error) {
	v, err := f.At(i, col)
	if err != nil || v == nil {
		return 0, err
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case int64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("frame: column %q row %d holds %T, not numeric", col, i, v)
	}
}

// TimeAt returns the time.Time cell at row i of col. A nil cell yields the
// zero time.
func (f *Frame) TimeAt(i int, col string) (time.Time, error) {
	v, err := f.At(i, col)
	if err != nil || v == nil {
		return time.Time{}, err
	}
	t, ok := v.(time.Time)
	if !ok {
		return time.Time{}, fmt.Errorf("frame: column %q row %d holds %T, not time.Time", col, i, v)
	}
	return t, nil
}

// Row is a read-only view of a single frame row, handed to Derive callbacks.
type Row struct {
	frame *Frame
	idx   int
}

// Value returns the cell of the named column and whether the column exists.
func (r Row) Value(col string) (any, bool) {
	i, ok := r.frame.byName[col]
	if !ok {
		return nil, false
	}
	return r.frame.rows[r.idx][i], true
}

// Index returns the row's position within its frame.
func (r Row) Index() int { return r.idx }
