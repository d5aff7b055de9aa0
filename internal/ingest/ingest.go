// Package ingest loads delimited text files into typed frames. It reads the
// whole file through encoding/csv, normalizes the header row into snake_case
// identifiers, infers a kind per column from cell contents (integer, float,
// timestamp, string), and coerces cells to the inferred kind. Empty cells
// become nil.
//
// The six retail inputs are machine-written exports, so a row with the wrong
// field count is treated as a hard error rather than soft-skipped.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"retailetl/internal/frame"
)

// Options configures a read. All fields are optional; sensible defaults are
// applied when a field is zero.
type Options struct {
	// Comma specifies the field delimiter. When zero, ',' is used.
	Comma rune

	// Layouts are the timestamp layouts tried during inference. When nil,
	// TimeLayouts is used.
	Layouts []string
}

// ReadFile opens path and delegates to Read. A missing or unreadable file is
// fatal for the dataset: the caller aborts every stage that depends on it.
func ReadFile(path string, opt Options) (*frame.Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ingest: open %s: %w", path, err)
	}
	defer f.Close()
	fr, err := Read(f, opt)
	if err != nil {
		return nil, fmt.Errorf("ingest: %s: %w", path, err)
	}
	return fr, nil
}

// Read parses CSV content from r into a typed frame. The first row is the
// header; every data row must have the same field count as the header.
func Read(r io.Reader, opt Options) (*frame.Frame, error) {
	layouts := opt.Layouts
	if layouts == nil {
		layouts = TimeLayouts
	}

	cr := csv.NewReader(r)
	if opt.Comma != 0 {
		cr.Comma = opt.Comma
	}

	h, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	headers := normalizeHeaders(h)
	for i, name := range headers {
		if name == "" {
			headers[i] = fmt.Sprintf("col_%d", i)
		}
	}

	// First pass: collect raw cells and per-column parse statistics.
	profiles := make([]*colProfile, len(headers))
	for i := range profiles {
		profiles[i] = newColProfile(layouts)
	}
	var raw [][]string
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row (line %d): %w", line, err)
		}
		if len(row) != len(headers) {
			return nil, fmt.Errorf("line %d: %d fields, want %d", line, len(row), len(headers))
		}
		for i, cell := range row {
			if cell != "" {
				profiles[i].observe(cell, layouts)
			}
		}
		raw = append(raw, row)
	}

	// Decide kinds, then coerce. A cell that fails coercion degrades its
	// column to string and the column is re-coerced; never a crash.
	cols := make([]frame.Column, len(headers))
	colLayout := make([]string, len(headers))
	for i, name := range headers {
		kind, li := profiles[i].kind()
		cols[i] = frame.Column{Name: name, Kind: kind}
		if li >= 0 {
			colLayout[i] = layouts[li]
		}
	}

	rows := make([][]any, len(raw))
	for ri := range raw {
		rows[ri] = make([]any, len(cols))
	}
	for ci := range cols {
		if !fillColumn(raw, rows, ci, cols[ci].Kind, colLayout[ci]) {
			cols[ci].Kind = frame.KindString
			fillColumn(raw, rows, ci, frame.KindString, "")
		}
	}

	return frame.New(cols, rows)
}

// fillColumn coerces column ci of every raw row into rows. It reports false
// on the first cell that does not parse under the requested kind; the caller
// then degrades the column to string and refills.
func fillColumn(raw [][]string, rows [][]any, ci int, kind frame.Kind, layout string) bool {
	for ri, row := range raw {
		cell := row[ci]
		if cell == "" {
			rows[ri][ci] = nil
			continue
		}
		v, ok := coerceCell(cell, kind, layout)
		if !ok {
			return false
		}
		rows[ri][ci] = v
	}
	return true
}
