package ingest

import (
	"strconv"
	"time"

	"retailetl/internal/frame"
)

// TimeLayouts are the timestamp/date layouts tried during type inference and
// by order-date casts, in preference order. The first layout matches the
// dotted-fraction form the retail exports use.
var TimeLayouts = []string{
	"2006-01-02 15:04:05.0",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// colProfile accumulates per-column parse statistics over all data rows.
// Inference is best-effort from cell contents; ambiguous columns may
// mis-infer and that is accepted, not corrected.
type colProfile struct {
	nonEmpty int
	ints     int
	floats   int
	byLayout []int
}

func newColProfile(layouts []string) *colProfile {
	return &colProfile{byLayout: make([]int, len(layouts))}
}

func (p *colProfile) observe(s string, layouts []string) {
	p.nonEmpty++
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		p.ints++
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		p.floats++
	}
	for i, layout := range layouts {
		if _, err := time.Parse(layout, s); err == nil {
			p.byLayout[i]++
		}
	}
}

// kind decides the column kind: all-int wins over all-float wins over
// all-timestamp; anything else is a string column. For timestamps the layout
// with the highest match count wins, earlier layouts breaking ties. A column
// with no non-empty cells stays a string column.
func (p *colProfile) kind() (frame.Kind, int) {
	if p.nonEmpty == 0 {
		return frame.KindString, -1
	}
	if p.ints == p.nonEmpty {
		return frame.KindInt64, -1
	}
	if p.floats == p.nonEmpty {
		return frame.KindFloat64, -1
	}
	best, bestCount := -1, 0
	for i, n := range p.byLayout {
		if n > bestCount {
			best, bestCount = i, n
		}
	}
	if best >= 0 && bestCount == p.nonEmpty {
		return frame.KindTime, best
	}
	return frame.KindString, -1
}

// coerceCell converts a raw string cell to the inferred kind. The bool result
// reports success; a failure degrades the whole column back to string rather
// than aborting the load.
func coerceCell(s string, kind frame.Kind, layout string) (any, bool) {
	switch kind {
	case frame.KindInt64:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, false
		}
		return n, true
	case frame.KindFloat64:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, false
		}
		return f, true
	case frame.KindTime:
		t, err := time.Parse(layout, s)
		if err != nil {
			return nil, false
		}
		return t, true
	default:
		return s, true
	}
}
