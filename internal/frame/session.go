package frame

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/zeebo/xxh3"
	"golang.org/x/sync/errgroup"
)

// ErrClosed is returned by every Session operation after Close.
var ErrClosed = errors.New("frame: session is closed")

// Options configures a Session. All fields are optional; sensible defaults
// are applied when a field is zero.
type Options struct {
	// Workers bounds the number of goroutines used for partitioned row
	// scans. When zero, runtime.NumCPU() is used.
	Workers int
}

// Session is the execution context for frame operations. It is constructed
// once by the coordinator, passed to every stage, and torn down with Close.
// A Session is safe for concurrent use; operations on distinct frames may
// run in parallel, though the pipeline issues them sequentially.
type Session struct {
	workers int
	closed  chan struct{}
}

// NewSession constructs a Session with the provided Options.
func NewSession(opts Options) *Session {
	w := opts.Workers
	if w <= 0 {
		w = runtime.NumCPU()
	}
	return &Session{workers: w, closed: make(chan struct{})}
}

// Workers reports the configured worker budget.
func (s *Session) Workers() int { return s.workers }

// Close tears the session down. Subsequent operations return ErrClosed.
// Close is idempotent.
func (s *Session) Close() {
	select {
	case <-s.closed:
	default:
		close(s.closed)
	}
}

// check gates every operation on session and context liveness.
func (s *Session) check(ctx context.Context) error {
	select {
	case <-s.closed:
		return ErrClosed
	default:
	}
	return ctx.Err()
}

// partitions splits [0,n) into at most s.workers contiguous ranges.
// Partition order is preserved by all callers, so results stay deterministic
// regardless of scheduling.
func (s *Session) partitions(n int) [][2]int {
	w := s.workers
	if w > n {
		w = n
	}
	if w <= 1 {
		if n == 0 {
			return nil
		}
		return [][2]int{{0, n}}
	}
	parts := make([][2]int, 0, w)
	size := (n + w - 1) / w
	for lo := 0; lo < n; lo += size {
		hi := lo + size
		if hi > n {
			hi = n
		}
		parts = append(parts, [2]int{lo, hi})
	}
	return parts
}

// Filter returns the rows of f for which keep(cell of col) is true.
// Row order is preserved. The keep function must be safe for concurrent
// calls; row scans are partitioned across the session's workers.
func (s *Session) Filter(ctx context.Context, f *Frame, col string, keep func(any) bool) (*Frame, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	ci, ok := f.Col(col)
	if !ok {
		return nil, fmt.Errorf("frame: filter: no column %q", col)
	}

	mask := make([]bool, f.Len())
	g, gctx := errgroup.WithContext(ctx)
	for _, p := range s.partitions(f.Len()) {
		lo, hi := p[0], p[1]
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if i%1024 == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				mask[i] = keep(f.rows[i][ci])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([][]any, 0, f.Len())
	for i, keepRow := range mask {
		if keepRow {
			out = append(out, f.rows[i])
		}
	}
	return New(f.Columns(), out)
}

// joinColumns concatenates left and right column sets, rejecting duplicate
// output names. Joined datasets are expected to use disjoint column prefixes.
func joinColumns(left, right *Frame) ([]Column, error) {
	cols := make([]Column, 0, left.Width()+right.Width())
	cols = append(cols, left.Columns()...)
	for _, c := range right.Columns() {
		if _, dup := left.Col(c.Name); dup {
			return nil, fmt.Errorf("frame: join: duplicate output column %q", c.Name)
		}
		cols = append(cols, c)
	}
	return cols, nil
}

// rightIndex builds a hash index over the right frame's key column.
// nil keys are excluded, so they never match anything.
func rightIndex(right *Frame, ki int) map[any][]int {
	idx := make(map[any][]int, right.Len())
	for i, r := range right.rows {
		k := r[ki]
		if k == nil {
			continue
		}
		idx[k] = append(idx[k], i)
	}
	return idx
}

// InnerJoin joins left to right on leftKey = rightKey, keeping only rows with
// a match on both sides. Output columns are the left columns followed by the
// right columns; left row order is preserved and multiple matches fan out in
// right row order. nil keys never match.
func (s *Session) InnerJoin(ctx context.Context, left, right *Frame, leftKey, rightKey string) (*Frame, error) {
	return s.join(ctx, left, right, leftKey, rightKey, false)
}

// LeftJoin joins left to right on leftKey = rightKey, keeping every left row.
// Rows without a match carry nil in every right column.
func (s *Session) LeftJoin(ctx context.Context, left, right *Frame, leftKey, rightKey string) (*Frame, error) {
	return s.join(ctx, left, right, leftKey, rightKey, true)
}

func (s *Session) join(ctx context.Context, left, right *Frame, leftKey, rightKey string, keepUnmatched bool) (*Frame, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	li, ok := left.Col(leftKey)
	if !ok {
		return nil, fmt.Errorf("frame: join: left has no column %q", leftKey)
	}
	ri, ok := right.Col(rightKey)
	if !ok {
		return nil, fmt.Errorf("frame: join: right has no column %q", rightKey)
	}
	cols, err := joinColumns(left, right)
	if err != nil {
		return nil, err
	}

	idx := rightIndex(right, ri)
	width := len(cols)
	out := make([][]any, 0, left.Len())
	for n, lrow := range left.rows {
		if n%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		var matches []int
		if k := lrow[li]; k != nil {
			matches = idx[k]
		}
		if len(matches) == 0 {
			if keepUnmatched {
				row := make([]any, width)
				copy(row, lrow)
				out = append(out, row)
			}
			continue
		}
		for _, m := range matches {
			row := make([]any, width)
			copy(row, lrow)
			copy(row[left.Width():], right.rows[m])
			out = append(out, row)
		}
	}
	return New(cols, out)
}

// GroupSum groups f by the given columns and sums sumCol per group, rounding
// each total half-away-from-zero to the given number of decimals. Output
// columns are the group columns followed by the total under the name given by
// as; group order is the first-seen row order. nil summands are skipped.
func (s *Session) GroupSum(ctx context.Context, f *Frame, by []string, sumCol, as string, decimals int) (*Frame, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	if len(by) == 0 {
		return nil, fmt.Errorf("frame: group: at least one group column is required")
	}
	byIdx := make([]int, len(by))
	cols := make([]Column, 0, len(by)+1)
	for i, name := range by {
		ci, ok := f.Col(name)
		if !ok {
			return nil, fmt.Errorf("frame: group: no column %q", name)
		}
		byIdx[i] = ci
		cols = append(cols, f.cols[ci])
	}
	si, ok := f.Col(sumCol)
	if !ok {
		return nil, fmt.Errorf("frame: group: no column %q", sumCol)
	}
	if as == "" {
		return nil, fmt.Errorf("frame: group: output column name must not be empty")
	}
	cols = append(cols, Column{Name: as, Kind: KindFloat64})

	type group struct {
		key  []any
		sum  float64
		seen int
	}
	order := make([]string, 0, 64)
	groups := make(map[string]*group, 64)

	var b strings.Builder
	for n, row := range f.rows {
		if n%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		b.Reset()
		for i, ci := range byIdx {
			if i > 0 {
				b.WriteByte('\x00')
			}
			writeGroupKey(&b, row[ci])
		}
		key := b.String()
		g := groups[key]
		if g == nil {
			kv := make([]any, len(byIdx))
			for i, ci := range byIdx {
				kv[i] = row[ci]
			}
			g = &group{key: kv}
			groups[key] = g
			order = append(order, key)
		}
		v, err := numeric(row[si])
		if err != nil {
			return nil, fmt.Errorf("frame: group: column %q row %d: %w", sumCol, n, err)
		}
		if v != nil {
			g.sum += *v
			g.seen++
		}
	}

	pow := math.Pow(10, float64(decimals))
	out := make([][]any, 0, len(order))
	for _, key := range order {
		g := groups[key]
		row := make([]any, 0, len(g.key)+1)
		row = append(row, g.key...)
		row = append(row, math.Round(g.sum*pow)/pow)
		out = append(out, row)
	}
	return New(cols, out)
}

// writeGroupKey appends a canonical byte form of v to b. The encoding mirrors
// the record-key construction used by the de-duplication path: nil maps to a
// NUL marker, everything else to its printed form.
func writeGroupKey(b *strings.Builder, v any) {
	switch t := v.(type) {
	case nil:
		b.WriteByte('\x00')
	case string:
		b.WriteString(t)
	case time.Time:
		b.WriteString(t.UTC().Format(time.RFC3339Nano))
	default:
		fmt.Fprint(b, t)
	}
}

// numeric widens a cell to *float64; nil stays nil.
func numeric(v any) (*float64, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case float64:
		return &t, nil
	case int64:
		f := float64(t)
		return &f, nil
	default:
		return nil, fmt.Errorf("value %v (%T) is not numeric", v, v)
	}
}

// SortDesc returns f sorted descending by col. The sort is stable, so rows
// with equal keys keep their input order; nil keys sort last.
func (s *Session) SortDesc(ctx context.Context, f *Frame, col string) (*Frame, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	ci, ok := f.Col(col)
	if !ok {
		return nil, fmt.Errorf("frame: sort: no column %q", col)
	}
	rows := make([][]any, len(f.rows))
	copy(rows, f.rows)
	var sortErr error
	sort.SliceStable(rows, func(i, j int) bool {
		less, err := cellLess(rows[j][ci], rows[i][ci]) // descending
		if err != nil && sortErr == nil {
			sortErr = fmt.Errorf("frame: sort: column %q: %w", col, err)
		}
		return less
	})
	if sortErr != nil {
		return nil, sortErr
	}
	return New(f.Columns(), rows)
}

// cellLess orders two cells of one column. nil is smaller than every value,
// which places it last under the descending comparator.
func cellLess(a, b any) (bool, error) {
	if a == nil {
		return b != nil, nil
	}
	if b == nil {
		return false, nil
	}
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		if !ok {
			return false, fmt.Errorf("mixed cell types %T and %T", a, b)
		}
		return av < bv, nil
	case time.Time:
		bv, ok := b.(time.Time)
		if !ok {
			return false, fmt.Errorf("mixed cell types %T and %T", a, b)
		}
		return av.Before(bv), nil
	default:
		af, err := numeric(a)
		if err != nil {
			return false, err
		}
		bf, err := numeric(b)
		if err != nil {
			return false, err
		}
		return *af < *bf, nil
	}
}

// Select projects f down to the named columns, in argument order.
func (s *Session) Select(ctx context.Context, f *Frame, cols ...string) (*Frame, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("frame: select: at least one column is required")
	}
	idx := make([]int, len(cols))
	defs := make([]Column, len(cols))
	for i, name := range cols {
		ci, ok := f.Col(name)
		if !ok {
			return nil, fmt.Errorf("frame: select: no column %q", name)
		}
		idx[i] = ci
		defs[i] = f.cols[ci]
	}
	out := make([][]any, len(f.rows))
	for r, row := range f.rows {
		proj := make([]any, len(idx))
		for i, ci := range idx {
			proj[i] = row[ci]
		}
		out[r] = proj
	}
	return New(defs, out)
}

// Derive appends a computed column to f. The callback receives a read-only
// row view and returns the new cell (nil allowed); its result must match the
// declared kind. The first callback error aborts the derivation.
func (s *Session) Derive(ctx context.Context, f *Frame, name string, kind Kind, fn func(Row) (any, error)) (*Frame, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	if _, dup := f.Col(name); dup {
		return nil, fmt.Errorf("frame: derive: column %q already exists", name)
	}
	cols := append(f.Columns(), Column{Name: name, Kind: kind})
	out := make([][]any, len(f.rows))
	for i := range f.rows {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		v, err := fn(Row{frame: f, idx: i})
		if err != nil {
			return nil, fmt.Errorf("frame: derive %q row %d: %w", name, i, err)
		}
		row := make([]any, len(cols))
		copy(row, f.rows[i])
		row[len(cols)-1] = v
		out[i] = row
	}
	return New(cols, out)
}

// CastTime ensures col holds time.Time cells, parsing string cells with the
// given layouts (first match wins). A column already of KindTime is returned
// unchanged; a non-empty string that matches no layout is an error. nil cells
// stay nil.
func (s *Session) CastTime(ctx context.Context, f *Frame, col string, layouts []string) (*Frame, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	ci, ok := f.Col(col)
	if !ok {
		return nil, fmt.Errorf("frame: cast: no column %q", col)
	}
	if f.cols[ci].Kind == KindTime {
		return f, nil
	}
	if len(layouts) == 0 {
		return nil, fmt.Errorf("frame: cast: no layouts for column %q", col)
	}

	cols := f.Columns()
	cols[ci].Kind = KindTime
	out := make([][]any, len(f.rows))
	for i, row := range f.rows {
		nr := make([]any, len(row))
		copy(nr, row)
		switch v := row[ci].(type) {
		case nil, time.Time:
		case string:
			if v == "" {
				nr[ci] = nil
				break
			}
			var t time.Time
			var perr error
			parsed := false
			for _, layout := range layouts {
				if t, perr = time.Parse(layout, v); perr == nil {
					parsed = true
					break
				}
			}
			if !parsed {
				return nil, fmt.Errorf("frame: cast: column %q row %d: cannot parse %q as time", col, i, v)
			}
			nr[ci] = t
		default:
			return nil, fmt.Errorf("frame: cast: column %q row %d holds %T", col, i, v)
		}
		out[i] = nr
	}
	return New(cols, out)
}

// DistinctCount counts distinct values of col using 64-bit xxh3 value hashes.
// Row scans are partitioned across the session's workers; per-partition hash
// sets are merged at the end. nil cells count as one distinct value.
func (s *Session) DistinctCount(ctx context.Context, f *Frame, col string) (int64, error) {
	if err := s.check(ctx); err != nil {
		return 0, err
	}
	ci, ok := f.Col(col)
	if !ok {
		return 0, fmt.Errorf("frame: distinct: no column %q", col)
	}

	parts := s.partitions(f.Len())
	sets := make([]map[uint64]struct{}, len(parts))
	g, gctx := errgroup.WithContext(ctx)
	for pi, p := range parts {
		pi := pi
		lo, hi := p[0], p[1]
		g.Go(func() error {
			set := make(map[uint64]struct{}, hi-lo)
			for i := lo; i < hi; i++ {
				if i%1024 == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				set[hashCell(f.rows[i][ci])] = struct{}{}
			}
			sets[pi] = set
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	merged := make(map[uint64]struct{})
	for _, set := range sets {
		for h := range set {
			merged[h] = struct{}{}
		}
	}
	return int64(len(merged)), nil
}

// hashCell produces a 64-bit hash of a cell. A type tag byte keeps values of
// different kinds from colliding on equal byte encodings.
func hashCell(v any) uint64 {
	var buf [9]byte
	switch t := v.(type) {
	case nil:
		buf[0] = 0
		return xxh3.Hash(buf[:1])
	case string:
		return xxh3.HashString("s\x00" + t)
	case int64:
		buf[0] = 'i'
		binary.LittleEndian.PutUint64(buf[1:], uint64(t))
		return xxh3.Hash(buf[:])
	case float64:
		buf[0] = 'f'
		binary.LittleEndian.PutUint64(buf[1:], math.Float64bits(t))
		return xxh3.Hash(buf[:])
	case time.Time:
		buf[0] = 't'
		binary.LittleEndian.PutUint64(buf[1:], uint64(t.UnixNano()))
		return xxh3.Hash(buf[:])
	default:
		return xxh3.HashString(fmt.Sprintf("x\x00%T:%v", v, v))
	}
}
