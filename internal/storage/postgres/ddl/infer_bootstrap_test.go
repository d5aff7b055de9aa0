package ddl

import (
	"context"
	"strings"
	"testing"

	"retailetl/internal/frame"
)

// execRecorder is a minimal storage.Repository that records executed SQL.
type execRecorder struct {
	stmts []string
}

func (r *execRecorder) CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	return int64(len(rows)), nil
}
func (r *execRecorder) Exec(ctx context.Context, sql string) error {
	r.stmts = append(r.stmts, sql)
	return nil
}
func (r *execRecorder) Close() {}

// TestFromFrame verifies column mapping, nullability, and input validation.
func TestFromFrame(t *testing.T) {
	t.Parallel()

	cols := []frame.Column{
		{Name: "order_id", Kind: frame.KindInt64},
		{Name: "order_date", Kind: frame.KindTime},
		{Name: "order_item_subtotal", Kind: frame.KindFloat64},
		{Name: "order_status", Kind: frame.KindString},
	}

	td, err := FromFrame("public.retail_sales_wide", cols)
	if err != nil {
		t.Fatalf("FromFrame() error = %v", err)
	}
	if td.FQN != "public.retail_sales_wide" {
		t.Fatalf("FQN = %q", td.FQN)
	}
	if len(td.Columns) != len(cols) {
		t.Fatalf("columns = %d, want %d", len(td.Columns), len(cols))
	}

	wantTypes := []string{"BIGINT", "TIMESTAMPTZ", "DOUBLE PRECISION", "TEXT"}
	for i, c := range td.Columns {
		if c.Name != cols[i].Name {
			t.Fatalf("column %d name = %q, want %q", i, c.Name, cols[i].Name)
		}
		if c.SQLType != wantTypes[i] {
			t.Fatalf("column %s type = %q, want %q", c.Name, c.SQLType, wantTypes[i])
		}
		if !c.Nullable {
			t.Fatalf("column %s should be nullable", c.Name)
		}
	}

	if _, err := FromFrame("", cols); err == nil || !strings.Contains(err.Error(), "table name is required") {
		t.Fatalf("empty table error = %v", err)
	}
	if _, err := FromFrame("t", nil); err == nil || !strings.Contains(err.Error(), "columns must not be empty") {
		t.Fatalf("empty columns error = %v", err)
	}
}

// TestReplaceTable verifies the drop-then-create sequence issued to the repo.
func TestReplaceTable(t *testing.T) {
	t.Parallel()

	td, err := FromFrame("public.t", []frame.Column{{Name: "id", Kind: frame.KindInt64}})
	if err != nil {
		t.Fatalf("FromFrame() error = %v", err)
	}

	repo := &execRecorder{}
	if err := ReplaceTable(context.Background(), repo, td); err != nil {
		t.Fatalf("ReplaceTable() error = %v", err)
	}

	if len(repo.stmts) != 2 {
		t.Fatalf("executed %d statements, want 2: %v", len(repo.stmts), repo.stmts)
	}
	if !strings.HasPrefix(repo.stmts[0], "DROP TABLE IF EXISTS") {
		t.Fatalf("first statement = %q, want DROP TABLE IF EXISTS ...", repo.stmts[0])
	}
	if !strings.HasPrefix(repo.stmts[1], "CREATE TABLE IF NOT EXISTS") {
		t.Fatalf("second statement = %q, want CREATE TABLE IF NOT EXISTS ...", repo.stmts[1])
	}
}
