package ingest

import (
	"strings"
	"testing"
	"time"

	"retailetl/internal/frame"
)

func TestReadInfersColumnKinds(t *testing.T) {
	t.Parallel()

	in := "order_id,order_date,order_customer_id,order_status\n" +
		"1,2013-07-25 00:00:00.0,11599,CLOSED\n" +
		"2,2013-07-25 00:00:00.0,256,PENDING_PAYMENT\n" +
		"3,2013-07-26 00:00:00.0,12111,CANCELED\n"

	f, err := Read(strings.NewReader(in), Options{})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if f.Len() != 3 {
		t.Fatalf("Len=%d want 3", f.Len())
	}

	wantKinds := map[string]frame.Kind{
		"order_id":          frame.KindInt64,
		"order_date":        frame.KindTime,
		"order_customer_id": frame.KindInt64,
		"order_status":      frame.KindString,
	}
	for name, want := range wantKinds {
		k, ok := f.ColumnKind(name)
		if !ok || k != want {
			t.Fatalf("column %q kind=%v,%v want %v", name, k, ok, want)
		}
	}

	ts, err := f.TimeAt(0, "order_date")
	if err != nil {
		t.Fatalf("TimeAt: %v", err)
	}
	want := time.Date(2013, 7, 25, 0, 0, 0, 0, time.UTC)
	if !ts.Equal(want) {
		t.Fatalf("order_date=%v want %v", ts, want)
	}
}

func TestReadFloatAndEmptyCells(t *testing.T) {
	t.Parallel()

	in := "order_item_id,order_item_subtotal\n" +
		"1,299.98\n" +
		"2,\n" +
		"3,129.99\n"

	f, err := Read(strings.NewReader(in), Options{})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	k, _ := f.ColumnKind("order_item_subtotal")
	if k != frame.KindFloat64 {
		t.Fatalf("subtotal kind=%v want float64", k)
	}
	if v, _ := f.At(1, "order_item_subtotal"); v != nil {
		t.Fatalf("empty cell=%v want nil", v)
	}
	if v, _ := f.FloatAt(2, "order_item_subtotal"); v != 129.99 {
		t.Fatalf("row2 subtotal=%v want 129.99", v)
	}
}

func TestReadDegradesMixedColumnToString(t *testing.T) {
	t.Parallel()

	in := "code\n12\nabc\n7\n"
	f, err := Read(strings.NewReader(in), Options{})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	k, _ := f.ColumnKind("code")
	if k != frame.KindString {
		t.Fatalf("code kind=%v want string", k)
	}
	if s, _ := f.StringAt(0, "code"); s != "12" {
		t.Fatalf("row0=%q want 12", s)
	}
}

func TestReadRowCountMatchesDataLines(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	b.WriteString("department_id,department_name\n")
	const n = 57
	for i := 0; i < n; i++ {
		b.WriteString("1,Fitness\n")
	}
	f, err := Read(strings.NewReader(b.String()), Options{})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if f.Len() != n {
		t.Fatalf("Len=%d want %d", f.Len(), n)
	}
}

func TestReadRejectsRaggedRows(t *testing.T) {
	t.Parallel()

	in := "a,b\n1,2\n3\n"
	if _, err := Read(strings.NewReader(in), Options{}); err == nil {
		t.Fatalf("ragged row: want error")
	}
}

func TestReadFileMissing(t *testing.T) {
	t.Parallel()

	if _, err := ReadFile("does/not/exist.csv", Options{}); err == nil {
		t.Fatalf("missing file: want error")
	}
}

func TestReadCustomDelimiter(t *testing.T) {
	t.Parallel()

	in := "category_id;category_name\n1;Football\n"
	f, err := Read(strings.NewReader(in), Options{Comma: ';'})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if s, _ := f.StringAt(0, "category_name"); s != "Football" {
		t.Fatalf("category_name=%q want Football", s)
	}
}
