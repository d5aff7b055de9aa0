package analytics

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"retailetl/internal/frame"
	"retailetl/internal/ingest"
)

func mustIngest(tb testing.TB, csv string) *frame.Frame {
	tb.Helper()
	f, err := ingest.Read(strings.NewReader(csv), ingest.Options{})
	if err != nil {
		tb.Fatalf("ingest: %v", err)
	}
	return f
}

// testBundle builds a small but fully relational fixture: two orders (one
// CANCELED, one COMPLETE), three items, two products in two categories under
// two departments, two customers.
func testBundle(tb testing.TB) *Bundle {
	tb.Helper()
	return &Bundle{
		Orders: mustIngest(tb, "order_id,order_date,order_customer_id,order_status\n"+
			"1,2013-07-25 00:00:00.0,100,CANCELED\n"+
			"2,2013-08-12 00:00:00.0,200,COMPLETE\n"),
		OrderItems: mustIngest(tb, "order_item_id,order_item_order_id,order_item_product_id,order_item_quantity,order_item_subtotal,order_item_product_price\n"+
			"1,1,10,2,100.00,50.00\n"+
			"2,1,20,1,40.00,40.00\n"+
			"3,2,10,1,50.00,50.00\n"),
		Products: mustIngest(tb, "product_id,product_category_id,product_name,product_description,product_price,product_image\n"+
			"10,5,Perfect Fitness Rip Deck,,59.99,http://example.com/a\n"+
			"20,6,Nike Free 5.0,,99.99,http://example.com/b\n"),
		Customers: mustIngest(tb, "customer_id,customer_fname,customer_lname,customer_email,customer_password,customer_street,customer_city,customer_state,customer_zipcode\n"+
			"100,Mary,Smith,XXXXXXXXX,XXXXXXXXX,Main St 1,Caguas,PR,00725\n"+
			"200,Joe,Bloggs,XXXXXXXXX,XXXXXXXXX,Side St 2,Chicago,IL,60625\n"),
		Categories: mustIngest(tb, "category_id,category_department_id,category_name\n"+
			"5,2,Cardio Equipment\n"+
			"6,3,Mens Footwear\n"),
		Departments: mustIngest(tb, "department_id,department_name\n"+
			"2,Fitness\n"+
			"3,Footwear\n"),
	}
}

func newSession(tb testing.TB) *frame.Session {
	tb.Helper()
	s := frame.NewSession(frame.Options{Workers: 2})
	tb.Cleanup(s.Close)
	return s
}

func TestOverviewDistinctNeverExceedsRows(t *testing.T) {
	t.Parallel()

	s := newSession(t)
	counts, err := Overview(context.Background(), s, testBundle(t))
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	// Six datasets plus the distinct-customer reduction over orders.
	if len(counts) != len(Datasets)+1 {
		t.Fatalf("len=%d want %d", len(counts), len(Datasets)+1)
	}
	for _, c := range counts {
		if c.Distinct > int64(c.Rows) {
			t.Fatalf("%s.%s: distinct=%d exceeds rows=%d", c.Name, c.Key, c.Distinct, c.Rows)
		}
	}
}

// Only the canceled order's items count: product 10 contributes 100, product
// 20 contributes 40; the COMPLETE order's 50 never appears.
func TestCanceledSalesByProduct(t *testing.T) {
	t.Parallel()

	s := newSession(t)
	got, err := CanceledSalesByProduct(context.Background(), s, testBundle(t))
	if err != nil {
		t.Fatalf("CanceledSalesByProduct: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len=%d want 2", len(got))
	}
	if got[0].Name != "Perfect Fitness Rip Deck" || got[0].TotalSales != 100.00 {
		t.Fatalf("top=%+v want Perfect Fitness Rip Deck/100", got[0])
	}
	if got[1].Name != "Nike Free 5.0" || got[1].TotalSales != 40.00 {
		t.Fatalf("second=%+v want Nike Free 5.0/40", got[1])
	}
	for i := 1; i < len(got); i++ {
		if got[i].TotalSales > got[i-1].TotalSales {
			t.Fatalf("ranking not non-increasing at %d: %v", i, got)
		}
	}
}

// Category totals must sum to product totals: every canceled joined item
// belongs to exactly one product and one category.
func TestCategoryTotalsCrossCheck(t *testing.T) {
	t.Parallel()

	s := newSession(t)
	ctx := context.Background()
	b := testBundle(t)

	byProduct, err := CanceledSalesByProduct(ctx, s, b)
	if err != nil {
		t.Fatalf("by product: %v", err)
	}
	byCategory, err := CanceledSalesByCategory(ctx, s, b)
	if err != nil {
		t.Fatalf("by category: %v", err)
	}
	var productSum, categorySum float64
	for _, r := range byProduct {
		productSum += r.TotalSales
	}
	for _, r := range byCategory {
		categorySum += r.TotalSales
	}
	if math.Abs(productSum-categorySum) > 1e-9 {
		t.Fatalf("category sum %v != product sum %v", categorySum, productSum)
	}
}

func TestPeakSalesMonth(t *testing.T) {
	t.Parallel()

	s := newSession(t)
	got, err := PeakSalesMonth(context.Background(), s, testBundle(t))
	if err != nil {
		t.Fatalf("PeakSalesMonth: %v", err)
	}
	// July 2013 carries 140, August 2013 carries 50.
	if got.Month != "July" || got.Year != 2013 || got.TotalSales != 140.00 {
		t.Fatalf("peak=%+v want July/2013/140", got)
	}
}

func TestPeakSalesWeekday(t *testing.T) {
	t.Parallel()

	s := newSession(t)
	got, err := PeakSalesWeekday(context.Background(), s, testBundle(t))
	if err != nil {
		t.Fatalf("PeakSalesWeekday: %v", err)
	}
	// 2013-07-25 was a Thursday (140); 2013-08-12 a Monday (50).
	if got.Weekday != "Thursday" || got.TotalSales != 140.00 {
		t.Fatalf("peak=%+v want Thursday/140", got)
	}
}

// Empty order_items must surface the explicit no-data condition, not a crash
// or a garbled sentence downstream.
func TestPeakSalesNoData(t *testing.T) {
	t.Parallel()

	s := newSession(t)
	b := testBundle(t)
	b.OrderItems = mustIngest(t, "order_item_id,order_item_order_id,order_item_product_id,order_item_quantity,order_item_subtotal,order_item_product_price\n")

	if _, err := PeakSalesMonth(context.Background(), s, b); !errors.Is(err, ErrNoData) {
		t.Fatalf("PeakSalesMonth err=%v want ErrNoData", err)
	}
	if _, err := PeakSalesWeekday(context.Background(), s, b); !errors.Is(err, ErrNoData) {
		t.Fatalf("PeakSalesWeekday err=%v want ErrNoData", err)
	}
}

func TestUnifyShapeAndNullFill(t *testing.T) {
	t.Parallel()

	s := newSession(t)
	ctx := context.Background()
	b := testBundle(t)
	// Remove customer 200 so the COMPLETE order null-fills its customer side.
	b.Customers = mustIngest(t, "customer_id,customer_fname,customer_lname,customer_email,customer_password,customer_street,customer_city,customer_state,customer_zipcode\n"+
		"100,Mary,Smith,XXXXXXXXX,XXXXXXXXX,Main St 1,Caguas,PR,00725\n")

	wide, err := Unify(ctx, s, b)
	if err != nil {
		t.Fatalf("Unify: %v", err)
	}
	// Every order has at least one item and the reference joins are 1:1, so
	// the wide table has exactly one row per order item.
	if wide.Len() != b.OrderItems.Len() {
		t.Fatalf("Len=%d want %d", wide.Len(), b.OrderItems.Len())
	}
	if wide.Width() != len(UnifiedColumns) {
		t.Fatalf("Width=%d want %d", wide.Width(), len(UnifiedColumns))
	}
	for i, c := range wide.Columns() {
		if c.Name != UnifiedColumns[i] {
			t.Fatalf("column %d = %q want %q", i, c.Name, UnifiedColumns[i])
		}
		if c.Name == "customer_password" {
			t.Fatalf("customer_password must not be projected")
		}
	}
	k, _ := wide.ColumnKind("order_date")
	if k != frame.KindTime {
		t.Fatalf("order_date kind=%v want time", k)
	}

	// Row for order 2 (the last item) has a null-filled customer side.
	last := wide.Len() - 1
	if id, _ := wide.IntAt(last, "order_id"); id != 2 {
		t.Fatalf("last order_id=%d want 2", id)
	}
	if v, _ := wide.At(last, "customer_fname"); v != nil {
		t.Fatalf("customer_fname=%v want nil", v)
	}
	// Its product side still resolves.
	if name, _ := wide.StringAt(last, "department_name"); name != "Fitness" {
		t.Fatalf("department_name=%q want Fitness", name)
	}
}

func TestLoadAllMissingFile(t *testing.T) {
	t.Parallel()

	s := newSession(t)
	_, err := LoadAll(context.Background(), s, Paths{
		Orders:      "no/such/orders.csv",
		OrderItems:  "no/such/order_items.csv",
		Products:    "no/such/products.csv",
		Customers:   "no/such/customers.csv",
		Categories:  "no/such/categories.csv",
		Departments: "no/such/departments.csv",
	})
	if err == nil {
		t.Fatalf("LoadAll with missing files: want error")
	}
}
