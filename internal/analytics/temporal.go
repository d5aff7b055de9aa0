package analytics

import (
	"context"
	"fmt"
	"time"

	"retailetl/internal/frame"
	"retailetl/internal/ingest"
)

// PeakMonth is the (month, year) bucket with the highest summed subtotal.
// Month is the English month name; translation happens at the reporting edge.
type PeakMonth struct {
	Month      string
	Year       int
	TotalSales float64
}

// PeakWeekday is the weekday bucket with the highest summed subtotal.
type PeakWeekday struct {
	Weekday    string
	TotalSales float64
}

// PeakSalesMonth joins all orders to their items, buckets subtotals by the
// calendar (month, year) of the order date, and returns the top bucket.
// Empty input yields ErrNoData, never an index panic.
func PeakSalesMonth(ctx context.Context, s *frame.Session, b *Bundle) (PeakMonth, error) {
	joined, err := orderSales(ctx, s, b)
	if err != nil {
		return PeakMonth{}, err
	}
	joined, err = s.Derive(ctx, joined, "sales_month", frame.KindString, func(r frame.Row) (any, error) {
		t, err := orderDate(r)
		if err != nil {
			return nil, err
		}
		return t.Month().String(), nil
	})
	if err != nil {
		return PeakMonth{}, fmt.Errorf("analytics: derive month: %w", err)
	}
	joined, err = s.Derive(ctx, joined, "sales_year", frame.KindInt64, func(r frame.Row) (any, error) {
		t, err := orderDate(r)
		if err != nil {
			return nil, err
		}
		return int64(t.Year()), nil
	})
	if err != nil {
		return PeakMonth{}, fmt.Errorf("analytics: derive year: %w", err)
	}

	top, err := topBucket(ctx, s, joined, []string{"sales_month", "sales_year"})
	if err != nil {
		return PeakMonth{}, err
	}
	month, err := top.StringAt(0, "sales_month")
	if err != nil {
		return PeakMonth{}, err
	}
	year, err := top.IntAt(0, "sales_year")
	if err != nil {
		return PeakMonth{}, err
	}
	total, err := top.FloatAt(0, "total_sales")
	if err != nil {
		return PeakMonth{}, err
	}
	return PeakMonth{Month: month, Year: int(year), TotalSales: total}, nil
}

// PeakSalesWeekday buckets the same joined sales by weekday name and returns
// the top bucket. Empty input yields ErrNoData.
func PeakSalesWeekday(ctx context.Context, s *frame.Session, b *Bundle) (PeakWeekday, error) {
	joined, err := orderSales(ctx, s, b)
	if err != nil {
		return PeakWeekday{}, err
	}
	joined, err = s.Derive(ctx, joined, "sales_weekday", frame.KindString, func(r frame.Row) (any, error) {
		t, err := orderDate(r)
		if err != nil {
			return nil, err
		}
		return t.Weekday().String(), nil
	})
	if err != nil {
		return PeakWeekday{}, fmt.Errorf("analytics: derive weekday: %w", err)
	}

	top, err := topBucket(ctx, s, joined, []string{"sales_weekday"})
	if err != nil {
		return PeakWeekday{}, err
	}
	day, err := top.StringAt(0, "sales_weekday")
	if err != nil {
		return PeakWeekday{}, err
	}
	total, err := top.FloatAt(0, "total_sales")
	if err != nil {
		return PeakWeekday{}, err
	}
	return PeakWeekday{Weekday: day, TotalSales: total}, nil
}

// orderSales joins the full (unfiltered) orders to items with the order date
// carried as a timestamp.
func orderSales(ctx context.Context, s *frame.Session, b *Bundle) (*frame.Frame, error) {
	orders, err := s.CastTime(ctx, b.Orders, "order_date", ingest.TimeLayouts)
	if err != nil {
		return nil, fmt.Errorf("analytics: cast order_date: %w", err)
	}
	joined, err := s.InnerJoin(ctx, orders, b.OrderItems, "order_id", "order_item_order_id")
	if err != nil {
		return nil, fmt.Errorf("analytics: join order items: %w", err)
	}
	return joined, nil
}

// topBucket groups, sums, sorts descending, and selects the single top row.
func topBucket(ctx context.Context, s *frame.Session, f *frame.Frame, by []string) (*frame.Frame, error) {
	grouped, err := s.GroupSum(ctx, f, by, "order_item_subtotal", "total_sales", 2)
	if err != nil {
		return nil, fmt.Errorf("analytics: group by %v: %w", by, err)
	}
	if grouped.Len() == 0 {
		return nil, fmt.Errorf("analytics: peak selection over %v: %w", by, ErrNoData)
	}
	sorted, err := s.SortDesc(ctx, grouped, "total_sales")
	if err != nil {
		return nil, fmt.Errorf("analytics: sort by total_sales: %w", err)
	}
	return sorted, nil
}

// orderDate pulls the order_date cell of a joined row as time.Time.
func orderDate(r frame.Row) (time.Time, error) {
	v, ok := r.Value("order_date")
	if !ok {
		return time.Time{}, fmt.Errorf("no order_date column")
	}
	t, ok := v.(time.Time)
	if !ok {
		return time.Time{}, fmt.Errorf("order_date holds %T, not time.Time", v)
	}
	return t, nil
}
