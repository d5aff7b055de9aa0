package analytics

import (
	"context"
	"fmt"

	"retailetl/internal/frame"
)

// canceledStatus is the exact order status counted as a cancellation.
// Related statuses such as SUSPECTED_FRAUD are deliberately excluded.
const canceledStatus = "CANCELED"

// Ranking is one row of a descending sales ranking.
type Ranking struct {
	Name       string
	TotalSales float64
}

// CanceledSalesByProduct ranks products by summed subtotal over canceled
// orders: filter orders on status, inner join to items and products, group by
// product name, sum subtotals rounded to 2 decimals, sort descending.
// Orders without items drop out under the inner join.
func CanceledSalesByProduct(ctx context.Context, s *frame.Session, b *Bundle) ([]Ranking, error) {
	joined, err := canceledItems(ctx, s, b)
	if err != nil {
		return nil, err
	}
	return rank(ctx, s, joined, "product_name")
}

// CanceledSalesByCategory ranks categories the same way, joining the canceled
// order items one hop further to categories. Every joined item belongs to
// exactly one product and one category, so the category totals sum to the
// product totals.
func CanceledSalesByCategory(ctx context.Context, s *frame.Session, b *Bundle) ([]Ranking, error) {
	joined, err := canceledItems(ctx, s, b)
	if err != nil {
		return nil, err
	}
	joined, err = s.InnerJoin(ctx, joined, b.Categories, "product_category_id", "category_id")
	if err != nil {
		return nil, fmt.Errorf("analytics: join categories: %w", err)
	}
	return rank(ctx, s, joined, "category_name")
}

// canceledItems is the shared prefix of both rankings: canceled orders joined
// to their items and products.
func canceledItems(ctx context.Context, s *frame.Session, b *Bundle) (*frame.Frame, error) {
	canceled, err := s.Filter(ctx, b.Orders, "order_status", func(v any) bool {
		return v == canceledStatus
	})
	if err != nil {
		return nil, fmt.Errorf("analytics: filter canceled orders: %w", err)
	}
	joined, err := s.InnerJoin(ctx, canceled, b.OrderItems, "order_id", "order_item_order_id")
	if err != nil {
		return nil, fmt.Errorf("analytics: join order items: %w", err)
	}
	joined, err = s.InnerJoin(ctx, joined, b.Products, "order_item_product_id", "product_id")
	if err != nil {
		return nil, fmt.Errorf("analytics: join products: %w", err)
	}
	return joined, nil
}

// rank groups the joined frame by one name column, sums subtotals, and
// returns the descending ranking. Equal totals keep first-seen group order;
// the stable sort never reorders ties.
func rank(ctx context.Context, s *frame.Session, f *frame.Frame, nameCol string) ([]Ranking, error) {
	grouped, err := s.GroupSum(ctx, f, []string{nameCol}, "order_item_subtotal", "total_sales", 2)
	if err != nil {
		return nil, fmt.Errorf("analytics: group by %s: %w", nameCol, err)
	}
	sorted, err := s.SortDesc(ctx, grouped, "total_sales")
	if err != nil {
		return nil, fmt.Errorf("analytics: sort by total_sales: %w", err)
	}

	out := make([]Ranking, sorted.Len())
	for i := range out {
		name, err := sorted.StringAt(i, nameCol)
		if err != nil {
			return nil, err
		}
		total, err := sorted.FloatAt(i, "total_sales")
		if err != nil {
			return nil, err
		}
		out[i] = Ranking{Name: name, TotalSales: total}
	}
	return out, nil
}
