package analytics

import (
	"context"
	"fmt"

	"retailetl/internal/frame"
)

// DatasetCount reports the basic metrics for one relation: total rows and the
// distinct count of its key column. Distinct is always <= Rows.
type DatasetCount struct {
	Name     string
	Key      string
	Rows     int
	Distinct int64
}

// Overview computes row and distinct-key counts for all six datasets, plus
// the distinct customer count over orders (customers who actually ordered).
// Both reductions are side-effect-free scans over the whole relation.
func Overview(ctx context.Context, s *frame.Session, b *Bundle) ([]DatasetCount, error) {
	out := make([]DatasetCount, 0, len(Datasets)+1)
	for _, ds := range Datasets {
		f, ok := b.Frame(ds.Name)
		if !ok {
			return nil, fmt.Errorf("analytics: overview: dataset %q not loaded", ds.Name)
		}
		n, err := s.DistinctCount(ctx, f, ds.Key)
		if err != nil {
			return nil, fmt.Errorf("analytics: overview: %s.%s: %w", ds.Name, ds.Key, err)
		}
		out = append(out, DatasetCount{Name: ds.Name, Key: ds.Key, Rows: f.Len(), Distinct: n})
	}

	n, err := s.DistinctCount(ctx, b.Orders, "order_customer_id")
	if err != nil {
		return nil, fmt.Errorf("analytics: overview: orders.order_customer_id: %w", err)
	}
	out = append(out, DatasetCount{
		Name:     "orders",
		Key:      "order_customer_id",
		Rows:     b.Orders.Len(),
		Distinct: n,
	})
	return out, nil
}
