package analytics

import (
	"context"
	"fmt"

	"retailetl/internal/frame"
	"retailetl/internal/ingest"
)

// UnifiedColumns is the fixed projection of the wide table: every source
// column except customer_password, which has no analytical value and obvious
// redaction motive. Order follows the join chain.
var UnifiedColumns = []string{
	"order_id",
	"order_date",
	"order_customer_id",
	"order_status",

	"order_item_id",
	"order_item_order_id",
	"order_item_product_id",
	"order_item_quantity",
	"order_item_subtotal",
	"order_item_product_price",

	"customer_id",
	"customer_fname",
	"customer_lname",
	"customer_email",
	"customer_street",
	"customer_city",
	"customer_state",
	"customer_zipcode",

	"product_id",
	"product_category_id",
	"product_name",
	"product_description",
	"product_price",
	"product_image",

	"category_id",
	"category_department_id",
	"category_name",

	"department_id",
	"department_name",
}

// Unify builds the denormalized wide table: a five-way LEFT join chain from
// orders through items, customers, products, categories, and departments,
// followed by the fixed column projection with order_date as a timestamp.
// Unmatched right sides null-fill; no deduplication, so an order with N items
// fans out into N rows.
func Unify(ctx context.Context, s *frame.Session, b *Bundle) (*frame.Frame, error) {
	wide, err := s.CastTime(ctx, b.Orders, "order_date", ingest.TimeLayouts)
	if err != nil {
		return nil, fmt.Errorf("analytics: unify: cast order_date: %w", err)
	}

	steps := []struct {
		right    *frame.Frame
		name     string
		leftKey  string
		rightKey string
	}{
		{b.OrderItems, "order_items", "order_id", "order_item_order_id"},
		{b.Customers, "customers", "order_customer_id", "customer_id"},
		{b.Products, "products", "order_item_product_id", "product_id"},
		{b.Categories, "categories", "product_category_id", "category_id"},
		{b.Departments, "departments", "category_department_id", "department_id"},
	}
	for _, st := range steps {
		wide, err = s.LeftJoin(ctx, wide, st.right, st.leftKey, st.rightKey)
		if err != nil {
			return nil, fmt.Errorf("analytics: unify: join %s: %w", st.name, err)
		}
	}

	out, err := s.Select(ctx, wide, UnifiedColumns...)
	if err != nil {
		return nil, fmt.Errorf("analytics: unify: project: %w", err)
	}
	return out, nil
}
