// Package analytics implements the retail analysis stages: dataset loading,
// row/distinct counts, cancellation sales rankings, peak month and weekday
// selection, and the denormalized wide table. All relational work runs
// through a frame.Session handed in by the coordinator.
package analytics

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"retailetl/internal/frame"
	"retailetl/internal/ingest"
)

// ErrNoData is returned by top-row selections over empty input.
var ErrNoData = errors.New("analytics: no data available")

// Paths names the six source files. Every path is required.
type Paths struct {
	Orders      string
	OrderItems  string
	Products    string
	Customers   string
	Categories  string
	Departments string
}

// Bundle holds the six loaded datasets for one run. Frames are read-only
// once loaded.
type Bundle struct {
	Orders      *frame.Frame
	OrderItems  *frame.Frame
	Products    *frame.Frame
	Customers   *frame.Frame
	Categories  *frame.Frame
	Departments *frame.Frame
}

// Dataset describes one source relation: its logical name and key column.
type Dataset struct {
	Name string
	Key  string
}

// Datasets lists the six source relations in load/report order.
var Datasets = []Dataset{
	{Name: "orders", Key: "order_id"},
	{Name: "order_items", Key: "order_item_id"},
	{Name: "products", Key: "product_id"},
	{Name: "customers", Key: "customer_id"},
	{Name: "categories", Key: "category_id"},
	{Name: "departments", Key: "department_id"},
}

// Frame returns the loaded frame for a dataset name.
func (b *Bundle) Frame(name string) (*frame.Frame, bool) {
	switch name {
	case "orders":
		return b.Orders, b.Orders != nil
	case "order_items":
		return b.OrderItems, b.OrderItems != nil
	case "products":
		return b.Products, b.Products != nil
	case "customers":
		return b.Customers, b.Customers != nil
	case "categories":
		return b.Categories, b.Categories != nil
	case "departments":
		return b.Departments, b.Departments != nil
	default:
		return nil, false
	}
}

// LoadAll ingests the six datasets concurrently under one errgroup, failing
// fast on the first unreadable file. A missing dataset aborts every stage
// that depends on it, which in this pipeline is all of them.
func LoadAll(ctx context.Context, s *frame.Session, paths Paths) (*Bundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	targets := []struct {
		name string
		path string
		dst  **frame.Frame
	}{
		{"orders", paths.Orders, nil},
		{"order_items", paths.OrderItems, nil},
		{"products", paths.Products, nil},
		{"customers", paths.Customers, nil},
		{"categories", paths.Categories, nil},
		{"departments", paths.Departments, nil},
	}
	b := &Bundle{}
	targets[0].dst = &b.Orders
	targets[1].dst = &b.OrderItems
	targets[2].dst = &b.Products
	targets[3].dst = &b.Customers
	targets[4].dst = &b.Categories
	targets[5].dst = &b.Departments

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.Workers())
	for _, t := range targets {
		if t.path == "" {
			return nil, fmt.Errorf("analytics: no path for dataset %q", t.name)
		}
		t := t
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			f, err := ingest.ReadFile(t.path, ingest.Options{})
			if err != nil {
				return fmt.Errorf("load %s: %w", t.name, err)
			}
			*t.dst = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return b, nil
}
