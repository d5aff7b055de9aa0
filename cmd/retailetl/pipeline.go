package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"retailetl/internal/analytics"
	"retailetl/internal/config"
	"retailetl/internal/frame"
	"retailetl/internal/locale"
	"retailetl/internal/metrics"
	"retailetl/internal/parquetio"
	"retailetl/internal/storage"
)

// storage hooks, replaceable in tests.
var (
	newRepository  = storage.New
	bootstrapTable = storage.BootstrapTable
)

// run executes one full analytics pass: load the six datasets, report counts,
// compute rankings and peaks, build the unified wide table, and persist the
// results. Report stages are fatal; sink failures are collected so one broken
// sink does not mask the others.
func run(ctx context.Context, p config.Pipeline, verbose bool) error {
	s := frame.NewSession(frame.Options{Workers: p.Engine.Workers})
	defer s.Close()

	stage := func(name string, fn func() error) error {
		start := time.Now()
		err := fn()
		d := time.Since(start)
		metrics.RecordStage(p.Job, name, err, d)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if verbose {
			log.Printf("stage=%s elapsed=%s", name, d.Truncate(time.Millisecond))
		}
		return nil
	}

	// Load.
	var bundle *analytics.Bundle
	if err := stage("ingest", func() error {
		var err error
		bundle, err = analytics.LoadAll(ctx, s, analytics.Paths{
			Orders:      p.Data.Path(p.Data.Orders),
			OrderItems:  p.Data.Path(p.Data.OrderItems),
			Products:    p.Data.Path(p.Data.Products),
			Customers:   p.Data.Path(p.Data.Customers),
			Categories:  p.Data.Path(p.Data.Categories),
			Departments: p.Data.Path(p.Data.Departments),
		})
		return err
	}); err != nil {
		return err
	}
	var loaded int64
	for _, ds := range analytics.Datasets {
		if f, ok := bundle.Frame(ds.Name); ok {
			loaded += int64(f.Len())
		}
	}
	metrics.RecordRows(p.Job, "loaded", loaded)

	// Dataset overview.
	if err := stage("overview", func() error {
		counts, err := analytics.Overview(ctx, s, bundle)
		if err != nil {
			return err
		}
		for _, c := range counts {
			log.Printf("dataset=%s key=%s rows=%s distinct=%s",
				c.Name, c.Key, humanize.Comma(int64(c.Rows)), humanize.Comma(c.Distinct))
		}
		return nil
	}); err != nil {
		return err
	}

	// Cancellation rankings.
	var products, categories []analytics.Ranking
	if err := stage("cancellation", func() error {
		var err error
		if products, err = analytics.CanceledSalesByProduct(ctx, s, bundle); err != nil {
			return err
		}
		categories, err = analytics.CanceledSalesByCategory(ctx, s, bundle)
		return err
	}); err != nil {
		return err
	}
	metrics.RecordRows(p.Job, "canceled_products", int64(len(products)))
	metrics.RecordRows(p.Job, "canceled_categories", int64(len(categories)))
	logTopRankings("canceled_product_sales", products)
	logTopRankings("canceled_category_sales", categories)

	// Peak month and weekday, reported in the configured locale.
	if err := stage("temporal", func() error {
		cat, err := locale.For(p.Locale)
		if err != nil {
			return err
		}
		pm, err := analytics.PeakSalesMonth(ctx, s, bundle)
		if err != nil {
			return err
		}
		monthLine, err := cat.FormatPeakMonth(pm.Month, pm.Year)
		if err != nil {
			return err
		}
		log.Printf("%s (total_sales=%.2f)", monthLine, pm.TotalSales)

		pw, err := analytics.PeakSalesWeekday(ctx, s, bundle)
		if err != nil {
			return err
		}
		weekdayLine, err := cat.FormatPeakWeekday(pw.Weekday)
		if err != nil {
			return err
		}
		log.Printf("%s (total_sales=%.2f)", weekdayLine, pw.TotalSales)
		return nil
	}); err != nil {
		return err
	}

	// Unified wide table.
	var wide *frame.Frame
	if err := stage("unify", func() error {
		var err error
		wide, err = analytics.Unify(ctx, s, bundle)
		return err
	}); err != nil {
		return err
	}
	metrics.RecordRows(p.Job, "unified", int64(wide.Len()))

	// Sinks. A failed sink must not prevent the remaining sinks from running.
	var sinkErrs []error

	if p.Sinks.ProductSalesDir != "" {
		sinkErrs = append(sinkErrs, stage("product_sales_sink", func() error {
			return parquetio.WriteRanking(p.Sinks.ProductSalesDir, toRankingRows(products))
		}))
	} else if verbose {
		log.Printf("sink=product_sales disabled (no directory configured)")
	}

	if p.Sinks.CategorySalesDir != "" {
		sinkErrs = append(sinkErrs, stage("category_sales_sink", func() error {
			return parquetio.WriteRanking(p.Sinks.CategorySalesDir, toRankingRows(categories))
		}))
	} else if verbose {
		log.Printf("sink=category_sales disabled (no directory configured)")
	}

	if p.Sinks.DB.Kind != "" {
		sinkErrs = append(sinkErrs, stage("db_sink", func() error {
			return sinkToDB(ctx, p, wide)
		}))
	} else if verbose {
		log.Printf("sink=db disabled (no kind configured)")
	}

	return errors.Join(sinkErrs...)
}

// sinkToDB replaces the target table (when configured) and streams the wide
// frame into it in batches.
func sinkToDB(ctx context.Context, p config.Pipeline, wide *frame.Frame) error {
	cols := wide.Columns()
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}

	repo, err := newRepository(ctx, storage.Config{
		Kind:    p.Sinks.DB.Kind,
		DSN:     p.Sinks.DB.DSN,
		Table:   p.Sinks.DB.Table,
		Columns: names,
	})
	if err != nil {
		return fmt.Errorf("open repository: %w", err)
	}
	defer repo.Close()

	if p.Sinks.DB.AutoCreateTable {
		if err := bootstrapTable(ctx, p.Sinks.DB.Kind, repo, p.Sinks.DB.Table, cols); err != nil {
			return fmt.Errorf("bootstrap table: %w", err)
		}
	}

	batchSize := p.Sinks.DB.BatchSize
	in := make(chan []any, batchSize)

	var total int64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(in)
		for _, row := range wide.Rows() {
			select {
			case in <- row:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})
	g.Go(func() error {
		var err error
		total, err = storage.LoadBatches(gctx, names, in, batchSize, repo.CopyFrom)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	metrics.RecordRows(p.Job, "inserted", total)
	if batchSize > 0 {
		metrics.RecordBatches(p.Job, (total+int64(batchSize)-1)/int64(batchSize))
	}
	log.Printf("db_sink: table=%s rows=%s", p.Sinks.DB.Table, humanize.Comma(total))
	return nil
}

// logTopRankings logs up to the first five entries of a ranking.
func logTopRankings(name string, rs []analytics.Ranking) {
	limit := len(rs)
	if limit > 5 {
		limit = 5
	}
	for i := 0; i < limit; i++ {
		log.Printf("%s: rank=%d name=%q total_sales=%.2f", name, i+1, rs[i].Name, rs[i].TotalSales)
	}
}

// toRankingRows converts analytics rankings into the Parquet row shape.
func toRankingRows(rs []analytics.Ranking) []parquetio.RankingRow {
	out := make([]parquetio.RankingRow, len(rs))
	for i, r := range rs {
		out[i] = parquetio.RankingRow{Name: r.Name, TotalSales: r.TotalSales}
	}
	return out
}
