// Package storage contains storage-agnostic contracts and utilities for the
// relational sink: the Repository interface, a kind-keyed factory, a DDL
// bootstrap registry, and a generic batched loader.
//
// Concrete backends (postgres, mssql, sqlite) live in subpackages and register
// themselves with the factory at init time; importing storage/all enables all
// of them. Callers stay backend-agnostic and select a backend by its kind
// string from configuration.
package storage

import (
	"context"
	"fmt"
	"sync"
)

// Repository is the minimal write-side contract a relational backend must
// implement for the pipeline's sink.
type Repository interface {
	// CopyFrom bulk-inserts rows into the configured target table. Rows are
	// aligned to the given column order. It returns the number of rows the
	// backend reports as inserted.
	CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error)

	// Exec executes an arbitrary SQL statement, typically DDL.
	Exec(ctx context.Context, sql string) error

	// Close releases the underlying connection or pool.
	Close()
}

// Config carries everything a backend needs to open a Repository.
type Config struct {
	Kind    string   // backend kind, e.g. "postgres", "mssql", "sqlite"
	DSN     string   // backend connection string
	Table   string   // target table, possibly schema-qualified ("public.retail_sales_wide")
	Columns []string // ordered destination columns for bulk inserts
}

// Factory opens a Repository for a Config. Backends register one per kind.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	regMu     sync.RWMutex
	factories = map[string]Factory{}
)

// Register registers (or replaces) the Factory for the given storage kind.
// It is typically called from backend packages' init() functions.
func Register(kind string, fn Factory) {
	regMu.Lock()
	defer regMu.Unlock()
	factories[kind] = fn
}

// New opens a Repository using the factory registered for cfg.Kind.
//
// An unknown kind is an error; the caller decides whether that is fatal
// (usually yes, since the kind came from validated configuration).
func New(ctx context.Context, cfg Config) (Repository, error) {
	regMu.RLock()
	fn, ok := factories[cfg.Kind]
	regMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported storage.kind=%s", cfg.Kind)
	}
	return fn(ctx, cfg)
}

// ListKinds returns a snapshot of the registered backend kinds.
// Order is unspecified.
func ListKinds() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	return out
}
