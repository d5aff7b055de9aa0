// Package postgres provides a Postgres-backed storage.Repository implementation.
// This adapter wires the Postgres backend into the storage-agnostic factory by
// registering a constructor at init time. The CLI (cmd/retailetl) and other
// callers can then obtain a Repository via storage.New(...) without importing
// this package directly.
//
// The adapter also reconciles method signatures between the storage.Repository
// interface and the concrete *postgres.Repository type, and registers a DDL
// bootstrapper so that callers can prepare the target table based only on the
// storage kind, without branching on the backend themselves.
package postgres

import (
	"context"
	"fmt"

	"retailetl/internal/frame"
	"retailetl/internal/storage"
	pgddl "retailetl/internal/storage/postgres/ddl"
)

// newRepository is a test hook that points to NewRepository by default.
// Tests may replace this variable to avoid real DB connections.
var newRepository = NewRepository

// wrappedRepo implements storage.Repository by delegating to the concrete
// *postgres.Repository while providing a Close method that calls the close
// function returned by NewRepository.
type wrappedRepo struct {
	*Repository
	closeFn func()
}

// Ensure wrappedRepo satisfies storage.Repository at compile time.
var _ storage.Repository = (*wrappedRepo)(nil)

// Close implements storage.Repository.Close.
func (w *wrappedRepo) Close() {
	if w.closeFn != nil {
		w.closeFn()
	}
}

// init registers the "postgres" backend with the storage factory and also
// registers a DDL bootstrapper for kind == "postgres". This keeps the wiring
// in one place and allows callers to remain backend-agnostic.
func init() {
	// Repository factory registration.
	storage.Register("postgres", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		// Adapt storage.Config → postgres.Config.
		r, closeFn, err := newRepository(ctx, Config{
			DSN:     cfg.DSN,
			Table:   cfg.Table,
			Columns: cfg.Columns,
		})
		if err != nil {
			return nil, err
		}
		return &wrappedRepo{Repository: r, closeFn: closeFn}, nil
	})

	// DDL bootstrap registration: derive the table definition from the typed
	// column list and apply it via the generic Repository.Exec method.
	storage.RegisterDDL("postgres",
		func(ctx context.Context, repo storage.Repository, table string, cols []frame.Column) error {
			td, err := pgddl.FromFrame(table, cols)
			if err != nil {
				return fmt.Errorf("infer table definition: %w", err)
			}
			if err := pgddl.ReplaceTable(ctx, repo, td); err != nil {
				return fmt.Errorf("apply DDL: %w", err)
			}
			return nil
		})
}
