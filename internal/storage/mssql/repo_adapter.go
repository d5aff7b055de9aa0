// This adapter wires the MSSQL backend into the storage-agnostic factory by
// registering a constructor and a DDL bootstrapper at init time. Callers
// obtain a Repository via storage.New(...) without importing this package
// directly.
package mssql

import (
	"context"
	"fmt"

	"retailetl/internal/frame"
	"retailetl/internal/storage"
	msddl "retailetl/internal/storage/mssql/ddl"
)

// newRepository is a test hook that points to NewRepository by default.
// Tests may replace this variable to avoid real DB connections.
var newRepository = NewRepository

// wrappedRepo adapts *mssql.Repository to the storage.Repository interface,
// adding a Close method that calls the cleanup function returned by
// NewRepository.
type wrappedRepo struct {
	*Repository
	closeFn func()
}

// Ensure wrappedRepo satisfies the interface at compile time.
var _ storage.Repository = (*wrappedRepo)(nil)

// Close implements storage.Repository.Close.
func (w *wrappedRepo) Close() {
	if w.closeFn != nil {
		w.closeFn()
	}
}

func init() {
	storage.Register("mssql", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
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

	storage.RegisterDDL("mssql",
		func(ctx context.Context, repo storage.Repository, table string, cols []frame.Column) error {
			td, err := msddl.FromFrame(table, cols)
			if err != nil {
				return fmt.Errorf("infer table definition: %w", err)
			}
			if err := msddl.ReplaceTable(ctx, repo, td); err != nil {
				return fmt.Errorf("apply DDL: %w", err)
			}
			return nil
		})
}
