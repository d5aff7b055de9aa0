package storage

import (
	"context"
	"fmt"
	"sync"

	"retailetl/internal/frame"
)

// DDLBootstrapper is a backend-specific function that derives a table
// definition from the sink's column list and applies the appropriate DDL via
// repo.Exec. The pipeline always replaces the target table on each run, so
// implementations drop any existing table before creating it.
//
// Backends (postgres, mssql, sqlite) register their implementation for a
// given storage kind at init time.
type DDLBootstrapper func(ctx context.Context, repo Repository, table string, cols []frame.Column) error

var (
	ddlMu  sync.RWMutex
	ddlFns = map[string]DDLBootstrapper{}
)

// RegisterDDL registers (or replaces) a DDLBootstrapper for the given storage
// kind. It is typically called from backend packages' init() functions.
func RegisterDDL(kind string, fn DDLBootstrapper) {
	ddlMu.Lock()
	defer ddlMu.Unlock()
	ddlFns[kind] = fn
}

// BootstrapTable locates the DDLBootstrapper for the given kind and invokes
// it. Callers do not need to know which backend they are using; they pass the
// already-open Repository, the target table, and the typed column list.
//
// If no DDL bootstrapper has been registered for the storage kind, an error
// is returned.
func BootstrapTable(ctx context.Context, kind string, repo Repository, table string, cols []frame.Column) error {
	ddlMu.RLock()
	fn, ok := ddlFns[kind]
	ddlMu.RUnlock()
	if !ok {
		return fmt.Errorf("storage: no DDL bootstrapper registered for kind=%q", kind)
	}
	return fn(ctx, repo, table, cols)
}
