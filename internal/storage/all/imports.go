// Package all wires all built-in storage backends into the storage factory.
//
// This package exists purely for side effects: importing it (even as a blank
// import) causes the init functions of each concrete storage backend to run,
// which in turn register their factories and DDL bootstrappers with the
// storage package.
//
// In other words, importing this package makes the following storage kinds
// available at runtime:
//
//   - "postgres" (retailetl/internal/storage/postgres)
//   - "mssql"    (retailetl/internal/storage/mssql)
//   - "sqlite"   (retailetl/internal/storage/sqlite)
//
// Typical usage (in cmd/retailetl or a similar wiring layer):
//
//	import (
//	    _ "retailetl/internal/storage/all" // enable all built-in backends
//
//	    "retailetl/internal/storage"
//	)
//
//	repo, err := storage.New(ctx, storage.Config{
//	    Kind:    cfg.Sinks.DB.Kind,
//	    DSN:     cfg.Sinks.DB.DSN,
//	    Table:   cfg.Sinks.DB.Table,
//	    Columns: columns,
//	})
//	if err != nil {
//	    // handle error
//	}
//	defer repo.Close()
//
//	if cfg.Sinks.DB.AutoCreateTable {
//	    if err := storage.BootstrapTable(ctx, cfg.Sinks.DB.Kind, repo, cfg.Sinks.DB.Table, cols); err != nil {
//	        // handle DDL error
//	    }
//	}
//
// This pattern keeps backend-specific wiring in a single, small package and
// allows the rest of the application to depend only on the storage
// abstraction rather than individual backends.
//
// Note: a binary that supports only a subset of backends can define an
// alternative wiring package that imports only the required backends instead
// of this one.
package all

import (
	_ "retailetl/internal/storage/mssql"
	_ "retailetl/internal/storage/postgres"
	_ "retailetl/internal/storage/sqlite"
)
