package ddl

import (
	"context"

	gddl "retailetl/internal/ddl"
	"retailetl/internal/storage"
)

// EnsureTable creates the target SQL Server table if it does not already exist.
//
// It uses BuildCreateTableSQL to generate a CREATE script guarded by an
// IF OBJECT_ID(...) check, then executes that script via repo.Exec. The
// operation is idempotent and safe to call multiple times for the same table.
func EnsureTable(ctx context.Context, repo storage.Repository, def gddl.TableDef) error {
	sql, err := BuildCreateTableSQL(def)
	if err != nil {
		return err
	}
	return repo.Exec(ctx, sql)
}

// ReplaceTable drops the target table if it exists and recreates it. The
// pipeline rewrites the full unified result on every run, so the sink uses
// replace rather than append semantics.
func ReplaceTable(ctx context.Context, repo storage.Repository, def gddl.TableDef) error {
	drop, err := BuildDropTableSQL(def)
	if err != nil {
		return err
	}
	if err := repo.Exec(ctx, drop); err != nil {
		return err
	}
	return EnsureTable(ctx, repo, def)
}
