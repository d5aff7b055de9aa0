package ddl

import (
	"context"

	gddl "retailetl/internal/ddl"
	"retailetl/internal/storage"
)

// EnsureTable creates the target Postgres table if it does not exist.
// It is idempotent and issues CREATE TABLE IF NOT EXISTS via the repository's
// Exec method.
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
