// Package ddl defines a backend-agnostic model for SQL table definitions and
// a baseline CREATE TABLE renderer.
//
// The package stays dialect-free: identifiers are emitted as-is (no quoting),
// no IF NOT EXISTS or other dialect clauses are inserted, and Default is
// treated as a raw SQL expression. The per-backend packages
// (internal/storage/{postgres,mssql,sqlite}/ddl) map frame kinds onto these
// types and render dialect-correct statements from the same model.
package ddl

import (
	"fmt"
	"strings"
)

// BuildCreateTableSQL renders a generic CREATE TABLE statement from a
// TableDef. Each column renders as "<Name> <SQLType> [NOT NULL]
// [DEFAULT <Default>]"; PrimaryKey columns are collected into a trailing
// PRIMARY KEY clause. The output is deterministic; dialect builders wrap or
// replace this with quoted variants.
func BuildCreateTableSQL(t TableDef) (string, error) {
	fqn := strings.TrimSpace(t.FQN)
	if fqn == "" {
		return "", fmt.Errorf("ddl: table FQN must not be empty")
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("ddl: at least one column is required")
	}

	cols := make([]string, 0, len(t.Columns)+1)
	pks := make([]string, 0, len(t.Columns))

	for _, c := range t.Columns {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return "", fmt.Errorf("ddl: column with empty name in table %s", fqn)
		}
		typ := strings.TrimSpace(c.SQLType)
		if typ == "" {
			return "", fmt.Errorf("ddl: column %s missing SQLType", name)
		}

		var sb strings.Builder
		sb.WriteString(name)
		sb.WriteByte(' ')
		sb.WriteString(typ)

		if !c.Nullable {
			sb.WriteString(" NOT NULL")
		}

		if def := strings.TrimSpace(c.Default); def != "" {
			sb.WriteString(" DEFAULT ")
			// Default is emitted as raw SQL expression.
			sb.WriteString(def)
		}

		cols = append(cols, sb.String())

		if c.PrimaryKey {
			pks = append(pks, name)
		}
	}

	if len(pks) > 0 {
		cols = append(cols, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(pks, ", ")))
	}

	stmt := fmt.Sprintf(
		"CREATE TABLE %s (\n  %s\n);",
		fqn,
		strings.Join(cols, ",\n  "),
	)

	return stmt, nil
}
