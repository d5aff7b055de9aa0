package ddl

import (
	"fmt"

	gddl "retailetl/internal/ddl"
	"retailetl/internal/frame"
)

// FromFrame builds a SQLite table definition for the given target table and
// typed column list. All columns are nullable; the unified result is a
// left-join product, so any non-key column can carry NULL.
func FromFrame(table string, cols []frame.Column) (gddl.TableDef, error) {
	if table == "" {
		return gddl.TableDef{}, fmt.Errorf("sqlite ddl: table name is required")
	}
	if len(cols) == 0 {
		return gddl.TableDef{}, fmt.Errorf("sqlite ddl: columns must not be empty")
	}

	defs := make([]gddl.ColumnDef, 0, len(cols))
	for _, c := range cols {
		defs = append(defs, gddl.ColumnDef{
			Name:     c.Name,
			SQLType:  MapKind(c.Kind),
			Nullable: true,
		})
	}

	return gddl.TableDef{
		FQN:     table,
		Columns: defs,
	}, nil
}
