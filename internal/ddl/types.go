package ddl

// ColumnDef describes one column of a table definition in database-agnostic
// terms. Name is the logical column name (unquoted; quoting happens in the
// dialect renderers), SQLType the target SQL type as the dialect spells it,
// and Default a raw default expression emitted verbatim.
type ColumnDef struct {
	Name       string
	SQLType    string
	Nullable   bool
	PrimaryKey bool
	Default    string
}

// TableDef holds the fully-qualified table name (FQN) and an ordered column
// list. The FQN is expected in dotted form (e.g., "public.retail_sales_wide");
// dialect renderers quote each segment as needed.
type TableDef struct {
	FQN     string
	Columns []ColumnDef
}
