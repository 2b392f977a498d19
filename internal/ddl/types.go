package ddl

// ColumnDef describes a single rendered column.
//
// Fields:
//   - Name: column name as emitted (backends quote before building)
//   - SQLType: dialect SQL type (e.g., TEXT, BIGSERIAL, Nullable(String))
//   - Nullable: whether NULL is allowed
//   - PrimaryKey: whether the column is part of the primary key
//   - Default: raw default expression (e.g., generateUUIDv4())
type ColumnDef struct {
	Name       string
	SQLType    string
	Nullable   bool
	PrimaryKey bool
	Default    string
}

// TableDef holds the table name and an ordered list of columns.
//
// IfNotExists adds the IF NOT EXISTS guard for dialects that support it.
// Suffix is raw SQL emitted after the closing parenthesis, e.g. a ClickHouse
// ENGINE clause.
type TableDef struct {
	FQN         string
	Columns     []ColumnDef
	IfNotExists bool
	Suffix      string
}
