// Package ddl defines a small, backend-agnostic model for SQL DDL and helpers
// to render CREATE TABLE statements from that model.
//
// The package stays generic: it does not quote identifiers and treats
// ColumnDef.SQLType and ColumnDef.Default as raw SQL. Storage backends map the
// logical schedule schema (ScheduleColumns) to their own types and quoting
// and then render it with BuildCreateTableSQL.
package ddl

import (
	"fmt"
	"strings"
)

// BuildCreateTableSQL renders a CREATE TABLE statement from a TableDef.
//
// A column is rendered as:
//
//	<Name> <SQLType> [NOT NULL] [DEFAULT <Default>]
//
// Columns with PrimaryKey set are collected into a trailing
// PRIMARY KEY (<cols>) clause. The statement has the form:
//
//	CREATE TABLE [IF NOT EXISTS] <FQN> (
//	  <col-def>,
//	  ...,
//	  [PRIMARY KEY (<pk-cols>)]
//	)[ <Suffix>];
func BuildCreateTableSQL(t TableDef) (string, error) {
	fqn := strings.TrimSpace(t.FQN)
	if fqn == "" {
		return "", fmt.Errorf("ddl: table FQN must not be empty")
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("ddl: at least one column is required")
	}

	cols := make([]string, 0, len(t.Columns)+1)
	pks := make([]string, 0, 1)

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

	guard := ""
	if t.IfNotExists {
		guard = "IF NOT EXISTS "
	}
	suffix := ""
	if s := strings.TrimSpace(t.Suffix); s != "" {
		suffix = " " + s
	}

	return fmt.Sprintf(
		"CREATE TABLE %s%s (\n  %s\n)%s;",
		guard,
		fqn,
		strings.Join(cols, ",\n  "),
		suffix,
	), nil
}
