package sqlite

import (
	"fmt"

	"flightetl/internal/ddl"
	"flightetl/internal/storage"
)

// A single-column INTEGER PRIMARY KEY aliases the rowid, so SQLite assigns
// flight_id itself.
var dialect = ddl.Dialect{
	Quote:       quoteIdent,
	Type:        sqlType,
	Key:         "INTEGER",
	IfNotExists: true,
}

// SQLite stores dates and times as ISO-8601 TEXT.
func sqlType(c ddl.Column) string {
	switch c.Kind {
	case ddl.KindDate:
		return "DATE"
	case ddl.KindTime:
		return "TIME"
	case ddl.KindFloat:
		return "REAL"
	default:
		if c.Size > 0 {
			return fmt.Sprintf("VARCHAR(%d)", c.Size)
		}
		return "TEXT"
	}
}

// CreateTableSQL renders the idempotent CREATE TABLE for the schedule table.
func CreateTableSQL(table string) (string, error) {
	if table == "" {
		table = DefaultTable
	}
	return ddl.BuildCreateTableSQL(ddl.ScheduleTable(storage.QuoteWith(table, quoteIdent), dialect))
}
