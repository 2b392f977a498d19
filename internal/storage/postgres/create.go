package postgres

import (
	"fmt"

	"flightetl/internal/ddl"
	"flightetl/internal/storage"
)

var dialect = ddl.Dialect{
	Quote:       pgIdent,
	Type:        sqlType,
	Key:         "BIGSERIAL",
	IfNotExists: true,
}

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
	return ddl.BuildCreateTableSQL(ddl.ScheduleTable(storage.QuoteWith(table, pgIdent), dialect))
}
