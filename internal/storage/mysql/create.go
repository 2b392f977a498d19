package mysql

import (
	"fmt"
	"strings"

	"flightetl/internal/ddl"
	"flightetl/internal/storage"
)

var dialect = ddl.Dialect{
	Quote:       quoteIdent,
	Type:        sqlType,
	Key:         "BIGINT AUTO_INCREMENT",
	IfNotExists: true,
	Suffix:      "ENGINE=InnoDB DEFAULT CHARSET=utf8mb4",
}

func sqlType(c ddl.Column) string {
	switch c.Kind {
	case ddl.KindDate:
		return "DATE"
	case ddl.KindTime:
		return "TIME(6)"
	case ddl.KindFloat:
		return "FLOAT"
	default:
		if c.Size > 0 {
			return fmt.Sprintf("VARCHAR(%d)", c.Size)
		}
		return "TEXT"
	}
}

// CreateTableSQL renders the idempotent CREATE TABLE for the schedule table.
func CreateTableSQL(table string) (string, error) {
	if strings.TrimSpace(table) == "" {
		table = DefaultTable
	}
	return ddl.BuildCreateTableSQL(ddl.ScheduleTable(storage.QuoteWith(table, quoteIdent), dialect))
}
