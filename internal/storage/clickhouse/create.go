package clickhouse

import (
	"strings"

	"flightetl/internal/ddl"
	"flightetl/internal/storage"
)

// ClickHouse has no sequences; flight_id is a server-generated UUID and the
// MergeTree sorting key replaces a primary key constraint.
var dialect = ddl.Dialect{
	Quote:        quoteIdent,
	Type:         sqlType,
	Key:          "UUID",
	KeyDefault:   "generateUUIDv4()",
	NoPrimaryKey: true,
	IfNotExists:  true,
	Suffix:       "ENGINE = MergeTree ORDER BY " + quoteIdent(ddl.KeyColumn),
}

func sqlType(c ddl.Column) string {
	switch c.Kind {
	case ddl.KindDate:
		return "Nullable(Date)"
	case ddl.KindFloat:
		return "Nullable(Float64)"
	default:
		return "Nullable(String)"
	}
}

// CreateTableSQL renders the idempotent CREATE TABLE for the schedule table.
func CreateTableSQL(table string) (string, error) {
	if strings.TrimSpace(table) == "" {
		table = DefaultTable
	}
	return ddl.BuildCreateTableSQL(ddl.ScheduleTable(storage.QuoteWith(table, quoteIdent), dialect))
}
