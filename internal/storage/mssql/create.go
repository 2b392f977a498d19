package mssql

import (
	"fmt"
	"strings"

	"flightetl/internal/ddl"
)

// SQL Server has no CREATE TABLE IF NOT EXISTS; the statement is guarded with
// OBJECT_ID instead.
var dialect = ddl.Dialect{
	Quote: msIdent,
	Type:  sqlType,
	Key:   "BIGINT IDENTITY(1,1)",
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
			return fmt.Sprintf("NVARCHAR(%d)", c.Size)
		}
		return "NVARCHAR(MAX)"
	}
}

// CreateTableSQL renders the idempotent CREATE TABLE for the schedule table.
func CreateTableSQL(table string) (string, error) {
	if strings.TrimSpace(table) == "" {
		table = DefaultTable
	}
	create, err := ddl.BuildCreateTableSQL(ddl.ScheduleTable(msFQN(table), dialect))
	if err != nil {
		return "", err
	}
	lit := strings.ReplaceAll(msFQN(table), "'", "''")
	return fmt.Sprintf("IF OBJECT_ID(N'%s', N'U') IS NULL\n%s", lit, create), nil
}
