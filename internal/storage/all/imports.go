// Package all wires all built-in storage backends into the storage factory.
//
// This package exists purely for side effects: importing it (even as a blank
// import) runs the init functions of each concrete backend, which register
// their factories and DDL bootstrappers with the storage package. The
// following kinds become available:
//
//   - "postgres"   (flightetl/internal/storage/postgres)
//   - "mysql"      (flightetl/internal/storage/mysql)
//   - "mssql"      (flightetl/internal/storage/mssql)
//   - "sqlite"     (flightetl/internal/storage/sqlite)
//   - "clickhouse" (flightetl/internal/storage/clickhouse)
//
// A binary that needs only a subset can import the backends directly instead.
package all

import (
	_ "flightetl/internal/storage/clickhouse"
	_ "flightetl/internal/storage/mssql"
	_ "flightetl/internal/storage/mysql"
	_ "flightetl/internal/storage/postgres"
	_ "flightetl/internal/storage/sqlite"
)
