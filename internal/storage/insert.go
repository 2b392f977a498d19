package storage

import (
	"fmt"
	"strconv"
	"strings"
)

// Placeholder renders the bind marker for the n-th parameter (1-based).
type Placeholder func(n int) string

var (
	// QuestionMark is used by SQLite and MySQL.
	QuestionMark Placeholder = func(int) string { return "?" }
	// Dollar is used by Postgres.
	Dollar Placeholder = func(n int) string { return "$" + strconv.Itoa(n) }
	// AtP is used by SQL Server.
	AtP Placeholder = func(n int) string { return "@p" + strconv.Itoa(n) }
)

// InsertSQL renders a multi-row INSERT for nrows rows. table and columns must
// already be quoted for the target dialect.
func InsertSQL(table string, columns []string, nrows int, ph Placeholder) string {
	var sb strings.Builder
	sb.Grow(32 + len(table) + nrows*len(columns)*6)
	sb.WriteString("INSERT INTO ")
	sb.WriteString(table)
	sb.WriteString(" (")
	sb.WriteString(strings.Join(columns, ", "))
	sb.WriteString(") VALUES ")

	n := 1
	for r := 0; r < nrows; r++ {
		if r > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('(')
		for c := range columns {
			if c > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(ph(n))
			n++
		}
		sb.WriteByte(')')
	}
	return sb.String()
}

// ChunkRows splits rows so that no chunk binds more than maxParams
// parameters. Every row must have exactly ncols values.
func ChunkRows(rows [][]any, ncols, maxParams int) ([][][]any, error) {
	if ncols <= 0 {
		return nil, fmt.Errorf("columns must not be empty")
	}
	per := maxParams / ncols
	if per < 1 {
		return nil, fmt.Errorf("%d columns exceed the %d parameter limit", ncols, maxParams)
	}
	for i, r := range rows {
		if len(r) != ncols {
			return nil, fmt.Errorf("row %d has %d values, want %d", i, len(r), ncols)
		}
	}
	out := make([][][]any, 0, (len(rows)+per-1)/per)
	for len(rows) > 0 {
		n := per
		if n > len(rows) {
			n = len(rows)
		}
		out = append(out, rows[:n])
		rows = rows[n:]
	}
	return out, nil
}

// Flatten concatenates row values into a single argument list.
func Flatten(rows [][]any) []any {
	if len(rows) == 0 {
		return nil
	}
	out := make([]any, 0, len(rows)*len(rows[0]))
	for _, r := range rows {
		out = append(out, r...)
	}
	return out
}

// QuoteWith quotes each dotted segment of name using quote, dropping empty
// segments: "public.schedule" -> "public"."schedule".
func QuoteWith(name string, quote func(string) string) string {
	parts := strings.Split(name, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, quote(p))
		}
	}
	return strings.Join(out, ".")
}

// QuoteAll quotes every name with quote.
func QuoteAll(names []string, quote func(string) string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = quote(n)
	}
	return out
}
