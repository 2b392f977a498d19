package storage

import (
	"fmt"
	"time"

	"flightetl/internal/ddl"
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04:05.999999999"
)

// ClockFunc converts a time of day, given as the offset since midnight, into
// the driver value for a TIME column.
type ClockFunc func(sinceMidnight time.Duration) any

// TemporalRows returns a copy of rows in which string values of date columns
// become UTC midnight time.Time values and string values of time columns are
// passed through clock. A nil clock leaves time columns as strings. Columns
// unknown to the schedule schema pass through unchanged.
func TemporalRows(columns []string, rows [][]any, clock ClockFunc) ([][]any, error) {
	kinds := make([]ddl.Kind, len(columns))
	for i, c := range columns {
		if k, ok := ddl.KindOf(c); ok {
			kinds[i] = k
		} else {
			kinds[i] = ddl.KindString
		}
	}

	out := make([][]any, len(rows))
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("row %d has %d values, want %d", i, len(row), len(columns))
		}
		conv := make([]any, len(row))
		for j, v := range row {
			conv[j] = v
			s, ok := v.(string)
			if !ok {
				continue
			}
			switch kinds[j] {
			case ddl.KindDate:
				d, err := time.Parse(dateLayout, s)
				if err != nil {
					return nil, fmt.Errorf("row %d column %s: %w", i, columns[j], err)
				}
				conv[j] = d
			case ddl.KindTime:
				if clock == nil {
					continue
				}
				t, err := time.Parse(clockLayout, s)
				if err != nil {
					return nil, fmt.Errorf("row %d column %s: %w", i, columns[j], err)
				}
				midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
				conv[j] = clock(t.Sub(midnight))
			}
		}
		out[i] = conv
	}
	return out, nil
}
