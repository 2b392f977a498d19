// Package datasource defines where flight schedules come from. Concrete
// sources live in subpackages (airlabs for the live API).
package datasource

import (
	"context"

	"flightetl/pkg/records"
)

// ScheduleSource retrieves the current batch of flight schedules for one run.
type ScheduleSource interface {
	Fetch(ctx context.Context, apiKey string) ([]records.Schedule, error)
}
