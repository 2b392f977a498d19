// Package transformer turns enriched schedule records into rows the sink can
// load. It has two stages, run in order by the pipeline:
//
//   - Normalize splits each leg's raw UTC timestamps into date/time pairs and
//     applies the estimated -> scheduled and actual -> scheduled fallbacks.
//   - FilterLoadable keeps landed flights and fills missing delay metrics.
//
// Both stages are pure functions over slices; they never touch the network or
// the database.
package transformer

import (
	"errors"
	"fmt"
)

// ErrMissingTimestamp is wrapped by a NormalizationError when a mandatory
// scheduled timestamp is empty.
var ErrMissingTimestamp = errors.New("timestamp missing")

// NormalizationError rejects a single record whose scheduled timestamp could
// not be parsed. It is record-scoped: the run continues without the record.
type NormalizationError struct {
	FlightIATA string // identity of the rejected record
	Field      string // upstream field name, e.g. "dep_time_utc"
	Value      string // raw value as received
	Err        error
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("normalize %s: %s=%q: %v", e.FlightIATA, e.Field, e.Value, e.Err)
}

func (e *NormalizationError) Unwrap() error { return e.Err }
