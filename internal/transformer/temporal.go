package transformer

import (
	"fmt"
	"strings"
	"time"

	"flightetl/pkg/records"
)

const (
	dateLayout = "2006-01-02"
	// Fractional seconds are emitted only when non-zero.
	clockLayout = "15:04:05.999999999"
)

// timestampLayouts are tried in order. Zone-less values are read as UTC; the
// upstream fields are all *_utc.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04Z07:00",
}

// ParseUTC parses an upstream timestamp and returns it in UTC.
func ParseUTC(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrMissingTimestamp
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp format")
}

// StampOf splits t into its date and time of day.
func StampOf(t time.Time) records.Stamp {
	return records.Stamp{
		Date: t.Format(dateLayout),
		Time: t.Format(clockLayout),
	}
}

// Normalize derives the per-leg date/time pairs for every record.
//
// For each leg the scheduled instant is mandatory; a record whose departure or
// arrival schedule is missing or unparsable is excluded and reported in
// rejects. The updated instant is the estimated one, else a copy of the
// scheduled stamp. Only the departure leg gets an actual instant (actual, else
// scheduled); arrival has none. An optional timestamp that does not parse is
// treated as absent.
func Normalize(in []records.Enriched) (out []records.Normalized, rejects []*NormalizationError) {
	out = make([]records.Normalized, 0, len(in))
	for _, e := range in {
		n, rej := normalizeOne(e)
		if rej != nil {
			rejects = append(rejects, rej)
			continue
		}
		out = append(out, n)
	}
	return out, rejects
}

func normalizeOne(e records.Enriched) (records.Normalized, *NormalizationError) {
	depSched, err := ParseUTC(e.DepTimeUTC)
	if err != nil {
		return records.Normalized{}, &NormalizationError{FlightIATA: e.FlightIATA, Field: "dep_time_utc", Value: e.DepTimeUTC, Err: err}
	}
	arrSched, err := ParseUTC(e.ArrTimeUTC)
	if err != nil {
		return records.Normalized{}, &NormalizationError{FlightIATA: e.FlightIATA, Field: "arr_time_utc", Value: e.ArrTimeUTC, Err: err}
	}

	dep := StampOf(depSched)
	arr := StampOf(arrSched)

	return records.Normalized{
		FlightIATA:       e.FlightIATA,
		Status:           e.Status,
		DepartureAirport: e.DepartureAirport,
		ArrivalAirport:   e.ArrivalAirport,
		Departure: records.DepartureLeg{
			Scheduled: dep,
			Updated:   orScheduled(e.DepEstimatedUTC, dep),
			Actual:    orScheduled(e.DepActualUTC, dep),
		},
		Arrival: records.ArrivalLeg{
			Scheduled: arr,
			Updated:   orScheduled(e.ArrEstimatedUTC, arr),
		},
		Duration:   e.Duration,
		Delayed:    e.Delayed,
		DepDelayed: e.DepDelayed,
		ArrDelayed: e.ArrDelayed,
	}, nil
}

// orScheduled returns the stamp of raw when it is present and parses, and
// the already-derived scheduled stamp otherwise.
func orScheduled(raw *string, scheduled records.Stamp) records.Stamp {
	v := records.OptionalString(raw)
	if v == nil {
		return scheduled
	}
	t, err := ParseUTC(*v)
	if err != nil {
		return scheduled
	}
	return StampOf(t)
}
