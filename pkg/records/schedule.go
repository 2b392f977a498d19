// Package records defines the in-memory shapes a flight schedule passes
// through on its way from the upstream API to the destination table.
//
// Each pipeline stage produces a new, narrower type rather than mutating a
// shared map, so the compiler enforces which fields exist at which stage:
//
//	Schedule   (as received)       -> Enriched   (airport names joined)
//	Enriched   (raw UTC strings)   -> Normalized (date/time pairs per leg)
//	Normalized (all statuses)      -> Loadable   (landed, destination columns)
//
// Values are transient: built fresh for every run and discarded afterwards.
package records

import "strings"

// StatusLanded is the upstream status of a completed flight.
const StatusLanded = "landed"

// Schedule is one flight leg-event as returned by the schedules endpoint.
// Optional upstream fields are pointers so that "absent" and "null" can be
// told apart from a zero value.
type Schedule struct {
	FlightIATA      string   `json:"flight_iata"`
	DepIATA         string   `json:"dep_iata"`
	DepTimeUTC      string   `json:"dep_time_utc"`
	DepEstimatedUTC *string  `json:"dep_estimated_utc"`
	DepActualUTC    *string  `json:"dep_actual_utc"`
	ArrIATA         string   `json:"arr_iata"`
	ArrTimeUTC      string   `json:"arr_time_utc"`
	ArrEstimatedUTC *string  `json:"arr_estimated_utc"`
	Status          string   `json:"status"`
	Duration        *float64 `json:"duration"`
	Delayed         *float64 `json:"delayed"`
	DepDelayed      *float64 `json:"dep_delayed"`
	ArrDelayed      *float64 `json:"arr_delayed"`
}

// Enriched is a Schedule whose IATA codes were replaced by airport names.
// A nil name means the code had no match in the airport directory.
type Enriched struct {
	FlightIATA       string
	DepartureAirport *string
	ArrivalAirport   *string

	DepTimeUTC      string
	DepEstimatedUTC *string
	DepActualUTC    *string
	ArrTimeUTC      string
	ArrEstimatedUTC *string

	Status     string
	Duration   *float64
	Delayed    *float64
	DepDelayed *float64
	ArrDelayed *float64
}

// Stamp is an instant split into its calendar date ("2006-01-02") and its
// time of day ("15:04:05", with fractional seconds only when present).
type Stamp struct {
	Date string
	Time string
}

// IsZero reports whether s carries no value.
func (s Stamp) IsZero() bool { return s.Date == "" && s.Time == "" }

// DepartureLeg holds the derived instants of the departure leg.
type DepartureLeg struct {
	Scheduled Stamp
	Updated   Stamp // estimated, else Scheduled
	Actual    Stamp // actual, else Scheduled
}

// ArrivalLeg holds the derived instants of the arrival leg. There is no
// actual-arrival instant in this model.
type ArrivalLeg struct {
	Scheduled Stamp
	Updated   Stamp // estimated, else Scheduled
}

// Normalized is an Enriched record whose raw timestamps were replaced by
// derived date/time pairs.
type Normalized struct {
	FlightIATA       string
	Status           string
	DepartureAirport *string
	ArrivalAirport   *string

	Departure DepartureLeg
	Arrival   ArrivalLeg

	Duration   *float64
	Delayed    *float64
	DepDelayed *float64
	ArrDelayed *float64
}

// Landed reports whether the flight has completed. The match is exact and
// case-sensitive.
func (n Normalized) Landed() bool { return n.Status == StatusLanded }

// OptionalString returns nil for an absent or blank value and a pointer to
// the trimmed value otherwise.
func OptionalString(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
