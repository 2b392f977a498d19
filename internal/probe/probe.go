// Package probe runs the transform stages over a schedule window without a
// sink and reports what a load would do. It backs cmd/probe, which is used to
// check an API key, airline or airport file before pointing the ETL at a real
// table.
package probe

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"flightetl/internal/airports"
	"flightetl/internal/transformer"
	"flightetl/pkg/records"
)

// Report summarizes one window.
type Report struct {
	Fetched         int            `json:"fetched"`
	ByStatus        map[string]int `json:"by_status"`
	Rejected        []Reject       `json:"rejected,omitempty"`
	Loadable        int            `json:"loadable"`
	Duplicates      int            `json:"duplicates"`
	UnknownAirports []string       `json:"unknown_airports,omitempty"`
}

// Reject is a record the normalizer refused.
type Reject struct {
	FlightIATA string `json:"flight_iata"`
	Field      string `json:"field"`
	Value      string `json:"value"`
	Error      string `json:"error"`
}

// Inspect enriches, normalizes and filters recs the same way a run does.
func Inspect(recs []records.Schedule, dir *airports.Directory) Report {
	rep := Report{Fetched: len(recs), ByStatus: map[string]int{}}

	unknown := map[string]struct{}{}
	for _, r := range recs {
		status := r.Status
		if status == "" {
			status = "(none)"
		}
		rep.ByStatus[status]++
		for _, code := range []string{r.DepIATA, r.ArrIATA} {
			if code == "" {
				continue
			}
			if _, ok := dir.Lookup(code); !ok {
				unknown[airports.NormalizeCode(code)] = struct{}{}
			}
		}
	}
	for code := range unknown {
		rep.UnknownAirports = append(rep.UnknownAirports, code)
	}
	sort.Strings(rep.UnknownAirports)

	normalized, rejects := transformer.Normalize(airports.Enrich(recs, dir))
	for _, rj := range rejects {
		rep.Rejected = append(rep.Rejected, Reject{
			FlightIATA: rj.FlightIATA,
			Field:      rj.Field,
			Value:      rj.Value,
			Error:      rj.Err.Error(),
		})
	}
	loadable := transformer.FilterLoadable(normalized)
	rep.Loadable = len(loadable)
	rep.Duplicates = records.CountDuplicates(loadable)
	return rep
}

// Save writes recs in the upstream response envelope so the file source can
// replay them later.
func Save(w io.Writer, recs []records.Schedule) error {
	if recs == nil {
		recs = []records.Schedule{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(struct {
		Response []records.Schedule `json:"response"`
	}{recs}); err != nil {
		return fmt.Errorf("probe: save: %w", err)
	}
	return nil
}
