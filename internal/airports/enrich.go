package airports

import "flightetl/pkg/records"

// Enrich left-joins departure and arrival codes against dir. Output has
// exactly one record per input record, in input order; an unmatched code
// yields a nil airport name. The IATA codes themselves are not carried over.
func Enrich(in []records.Schedule, dir *Directory) []records.Enriched {
	out := make([]records.Enriched, len(in))
	for i, s := range in {
		out[i] = records.Enriched{
			FlightIATA:       s.FlightIATA,
			DepartureAirport: dir.resolve(s.DepIATA),
			ArrivalAirport:   dir.resolve(s.ArrIATA),
			DepTimeUTC:       s.DepTimeUTC,
			DepEstimatedUTC:  s.DepEstimatedUTC,
			DepActualUTC:     s.DepActualUTC,
			ArrTimeUTC:       s.ArrTimeUTC,
			ArrEstimatedUTC:  s.ArrEstimatedUTC,
			Status:           s.Status,
			Duration:         s.Duration,
			Delayed:          s.Delayed,
			DepDelayed:       s.DepDelayed,
			ArrDelayed:       s.ArrDelayed,
		}
	}
	return out
}

func (d *Directory) resolve(code string) *string {
	name, ok := d.Lookup(code)
	if !ok {
		return nil
	}
	return &name
}
