package transformer

import "flightetl/pkg/records"

// FilterLoadable keeps landed flights only and shapes them into destination
// rows. Missing total and departure delays become 0; arr_delayed is not a
// destination column and is dropped.
func FilterLoadable(in []records.Normalized) []records.Loadable {
	out := make([]records.Loadable, 0, len(in))
	for _, n := range in {
		if !n.Landed() {
			continue
		}
		out = append(out, records.Loadable{
			FlightIATA:       n.FlightIATA,
			Status:           n.Status,
			DepartureAirport: n.DepartureAirport,
			ArrivalAirport:   n.ArrivalAirport,
			DepDate:          n.Departure.Scheduled.Date,
			DepTime:          n.Departure.Scheduled.Time,
			DepTimeUpd:       n.Departure.Updated.Time,
			DepTimeAct:       n.Departure.Actual.Time,
			ArrDate:          n.Arrival.Scheduled.Date,
			ArrTime:          n.Arrival.Scheduled.Time,
			ArrTimeUpd:       n.Arrival.Updated.Time,
			Duration:         n.Duration,
			Delayed:          zeroIfNil(n.Delayed),
			DepDelayed:       zeroIfNil(n.DepDelayed),
			ArrDateUpd:       n.Arrival.Updated.Date,
			DepDateUpd:       n.Departure.Updated.Date,
			DepDateAct:       n.Departure.Actual.Date,
		})
	}
	return out
}

func zeroIfNil(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
