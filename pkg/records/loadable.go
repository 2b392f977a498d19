package records

import (
	"encoding/binary"
	"math"

	"github.com/zeebo/xxh3"
)

// Columns is the destination column list, in the positional order used by
// every bulk insert. Loadable.Values returns values in exactly this order.
// The store-generated primary key is not part of it.
var Columns = []string{
	"flight_iata",
	"status",
	"departure_airport",
	"arrival_airport",
	"dep_date",
	"dep_time",
	"dep_time_upd",
	"dep_time_act",
	"arr_date",
	"arr_time",
	"arr_time_upd",
	"duration",
	"delayed",
	"dep_delayed",
	"arr_date_upd",
	"dep_date_upd",
	"dep_date_act",
}

// Loadable is a landed flight ready for the destination table. Fields are
// declared in Columns order.
type Loadable struct {
	FlightIATA       string
	Status           string
	DepartureAirport *string
	ArrivalAirport   *string
	DepDate          string
	DepTime          string
	DepTimeUpd       string
	DepTimeAct       string
	ArrDate          string
	ArrTime          string
	ArrTimeUpd       string
	Duration         *float64
	Delayed          float64
	DepDelayed       float64
	ArrDateUpd       string
	DepDateUpd       string
	DepDateAct       string
}

// Values returns the row aligned to Columns. Absent airport names and
// duration become untyped nil so every driver writes NULL.
func (l Loadable) Values() []any {
	return []any{
		l.FlightIATA,
		l.Status,
		nullString(l.DepartureAirport),
		nullString(l.ArrivalAirport),
		l.DepDate,
		l.DepTime,
		l.DepTimeUpd,
		l.DepTimeAct,
		l.ArrDate,
		l.ArrTime,
		l.ArrTimeUpd,
		nullFloat(l.Duration),
		l.Delayed,
		l.DepDelayed,
		l.ArrDateUpd,
		l.DepDateUpd,
		l.DepDateAct,
	}
}

// Fingerprint hashes the row values. Two loadable records with the same
// fingerprint would produce identical destination rows apart from the
// store-assigned key.
func (l Loadable) Fingerprint() uint64 {
	h := xxh3.New()
	var buf [8]byte
	for _, v := range l.Values() {
		switch t := v.(type) {
		case nil:
			_, _ = h.Write([]byte{0})
		case string:
			_, _ = h.Write([]byte{1})
			_, _ = h.WriteString(t)
		case float64:
			_, _ = h.Write([]byte{2})
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(t))
			_, _ = h.Write(buf[:])
		}
		_, _ = h.Write([]byte{0xff})
	}
	return h.Sum64()
}

// Rows converts a batch to positional rows for Repository.CopyFrom.
func Rows(batch []Loadable) [][]any {
	out := make([][]any, len(batch))
	for i := range batch {
		out[i] = batch[i].Values()
	}
	return out
}

// CountDuplicates returns how many records in batch repeat an earlier
// record's fingerprint. Duplicates are reported, never removed.
func CountDuplicates(batch []Loadable) int {
	seen := make(map[uint64]struct{}, len(batch))
	dups := 0
	for i := range batch {
		fp := batch[i].Fingerprint()
		if _, ok := seen[fp]; ok {
			dups++
			continue
		}
		seen[fp] = struct{}{}
	}
	return dups
}

func nullString(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullFloat(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
