package transformer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flightetl/pkg/records"
)

func normalized(iata, status string) records.Normalized {
	return records.Normalized{
		FlightIATA: iata,
		Status:     status,
		Departure: records.DepartureLeg{
			Scheduled: records.Stamp{Date: "2024-01-09", Time: "10:00:00"},
			Updated:   records.Stamp{Date: "2024-01-09", Time: "10:10:00"},
			Actual:    records.Stamp{Date: "2024-01-09", Time: "10:05:00"},
		},
		Arrival: records.ArrivalLeg{
			Scheduled: records.Stamp{Date: "2024-01-09", Time: "12:30:00"},
			Updated:   records.Stamp{Date: "2024-01-10", Time: "00:05:00"},
		},
	}
}

func TestFilterLoadable_KeepsLandedOnly(t *testing.T) {
	t.Parallel()

	in := []records.Normalized{
		normalized("FR1", "landed"),
		normalized("FR2", "scheduled"),
		normalized("FR3", "active"),
		normalized("FR4", "Landed"),
		normalized("FR5", "landed"),
	}

	out := FilterLoadable(in)
	require.Len(t, out, 2)
	assert.Equal(t, "FR1", out[0].FlightIATA)
	assert.Equal(t, "FR5", out[1].FlightIATA)
	for _, r := range out {
		assert.Equal(t, records.StatusLanded, r.Status)
	}
}

func TestFilterLoadable_ColumnMapping(t *testing.T) {
	t.Parallel()

	n := normalized("FR1", "landed")
	dur := 150.0
	arrDelay := 7.0
	n.Duration = &dur
	n.ArrDelayed = &arrDelay
	n.ArrivalAirport = strp("London Stansted Airport")

	out := FilterLoadable([]records.Normalized{n})
	require.Len(t, out, 1)
	r := out[0]

	assert.Equal(t, "2024-01-09", r.DepDate)
	assert.Equal(t, "10:00:00", r.DepTime)
	assert.Equal(t, "10:10:00", r.DepTimeUpd)
	assert.Equal(t, "10:05:00", r.DepTimeAct)
	assert.Equal(t, "2024-01-09", r.DepDateUpd)
	assert.Equal(t, "2024-01-09", r.DepDateAct)
	assert.Equal(t, "2024-01-09", r.ArrDate)
	assert.Equal(t, "12:30:00", r.ArrTime)
	assert.Equal(t, "00:05:00", r.ArrTimeUpd)
	assert.Equal(t, "2024-01-10", r.ArrDateUpd)

	require.NotNil(t, r.Duration)
	assert.Equal(t, 150.0, *r.Duration)
	assert.Nil(t, r.DepartureAirport)
	require.NotNil(t, r.ArrivalAirport)
	assert.Equal(t, "London Stansted Airport", *r.ArrivalAirport)
}

func TestFilterLoadable_DelayDefaults(t *testing.T) {
	t.Parallel()

	withDelays := normalized("FR2", "landed")
	d, dd := 12.0, 9.0
	withDelays.Delayed = &d
	withDelays.DepDelayed = &dd

	out := FilterLoadable([]records.Normalized{normalized("FR1", "landed"), withDelays})
	require.Len(t, out, 2)

	assert.Zero(t, out[0].Delayed)
	assert.Zero(t, out[0].DepDelayed)
	assert.Nil(t, out[0].Duration, "duration has no default")

	assert.Equal(t, 12.0, out[1].Delayed)
	assert.Equal(t, 9.0, out[1].DepDelayed)
}

func TestFilterLoadable_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, FilterLoadable(nil))
	assert.Empty(t, FilterLoadable([]records.Normalized{normalized("FR1", "cancelled")}))
}
