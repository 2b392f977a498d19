package transformer

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flightetl/pkg/records"
)

func strp(s string) *string { return &s }

func TestParseUTC_Layouts(t *testing.T) {
	t.Parallel()

	want := time.Date(2024, 1, 9, 10, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{name: "rfc3339 zulu", in: "2024-01-09T10:00:00Z", want: want},
		{name: "space minutes", in: "2024-01-09 10:00", want: want},
		{name: "T minutes", in: "2024-01-09T10:00", want: want},
		{name: "space seconds", in: "2024-01-09 10:00:00", want: want},
		{name: "offset converted", in: "2024-01-09T12:00:00+02:00", want: want},
		{name: "padded", in: "  2024-01-09 10:00  ", want: want},
		{name: "fraction", in: "2024-01-09T10:00:00.25Z", want: want.Add(250 * time.Millisecond)},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseUTC(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v want %v", got, tt.want)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestParseUTC_Errors(t *testing.T) {
	t.Parallel()

	_, err := ParseUTC("   ")
	assert.ErrorIs(t, err, ErrMissingTimestamp)

	_, err = ParseUTC("09/01/2024 10:00")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrMissingTimestamp))
}

func TestStampOf(t *testing.T) {
	t.Parallel()

	s := StampOf(time.Date(2024, 3, 31, 23, 59, 0, 0, time.UTC))
	assert.Equal(t, records.Stamp{Date: "2024-03-31", Time: "23:59:00"}, s)

	s = StampOf(time.Date(2024, 3, 31, 1, 2, 3, 500000000, time.UTC))
	assert.Equal(t, "01:02:03.5", s.Time)
}

// TestNormalize_DepartureFallbacks covers the documented example: no
// estimate, an actual five minutes late.
func TestNormalize_DepartureFallbacks(t *testing.T) {
	t.Parallel()

	in := []records.Enriched{{
		FlightIATA:   "FR100",
		Status:       "landed",
		DepTimeUTC:   "2024-01-09T10:00:00Z",
		DepActualUTC: strp("2024-01-09T10:05:00Z"),
		ArrTimeUTC:   "2024-01-09T12:30:00Z",
	}}

	out, rejects := Normalize(in)
	require.Empty(t, rejects)
	require.Len(t, out, 1)

	dep := out[0].Departure
	assert.Equal(t, records.Stamp{Date: "2024-01-09", Time: "10:00:00"}, dep.Scheduled)
	assert.Equal(t, dep.Scheduled, dep.Updated, "updated falls back to scheduled")
	assert.Equal(t, "10:05:00", dep.Actual.Time)
	assert.Equal(t, "2024-01-09", dep.Actual.Date)

	arr := out[0].Arrival
	assert.Equal(t, records.Stamp{Date: "2024-01-09", Time: "12:30:00"}, arr.Scheduled)
	assert.Equal(t, arr.Scheduled, arr.Updated)
}

func TestNormalize_EstimatesAcrossMidnight(t *testing.T) {
	t.Parallel()

	in := []records.Enriched{{
		FlightIATA:      "FR200",
		Status:          "landed",
		DepTimeUTC:      "2024-01-09 23:40",
		DepEstimatedUTC: strp("2024-01-10 00:15"),
		ArrTimeUTC:      "2024-01-10 02:00",
		ArrEstimatedUTC: strp("2024-01-10 02:35"),
	}}

	out, rejects := Normalize(in)
	require.Empty(t, rejects)
	require.Len(t, out, 1)

	assert.Equal(t, records.Stamp{Date: "2024-01-10", Time: "00:15:00"}, out[0].Departure.Updated)
	assert.Equal(t, "2024-01-09", out[0].Departure.Scheduled.Date)
	assert.Equal(t, out[0].Departure.Scheduled, out[0].Departure.Actual)
	assert.Equal(t, records.Stamp{Date: "2024-01-10", Time: "02:35:00"}, out[0].Arrival.Updated)
}

func TestNormalize_OptionalGarbageTreatedAsAbsent(t *testing.T) {
	t.Parallel()

	in := []records.Enriched{{
		FlightIATA:      "FR300",
		DepTimeUTC:      "2024-01-09 06:00",
		DepEstimatedUTC: strp("soon"),
		DepActualUTC:    strp("  "),
		ArrTimeUTC:      "2024-01-09 08:00",
	}}

	out, rejects := Normalize(in)
	require.Empty(t, rejects)
	require.Len(t, out, 1)
	assert.Equal(t, out[0].Departure.Scheduled, out[0].Departure.Updated)
	assert.Equal(t, out[0].Departure.Scheduled, out[0].Departure.Actual)
}

func TestNormalize_RejectsBadSchedule(t *testing.T) {
	t.Parallel()

	in := []records.Enriched{
		{FlightIATA: "FR1", DepTimeUTC: "2024-01-09 06:00", ArrTimeUTC: "2024-01-09 08:00"},
		{FlightIATA: "FR2", DepTimeUTC: "not a time", ArrTimeUTC: "2024-01-09 08:00"},
		{FlightIATA: "FR3", DepTimeUTC: "2024-01-09 06:00", ArrTimeUTC: ""},
		{FlightIATA: "FR4", DepTimeUTC: "2024-01-09 07:00", ArrTimeUTC: "2024-01-09 09:00"},
	}

	out, rejects := Normalize(in)
	require.Len(t, out, 2)
	assert.Equal(t, "FR1", out[0].FlightIATA)
	assert.Equal(t, "FR4", out[1].FlightIATA)

	require.Len(t, rejects, 2)
	assert.Equal(t, "FR2", rejects[0].FlightIATA)
	assert.Equal(t, "dep_time_utc", rejects[0].Field)
	assert.Equal(t, "not a time", rejects[0].Value)

	assert.Equal(t, "FR3", rejects[1].FlightIATA)
	assert.Equal(t, "arr_time_utc", rejects[1].Field)
	assert.ErrorIs(t, rejects[1], ErrMissingTimestamp)
	assert.Contains(t, rejects[1].Error(), "FR3")
}

func TestNormalize_CarriesMetricsAndNames(t *testing.T) {
	t.Parallel()

	d := 120.0
	in := []records.Enriched{{
		FlightIATA:       "FR5",
		Status:           "active",
		DepartureAirport: strp("Dublin Airport"),
		DepTimeUTC:       "2024-01-09 06:00",
		ArrTimeUTC:       "2024-01-09 08:00",
		Duration:         &d,
	}}

	out, _ := Normalize(in)
	require.Len(t, out, 1)
	assert.Equal(t, "active", out[0].Status)
	require.NotNil(t, out[0].DepartureAirport)
	assert.Equal(t, "Dublin Airport", *out[0].DepartureAirport)
	assert.Nil(t, out[0].ArrivalAirport)
	require.NotNil(t, out[0].Duration)
	assert.Equal(t, 120.0, *out[0].Duration)
	assert.Nil(t, out[0].Delayed)
}
