package probe

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flightetl/internal/airports"
	"flightetl/internal/datasource/airlabs"
	"flightetl/pkg/records"
)

func directory(t *testing.T) *airports.Directory {
	t.Helper()
	d, err := airports.Load(strings.NewReader("iata_code,name\nDUB,Dublin Airport\nSTN,London Stansted Airport\n"))
	require.NoError(t, err)
	return d
}

func str(s string) *string { return &s }

func TestInspect(t *testing.T) {
	t.Parallel()

	landed := records.Schedule{
		FlightIATA: "FR1", DepIATA: "DUB", ArrIATA: "STN",
		DepTimeUTC: "2024-01-09 10:00", ArrTimeUTC: "2024-01-09 11:15",
		DepActualUTC: str("2024-01-09 10:07"), Status: "landed",
	}
	recs := []records.Schedule{
		landed,
		landed,
		{FlightIATA: "FR2", DepIATA: "DUB", ArrIATA: "xxx", DepTimeUTC: "2024-01-09 12:00", ArrTimeUTC: "2024-01-09 13:00", Status: "en-route"},
		{FlightIATA: "FR3", DepIATA: "ZZZ", ArrIATA: "STN", DepTimeUTC: "garbage", ArrTimeUTC: "2024-01-09 13:00", Status: "landed"},
		{FlightIATA: "FR4", DepIATA: "DUB", ArrIATA: "STN", DepTimeUTC: "2024-01-09 14:00", ArrTimeUTC: "2024-01-09 15:00"},
	}

	rep := Inspect(recs, directory(t))

	assert.Equal(t, 5, rep.Fetched)
	assert.Equal(t, map[string]int{"landed": 3, "en-route": 1, "(none)": 1}, rep.ByStatus)
	assert.Equal(t, []string{"XXX", "ZZZ"}, rep.UnknownAirports)
	require.Len(t, rep.Rejected, 1)
	assert.Equal(t, "FR3", rep.Rejected[0].FlightIATA)
	assert.Equal(t, "dep_time_utc", rep.Rejected[0].Field)
	assert.Equal(t, "garbage", rep.Rejected[0].Value)
	assert.NotEmpty(t, rep.Rejected[0].Error)
	assert.Equal(t, 2, rep.Loadable)
	assert.Equal(t, 1, rep.Duplicates)
}

func TestInspect_Empty(t *testing.T) {
	t.Parallel()

	rep := Inspect(nil, nil)
	assert.Zero(t, rep.Fetched)
	assert.Empty(t, rep.ByStatus)
	assert.Empty(t, rep.Rejected)
	assert.Empty(t, rep.UnknownAirports)
}

func TestSave_RoundTripsThroughDecode(t *testing.T) {
	t.Parallel()

	recs := []records.Schedule{{
		FlightIATA: "FR1", DepIATA: "DUB", ArrIATA: "STN",
		DepTimeUTC: "2024-01-09 10:00", ArrTimeUTC: "2024-01-09 11:15",
		DepActualUTC: str("2024-01-09 10:07"), Status: "landed",
	}}
	var buf bytes.Buffer
	require.NoError(t, Save(&buf, recs))

	got, err := airlabs.Decode(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, recs, got)

	buf.Reset()
	require.NoError(t, Save(&buf, nil))
	got, err = airlabs.Decode(buf.Bytes())
	require.NoError(t, err)
	assert.Empty(t, got)
}
