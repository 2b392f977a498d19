package airports

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flightetl/pkg/records"
)

func TestBundled_LoadsReferenceData(t *testing.T) {
	t.Parallel()

	d, err := Bundled()
	require.NoError(t, err)
	assert.Greater(t, d.Len(), 250)

	name, ok := d.Lookup("dub")
	require.True(t, ok)
	assert.Equal(t, "Dublin Airport", name)

	name, ok = d.Lookup("AGP")
	require.True(t, ok)
	assert.Equal(t, "Málaga-Costa del Sol Airport", name)

	for code, want := range map[string]string{
		"BZR": "Béziers Cap d'Agde Airport",
		"LCJ": "Łódź Władysław Reymont Airport",
		"RAK": "Marrakesh Menara Airport",
		"ZTH": "Zakynthos International Airport",
	} {
		name, ok := d.Lookup(code)
		if assert.True(t, ok, code) {
			assert.Equal(t, want, name)
		}
	}
}

func TestLoad_HeaderVariantsAndCleanup(t *testing.T) {
	t.Parallel()

	const src = "\ufeffDep_IATA,arr_iata,Airport_Name\n" +
		" stn ,STN,\"London   Stansted\tAirport\"\n" +
		"STN,STN,Duplicate Name\n" +
		",XXX,No Code\n" +
		"BLK,BLK,   \n" +
		"short\n"

	d, err := Load(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, 1, d.Len())

	name, ok := d.Lookup("STN")
	require.True(t, ok)
	assert.Equal(t, "London Stansted Airport", name, "first occurrence wins, whitespace collapsed")

	_, ok = d.Lookup("BLK")
	assert.False(t, ok, "blank names are skipped")
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{name: "empty", src: "", want: "empty airport dataset"},
		{name: "missing name column", src: "iata,city\nDUB,Dublin\n", want: "need one of"},
		{name: "missing code column", src: "airport_name\nDublin\n", want: "need one of"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Load(strings.NewReader(tt.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestOpen_FileAndFallback(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "codes.csv")
	require.NoError(t, os.WriteFile(path, []byte("iata,airport_name\nORK,Cork Airport\n"), 0o600))

	d, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, 1, d.Len())

	d, err = Open("  ")
	require.NoError(t, err)
	assert.Greater(t, d.Len(), 1)

	_, err = Open(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
}

// TestEnrich_PreservesRowCount checks the left-join contract for matched,
// unmatched, and blank codes.
func TestEnrich_PreservesRowCount(t *testing.T) {
	t.Parallel()

	d, err := Load(strings.NewReader("iata,airport_name\nDUB,Dublin Airport\nSTN,London Stansted Airport\n"))
	require.NoError(t, err)

	in := []records.Schedule{
		{FlightIATA: "FR1", DepIATA: "DUB", ArrIATA: "STN", Status: "landed"},
		{FlightIATA: "FR2", DepIATA: "ZZZ", ArrIATA: "DUB", Status: "active"},
		{FlightIATA: "FR3", DepIATA: "", ArrIATA: "QQQ", Status: "scheduled"},
		{FlightIATA: "FR1", DepIATA: "DUB", ArrIATA: "STN", Status: "landed"},
	}

	out := Enrich(in, d)
	require.Len(t, out, len(in))

	require.NotNil(t, out[0].DepartureAirport)
	assert.Equal(t, "Dublin Airport", *out[0].DepartureAirport)
	require.NotNil(t, out[0].ArrivalAirport)
	assert.Equal(t, "London Stansted Airport", *out[0].ArrivalAirport)

	assert.Nil(t, out[1].DepartureAirport)
	require.NotNil(t, out[1].ArrivalAirport)
	assert.Equal(t, "Dublin Airport", *out[1].ArrivalAirport)

	assert.Nil(t, out[2].DepartureAirport)
	assert.Nil(t, out[2].ArrivalAirport)

	for i := range in {
		assert.Equal(t, in[i].FlightIATA, out[i].FlightIATA, "order preserved at %d", i)
		assert.Equal(t, in[i].Status, out[i].Status)
	}
}

func TestEnrich_NilDirectory(t *testing.T) {
	t.Parallel()

	out := Enrich([]records.Schedule{{FlightIATA: "FR1", DepIATA: "DUB"}}, nil)
	require.Len(t, out, 1)
	assert.Nil(t, out[0].DepartureAirport)
}
