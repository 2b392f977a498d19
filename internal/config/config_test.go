package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_DefaultsOnly(t *testing.T) {
	t.Setenv(APIKeyEnv, "")

	p, err := Load("")
	require.NoError(t, err)

	d := Defaults()
	assert.Equal(t, d.Job, p.Job)
	assert.Equal(t, "airlabs", p.Source.Kind)
	assert.Equal(t, "https://airlabs.co/api/v9", p.Source.AirLabs.BaseURL)
	assert.Equal(t, "FR", p.Source.AirLabs.AirlineIATA)
	assert.Equal(t, 30*time.Second, p.Source.AirLabs.Timeout)
	assert.Equal(t, "postgres", p.Storage.Kind)
	assert.True(t, p.Storage.DB.AutoCreateTable)
	assert.Equal(t, "none", p.Metrics.Backend)
	assert.Equal(t, "flightetl.runs", p.Notify.Subject)
	assert.Zero(t, p.Schedule.Every)
	assert.False(t, p.Source.AirLabs.InsecureSkipVerify)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	t.Setenv(APIKeyEnv, "")

	path := writeFile(t, "pipeline.json", `{
  "job": "fr_landed_eu",
  "source": {
    "kind": "airlabs",
    "airlabs": {
      "airline_iata": "FR",
      "fields": ["flight_iata", "status", "dep_time_utc", "arr_time_utc"],
      "timeout": "45s",
      "max_retries": 2,
      "min_interval": "500ms"
    }
  },
  "airports": { "path": "/data/airport_codes.csv" },
  "storage": {
    "kind": "sqlite",
    "db": { "dsn": "flights.db", "table": "schedule", "auto_create_table": false }
  },
  "metrics": { "backend": "prometheus", "pushgateway_url": "http://pgw:9091" },
  "notify": { "nats_url": "nats://localhost:4222" },
  "schedule": { "every": "3m" }
}`)

	p, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "fr_landed_eu", p.Job)
	assert.Equal(t, []string{"flight_iata", "status", "dep_time_utc", "arr_time_utc"}, p.Source.AirLabs.Fields)
	assert.Equal(t, 45*time.Second, p.Source.AirLabs.Timeout)
	assert.Equal(t, 2, p.Source.AirLabs.MaxRetries)
	assert.Equal(t, 500*time.Millisecond, p.Source.AirLabs.MinInterval)
	assert.Equal(t, "/data/airport_codes.csv", p.Airports.Path)
	assert.Equal(t, "sqlite", p.Storage.Kind)
	assert.Equal(t, "flights.db", p.Storage.DB.DSN)
	assert.False(t, p.Storage.DB.AutoCreateTable)
	assert.Equal(t, "http://pgw:9091", p.Metrics.PushgatewayURL)
	assert.Equal(t, "nats://localhost:4222", p.Notify.NATSURL)
	assert.Equal(t, "flightetl.runs", p.Notify.Subject, "unset keys keep their defaults")
	assert.Equal(t, 3*time.Minute, p.Schedule.Every)
	// Base URL was not in the file.
	assert.Equal(t, "https://airlabs.co/api/v9", p.Source.AirLabs.BaseURL)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(APIKeyEnv, "k-123")
	t.Setenv("FLIGHTETL_STORAGE_DB_DSN", "postgres://etl@db/flights")
	t.Setenv("FLIGHTETL_SCHEDULE_EVERY", "10m")
	t.Setenv("FLIGHTETL_SOURCE_AIRLABS_INSECURE_SKIP_VERIFY", "true")

	path := writeFile(t, "pipeline.json", `{"storage": {"kind": "postgres", "db": {"dsn": "from-file"}}}`)
	p, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "k-123", p.Source.AirLabs.APIKey)
	assert.Equal(t, "postgres://etl@db/flights", p.Storage.DB.DSN)
	assert.Equal(t, 10*time.Minute, p.Schedule.Every)
	assert.True(t, p.Source.AirLabs.InsecureSkipVerify)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := writeFile(t, "bad.json", `{"job": `)
	_, err := Load(path)
	require.Error(t, err)
}
