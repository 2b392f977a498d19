// Package config defines the configuration model for the flight schedule ETL
// and loads it from a JSON pipeline file. Every key can be overridden from the
// environment with the FLIGHTETL_ prefix, dots replaced by underscores (for
// example FLIGHTETL_STORAGE_DB_DSN). The AirLabs key is read from
// AIRLABS_API_KEY so it never needs to live in the file.
//
// Example (trimmed):
//
//	{
//	  "job":     "ryanair_landed",
//	  "source":  { "kind": "airlabs", "airlabs": { "airline_iata": "FR" } },
//	  "storage": { "kind": "postgres", "db": { "dsn": "...", "table": "public.schedule", "auto_create_table": true } },
//	  "metrics": { "backend": "prometheus", "pushgateway_url": "http://localhost:9091" }
//	}
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "FLIGHTETL"

// APIKeyEnv holds the AirLabs credential.
const APIKeyEnv = "AIRLABS_API_KEY"

// Pipeline is the top-level configuration for one ETL job.
type Pipeline struct {
	// Job names the run in logs, metrics and notifications.
	Job string `json:"job" mapstructure:"job"`

	Source   Source   `json:"source" mapstructure:"source"`
	Airports Airports `json:"airports" mapstructure:"airports"`
	Storage  Storage  `json:"storage" mapstructure:"storage"`
	Metrics  Metrics  `json:"metrics" mapstructure:"metrics"`
	Notify   Notify   `json:"notify" mapstructure:"notify"`
	Schedule Schedule `json:"schedule" mapstructure:"schedule"`
}

// Source identifies where schedules come from: "airlabs" for the live API or
// "file" to replay a captured response.
type Source struct {
	Kind    string     `json:"kind" mapstructure:"kind"`
	AirLabs AirLabs    `json:"airlabs" mapstructure:"airlabs"`
	File    SourceFile `json:"file" mapstructure:"file"`
}

// SourceFile holds configuration for the "file" source kind.
type SourceFile struct {
	// Path is a saved /schedules response body.
	Path string `json:"path" mapstructure:"path"`
}

// AirLabs configures the schedules endpoint.
type AirLabs struct {
	BaseURL     string   `json:"base_url" mapstructure:"base_url"`
	AirlineIATA string   `json:"airline_iata" mapstructure:"airline_iata"`
	Fields      []string `json:"fields" mapstructure:"fields"`

	// APIKey is normally supplied through AIRLABS_API_KEY.
	APIKey string `json:"-" mapstructure:"api_key"`

	Timeout     time.Duration `json:"timeout" mapstructure:"timeout"`
	MaxRetries  int           `json:"max_retries" mapstructure:"max_retries"`
	MinInterval time.Duration `json:"min_interval" mapstructure:"min_interval"`

	// InsecureSkipVerify disables TLS verification, e.g. behind an
	// intercepting proxy.
	InsecureSkipVerify bool `json:"insecure_skip_verify" mapstructure:"insecure_skip_verify"`
}

// Airports points at the IATA reference CSV. An empty path selects the
// bundled dataset.
type Airports struct {
	Path string `json:"path" mapstructure:"path"`
}

// Storage selects the sink used to persist landed flights.
type Storage struct {
	// Kind selects the backend: postgres, mysql, mssql, sqlite or clickhouse.
	Kind string   `json:"kind" mapstructure:"kind"`
	DB   DBConfig `json:"db" mapstructure:"db"`
}

// DBConfig configures the destination database.
type DBConfig struct {
	DSN string `json:"dsn" mapstructure:"dsn"`

	// Table is the possibly schema-qualified destination table. Empty selects
	// the backend default.
	Table string `json:"table" mapstructure:"table"`

	// AutoCreateTable runs the idempotent CREATE TABLE before each load.
	AutoCreateTable bool `json:"auto_create_table" mapstructure:"auto_create_table"`
}

// Metrics selects the metrics backend.
type Metrics struct {
	// Backend is "none", "prometheus" or "datadog".
	Backend        string `json:"backend" mapstructure:"backend"`
	PushgatewayURL string `json:"pushgateway_url" mapstructure:"pushgateway_url"`
	DatadogAddr    string `json:"datadog_addr" mapstructure:"datadog_addr"`
}

// Notify configures run-outcome events. An empty NATSURL disables them.
type Notify struct {
	NATSURL string `json:"nats_url" mapstructure:"nats_url"`
	Subject string `json:"subject" mapstructure:"subject"`
}

// Schedule controls the optional fixed-cadence loop. Zero runs once.
type Schedule struct {
	Every time.Duration `json:"every" mapstructure:"every"`
}

// Defaults returns the configuration used when a key is absent.
func Defaults() Pipeline {
	return Pipeline{
		Job: "ryanair_landed",
		Source: Source{
			Kind: "airlabs",
			AirLabs: AirLabs{
				BaseURL:     "https://airlabs.co/api/v9",
				AirlineIATA: "FR",
				Timeout:     30 * time.Second,
			},
		},
		Storage: Storage{
			Kind: "postgres",
			DB:   DBConfig{AutoCreateTable: true},
		},
		Metrics: Metrics{
			Backend:     "none",
			DatadogAddr: "127.0.0.1:8125",
		},
		Notify: Notify{Subject: "flightetl.runs"},
	}
}

// Load reads the pipeline file at path (if non-empty), applies defaults and
// environment overrides and returns the decoded Pipeline. It does not
// validate; call ValidatePipeline for that.
func Load(path string) (Pipeline, error) {
	v := newViper()
	if strings.TrimSpace(path) != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Pipeline{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}
	var p Pipeline
	if err := v.Unmarshal(&p); err != nil {
		return Pipeline{}, fmt.Errorf("config: decode: %w", err)
	}
	return p, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	d := Defaults()
	v.SetDefault("job", d.Job)
	v.SetDefault("source.kind", d.Source.Kind)
	v.SetDefault("source.airlabs.base_url", d.Source.AirLabs.BaseURL)
	v.SetDefault("source.airlabs.airline_iata", d.Source.AirLabs.AirlineIATA)
	v.SetDefault("source.airlabs.fields", []string{})
	v.SetDefault("source.airlabs.api_key", "")
	v.SetDefault("source.airlabs.timeout", d.Source.AirLabs.Timeout)
	v.SetDefault("source.airlabs.max_retries", 0)
	v.SetDefault("source.airlabs.min_interval", time.Duration(0))
	v.SetDefault("source.airlabs.insecure_skip_verify", false)
	v.SetDefault("source.file.path", "")
	v.SetDefault("airports.path", "")
	v.SetDefault("storage.kind", d.Storage.Kind)
	v.SetDefault("storage.db.dsn", "")
	v.SetDefault("storage.db.table", "")
	v.SetDefault("storage.db.auto_create_table", d.Storage.DB.AutoCreateTable)
	v.SetDefault("metrics.backend", d.Metrics.Backend)
	v.SetDefault("metrics.pushgateway_url", "")
	v.SetDefault("metrics.datadog_addr", d.Metrics.DatadogAddr)
	v.SetDefault("notify.nats_url", "")
	v.SetDefault("notify.subject", d.Notify.Subject)
	v.SetDefault("schedule.every", time.Duration(0))

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// BindEnv only errors when called without a key.
	_ = v.BindEnv("source.airlabs.api_key", APIKeyEnv, EnvPrefix+"_SOURCE_AIRLABS_API_KEY")
	return v
}
