package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a configuration warning that should be surfaced
	// to users but may not necessarily block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation/lint finding for a Pipeline.
//
// Path is a dotted path into the config (e.g. "storage.kind",
// "source.airlabs.fields"). Message is human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// ErrInvalid is returned by Check when validation finds errors.
var ErrInvalid = errors.New("invalid pipeline config")

// requiredFields are the upstream fields the normalizer cannot do without.
var requiredFields = []string{"flight_iata", "status", "dep_time_utc", "arr_time_utc"}

// ValidatePipeline performs static validation of a Pipeline. It does not
// mutate the pipeline; callers decide whether warnings are fatal.
func ValidatePipeline(p Pipeline) []Issue {
	var issues []Issue

	if strings.TrimSpace(p.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "job",
			Message:  "job must not be empty; it is used for metrics labeling and identifying runs",
		})
	}
	issues = append(issues, validateSource(p.Source)...)
	issues = append(issues, validateStorage(p.Storage)...)
	issues = append(issues, validateMetrics(p.Metrics)...)
	issues = append(issues, validateNotify(p.Notify)...)
	issues = append(issues, validateSchedule(p.Schedule)...)
	return issues
}

// Check runs ValidatePipeline and folds every error-severity issue into one
// error wrapping ErrInvalid. Warnings are returned separately.
func Check(p Pipeline) (warnings []Issue, err error) {
	var errs []error
	for _, iss := range ValidatePipeline(p) {
		if iss.Severity == SeverityError {
			errs = append(errs, iss)
		} else {
			warnings = append(warnings, iss)
		}
	}
	if len(errs) > 0 {
		return warnings, fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return warnings, nil
}

func validateSource(s Source) []Issue {
	var issues []Issue

	if strings.TrimSpace(s.Kind) == "" {
		return append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.kind",
			Message:  "source.kind must not be empty",
		})
	}
	switch s.Kind {
	case "airlabs":
	case "file":
		if strings.TrimSpace(s.File.Path) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "source.file.path",
				Message:  "file source requires a non-empty path",
			})
		}
		return issues
	default:
		return append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.kind",
			Message:  fmt.Sprintf("unsupported source kind %q (want airlabs or file)", s.Kind),
		})
	}

	a := s.AirLabs
	if strings.TrimSpace(a.APIKey) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.airlabs.api_key",
			Message:  fmt.Sprintf("API key is missing; set %s", APIKeyEnv),
		})
	}
	if u, err := url.Parse(a.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.airlabs.base_url",
			Message:  fmt.Sprintf("base_url %q must be an absolute http(s) URL", a.BaseURL),
		})
	} else if u.Scheme == "http" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "source.airlabs.base_url",
			Message:  "plain http sends the API key in clear text",
		})
	}
	if n := len(strings.TrimSpace(a.AirlineIATA)); n != 2 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.airlabs.airline_iata",
			Message:  fmt.Sprintf("airline_iata %q must be a two-character IATA code", a.AirlineIATA),
		})
	}
	if len(a.Fields) > 0 {
		have := make(map[string]struct{}, len(a.Fields))
		for _, f := range a.Fields {
			have[strings.TrimSpace(f)] = struct{}{}
		}
		for _, f := range requiredFields {
			if _, ok := have[f]; !ok {
				issues = append(issues, Issue{
					Severity: SeverityError,
					Path:     "source.airlabs.fields",
					Message:  fmt.Sprintf("fields must include %q", f),
				})
			}
		}
	}
	if a.InsecureSkipVerify {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "source.airlabs.insecure_skip_verify",
			Message:  "TLS certificate verification is disabled; the API key can be intercepted",
		})
	}
	if a.Timeout < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.airlabs.timeout",
			Message:  "timeout must be >= 0",
		})
	}
	if a.MaxRetries < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.airlabs.max_retries",
			Message:  "max_retries must be >= 0",
		})
	}
	if a.MinInterval < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.airlabs.min_interval",
			Message:  "min_interval must be >= 0",
		})
	}
	return issues
}

func validateStorage(s Storage) []Issue {
	var issues []Issue

	if strings.TrimSpace(s.Kind) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.kind",
			Message:  "storage.kind must not be empty",
		})
		return issues
	}

	known := map[string]struct{}{
		"postgres":   {},
		"mysql":      {},
		"mssql":      {},
		"sqlite":     {},
		"clickhouse": {},
	}
	if _, ok := known[strings.ToLower(s.Kind)]; !ok {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "storage.kind",
			Message:  fmt.Sprintf("unknown storage kind %q; ensure a matching backend is registered", s.Kind),
		})
	}
	if strings.TrimSpace(s.DB.DSN) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.db.dsn",
			Message:  "storage.db.dsn must not be empty",
		})
	}
	if !s.DB.AutoCreateTable {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "storage.db.auto_create_table",
			Message:  "auto_create_table is off; the destination table must already exist",
		})
	}
	return issues
}

func validateMetrics(m Metrics) []Issue {
	var issues []Issue

	switch strings.ToLower(strings.TrimSpace(m.Backend)) {
	case "", "none":
	case "prometheus":
		if strings.TrimSpace(m.PushgatewayURL) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "metrics.pushgateway_url",
				Message:  "prometheus backend requires pushgateway_url",
			})
		}
	case "datadog":
		if strings.TrimSpace(m.DatadogAddr) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "metrics.datadog_addr",
				Message:  "datadog backend requires datadog_addr",
			})
		}
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "metrics.backend",
			Message:  fmt.Sprintf("unknown metrics backend %q (want none, prometheus or datadog)", m.Backend),
		})
	}
	return issues
}

func validateNotify(n Notify) []Issue {
	if strings.TrimSpace(n.NATSURL) == "" {
		return nil
	}
	if strings.TrimSpace(n.Subject) == "" {
		return []Issue{{
			Severity: SeverityError,
			Path:     "notify.subject",
			Message:  "notify.subject must not be empty when nats_url is set",
		}}
	}
	return nil
}

func validateSchedule(s Schedule) []Issue {
	switch {
	case s.Every < 0:
		return []Issue{{
			Severity: SeverityError,
			Path:     "schedule.every",
			Message:  "schedule.every must be >= 0",
		}}
	case s.Every > 0 && s.Every < time.Minute:
		return []Issue{{
			Severity: SeverityWarning,
			Path:     "schedule.every",
			Message:  fmt.Sprintf("schedule.every=%s is below one minute and will burn API quota", s.Every),
		}}
	}
	return nil
}
