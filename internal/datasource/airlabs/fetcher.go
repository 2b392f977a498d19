// Package airlabs fetches flight schedules from the AirLabs schedules API.
//
// One Fetch is one HTTP GET for a single carrier with a fixed field
// projection. The nested "response" array is unwrapped into a flat slice of
// records.Schedule. Retries are off by default; a failed run is picked up by
// the next scheduled trigger.
package airlabs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"flightetl/internal/datasource/httpds"
	"flightetl/pkg/records"
)

const (
	DefaultBaseURL = "https://airlabs.co/api/v9"
	DefaultAirline = "FR"

	// maxBody caps how much of a response is read.
	maxBody = 64 << 20
)

// DefaultFields is the projection requested from the schedules endpoint.
var DefaultFields = []string{
	"flight_iata",
	"dep_iata",
	"dep_time_utc",
	"dep_estimated_utc",
	"dep_actual_utc",
	"arr_iata",
	"arr_time_utc",
	"arr_estimated_utc",
	"status",
	"duration",
	"delayed",
	"dep_delayed",
	"arr_delayed",
}

// Config configures a Fetcher. Zero values take the defaults above.
type Config struct {
	BaseURL     string
	AirlineIATA string
	Fields      []string
	Timeout     time.Duration
	// MaxRetries applies to transport errors, 429 and 5xx only.
	MaxRetries  int
	MinInterval time.Duration
	// InsecureSkipVerify is ignored when Transport is set.
	InsecureSkipVerify bool
	Transport          http.RoundTripper
}

// Fetcher calls the schedules endpoint.
type Fetcher struct {
	client   *httpds.Client
	endpoint string
	airline  string
	fields   string
}

// NewFetcher builds a Fetcher from cfg.
func NewFetcher(cfg Config) (*Fetcher, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("airlabs: invalid base url %q", cfg.BaseURL)
	}
	airline := strings.ToUpper(strings.TrimSpace(cfg.AirlineIATA))
	if airline == "" {
		airline = DefaultAirline
	}
	fields := cfg.Fields
	if len(fields) == 0 {
		fields = DefaultFields
	}

	hdr := http.Header{}
	hdr.Set("Accept", "application/json")

	return &Fetcher{
		client: httpds.NewClient(httpds.Config{
			Timeout:            cfg.Timeout,
			MaxRetries:         cfg.MaxRetries,
			MinInterval:        cfg.MinInterval,
			InsecureSkipVerify: cfg.InsecureSkipVerify,
			BaseHeaders:        hdr,
			Transport:          cfg.Transport,
		}),
		endpoint: base + "/schedules",
		airline:  airline,
		fields:   strings.Join(fields, ","),
	}, nil
}

// Fetch retrieves the current schedules for the configured carrier.
func (f *Fetcher) Fetch(ctx context.Context, apiKey string) ([]records.Schedule, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, &ExtractionError{Op: "credentials", Err: ErrNoAPIKey}
	}

	q := url.Values{}
	q.Set("api_key", apiKey)
	q.Set("airline_iata", f.airline)
	q.Set("_fields", f.fields)

	resp, err := f.client.Get(ctx, f.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, &ExtractionError{Op: "request", Err: redact(err, apiKey)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, &ExtractionError{Op: "read body", Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ExtractionError{Op: "status", Err: fmt.Errorf("HTTP %d: %s", resp.StatusCode, snippet(body))}
	}
	return Decode(body)
}

// Decode unwraps a /schedules body of the form {"response": [...]}. An
// upstream {"error": {...}} object is reported as such even when the HTTP
// status was 200. All failures are *ExtractionError.
func Decode(body []byte) ([]records.Schedule, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &ExtractionError{Op: "decode", Err: fmt.Errorf("%w: %v", ErrShape, err)}
	}
	if raw, ok := envelope["error"]; ok && !isNull(raw) {
		var ue upstreamError
		if err := json.Unmarshal(raw, &ue); err != nil || ue.Message == "" {
			ue.Message = snippet(raw)
		}
		return nil, &ExtractionError{Op: "upstream", Err: ue}
	}
	raw, ok := envelope["response"]
	if !ok {
		return nil, &ExtractionError{Op: "decode", Err: fmt.Errorf("%w: missing %q key", ErrShape, "response")}
	}
	if trimmed := strings.TrimSpace(string(raw)); !strings.HasPrefix(trimmed, "[") {
		return nil, &ExtractionError{Op: "decode", Err: fmt.Errorf("%w: %q is not an array", ErrShape, "response")}
	}
	var out []records.Schedule
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, &ExtractionError{Op: "decode", Err: fmt.Errorf("%w: %v", ErrShape, err)}
	}
	if out == nil {
		out = []records.Schedule{}
	}
	return out, nil
}

type upstreamError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

func (e upstreamError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%s)", e.Message, e.Code)
	}
	return e.Message
}

func isNull(raw json.RawMessage) bool {
	return strings.TrimSpace(string(raw)) == "null"
}

func snippet(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > 256 {
		s = s[:256] + "..."
	}
	return s
}

// redact strips the credential from transport errors, which embed the URL.
func redact(err error, apiKey string) error {
	msg := err.Error()
	if !strings.Contains(msg, apiKey) {
		return err
	}
	return &redactedError{msg: strings.ReplaceAll(msg, apiKey, "REDACTED"), err: err}
}

type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.err }
