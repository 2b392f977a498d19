// Package notify publishes one event per pipeline run so downstream consumers
// (dashboards, alerting, follow-up jobs) learn about new landed flights
// without polling the destination table.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// Run statuses.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Event describes the outcome of one run.
type Event struct {
	RunID      string    `json:"run_id"`
	Job        string    `json:"job"`
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
	Fetched    int       `json:"fetched"`
	Rejected   int       `json:"rejected"`
	Loadable   int       `json:"loadable"`
	Duplicates int       `json:"duplicates"`
	Inserted   int64     `json:"inserted"`
	StartedAt  time.Time `json:"started_at"`
	DurationMS int64     `json:"duration_ms"`
}

// Notifier delivers run events.
type Notifier interface {
	Notify(ctx context.Context, ev Event) error
	Close()
}

// Nop discards every event.
type Nop struct{}

func (Nop) Notify(context.Context, Event) error { return nil }
func (Nop) Close()                              {}

// conn is the subset of *nats.Conn used by NATS.
type conn interface {
	Publish(subj string, data []byte) error
	FlushWithContext(ctx context.Context) error
	Close()
}

// NATS publishes events as JSON on a core NATS subject.
type NATS struct {
	nc      conn
	subject string
}

// Dial connects to url and returns a publisher for subject.
func Dial(url, subject string, opts ...nats.Option) (*NATS, error) {
	if subject == "" {
		return nil, fmt.Errorf("notify: subject must not be empty")
	}
	base := []nats.Option{
		nats.Name("flightetl"),
		nats.Timeout(5 * time.Second),
	}
	nc, err := nats.Connect(url, append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("notify: connect %s: %w", url, err)
	}
	return &NATS{nc: nc, subject: subject}, nil
}

// Notify publishes ev and waits for the server to acknowledge the flush.
func (n *NATS) Notify(ctx context.Context, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("notify: encode: %w", err)
	}
	if err := n.nc.Publish(n.subject, data); err != nil {
		return fmt.Errorf("notify: publish %s: %w", n.subject, err)
	}
	if err := n.nc.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("notify: flush: %w", err)
	}
	return nil
}

// Close drops the connection.
func (n *NATS) Close() { n.nc.Close() }
