package airlabs

import (
	"errors"
	"fmt"
)

var (
	// ErrNoAPIKey is returned when Fetch is called without a credential.
	ErrNoAPIKey = errors.New("api key is empty")
	// ErrShape marks a response body that is not the expected JSON envelope.
	ErrShape = errors.New("unexpected response shape")
)

// ExtractionError is a fetch-time failure. It aborts the run: nothing
// downstream proceeds without source data.
type ExtractionError struct {
	Op  string
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract: %s: %v", e.Op, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }
