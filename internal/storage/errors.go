package storage

import "fmt"

// LoadError is a schema or write failure at the sink. A failed write has been
// rolled back in full.
type LoadError struct {
	Op   string
	Rows int // size of the batch that was attempted, 0 for schema errors
	Err  error
}

func (e *LoadError) Error() string {
	if e.Rows > 0 {
		return fmt.Sprintf("load: %s (%d rows): %v", e.Op, e.Rows, e.Err)
	}
	return fmt.Sprintf("load: %s: %v", e.Op, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
