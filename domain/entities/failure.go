package entities

import (
	"fmt"
	"strings"
	"time"
)

// AssertionError is reported when a predicate never became true before its timeout.
// Err carries the underlying timeout for errors.Is / errors.As and is not part of
// the message.
type AssertionError struct {
	Selector  string
	Condition string
	Observed  string
	Timeout   time.Duration
	Err       error
}

func (e *AssertionError) Error() string {
	var b strings.Builder
	if e.Timeout > 0 {
		fmt.Fprintf(&b, "timed out after %s: ", e.Timeout)
	}
	if e.Selector != "" {
		fmt.Fprintf(&b, "expected %s to %s", e.Selector, e.Condition)
	} else {
		fmt.Fprintf(&b, "expected %s", e.Condition)
	}
	if e.Observed != "" {
		fmt.Fprintf(&b, ", but %s", e.Observed)
	}
	return b.String()
}

func (e *AssertionError) Unwrap() error { return e.Err }
