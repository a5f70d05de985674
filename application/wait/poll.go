// Package wait provides the retry-until-timeout combinator every action,
// assertion and HTTP call is built on.
package wait

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	DefaultInterval = 100 * time.Millisecond
	DefaultTimeout  = 10 * time.Second
)

// ErrTimeout is matched by errors.Is on every timeout returned by Poll
var ErrTimeout = errors.New("timed out")

var errNotYet = errors.New("condition not met")

// Options bounds a poll loop
type Options struct {
	Interval time.Duration
	Timeout  time.Duration
}

func (o Options) withDefaults() Options {
	if o.Interval <= 0 {
		o.Interval = DefaultInterval
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return o
}

// TimeoutError is returned when the predicate was still failing at the deadline
type TimeoutError struct {
	Timeout  time.Duration
	Attempts int
	Last     error
}

func (e *TimeoutError) Error() string {
	if e.Last == nil || errors.Is(e.Last, errNotYet) {
		return fmt.Sprintf("timed out after %s (%d attempts)", e.Timeout, e.Attempts)
	}
	return fmt.Sprintf("timed out after %s (%d attempts): %v", e.Timeout, e.Attempts, e.Last)
}

func (e *TimeoutError) Unwrap() []error {
	if e.Last == nil {
		return []error{ErrTimeout}
	}
	return []error{ErrTimeout, e.Last}
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying; Poll returns it unwrapped right away
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Poll calls fn until it succeeds, returns a Permanent error, or opts.Timeout
// elapses. Each attempt receives a context carrying the overall deadline so a
// single blocking attempt can never outlive the poll.
func Poll[T any](ctx context.Context, opts Options, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	opts = opts.withDefaults()

	deadline := time.Now().Add(opts.Timeout)
	attemptCtx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	timer := time.NewTimer(opts.Interval)
	timer.Stop()
	defer timer.Stop()

	var last error
	for attempts := 1; ; attempts++ {
		v, err := fn(attemptCtx)
		if err == nil {
			return v, nil
		}
		var perm *permanentError
		if errors.As(err, &perm) {
			return zero, perm.err
		}
		last = err

		if ctx.Err() != nil {
			return zero, fmt.Errorf("poll aborted: %w (last error: %v)", ctx.Err(), last)
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return zero, &TimeoutError{Timeout: opts.Timeout, Attempts: attempts, Last: last}
		}

		timer.Reset(min(opts.Interval, remaining))
		select {
		case <-ctx.Done():
			return zero, fmt.Errorf("poll aborted: %w (last error: %v)", ctx.Err(), last)
		case <-timer.C:
		}
	}
}

// Until polls a boolean predicate. A false result with a nil error is retried.
func Until(ctx context.Context, opts Options, pred func(ctx context.Context) (bool, error)) error {
	_, err := Poll(ctx, opts, func(ctx context.Context) (struct{}, error) {
		ok, err := pred(ctx)
		if err != nil {
			return struct{}{}, err
		}
		if !ok {
			return struct{}{}, errNotYet
		}
		return struct{}{}, nil
	})
	return err
}

// IsTimeout reports whether err came from an expired poll
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}
