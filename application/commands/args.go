package commands

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrBadArgs is returned when a command receives arguments of the wrong shape
var ErrBadArgs = errors.New("bad arguments")

// Args are the positional arguments of a command call
type Args []any

func (a Args) at(i int) (any, bool) {
	if i < 0 || i >= len(a) || a[i] == nil {
		return nil, false
	}
	return a[i], true
}

// Any returns argument i, or nil when it was not passed
func (a Args) Any(i int) any {
	v, _ := a.at(i)
	return v
}

func (a Args) String(i int) (string, error) {
	v, ok := a.at(i)
	if !ok {
		return "", fmt.Errorf("%w: argument %d is required", ErrBadArgs, i)
	}
	switch s := v.(type) {
	case string:
		return s, nil
	case fmt.Stringer:
		return s.String(), nil
	}
	return "", fmt.Errorf("%w: argument %d is %T, want string", ErrBadArgs, i, v)
}

func (a Args) StringOr(i int, def string) (string, error) {
	if _, ok := a.at(i); !ok {
		return def, nil
	}
	return a.String(i)
}

// Int accepts Go integers, JSON numbers and numeric strings
func (a Args) Int(i int) (int, error) {
	v, ok := a.at(i)
	if !ok {
		return 0, fmt.Errorf("%w: argument %d is required", ErrBadArgs, i)
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n == float64(int(n)) {
			return int(n), nil
		}
	case string:
		if parsed, err := strconv.Atoi(n); err == nil {
			return parsed, nil
		}
	}
	return 0, fmt.Errorf("%w: argument %d (%v) is not an integer", ErrBadArgs, i, v)
}

func (a Args) IntOr(i int, def int) (int, error) {
	if _, ok := a.at(i); !ok {
		return def, nil
	}
	return a.Int(i)
}

// DurationOr accepts a time.Duration, a duration string or milliseconds
func (a Args) DurationOr(i int, def time.Duration) (time.Duration, error) {
	v, ok := a.at(i)
	if !ok {
		return def, nil
	}
	switch d := v.(type) {
	case time.Duration:
		return d, nil
	case string:
		parsed, err := time.ParseDuration(d)
		if err != nil {
			return 0, fmt.Errorf("%w: argument %d: %v", ErrBadArgs, i, err)
		}
		return parsed, nil
	}
	ms, err := a.Int(i)
	return time.Duration(ms) * time.Millisecond, err
}

// Headers accepts map[string]string or a decoded JSON object with string values
func (a Args) Headers(i int) (map[string]string, error) {
	v, ok := a.at(i)
	if !ok {
		return nil, nil
	}
	switch h := v.(type) {
	case map[string]string:
		return h, nil
	case map[string]any:
		out := make(map[string]string, len(h))
		for k, val := range h {
			s, ok := val.(string)
			if !ok {
				return nil, fmt.Errorf("%w: header %q is %T, want string", ErrBadArgs, k, val)
			}
			out[k] = s
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: argument %d is %T, want headers", ErrBadArgs, i, v)
}
