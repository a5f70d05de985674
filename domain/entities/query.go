package entities

import (
	"fmt"
	"strings"
)

// StepKind represents one refinement applied while resolving a query
type StepKind string

const (
	StepCSS     StepKind = "css"
	StepNth     StepKind = "nth"
	StepLast    StepKind = "last"
	StepHasText StepKind = "has_text"
	StepFrame   StepKind = "frame"
)

// Step is a single refinement of a query
type Step struct {
	Kind  StepKind `json:"kind"`
	Value string   `json:"value,omitempty"`
	Index int      `json:"index,omitempty"`
}

// Query is an ordered chain of steps resolved against the live page on every use.
// It never holds element handles.
type Query struct {
	Steps []Step `json:"steps"`
}

// CSS starts a query from a CSS selector
func CSS(selector string) Query {
	return Query{Steps: []Step{{Kind: StepCSS, Value: selector}}}
}

// With returns a copy of q extended by step. The receiver is never mutated,
// so queries can be shared between locators.
func (q Query) With(step Step) Query {
	steps := make([]Step, len(q.Steps), len(q.Steps)+1)
	copy(steps, q.Steps)
	return Query{Steps: append(steps, step)}
}

// String renders the query compactly for failure messages
func (q Query) String() string {
	var b strings.Builder
	for i, s := range q.Steps {
		switch s.Kind {
		case StepCSS:
			if i > 0 {
				b.WriteString(" ")
			}
			b.WriteString(s.Value)
		case StepNth:
			fmt.Fprintf(&b, ".eq(%d)", s.Index)
		case StepLast:
			b.WriteString(".last()")
		case StepHasText:
			fmt.Fprintf(&b, ".contains(%q)", s.Value)
		case StepFrame:
			if i > 0 {
				b.WriteString(" ")
			}
			fmt.Fprintf(&b, "%s >>> ", s.Value)
		}
	}
	return strings.TrimSpace(b.String())
}

// NthIndex maps an nth step's index onto a set of n matches. Negative indexes
// count back from the end, so -1 is the last match.
func NthIndex(index, n int) (int, bool) {
	if index < 0 {
		index += n
	}
	if index < 0 || index >= n {
		return 0, false
	}
	return index, true
}

// HasText reports whether an element's text satisfies a has-text step.
// Matching is a case-sensitive substring test.
func HasText(text, want string) bool {
	return strings.Contains(text, want)
}
