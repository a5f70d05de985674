package entities

import "time"

// PageException is an uncaught runtime error raised by the page under test
type PageException struct {
	Message string    `json:"message"`
	URL     string    `json:"url,omitempty"`
	At      time.Time `json:"at"`
}

// Verdict tells the harness what to do with a page exception
type Verdict string

const (
	VerdictIgnore Verdict = "ignore"
	VerdictFail   Verdict = "fail"
)
