package entities

import "time"

// TestStatus represents the outcome of a test
type TestStatus string

const (
	TestStatusPending TestStatus = "pending"
	TestStatusRunning TestStatus = "running"
	TestStatusPassed  TestStatus = "passed"
	TestStatusFailed  TestStatus = "failed"
)

// TestResult is the binary outcome of one test, across all of its attempts
type TestResult struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Status      TestStatus      `json:"status"`
	Attempts    int             `json:"attempts"`
	Duration    time.Duration   `json:"duration"`
	Error       string          `json:"error,omitempty"`
	Screenshots []string        `json:"screenshots,omitempty"`
	Ignored     []PageException `json:"ignoredExceptions,omitempty"`
}
