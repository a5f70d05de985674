package entities

import (
	"net/http"
	"time"
)

// Response is the HTTP response envelope consumed by API tests.
// Body holds the decoded JSON document, or the raw text when the payload
// is not JSON.
type Response struct {
	Method   string        `json:"method"`
	URL      string        `json:"url"`
	Status   int           `json:"status"`
	Headers  http.Header   `json:"headers,omitempty"`
	Body     any           `json:"body"`
	Raw      []byte        `json:"-"`
	Duration time.Duration `json:"duration"`
}

// BodyMap returns the body as a JSON object, or nil when it is not one
func (r *Response) BodyMap() map[string]any {
	if r == nil {
		return nil
	}
	m, _ := r.Body.(map[string]any)
	return m
}

// ResponseCode returns the application-level outcome carried in body.responseCode
func (r *Response) ResponseCode() (int, bool) {
	v, ok := r.BodyMap()["responseCode"]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	}
	return 0, false
}

// Message returns body.message, if present
func (r *Response) Message() string {
	s, _ := r.BodyMap()["message"].(string)
	return s
}

// Request describes one call against the API surface
type Request struct {
	Method  string            `json:"method"`
	Path    string            `json:"path"`
	Body    any               `json:"body,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
}
