// Package apicheck validates API responses: status, body presence, a minimal
// field/type schema and dotted-path lookups.
package apicheck

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"shopqa/domain/entities"

	json "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

var (
	ErrNilResponse      = errors.New("no response")
	ErrUnexpectedStatus = errors.New("unexpected status")
	ErrEmptyBody        = errors.New("response body is empty")
	ErrMissingField     = errors.New("missing field")
	ErrTypeMismatch     = errors.New("type mismatch")
	ErrValueMismatch    = errors.New("value mismatch")
)

// JSON type names reported by TypeOf
const (
	TypeNumber  = "number"
	TypeString  = "string"
	TypeBoolean = "boolean"
	TypeObject  = "object"
	TypeArray   = "array"
	TypeNull    = "null"
)

// Field declares one expected body field; an empty Type only checks presence
type Field struct {
	Type string `json:"type,omitempty" mapstructure:"type"`
}

// Schema maps top-level body field names to their declarations
type Schema map[string]Field

// ValidateResponse fails unless the status is expected and the body is not empty.
// The response is returned unchanged for chaining.
func ValidateResponse(resp *entities.Response, expectedStatus int) (*entities.Response, error) {
	if resp == nil {
		return nil, ErrNilResponse
	}
	if resp.Status != expectedStatus {
		return resp, fmt.Errorf("%w: got %d, want %d", ErrUnexpectedStatus, resp.Status, expectedStatus)
	}
	if isEmpty(resp.Body) {
		return resp, fmt.Errorf("%s %s: %w", resp.Method, resp.URL, ErrEmptyBody)
	}
	return resp, nil
}

// ValidateResponseSchema checks every declared field is present on the body and,
// when a type is declared, that its JSON type matches exactly. A declared
// "object" also accepts arrays and null, as JavaScript's typeof does; declare
// "array" or "null" to require those precisely. All violations are reported
// together.
func ValidateResponseSchema(resp *entities.Response, schema Schema) (*entities.Response, error) {
	if resp == nil {
		return nil, ErrNilResponse
	}
	body := resp.BodyMap()
	var errs error
	for _, name := range sortedKeys(schema) {
		field := schema[name]
		v, ok := body[name]
		if !ok {
			errs = multierr.Append(errs, fmt.Errorf("%w: %q", ErrMissingField, name))
			continue
		}
		if field.Type == "" {
			continue
		}
		if got := TypeOf(v); !typeMatches(got, field.Type) {
			errs = multierr.Append(errs, fmt.Errorf("%w: %q is %s, want %s", ErrTypeMismatch, name, got, field.Type))
		}
	}
	return resp, errs
}

// ExtractFromResponse resolves a dotted path against the body. Numeric
// segments index arrays. A missing segment yields (nil, false).
func ExtractFromResponse(resp *entities.Response, path string) (any, bool) {
	if resp == nil {
		return nil, false
	}
	return Extract(resp.Body, path)
}

// Extract resolves a dotted path against a decoded JSON document
func Extract(doc any, path string) (any, bool) {
	cur := doc
	if path == "" {
		return cur, cur != nil
	}
	for _, seg := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]any:
			next, ok := node[seg]
			if !ok {
				return nil, false
			}
			cur = next
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(node) {
				return nil, false
			}
			cur = node[i]
		default:
			return nil, false
		}
	}
	return cur, true
}

// PropertyEquals fails unless the value at path equals want. Numbers compare
// by value regardless of their Go type.
func PropertyEquals(resp *entities.Response, path string, want any) error {
	got, ok := ExtractFromResponse(resp, path)
	if !ok {
		return fmt.Errorf("%w: %q", ErrMissingField, path)
	}
	if !equal(got, want) {
		return fmt.Errorf("%w: %s is %v, want %v", ErrValueMismatch, path, got, want)
	}
	return nil
}

// CreateAuthHeaders returns the headers for a bearer-token call
func CreateAuthHeaders(token string) map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + token,
		"Content-Type":  "application/json",
	}
}

// LogResponse writes the status and pretty-printed body at info level
func LogResponse(log *logrus.Entry, resp *entities.Response) *entities.Response {
	if resp == nil {
		log.Warn("no response")
		return nil
	}
	body, err := json.MarshalIndent(resp.Body, "", "  ")
	if err != nil {
		body = resp.Raw
	}
	log.WithFields(logrus.Fields{
		"method":   resp.Method,
		"url":      resp.URL,
		"status":   resp.Status,
		"duration": resp.Duration,
	}).Infof("response body: %s", body)
	return resp
}

func typeMatches(got, want string) bool {
	if want == TypeObject {
		return got == TypeObject || got == TypeArray || got == TypeNull
	}
	return got == want
}

// TypeOf names the JSON type of a decoded value
func TypeOf(v any) string {
	switch v.(type) {
	case nil:
		return TypeNull
	case string:
		return TypeString
	case bool:
		return TypeBoolean
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, json.Number:
		return TypeNumber
	case map[string]any:
		return TypeObject
	case []any:
		return TypeArray
	}
	return fmt.Sprintf("%T", v)
}
