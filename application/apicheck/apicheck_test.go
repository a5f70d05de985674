package apicheck_test

import (
	"bytes"
	"testing"

	"shopqa/application/apicheck"
	"shopqa/domain/entities"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func response(status int, body any) *entities.Response {
	return &entities.Response{Method: "POST", URL: "https://shop.test/api/verifyLogin", Status: status, Body: body}
}

func TestValidateResponse(t *testing.T) {
	ok := response(200, map[string]any{"responseCode": 200.0, "message": "ok"})

	tests := []struct {
		name    string
		resp    *entities.Response
		status  int
		wantErr error
	}{
		{"matching status and body", ok, 200, nil},
		{"status mismatch", ok, 201, apicheck.ErrUnexpectedStatus},
		{"empty object", response(200, map[string]any{}), 200, apicheck.ErrEmptyBody},
		{"nil body", response(200, nil), 200, apicheck.ErrEmptyBody},
		{"empty text", response(200, ""), 200, apicheck.ErrEmptyBody},
		{"text body", response(200, "<html>"), 200, nil},
		{"nil response", nil, 200, apicheck.ErrNilResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := apicheck.ValidateResponse(tt.resp, tt.status)
			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.Same(t, tt.resp, got)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateResponseSchema(t *testing.T) {
	resp := response(200, map[string]any{
		"responseCode": "200",
		"message":      "User exists!",
		"products":     []any{},
	})

	_, err := apicheck.ValidateResponseSchema(resp, apicheck.Schema{"responseCode": {Type: apicheck.TypeNumber}})
	assert.ErrorIs(t, err, apicheck.ErrTypeMismatch)
	assert.Contains(t, err.Error(), `"responseCode" is string, want number`)

	_, err = apicheck.ValidateResponseSchema(resp, apicheck.Schema{
		"message":  {Type: apicheck.TypeString},
		"products": {Type: apicheck.TypeArray},
		"user":     {},
	})
	assert.ErrorIs(t, err, apicheck.ErrMissingField)
	assert.Len(t, multierr.Errors(err), 1)

	got, err := apicheck.ValidateResponseSchema(resp, apicheck.Schema{"message": {}, "products": {Type: "array"}})
	require.NoError(t, err)
	assert.Same(t, resp, got)
}

func TestValidateResponseSchema_ObjectAcceptsArraysAndNull(t *testing.T) {
	resp := response(200, map[string]any{
		"products": []any{map[string]any{"id": 1.0}},
		"user":     map[string]any{"id": 7.0},
		"brand":    nil,
		"message":  "ok",
	})

	_, err := apicheck.ValidateResponseSchema(resp, apicheck.Schema{
		"products": {Type: apicheck.TypeObject},
		"user":     {Type: apicheck.TypeObject},
		"brand":    {Type: apicheck.TypeObject},
	})
	require.NoError(t, err)

	_, err = apicheck.ValidateResponseSchema(resp, apicheck.Schema{"message": {Type: apicheck.TypeObject}})
	assert.ErrorIs(t, err, apicheck.ErrTypeMismatch)

	_, err = apicheck.ValidateResponseSchema(resp, apicheck.Schema{
		"user":  {Type: apicheck.TypeArray},
		"brand": {Type: apicheck.TypeArray},
	})
	assert.Len(t, multierr.Errors(err), 2)
}

func TestExtractFromResponse(t *testing.T) {
	resp := response(200, map[string]any{
		"user":     map[string]any{"id": 7.0, "tags": []any{"a", "b"}},
		"products": []any{map[string]any{"name": "Blue Top"}},
	})

	v, ok := apicheck.ExtractFromResponse(resp, "user.id")
	require.True(t, ok)
	assert.Equal(t, 7.0, v)

	v, ok = apicheck.ExtractFromResponse(resp, "products.0.name")
	require.True(t, ok)
	assert.Equal(t, "Blue Top", v)

	for _, path := range []string{"user.name", "user.id.value", "products.3.name", "user.tags.x", "missing.path"} {
		v, ok := apicheck.ExtractFromResponse(resp, path)
		assert.False(t, ok, path)
		assert.Nil(t, v, path)
	}

	_, ok = apicheck.ExtractFromResponse(response(200, map[string]any{}), "user.id")
	assert.False(t, ok)
}

func TestPropertyEquals(t *testing.T) {
	resp := response(200, map[string]any{"responseCode": 404.0, "message": "User not found!"})

	assert.NoError(t, apicheck.PropertyEquals(resp, "responseCode", 404))
	assert.NoError(t, apicheck.PropertyEquals(resp, "message", "User not found!"))
	assert.ErrorIs(t, apicheck.PropertyEquals(resp, "responseCode", 200), apicheck.ErrValueMismatch)
	assert.ErrorIs(t, apicheck.PropertyEquals(resp, "code", 200), apicheck.ErrMissingField)
}

func TestTypeOf(t *testing.T) {
	cases := map[string]any{
		apicheck.TypeNumber:  1.5,
		apicheck.TypeString:  "x",
		apicheck.TypeBoolean: true,
		apicheck.TypeObject:  map[string]any{},
		apicheck.TypeArray:   []any{},
		apicheck.TypeNull:    nil,
	}
	for want, v := range cases {
		assert.Equal(t, want, apicheck.TypeOf(v))
	}
}

func TestCreateAuthHeaders(t *testing.T) {
	assert.Equal(t, map[string]string{
		"Authorization": "Bearer tok",
		"Content-Type":  "application/json",
	}, apicheck.CreateAuthHeaders("tok"))
}

func TestLogResponse(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	resp := response(200, map[string]any{"responseCode": 200.0})

	assert.Same(t, resp, apicheck.LogResponse(logrus.NewEntry(log), resp))
	assert.Contains(t, buf.String(), "status=200")
	assert.Contains(t, buf.String(), "responseCode")
}
