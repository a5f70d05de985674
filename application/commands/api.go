package commands

import (
	"context"
	"errors"
	"net/http"

	"shopqa/domain/entities"
)

var errNoAPI = errors.New("no API client configured")

// APIRequest issues one call against the API base address. Non-2xx statuses
// come back as responses so callers can assert on error envelopes.
func APIRequest(ctx context.Context, env *Env, method, path string, body any, headers map[string]string) (*entities.Response, error) {
	if env.API == nil {
		return nil, errNoAPI
	}
	env.logger().WithField("method", method).WithField("path", path).Debug("api request")
	return env.API.Do(ctx, entities.Request{Method: method, Path: path, Body: body, Headers: headers})
}

func APIGet(ctx context.Context, env *Env, path string, headers map[string]string) (*entities.Response, error) {
	return APIRequest(ctx, env, http.MethodGet, path, nil, headers)
}

func APIPost(ctx context.Context, env *Env, path string, body any, headers map[string]string) (*entities.Response, error) {
	return APIRequest(ctx, env, http.MethodPost, path, body, headers)
}

func APIPut(ctx context.Context, env *Env, path string, body any, headers map[string]string) (*entities.Response, error) {
	return APIRequest(ctx, env, http.MethodPut, path, body, headers)
}

func APIDelete(ctx context.Context, env *Env, path string, headers map[string]string) (*entities.Response, error) {
	return APIRequest(ctx, env, http.MethodDelete, path, nil, headers)
}
