package interfaces

import (
	"context"

	"shopqa/domain/entities"
)

// APIClient issues calls against the storefront HTTP API.
// Non-2xx statuses are returned as responses, never as errors.
type APIClient interface {
	Do(ctx context.Context, req entities.Request) (*entities.Response, error)
}
