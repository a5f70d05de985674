package interfaces

import (
	"context"

	"shopqa/domain/entities"
)

// ExceptionPolicy decides whether an uncaught page exception fails the test
type ExceptionPolicy interface {
	// Classify returns the verdict for one exception
	Classify(ctx context.Context, exc entities.PageException) entities.Verdict
}
