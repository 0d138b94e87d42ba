package secondary

import (
	"context"

	"github.com/google/uuid"

	"gitlab.com/meshopt-cloud.net/internal/domain"
)

// ResultCache holds recent completion results for a bounded time so clients
// that reconnect shortly after a job finishes can still fetch the outcome
type ResultCache interface {
	// SaveResult stores the result under the job id with the cache's TTL
	SaveResult(ctx context.Context, result *domain.CompletionResult) error

	// GetResult retrieves a cached result, or nil when absent or expired
	GetResult(ctx context.Context, jobID uuid.UUID) (*domain.CompletionResult, error)
}
