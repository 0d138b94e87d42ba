package notification

import (
	"context"

	"github.com/google/uuid"

	"gitlab.com/meshopt-cloud.net/internal/domain"
)

// INotificationService relays work item completions to connected clients
type INotificationService interface {
	// HandleCompletion processes one completion callback: verify, fetch the
	// report, mint a download URL and publish both to listeners
	HandleCompletion(ctx context.Context, event *domain.CompletionEvent) error

	// GetResult retrieves the cached outcome of a recently finished job
	GetResult(ctx context.Context, jobID uuid.UUID) (*domain.CompletionResult, error)
}

// EventPublisher is the push channel the notifier fans events out on
type EventPublisher interface {
	Publish(event domain.PushEvent)
}
