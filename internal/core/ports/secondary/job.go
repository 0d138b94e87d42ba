package secondary

import (
	"context"
	"time"

	"github.com/google/uuid"

	"gitlab.com/meshopt-cloud.net/internal/domain"
)

// JobRepository persists the local record of submitted work items
type JobRepository interface {
	// SaveJob inserts or updates a job record
	SaveJob(ctx context.Context, job *domain.Job) error

	// GetJob retrieves a job by ID
	GetJob(ctx context.Context, jobID uuid.UUID) (*domain.Job, error)

	// MarkCompleted transitions a job to COMPLETED or FAILED and records the
	// report URL
	MarkCompleted(ctx context.Context, jobID uuid.UUID, status domain.JobStatus, reportURL string) error

	// GetPendingBefore retrieves pending jobs submitted before the cutoff,
	// oldest first
	GetPendingBefore(ctx context.Context, cutoff time.Time, limit int) ([]*domain.Job, error)

	// UpdateJobStatus updates a job's status
	UpdateJobStatus(ctx context.Context, jobID uuid.UUID, status domain.JobStatus) error
}
