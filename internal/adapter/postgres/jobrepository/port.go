// package jobrepository contains the PostgreSQL implementation of the job
// record repository
package jobrepository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jmoiron/sqlx"

	"gitlab.com/meshopt-cloud.net/internal/core/ports/primary"
	"gitlab.com/meshopt-cloud.net/internal/core/ports/secondary"
	"gitlab.com/meshopt-cloud.net/internal/domain"
)

var _ secondary.JobRepository = (*JobRepository)(nil)

// JobRepository implements the JobRepository interface with PostgreSQL
type JobRepository struct {
	db     *sqlx.DB
	logger primary.Logger
}

// NewJobRepository creates a new PostgreSQL job repository
func NewJobRepository(db *sqlx.DB, logger primary.Logger) *JobRepository {
	return &JobRepository{
		db:     db,
		logger: logger,
	}
}

// SaveJob inserts or updates a job record
func (r *JobRepository) SaveJob(ctx context.Context, job *domain.Job) error {
	query := `
		INSERT INTO jobs (
			id, work_item_id, activity_id, input_object_key, output_object_key,
			status, submitted_at, completed_at, report_url
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			completed_at = EXCLUDED.completed_at,
			report_url = EXCLUDED.report_url
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		job.ID,
		job.WorkItemID,
		job.ActivityID,
		job.InputObjectKey,
		job.OutputObjectKey,
		job.Status,
		job.SubmittedAt,
		job.CompletedAt,
		job.ReportURL,
	)

	if err != nil {
		r.logger.Error("Failed to save job", "error", err)
		return fmt.Errorf("failed to save job: %w", err)
	}

	return nil
}

// GetJob retrieves a job record by ID
func (r *JobRepository) GetJob(ctx context.Context, jobID uuid.UUID) (*domain.Job, error) {
	query := `
		SELECT id, work_item_id, activity_id, input_object_key, output_object_key,
		       status, submitted_at, completed_at, report_url
		FROM jobs
		WHERE id = $1
	`

	var job domain.Job
	err := r.db.GetContext(ctx, &job, query, jobID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // Not found
	}
	if err != nil {
		r.logger.Error("Failed to get job", "jobId", jobID, "error", err)
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	return &job, nil
}

// MarkCompleted transitions a job to a terminal state and records the report URL
func (r *JobRepository) MarkCompleted(ctx context.Context, jobID uuid.UUID, status domain.JobStatus, reportURL string) error {
	query := `
		UPDATE jobs
		SET status = $2, completed_at = $3, report_url = $4
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, jobID, status, time.Now(), reportURL)
	if err != nil {
		r.logger.Error("Failed to mark job completed", "jobId", jobID, "error", err)
		return fmt.Errorf("failed to mark job completed: %w", err)
	}

	return nil
}

// GetPendingBefore retrieves pending jobs submitted before the cutoff
func (r *JobRepository) GetPendingBefore(ctx context.Context, cutoff time.Time, limit int) ([]*domain.Job, error) {
	query := `
		SELECT id, work_item_id, activity_id, input_object_key, output_object_key,
		       status, submitted_at, completed_at, report_url
		FROM jobs
		WHERE status = $1 AND submitted_at < $2
		ORDER BY submitted_at ASC
		LIMIT $3
	`

	var jobs []*domain.Job
	if err := r.db.SelectContext(ctx, &jobs, query, domain.JobStatusPending, cutoff, limit); err != nil {
		r.logger.Error("Failed to get pending jobs", "error", err)
		return nil, fmt.Errorf("failed to get pending jobs: %w", err)
	}

	return jobs, nil
}

// UpdateJobStatus updates a job's status
func (r *JobRepository) UpdateJobStatus(ctx context.Context, jobID uuid.UUID, status domain.JobStatus) error {
	query := `UPDATE jobs SET status = $2 WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, jobID, status)
	if err != nil {
		r.logger.Error("Failed to update job status", "jobId", jobID, "error", err)
		return fmt.Errorf("failed to update job status: %w", err)
	}

	return nil
}
