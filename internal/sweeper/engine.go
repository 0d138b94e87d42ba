package sweeper

import (
	"context"
	"time"

	"gitlab.com/meshopt-cloud.net/internal/config"
	"gitlab.com/meshopt-cloud.net/internal/core/ports/primary"
	"gitlab.com/meshopt-cloud.net/internal/core/ports/secondary"
	"gitlab.com/meshopt-cloud.net/internal/core/services/notification"
	"gitlab.com/meshopt-cloud.net/internal/domain"
)

const sweepBatchSize = 100

// Engine periodically reconciles submitted work items that never called
// back: pending jobs older than the deadline are marked stale and an error
// event is pushed to listeners.
type Engine struct {
	SweepCfg  *config.SweepConfig
	jobRepo   secondary.JobRepository
	publisher notification.EventPublisher
	logger    primary.Logger
}

// NewEngine creates a reconciliation sweep engine
func NewEngine(
	sweepCfg *config.SweepConfig,
	jobRepo secondary.JobRepository,
	publisher notification.EventPublisher,
	logger primary.Logger,
) *Engine {
	return &Engine{
		SweepCfg:  sweepCfg,
		jobRepo:   jobRepo,
		publisher: publisher,
		logger:    logger,
	}
}

// Start runs the sweep loop until the context is cancelled
func (e *Engine) Start(ctx context.Context) {
	ticker := time.NewTicker(e.SweepCfg.Interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				e.Sweep(ctx)
			}
		}
	}()
}

// Sweep marks overdue pending jobs stale and notifies listeners
func (e *Engine) Sweep(ctx context.Context) {
	cutoff := time.Now().Add(-e.SweepCfg.Deadline)
	stale, err := e.jobRepo.GetPendingBefore(ctx, cutoff, sweepBatchSize)
	if err != nil {
		e.logger.Error("Failed to get overdue jobs", "error", err)
		return
	}
	if len(stale) == 0 {
		return
	}

	for _, job := range stale {
		if err := e.jobRepo.UpdateJobStatus(ctx, job.ID, domain.JobStatusStale); err != nil {
			e.logger.Error("Failed to mark job stale", "jobId", job.ID, "error", err)
			continue
		}

		e.publisher.Publish(domain.PushEvent{
			JobID:   job.ID,
			Event:   domain.EventError,
			Message: "work item did not complete before the deadline",
		})

		e.logger.Warn("Job marked stale",
			"jobId", job.ID,
			"workItemId", job.WorkItemID,
			"submittedAt", job.SubmittedAt)
	}

	e.logger.Info("Reconciliation sweep finished", "stale", len(stale))
}
