package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gitlab.com/meshopt-cloud.net/internal/config"
	"gitlab.com/meshopt-cloud.net/internal/core/ports/primary"
	"gitlab.com/meshopt-cloud.net/internal/core/ports/secondary"
	"gitlab.com/meshopt-cloud.net/internal/domain"
	"gitlab.com/meshopt-cloud.net/internal/static/errs"
)

var _ INotificationService = (*NotificationService)(nil)

// NotificationService implements the completion notifier
type NotificationService struct {
	store     secondary.ObjectStore
	reports   secondary.ReportFetcher
	jobRepo   secondary.JobRepository
	cache     secondary.ResultCache
	signer    primary.CallbackSigner
	publisher EventPublisher
	logger    primary.Logger
	cfg       *config.AutomationConfig
}

// NewNotificationService creates a new notification service
func NewNotificationService(
	store secondary.ObjectStore,
	reports secondary.ReportFetcher,
	jobRepo secondary.JobRepository,
	cache secondary.ResultCache,
	signer primary.CallbackSigner,
	publisher EventPublisher,
	logger primary.Logger,
	cfg *config.AutomationConfig,
) *NotificationService {
	return &NotificationService{
		store:     store,
		reports:   reports,
		jobRepo:   jobRepo,
		cache:     cache,
		signer:    signer,
		publisher: publisher,
		logger:    logger,
		cfg:       cfg,
	}
}

// HandleCompletion processes one completion callback. Report text is
// published before the download URL; failures along the way are published as
// error events rather than dropped.
func (s *NotificationService) HandleCompletion(ctx context.Context, event *domain.CompletionEvent) error {
	claims, err := s.signer.Verify(ctx, event.Token)
	if err != nil {
		s.logger.Warn("Rejected callback with bad token", "jobId", event.JobID, "error", err)
		return errs.ErrInvalidCallback
	}
	if claims.JobID != event.JobID || claims.OutputObjectKey != event.OutputObjectKey {
		s.logger.Warn("Rejected callback with mismatched claims", "jobId", event.JobID)
		return errs.ErrCallbackMismatch
	}

	s.logger.Info("Work item completed", "jobId", event.JobID, "outputKey", event.OutputObjectKey)

	reportText, err := s.reports.Fetch(ctx, event.ReportURL)
	if err != nil {
		s.failJob(ctx, event, "failed to fetch execution report")
		return fmt.Errorf("failed to fetch report: %w", err)
	}

	s.publisher.Publish(domain.PushEvent{
		JobID:   event.JobID,
		Event:   domain.EventComplete,
		Message: reportText,
	})

	signedURL, err := s.store.SignedDownloadURL(ctx, s.cfg.BucketKey, event.OutputObjectKey)
	if err != nil {
		s.failJob(ctx, event, "failed to create download link")
		return fmt.Errorf("failed to create signed url: %w", err)
	}

	s.publisher.Publish(domain.PushEvent{
		JobID: event.JobID,
		Event: domain.EventDownloadResult,
		URL:   signedURL,
	})

	if err := s.jobRepo.MarkCompleted(ctx, event.JobID, domain.JobStatusCompleted, event.ReportURL); err != nil {
		s.logger.Error("Failed to mark job completed", "jobId", event.JobID, "error", err)
	}
	s.cacheResult(ctx, &domain.CompletionResult{
		JobID:     event.JobID,
		Report:    reportText,
		SignedURL: signedURL,
		Success:   true,
		Timestamp: time.Now(),
	})

	return nil
}

// GetResult retrieves the cached outcome of a recently finished job
func (s *NotificationService) GetResult(ctx context.Context, jobID uuid.UUID) (*domain.CompletionResult, error) {
	return s.cache.GetResult(ctx, jobID)
}

// failJob publishes an error event and records the failed terminal state
func (s *NotificationService) failJob(ctx context.Context, event *domain.CompletionEvent, message string) {
	s.publisher.Publish(domain.PushEvent{
		JobID:   event.JobID,
		Event:   domain.EventError,
		Message: message,
	})

	if err := s.jobRepo.MarkCompleted(ctx, event.JobID, domain.JobStatusFailed, event.ReportURL); err != nil {
		s.logger.Error("Failed to mark job failed", "jobId", event.JobID, "error", err)
	}
	s.cacheResult(ctx, &domain.CompletionResult{
		JobID:     event.JobID,
		Report:    message,
		Success:   false,
		Timestamp: time.Now(),
	})
}

func (s *NotificationService) cacheResult(ctx context.Context, result *domain.CompletionResult) {
	if err := s.cache.SaveResult(ctx, result); err != nil {
		s.logger.Error("Failed to cache completion result", "jobId", result.JobID, "error", err)
	}
}
