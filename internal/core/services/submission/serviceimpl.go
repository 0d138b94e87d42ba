package submission

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"time"

	"github.com/google/uuid"

	"gitlab.com/meshopt-cloud.net/internal/config"
	"gitlab.com/meshopt-cloud.net/internal/core/ports/primary"
	"gitlab.com/meshopt-cloud.net/internal/core/ports/secondary"
	"gitlab.com/meshopt-cloud.net/internal/domain"
	"gitlab.com/meshopt-cloud.net/internal/static/errs"
)

// callbackTokenTTL bounds how long a completion callback stays verifiable.
// Work items can sit in the remote queue for a while, so this is generous.
const callbackTokenTTL = 48 * time.Hour

var percentSeparator = regexp.MustCompile(`[ ,]+`)

var _ ISubmissionService = (*SubmissionService)(nil)

// SubmissionService implements the job submission orchestration
type SubmissionService struct {
	automation secondary.AutomationClient
	store      secondary.ObjectStore
	tokens     secondary.TokenProvider
	jobRepo    secondary.JobRepository
	signer     primary.CallbackSigner
	logger     primary.Logger
	cfg        *config.AutomationConfig
	webhookURL string

	now func() time.Time
}

// NewSubmissionService creates a new submission service
func NewSubmissionService(
	automation secondary.AutomationClient,
	store secondary.ObjectStore,
	tokens secondary.TokenProvider,
	jobRepo secondary.JobRepository,
	signer primary.CallbackSigner,
	logger primary.Logger,
	cfg *config.AutomationConfig,
	webhookURL string,
) *SubmissionService {
	return &SubmissionService{
		automation: automation,
		store:      store,
		tokens:     tokens,
		jobRepo:    jobRepo,
		signer:     signer,
		logger:     logger,
		cfg:        cfg,
		webhookURL: webhookURL,
		now:        time.Now,
	}
}

// Submit stages the input in the object store, builds the work item argument
// set and submits the job. Validation failures short-circuit before any
// network call.
func (s *SubmissionService) Submit(ctx context.Context, req *SubmitRequest) (*SubmitResult, error) {
	if req.File == nil || req.FileName == "" {
		return nil, errs.ErrNoInputFile
	}
	if req.ActivityName == "" {
		return nil, errs.ErrNoActivity
	}

	jobID := uuid.New()
	inputKey := s.deriveInputKey(jobID, req.FileName)
	outputKey := fmt.Sprintf("%s_output.zip", jobID)

	s.logger.Info("Submitting work item",
		"jobId", jobID,
		"activity", req.ActivityName,
		"inputKey", inputKey)

	accessToken, err := s.tokens.AccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire token: %w", err)
	}

	if err := s.store.EnsureBucket(ctx, s.cfg.BucketKey); err != nil {
		return nil, fmt.Errorf("failed to ensure bucket: %w", err)
	}

	if err := s.store.UploadObject(ctx, s.cfg.BucketKey, inputKey, req.File, req.Size); err != nil {
		return nil, fmt.Errorf("failed to upload input: %w", err)
	}

	spec, err := s.buildWorkItemSpec(ctx, jobID, req, accessToken, inputKey, outputKey)
	if err != nil {
		return nil, err
	}

	workItemID, err := s.automation.CreateWorkItem(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf("failed to submit work item: %w", err)
	}

	job := domain.NewJob(jobID, workItemID, spec.ActivityID, inputKey, outputKey)
	if err := s.jobRepo.SaveJob(ctx, job); err != nil {
		// The work item is already running remotely; losing the local record
		// only degrades the reconciliation sweep, so the handle is still
		// returned to the caller.
		s.logger.Warn("Failed to record submitted job", "jobId", jobID, "error", err)
	}

	s.logger.Info("Work item submitted", "jobId", jobID, "workItemId", workItemID)

	return &SubmitResult{
		JobID:      jobID,
		WorkItemID: workItemID,
	}, nil
}

// deriveInputKey formats a per-submission object key. The uuid fragment keeps
// keys distinct even when two submissions share a clock second and filename.
func (s *SubmissionService) deriveInputKey(jobID uuid.UUID, fileName string) string {
	stamp := s.now().Format("20060102150405")
	return fmt.Sprintf("%s_%s_input_%s", stamp, jobID.String()[:8], fileName)
}

func (s *SubmissionService) buildWorkItemSpec(
	ctx context.Context,
	jobID uuid.UUID,
	req *SubmitRequest,
	accessToken, inputKey, outputKey string,
) (*domain.WorkItemSpec, error) {
	authHeader := map[string]string{
		"Authorization": "Bearer " + accessToken,
	}

	params := domain.OptimizationParams{
		VertexPercents: percentSeparator.Split(req.Percent, -1),
		KeepNormals:    req.KeepNormals,
		CollapseStack:  req.CollapseStack,
	}
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to encode optimization parameters: %w", err)
	}

	callbackToken, err := s.signer.Sign(ctx, primary.CallbackClaims{
		JobID:           jobID,
		OutputObjectKey: outputKey,
	}, callbackTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign callback token: %w", err)
	}

	callbackURL := fmt.Sprintf("%s/api/automation/callback?id=%s&outputFileName=%s&token=%s",
		s.webhookURL,
		jobID,
		url.QueryEscape(outputKey),
		url.QueryEscape(callbackToken))

	return &domain.WorkItemSpec{
		ActivityID: fmt.Sprintf("%s.%s", s.cfg.Nickname, req.ActivityName),
		Arguments: map[string]domain.WorkItemArgument{
			"inputFile": {
				URL:     s.store.ObjectURL(s.cfg.BucketKey, inputKey),
				Headers: authHeader,
			},
			"inputJson": {
				// Percent-encoded so quotes and separators survive the data
				// URL literal
				URL: "data:application/json," + url.PathEscape(string(paramsJSON)),
			},
			"outputFile": {
				URL:     s.store.ObjectURL(s.cfg.BucketKey, outputKey),
				Verb:    "put",
				Headers: authHeader,
			},
		},
		OnComplete: domain.CallbackSpec{
			Verb: "post",
			URL:  callbackURL,
		},
	}, nil
}
