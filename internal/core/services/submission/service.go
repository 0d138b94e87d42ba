package submission

import (
	"context"
	"io"

	"github.com/google/uuid"
)

// SubmitRequest is one user request to run a mesh optimization
type SubmitRequest struct {
	// FileName is the original name of the uploaded model file
	FileName string
	// File streams the uploaded bytes; nil means no file was selected
	File io.Reader
	// Size of the upload in bytes, when known
	Size int64
	// ActivityName is the short (unqualified) activity to run
	ActivityName string
	// Percent is the raw vertex-percent list, comma or space separated
	Percent string
	// KeepNormals and CollapseStack are passed through to the plug-in
	KeepNormals   bool
	CollapseStack bool
}

// SubmitResult is the handle returned to the caller. The job id correlates
// the submission with its completion callback; the work item id identifies
// the execution at the remote service.
type SubmitResult struct {
	JobID      uuid.UUID `json:"jobId"`
	WorkItemID string    `json:"workItemId"`
}

// ISubmissionService stages the input, builds the work item and submits it
type ISubmissionService interface {
	// Submit runs the full submission sequence and returns immediately after
	// the work item is accepted; it never waits for job completion
	Submit(ctx context.Context, req *SubmitRequest) (*SubmitResult, error)
}
