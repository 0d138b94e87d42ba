package domain

import (
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the lifecycle state of a submitted work item
type JobStatus string

const (
	JobStatusPending   JobStatus = "PENDING"
	JobStatusCompleted JobStatus = "COMPLETED"
	JobStatusFailed    JobStatus = "FAILED"
	JobStatusStale     JobStatus = "STALE"
)

// Job is the local record of one work item submitted to the automation service.
// It is the correlation point between a submission and its completion callback
// and feeds the reconciliation sweep for work items that never call back.
type Job struct {
	ID              uuid.UUID  `db:"id" json:"jobId"`
	WorkItemID      string     `db:"work_item_id" json:"workItemId"`
	ActivityID      string     `db:"activity_id" json:"activityId"`
	InputObjectKey  string     `db:"input_object_key" json:"inputObjectKey"`
	OutputObjectKey string     `db:"output_object_key" json:"outputObjectKey"`
	Status          JobStatus  `db:"status" json:"status"`
	SubmittedAt     time.Time  `db:"submitted_at" json:"submittedAt"`
	CompletedAt     *time.Time `db:"completed_at" json:"completedAt,omitempty"`
	ReportURL       *string    `db:"report_url" json:"reportUrl,omitempty"`
}

// NewJob creates a pending job record for a freshly submitted work item
func NewJob(id uuid.UUID, workItemID, activityID, inputKey, outputKey string) *Job {
	return &Job{
		ID:              id,
		WorkItemID:      workItemID,
		ActivityID:      activityID,
		InputObjectKey:  inputKey,
		OutputObjectKey: outputKey,
		Status:          JobStatusPending,
		SubmittedAt:     time.Now(),
	}
}

// CompletionResult is the outcome relayed to clients once a work item finishes.
// Cached with a TTL so a client that reconnects shortly after completion can
// still retrieve the report and download link.
type CompletionResult struct {
	JobID     uuid.UUID `json:"jobId"`
	Report    string    `json:"report"`
	SignedURL string    `json:"signedUrl,omitempty"`
	Success   bool      `json:"success"`
	Timestamp time.Time `json:"timestamp"`
}
