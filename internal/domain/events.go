package domain

import "github.com/google/uuid"

// Push event names sent to browser clients over the websocket channel
const (
	EventComplete       = "onComplete"
	EventError          = "onError"
	EventDownloadResult = "downloadResult"
)

// PushEvent is one server-to-client notification. JobID scopes delivery:
// connections watching that job receive it, unscoped connections receive all.
type PushEvent struct {
	JobID   uuid.UUID `json:"jobId"`
	Event   string    `json:"event"`
	Message string    `json:"message,omitempty"`
	URL     string    `json:"url,omitempty"`
}

// CompletionEvent is what the automation service's webhook delivers, combined
// with the correlation material carried in the callback URL
type CompletionEvent struct {
	JobID           uuid.UUID
	OutputObjectKey string
	ReportURL       string
	Token           string
}
