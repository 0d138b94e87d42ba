package workitems

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"gitlab.com/meshopt-cloud.net/internal/core/ports/primary"
	"gitlab.com/meshopt-cloud.net/internal/core/services/notification"
	"gitlab.com/meshopt-cloud.net/internal/core/services/submission"
	"gitlab.com/meshopt-cloud.net/internal/domain"
	"gitlab.com/meshopt-cloud.net/internal/handlers/response"
)

const maxUploadBytes = 100 << 20

// WorkItemHandler handles work item submission and completion callbacks
type WorkItemHandler struct {
	submissionService   submission.ISubmissionService
	notificationService notification.INotificationService
	logger              primary.Logger
}

// NewWorkItemHandler creates a new work item handler
func NewWorkItemHandler(
	submissionService submission.ISubmissionService,
	notificationService notification.INotificationService,
	logger primary.Logger,
) *WorkItemHandler {
	return &WorkItemHandler{
		submissionService:   submissionService,
		notificationService: notificationService,
		logger:              logger,
	}
}

// RegisterRoutes registers the API routes for WorkItemHandler
func (h *WorkItemHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/automation/workitems", h.CreateWorkItem).Methods("POST")
	router.HandleFunc("/api/automation/callback", h.OnCallback).Methods("POST")
}

// CreateWorkItem handles job submission requests. The request is multipart:
// the model file under "inputFile" and a JSON parameter blob under "data".
func (h *WorkItemHandler) CreateWorkItem(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.logger.Error("Failed to parse multipart form", "error", err)
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	var data WorkItemData
	if raw := r.FormValue("data"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			h.logger.Error("Failed to decode work item data", "error", err)
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
	}

	req := &submission.SubmitRequest{
		ActivityName:  data.ActivityName,
		Percent:       data.Percent,
		KeepNormals:   data.KeepNormals,
		CollapseStack: data.CollapseStack,
	}

	file, header, err := r.FormFile("inputFile")
	if err == nil {
		defer file.Close()
		req.File = file
		req.FileName = header.Filename
		req.Size = header.Size
	}

	result, err := h.submissionService.Submit(r.Context(), req)
	if err != nil {
		h.logger.Error("Failed to submit work item", "error", err)
		response.WriteServiceError(w, err)
		return
	}

	response.WriteStatus(w, http.StatusAccepted, result)
}

// OnCallback handles the automation service's completion webhook. The
// response is always an empty success: the remote service only needs an
// acknowledgement, and a failure here is relayed to clients as an error
// event, not back to the caller.
func (h *WorkItemHandler) OnCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var body CallbackBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.logger.Warn("Failed to decode callback body", "error", err)
		w.WriteHeader(http.StatusOK)
		return
	}

	jobID, err := uuid.Parse(query.Get("id"))
	if err != nil {
		h.logger.Warn("Callback carried invalid job id", "id", query.Get("id"))
		w.WriteHeader(http.StatusOK)
		return
	}

	event := &domain.CompletionEvent{
		JobID:           jobID,
		OutputObjectKey: query.Get("outputFileName"),
		ReportURL:       body.ReportURL,
		Token:           query.Get("token"),
	}

	if err := h.notificationService.HandleCompletion(r.Context(), event); err != nil {
		h.logger.Error("Failed to process completion callback", "jobId", jobID, "error", err)
	}

	w.WriteHeader(http.StatusOK)
}
