package jobs

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"gitlab.com/meshopt-cloud.net/internal/core/ports/primary"
	"gitlab.com/meshopt-cloud.net/internal/core/ports/secondary"
	"gitlab.com/meshopt-cloud.net/internal/core/services/notification"
	"gitlab.com/meshopt-cloud.net/internal/domain"
	"gitlab.com/meshopt-cloud.net/internal/handlers/response"
)

// JobHandler exposes the local job records
type JobHandler struct {
	jobRepo             secondary.JobRepository
	notificationService notification.INotificationService
	logger              primary.Logger
}

// NewJobHandler creates a new job handler
func NewJobHandler(
	jobRepo secondary.JobRepository,
	notificationService notification.INotificationService,
	logger primary.Logger,
) *JobHandler {
	return &JobHandler{
		jobRepo:             jobRepo,
		notificationService: notificationService,
		logger:              logger,
	}
}

// RegisterRoutes registers the API routes for JobHandler
func (h *JobHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/jobs/{jobId}", h.GetJob).Methods("GET")
}

// JobView is the job record plus the cached completion result when one is
// still available
type JobView struct {
	*domain.Job
	Result *domain.CompletionResult `json:"result,omitempty"`
}

// GetJob handles job record retrieval requests
func (h *JobHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	jobIDStr := vars["jobId"]

	jobID, err := uuid.Parse(jobIDStr)
	if err != nil {
		h.logger.Error("Invalid job ID", "id", jobIDStr)
		http.Error(w, "Invalid job ID", http.StatusBadRequest)
		return
	}

	job, err := h.jobRepo.GetJob(r.Context(), jobID)
	if err != nil {
		h.logger.Error("Failed to get job", "error", err)
		http.Error(w, "Failed to get job", http.StatusInternalServerError)
		return
	}
	if job == nil {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}

	view := JobView{Job: job}
	result, err := h.notificationService.GetResult(r.Context(), jobID)
	if err != nil {
		// The record itself is still valid without the cached result
		h.logger.Warn("Failed to read cached result", "jobId", jobID, "error", err)
	} else {
		view.Result = result
	}

	response.WriteSuccess(w, view)
}
