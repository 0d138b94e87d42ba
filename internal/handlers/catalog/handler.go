package catalog

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"gitlab.com/meshopt-cloud.net/internal/core/ports/primary"
	"gitlab.com/meshopt-cloud.net/internal/core/services/catalog"
)

// CatalogHandler handles engine, app bundle and activity API requests
type CatalogHandler struct {
	catalogService catalog.ICatalogService
	logger         primary.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService catalog.ICatalogService, logger primary.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// RegisterRoutes registers the API routes for CatalogHandler
func (h *CatalogHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/automation/engines", h.GetEngines).Methods("GET")
	router.HandleFunc("/api/appbundles", h.GetLocalBundles).Methods("GET")
	router.HandleFunc("/api/automation/appbundles", h.CreateAppBundle).Methods("POST")
	router.HandleFunc("/api/automation/activities", h.GetActivities).Methods("GET")
	router.HandleFunc("/api/automation/activities", h.CreateActivity).Methods("POST")
	router.HandleFunc("/api/automation/account", h.ClearAccount).Methods("DELETE")
}

// GetEngines handles engine listing requests
func (h *CatalogHandler) GetEngines(w http.ResponseWriter, r *http.Request) {
	engines, err := h.catalogService.ListEngines(r.Context())
	if err != nil {
		h.logger.Error("Failed to list engines", "error", err)
		http.Error(w, "Failed to list engines", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(engines)
}

// GetLocalBundles handles local bundle listing requests
func (h *CatalogHandler) GetLocalBundles(w http.ResponseWriter, r *http.Request) {
	bundles, err := h.catalogService.ListLocalBundles()
	if err != nil {
		h.logger.Error("Failed to list local bundles", "error", err)
		http.Error(w, "Failed to list local bundles", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(bundles)
}

// CreateAppBundle handles bundle create-or-update requests
func (h *CatalogHandler) CreateAppBundle(w http.ResponseWriter, r *http.Request) {
	var req CreateBundleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("Failed to decode request", "error", err)
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	result, err := h.catalogService.CreateOrUpdateAppBundle(r.Context(), req.ZipFileName, req.Engine)
	if err != nil {
		h.logger.Error("Failed to create app bundle", "error", err)
		writeCatalogError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// GetActivities handles activity listing requests
func (h *CatalogHandler) GetActivities(w http.ResponseWriter, r *http.Request) {
	activities, err := h.catalogService.ListActivities(r.Context())
	if err != nil {
		h.logger.Error("Failed to list activities", "error", err)
		http.Error(w, "Failed to list activities", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(activities)
}

// CreateActivity handles activity creation requests
func (h *CatalogHandler) CreateActivity(w http.ResponseWriter, r *http.Request) {
	var req CreateActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("Failed to decode request", "error", err)
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	activity, created, err := h.catalogService.CreateActivity(r.Context(), req.ZipFileName, req.Engine)
	if err != nil {
		h.logger.Error("Failed to create activity", "error", err)
		writeCatalogError(w, err)
		return
	}

	resp := CreateActivityResponse{Activity: activity}
	if !created {
		resp.Activity = "Activity already defined"
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// ClearAccount handles best-effort account cleanup requests
func (h *CatalogHandler) ClearAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.catalogService.ClearAccount(r.Context()); err != nil {
		h.logger.Error("Failed to clear account", "error", err)
		http.Error(w, "Failed to clear account", http.StatusBadGateway)
		return
	}

	w.WriteHeader(http.StatusOK)
}
