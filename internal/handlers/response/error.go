package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"gitlab.com/meshopt-cloud.net/internal/static/errs"
)

type ErrorMessage struct {
	Message    string `json:"message"`
	StatusCode int    `json:"status_code"`
}

func WriteError(w http.ResponseWriter, err ErrorMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.StatusCode)
	_ = json.NewEncoder(w).Encode(err)
}

func WriteSuccess(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(data)
}

func WriteStatus(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteServiceError maps known validation errors to client statuses; anything
// else is a failed remote call and surfaces as a bad gateway
func WriteServiceError(w http.ResponseWriter, err error) {
	status := http.StatusBadGateway
	switch {
	case errors.Is(err, errs.ErrNoInputFile),
		errors.Is(err, errs.ErrNoActivity),
		errors.Is(err, errs.ErrBundleNotFound),
		errors.Is(err, errs.ErrMissingEngine):
		status = http.StatusBadRequest
	case errors.Is(err, errs.ErrJobNotFound):
		status = http.StatusNotFound
	}
	WriteError(w, ErrorMessage{Message: err.Error(), StatusCode: status})
}
