package catalog

import (
	"errors"
	"net/http"

	"gitlab.com/meshopt-cloud.net/internal/handlers/response"
	"gitlab.com/meshopt-cloud.net/internal/static/errs"
)

// CreateBundleRequest names a local bundle archive and the engine to bind it to
type CreateBundleRequest struct {
	ZipFileName string `json:"zipFileName"`
	Engine      string `json:"engine"`
}

// CreateActivityRequest mirrors CreateBundleRequest for activity registration
type CreateActivityRequest struct {
	ZipFileName string `json:"zipFileName"`
	Engine      string `json:"engine"`
}

// CreateActivityResponse carries the qualified activity id or the
// already-defined marker
type CreateActivityResponse struct {
	Activity string `json:"activity"`
}

func writeCatalogError(w http.ResponseWriter, err error) {
	if errors.Is(err, errs.ErrBundleNotFound) || errors.Is(err, errs.ErrMissingEngine) {
		response.WriteError(w, response.ErrorMessage{
			Message:    err.Error(),
			StatusCode: http.StatusBadRequest,
		})
		return
	}
	response.WriteServiceError(w, err)
}
