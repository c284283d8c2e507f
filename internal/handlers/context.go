package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/addyhq/addy-backend/internal/apperrors"
	"github.com/addyhq/addy-backend/internal/models"
)

// Headers the gateway forwards after authenticating the caller. Auth itself
// happens upstream; the backend only scopes by them.
const (
	headerOrgID  = "X-Org-ID"
	headerUserID = "X-User-ID"
)

func operationContext(r *http.Request) (models.OperationContext, error) {
	octx := models.OperationContext{
		OrganizationID: r.Header.Get(headerOrgID),
		UserID:         r.Header.Get(headerUserID),
	}
	if err := octx.Validate(); err != nil {
		return models.OperationContext{}, err
	}
	return octx, nil
}

// writeServiceError maps the service error taxonomy onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case apperrors.IsAuthorization(err):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, gorm.ErrRecordNotFound):
		http.Error(w, "action not found", http.StatusNotFound)
	case apperrors.IsValidation(err),
		apperrors.IsInvalidPayload(err),
		apperrors.IsUnknownActionType(err),
		apperrors.IsInvalidTransition(err),
		apperrors.IsExecutionFailure(err):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
