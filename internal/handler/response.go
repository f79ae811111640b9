package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/binbinrosa-ui/Boostweb-Starbucks/internal/domain"
	"github.com/binbinrosa-ui/Boostweb-Starbucks/internal/logging"
)

// Every error response uses the {success:false, message} envelope.
type errorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func RespondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func RespondAppError(w http.ResponseWriter, appErr *AppError) {
	RespondJSON(w, appErr.Status, errorBody{Success: false, Message: appErr.Message})
}

// RespondServiceError maps service and store failures onto the envelope.
// Anything unrecognized is logged and degraded to a generic 500; request
// errors never take the process down.
func RespondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *domain.ValidationError

	switch {
	case errors.As(err, &ve):
		RespondJSON(w, http.StatusBadRequest, errorBody{Success: false, Message: ve.Error()})
	case errors.Is(err, domain.ErrDuplicateEmail):
		RespondAppError(w, ErrDuplicateEmail)
	case errors.Is(err, domain.ErrInvalidCredentials):
		RespondAppError(w, ErrBadCredentials)
	case errors.Is(err, domain.ErrNotFound):
		RespondAppError(w, ErrRouteNotFound)
	default:
		logging.FromContext(r.Context()).Error("request failed", "error", err)
		RespondAppError(w, ErrInternal)
	}
}
