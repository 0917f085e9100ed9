package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"gearshare-backend/internal/apperr"
	"gearshare-backend/internal/logger"
)

type errorResponse struct {
	Error        string `json:"error"`
	Kind         string `json:"kind,omitempty"`
	CurrentState string `json:"current_state,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		if err := json.NewEncoder(w).Encode(body); err != nil {
			logger.Error("failed to encode response body", "error", err)
		}
	}
}

func writeError(w http.ResponseWriter, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		logger.Error("unhandled internal error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
		return
	}

	status := http.StatusInternalServerError
	switch appErr.Kind {
	case apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindForbidden:
		status = http.StatusForbidden
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindInvalidTransition, apperr.KindConflict:
		status = http.StatusConflict
	case apperr.KindUpstream:
		status = http.StatusBadGateway
	}

	writeJSON(w, status, errorResponse{
		Error:        appErr.Message,
		Kind:         string(appErr.Kind),
		CurrentState: appErr.CurrentState,
	})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, apperr.Validation("invalid request body: %v", err))
		return false
	}
	return true
}
