package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/AhsanAli-Soomro/ecomerce-web/internal/apperr"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeAppError maps the error taxonomy onto HTTP statuses: validation 400,
// not-found 404, everything else (remote I/O included) 500.
func writeAppError(w http.ResponseWriter, err error) {
	switch {
	case apperr.IsValidation(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case apperr.IsNotFound(err):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		slog.Error("Request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.NewValidationError("body", "must be valid JSON")
	}
	return nil
}
