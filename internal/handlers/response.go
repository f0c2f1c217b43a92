package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Houeta/employee-api/internal/lib/logger/sl"
)

// ErrorResponse is the body returned for failed requests.
type ErrorResponse struct {
	Error string `json:"error"`
}

func respondJSON(log *slog.Logger, writer http.ResponseWriter, req *http.Request, status int, payload any) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)

	if err := json.NewEncoder(writer).Encode(payload); err != nil {
		log.ErrorContext(req.Context(), "Failed to write response", sl.Err(err))
	}
}

func respondError(log *slog.Logger, writer http.ResponseWriter, req *http.Request, status int, message string) {
	respondJSON(log, writer, req, status, ErrorResponse{Error: message})
}
