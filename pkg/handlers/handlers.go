// Package handlers provides JSON response helpers shared by domain HTTP handlers.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

// InternalErrorMessage replaces the detail of any 5xx error before it reaches a client.
const InternalErrorMessage = "internal server error"

// ErrorResponse is the body written by RespondError.
type ErrorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

// Reasoner is implemented by errors that carry a machine-readable reason code.
type Reasoner interface {
	ReasonCode() string
}

// RespondJSON writes data as a JSON body with the given status code.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondError writes an ErrorResponse for err.
// Server errors are logged at error level and their detail is withheld from the client.
// Client errors are logged at debug level and returned as-is.
func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, err error) {
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
		RespondJSON(w, status, ErrorResponse{Error: InternalErrorMessage})
		return
	}

	logger.Debug("request rejected", "status", status, "error", err)

	resp := ErrorResponse{Error: err.Error()}
	var r Reasoner
	if errors.As(err, &r) {
		resp.Reason = r.ReasonCode()
	}
	RespondJSON(w, status, resp)
}
