package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/yourorg/agrimarket/internal/domain"
)

// ErrorResponse represents an error response body. Fields is populated
// only for validation failures.
type ErrorResponse struct {
	Error  string              `json:"error"`
	Fields []domain.FieldError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// The status line is already gone; all we can do is make the
		// truncated response visible in the logs
		slog.Error("failed to encode response",
			slog.Int("status", status),
			slog.String("error", err.Error()),
		)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
