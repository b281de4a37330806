package middleware

import (
	"log/slog"
	"net/http"
	"strings"
)

// ValidateJSONContentType middleware ensures POST/PUT requests have JSON content type
func ValidateJSONContentType(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost && r.Method != http.MethodPut && r.Method != http.MethodPatch {
				next.ServeHTTP(w, r)
				return
			}

			// Allow requests without body (logout, health checks)
			if r.ContentLength == 0 {
				next.ServeHTTP(w, r)
				return
			}

			contentType := r.Header.Get("Content-Type")
			if !strings.Contains(contentType, "application/json") {
				log.Warn("invalid content type",
					slog.String("path", r.URL.Path),
					slog.String("content_type", contentType),
					slog.String("method", r.Method),
				)
				http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
