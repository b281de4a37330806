package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// HTTPMetricsMiddleware instruments requests with Prometheus metrics
func HTTPMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &statusWriter{ResponseWriter: w, status: 200}
		next.ServeHTTP(ww, r)
		dur := time.Since(start)
		ObserveHTTPRequest(r.Method, routeLabel(r.URL.Path), strconv.Itoa(ww.status), dur)
	})
}

// routeLabel collapses request paths onto the known route set so the
// path label stays bounded even under scanner traffic
func routeLabel(path string) string {
	switch {
	case strings.HasPrefix(path, "/api/auth/"):
		return path
	case strings.HasPrefix(path, "/api/crops"):
		return "/api/crops"
	case strings.HasPrefix(path, "/api/products"):
		return "/api/products"
	case path == "/api/predict", path == "/ws/listings",
		path == "/metrics", path == "/healthz", path == "/readyz":
		return path
	}
	return "other"
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
