package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/yourorg/agrimarket/internal/infrastructure/redis"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	redisClient *redis.Client
	db          *sql.DB
	logger      *slog.Logger
}

// NewHealthHandler creates a new health handler. Both dependencies are
// optional: the marketplace runs fully in memory when they are absent.
func NewHealthHandler(redisClient *redis.Client, db *sql.DB, logger *slog.Logger) *HealthHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &HealthHandler{
		redisClient: redisClient,
		db:          db,
		logger:      logger,
	}
}

// HealthResponse represents the health status response
type HealthResponse struct {
	Status string `json:"status"`
}

// ReadinessResponse represents the readiness check response
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Health handles GET /healthz - Simple liveness check
// Returns 200 if the server is running
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(HealthResponse{Status: "ok"})
}

// Ready handles GET /readyz - Readiness check for Kubernetes
// Configured dependencies must answer; unconfigured ones never block
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string)
	allHealthy := true

	if h.redisClient != nil {
		if err := h.redisClient.Ping(ctx); err == nil {
			checks["redis"] = "ok"
		} else {
			checks["redis"] = "error: " + err.Error()
			allHealthy = false
		}
	} else {
		checks["redis"] = "not configured"
	}

	if h.db != nil {
		if err := h.db.PingContext(ctx); err == nil {
			checks["postgres"] = "ok"
		} else {
			checks["postgres"] = "error: " + err.Error()
			allHealthy = false
		}
	} else {
		checks["postgres"] = "not configured"
	}

	status := "ready"
	statusCode := http.StatusOK
	if !allHealthy {
		status = "not_ready"
		statusCode = http.StatusServiceUnavailable
	}

	response := ReadinessResponse{
		Status: status,
		Checks: checks,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(response)

	h.logger.Info("readiness check",
		slog.String("status", status),
		slog.String("redis", checks["redis"]),
		slog.String("postgres", checks["postgres"]),
	)
}
