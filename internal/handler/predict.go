package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/yourorg/agrimarket/internal/service"
)

// PredictHandler resolves coordinates to a crop recommendation
type PredictHandler struct {
	predictions *service.PredictionService
	logger      *slog.Logger
}

// NewPredictHandler creates a new predict handler
func NewPredictHandler(predictions *service.PredictionService, logger *slog.Logger) *PredictHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &PredictHandler{
		predictions: predictions,
		logger:      logger,
	}
}

// PredictRequest carries the coordinate strings exactly as typed
type PredictRequest struct {
	Lat string `json:"lat"`
	Lng string `json:"lng"`
}

// ServeHTTP handles POST /api/predict. The lookup is total: every
// request gets a 200 with a display-ready recommendation.
func (h *PredictHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req PredictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to decode predict request", slog.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	rec := h.predictions.Predict(req.Lat, req.Lng)
	writeJSON(w, http.StatusOK, rec)
}
