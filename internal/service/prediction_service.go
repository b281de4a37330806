package service

import (
	"log/slog"
	"time"

	"github.com/yourorg/agrimarket/internal/domain"
	"github.com/yourorg/agrimarket/internal/observability/metrics"
	"github.com/yourorg/agrimarket/pkg/cache"
)

// PredictionService resolves a coordinate pair to a crop recommendation.
//
// The lookup is a fixed table keyed by the literal "lat,lng" string the
// client submitted. No numeric normalization happens: "28.6139" and
// "28.61390" are different keys and both miss. A miss resolves to the
// default record, never an error, so callers always receive a
// display-ready recommendation.
type PredictionService struct {
	table        domain.RecommendationTable
	defaultEntry domain.Recommendation
	cache        *cache.Cache
	cacheTTL     time.Duration
	logger       *slog.Logger
}

// NewPredictionService creates a prediction service over a preloaded table
func NewPredictionService(
	table domain.RecommendationTable,
	defaultEntry domain.Recommendation,
	logger *slog.Logger,
) *PredictionService {
	if logger == nil {
		logger = slog.Default()
	}

	return &PredictionService{
		table:        table,
		defaultEntry: defaultEntry,
		cache:        cache.New(),
		cacheTTL:     5 * time.Minute,
		logger:       logger,
	}
}

// Predict returns the recommendation for the given coordinate strings.
// Total over all inputs, including empty strings.
func (s *PredictionService) Predict(lat, lng string) domain.Recommendation {
	key := lat + "," + lng

	if cached, ok := s.cache.Get(key); ok {
		return cached.(domain.Recommendation)
	}

	rec, ok := s.table[key]
	if !ok {
		rec = s.defaultEntry
		metrics.ObservePrediction("default")
	} else {
		metrics.ObservePrediction("hit")
	}
	s.cache.Set(key, rec, s.cacheTTL)

	s.logger.Debug("prediction resolved",
		slog.String("key", key),
		slog.String("crop", rec.Crop),
		slog.Int("confidence", rec.Confidence),
	)
	return rec
}
