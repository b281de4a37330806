package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/yourorg/agrimarket/internal/domain"
	"github.com/yourorg/agrimarket/internal/observability/metrics"
)

// StatsWorker periodically publishes catalog sizes to the metrics
// registry so dashboards track marketplace growth
type StatsWorker struct {
	crops    domain.CropRepository
	products domain.ProductRepository
	logger   *slog.Logger
	interval time.Duration
}

// NewStatsWorker creates a new stats worker
func NewStatsWorker(
	crops domain.CropRepository,
	products domain.ProductRepository,
	logger *slog.Logger,
	interval time.Duration,
) *StatsWorker {
	if logger == nil {
		logger = slog.Default()
	}

	return &StatsWorker{
		crops:    crops,
		products: products,
		logger:   logger,
		interval: interval,
	}
}

// Start begins the stats worker loop
// This runs continuously in a goroutine until the context is cancelled
func (w *StatsWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("stats worker started", slog.Duration("interval", w.interval))

	// Publish once immediately so gauges are live right after boot
	w.publish()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("stats worker stopped")
			return
		case <-ticker.C:
			w.publish()
		}
	}
}

func (w *StatsWorker) publish() {
	cropCount, err := w.crops.Count()
	if err != nil {
		w.logger.Error("failed to count crops", slog.String("error", err.Error()))
	} else {
		metrics.SetCatalogSize("crops", cropCount)
	}

	productCount, err := w.products.Count()
	if err != nil {
		w.logger.Error("failed to count products", slog.String("error", err.Error()))
	} else {
		metrics.SetCatalogSize("products", productCount)
	}

	w.logger.Debug("published catalog stats",
		slog.Int("crops", cropCount),
		slog.Int("products", productCount),
	)
}
