package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agrimarket_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "agrimarket_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	listingSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agrimarket_listing_submissions_total",
		Help: "Count of listing submissions by catalog and result",
	}, []string{"catalog", "result"})

	predictions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agrimarket_predictions_total",
		Help: "Count of crop predictions by lookup result (hit or default)",
	}, []string{"result"})

	authOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agrimarket_auth_operations_total",
		Help: "Count of auth operations by action and result",
	}, []string{"action", "result"})

	catalogListings = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "agrimarket_catalog_listings",
		Help: "Current number of listings per catalog",
	}, []string{"catalog"})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveSubmission increments the submission counter for a catalog
func ObserveSubmission(catalog, result string) {
	listingSubmissions.WithLabelValues(catalog, result).Inc()
}

// ObservePrediction increments the prediction counter
func ObservePrediction(result string) {
	predictions.WithLabelValues(result).Inc()
}

// ObserveAuth increments the auth operation counter
func ObserveAuth(action, result string) {
	authOperations.WithLabelValues(action, result).Inc()
}

// SetCatalogSize updates the listing-count gauge for a catalog
func SetCatalogSize(catalog string, count int) {
	catalogListings.WithLabelValues(catalog).Set(float64(count))
}
