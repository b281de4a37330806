package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yourorg/agrimarket/internal/domain"
	"github.com/yourorg/agrimarket/internal/featureflags"
	"github.com/yourorg/agrimarket/internal/handler"
	"github.com/yourorg/agrimarket/internal/infrastructure/logger"
	"github.com/yourorg/agrimarket/internal/infrastructure/redis"
	"github.com/yourorg/agrimarket/internal/observability/metrics"
	"github.com/yourorg/agrimarket/internal/observability/tracing"
	"github.com/yourorg/agrimarket/internal/reliability/retry"
	"github.com/yourorg/agrimarket/internal/repository"
	"github.com/yourorg/agrimarket/internal/security"
	"github.com/yourorg/agrimarket/internal/security/audit"
	"github.com/yourorg/agrimarket/internal/security/auth"
	"github.com/yourorg/agrimarket/internal/security/middleware"
	"github.com/yourorg/agrimarket/internal/security/ratelimit"
	"github.com/yourorg/agrimarket/internal/seed"
	"github.com/yourorg/agrimarket/internal/service"
	"github.com/yourorg/agrimarket/internal/worker"
	"github.com/yourorg/agrimarket/pkg/config"
	"github.com/yourorg/agrimarket/pkg/database"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize structured logger
	log := logger.NewLogger(cfg.LogLevel)
	log.Info("starting AgriMarket server", slog.String("environment", cfg.Environment))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Initialize tracing (no-op unless an OTLP endpoint is configured)
	shutdownTracing, err := tracing.Init(ctx, log, "agrimarket", cfg.Environment)
	if err != nil {
		log.Warn("tracing disabled", slog.String("error", err.Error()))
		shutdownTracing = func(context.Context) error { return nil }
	}

	// 4. Optional Redis: persists the active session across restarts
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = retry.Do(ctx, retry.DefaultConfig(), log, "redis connect",
			func(ctx context.Context) (*redis.Client, error) {
				return redis.NewClient(cfg.RedisURL)
			})
		if err != nil {
			log.Error("failed to connect to Redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer redisClient.Close()
	} else {
		log.Info("no REDIS_URL configured, sessions are in-memory only")
	}

	// 5. Optional Postgres: durable account storage
	var pool *database.ConnectionPool
	if cfg.DatabaseURL != "" {
		pool, err = database.NewConnectionPool(ctx, cfg.DatabaseURL, log)
		if err != nil {
			log.Error("failed to connect to Postgres", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer pool.Close()
	} else {
		log.Info("no DATABASE_URL configured, accounts are in-memory only")
	}

	// 6. Initialize repositories
	var accountRepo domain.AccountRepository
	if pool != nil {
		accountRepo = repository.NewPostgresAccountRepository(pool.GetDB(), log)
	} else {
		accountRepo = repository.NewMemoryAccountRepository(log)
	}
	cropRepo := repository.NewMemoryCropRepository(log)
	productRepo := repository.NewMemoryProductRepository(log)

	var sessionStore domain.SessionStore
	if redisClient != nil {
		sessionStore = repository.NewRedisSessionStore(redisClient, log)
	} else {
		sessionStore = repository.NewMemorySessionStore()
	}

	// 7. Initialize services
	catalogService := service.NewCatalogService(cropRepo, productRepo, log)
	predictionService := service.NewPredictionService(seed.Recommendations(), seed.DefaultRecommendation(), log)
	authService := service.NewAuthService(accountRepo, sessionStore, log)
	authService.VerifyPasswords = featureflags.Enabled(featureflags.VerifyPasswords)

	if cfg.SeedDemoData {
		loadDemoData(accountRepo, cropRepo, productRepo, log)
	}

	// Restore a persisted session from a previous run
	if _, err := retry.Do(ctx, retry.DefaultConfig(), log, "restore session",
		func(ctx context.Context) (struct{}, error) {
			return struct{}{}, authService.Restore(ctx)
		}); err != nil {
		log.Warn("could not restore persisted session", slog.String("error", err.Error()))
	}

	// 8. Initialize security components
	tokenManager := auth.NewTokenManager(cfg.JWTSecret, "agrimarket")
	authzService := security.NewAuthorizationService(log)
	rateLimiter := ratelimit.NewLimiter(cfg.RateLimitRequests, time.Duration(cfg.RateLimitWindowSecs)*time.Second)
	auditLogger := audit.NewLogger(log)

	// 9. Initialize handlers
	authHandler := handler.NewAuthHandler(authService, tokenManager, log)
	cropsHandler := handler.NewCropsHandler(catalogService, authService, authzService, log)
	productsHandler := handler.NewProductsHandler(catalogService, authService, authzService, log)
	predictHandler := handler.NewPredictHandler(predictionService, log)
	eventsHandler := handler.NewEventsHandler(log, cfg.CORSAllowedOrigins)
	healthHandler := newHealthHandler(redisClient, pool, log)

	// New listings fan out to the websocket feed
	catalogService.SetListener(eventsHandler.Publish)

	// 10. Setup HTTP routes
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/crops", cropsHandler.List)
	mux.HandleFunc("POST /api/crops", cropsHandler.Submit)
	mux.HandleFunc("GET /api/products", productsHandler.List)
	mux.HandleFunc("POST /api/products", productsHandler.Submit)
	mux.Handle("POST /api/predict", predictHandler)
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/auth/logout", authHandler.Logout)
	mux.HandleFunc("GET /api/auth/session", authHandler.Session)
	mux.Handle("GET /ws/listings", eventsHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", healthHandler.Health)
	mux.HandleFunc("GET /readyz", healthHandler.Ready)

	// CORS middleware honoring configured origins
	handlerWithCORS := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if originAllowed(cfg.CORSAllowedOrigins, origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		} else if len(cfg.CORSAllowedOrigins) > 0 {
			w.Header().Set("Access-Control-Allow-Origin", cfg.CORSAllowedOrigins[0])
		}
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		mux.ServeHTTP(w, r)
	})

	// Chain middleware: request ID -> audit -> rate limit -> JWT ->
	// content type -> metrics -> tracing -> CORS -> mux
	rootHandler := withRequestID(
		middleware.AuditMiddleware(auditLogger)(
			middleware.RateLimitMiddleware(rateLimiter, log)(
				middleware.JWTMiddleware(tokenManager, log)(
					middleware.ValidateJSONContentType(log)(
						metrics.HTTPMetricsMiddleware(
							otelhttp.NewHandler(handlerWithCORS, "agrimarket-http"),
						),
					),
				),
			),
		),
		log,
	)

	// 11. Start stats worker in background
	statsWorker := worker.NewStatsWorker(
		cropRepo,
		productRepo,
		log,
		time.Duration(cfg.StatsIntervalSeconds)*time.Second,
	)
	go statsWorker.Start(ctx)

	// 12. Start HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      rootHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info("server starting",
		slog.Int("port", cfg.ServerPort),
		slog.String("auth", "jwt"),
		slog.Int("rate_limit", cfg.RateLimitRequests),
		slog.Int("rate_limit_window_seconds", cfg.RateLimitWindowSecs),
	)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", slog.String("error", err.Error()))
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	log.Info("shutdown signal received")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", slog.String("error", err.Error()))
	}

	cancel() // Stop stats worker
	eventsHandler.Close()
	rateLimiter.Stop()
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Warn("tracing shutdown error", slog.String("error", err.Error()))
	}
	log.Info("server stopped")
}

// newHealthHandler unwraps the optional pool for the readiness probe
func newHealthHandler(redisClient *redis.Client, pool *database.ConnectionPool, log *slog.Logger) *handler.HealthHandler {
	if pool != nil {
		return handler.NewHealthHandler(redisClient, pool.GetDB(), log)
	}
	return handler.NewHealthHandler(redisClient, nil, log)
}

// loadDemoData fills the stores with the demo marketplace so the app is
// browsable on first boot. Failures are logged and skipped: a duplicate
// seed account in Postgres is expected on restart.
func loadDemoData(
	accounts domain.AccountRepository,
	crops domain.CropRepository,
	products domain.ProductRepository,
	log *slog.Logger,
) {
	for _, a := range seed.Accounts() {
		if err := accounts.Create(a); err != nil {
			log.Debug("skipping seed account", slog.String("email", a.Email), slog.String("error", err.Error()))
		}
	}
	for _, c := range seed.Crops() {
		if err := crops.Append(c); err != nil {
			log.Debug("skipping seed crop", slog.String("id", c.ID), slog.String("error", err.Error()))
		}
	}
	for _, p := range seed.Products() {
		if err := products.Append(p); err != nil {
			log.Debug("skipping seed product", slog.String("id", p.ID), slog.String("error", err.Error()))
		}
	}
	log.Info("demo data loaded")
}

type requestIDKey struct{}

// withRequestID attaches a request ID to the context and response headers for traceability
func withRequestID(next http.Handler, log *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := generateRequestID()
		w.Header().Set("X-Request-ID", reqID)

		ctx := context.WithValue(r.Context(), requestIDKey{}, reqID)
		start := time.Now()

		next.ServeHTTP(w, r.WithContext(ctx))

		log.Info("request completed",
			slog.String("request_id", reqID),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Duration("duration_ms", time.Since(start)),
		)
	})
}

func originAllowed(allowed []string, origin string) bool {
	if origin == "" {
		return false
	}
	for _, a := range allowed {
		if a == "*" || a == origin {
			return true
		}
	}
	return false
}

func generateRequestID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err == nil {
		return hex.EncodeToString(buf)
	}
	return fmt.Sprintf("req-%d", time.Now().UnixNano())
}
