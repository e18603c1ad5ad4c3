package api

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/adaptivegym/lyingoracle/internal/api/handlers"
	mw "github.com/adaptivegym/lyingoracle/internal/api/middleware"
	"github.com/adaptivegym/lyingoracle/internal/buildconfig"
	"github.com/adaptivegym/lyingoracle/internal/config"
	"github.com/adaptivegym/lyingoracle/internal/domain"
	"github.com/adaptivegym/lyingoracle/internal/service"
	"github.com/adaptivegym/lyingoracle/internal/store"
)

// App holds the router and background services for lifecycle management.
type App struct {
	Router    *chi.Mux
	Retention *service.RolloutRetentionService

	startTime    time.Time
	requestCount atomic.Int64
	errorCount   atomic.Int64
}

// NewApp wires stores, services, and handlers into a router. A nil db pool
// disables rollout persistence and the retention worker; everything else
// works in-memory.
func NewApp(db *pgxpool.Pool, logger *zap.Logger) *App {
	var rolloutStore domain.RolloutStore
	if db != nil {
		rolloutStore = store.NewRolloutStore(db)
	}

	runner := service.NewEpisodeRunner(logger)
	if rolloutStore != nil {
		runner.SetRolloutStore(rolloutStore)
	}
	evalSvc := service.NewEvalService(runner, logger)

	var retention *service.RolloutRetentionService
	if rolloutStore != nil {
		retention = service.NewRolloutRetentionService(rolloutStore, logger)
		retention.SetInterval(config.RolloutRetentionInterval())
		retention.SetMaxAge(time.Duration(config.RolloutRetentionDays()) * 24 * time.Hour)
	}

	episodeHandler := handlers.NewEpisodeHandler(runner)
	datasetHandler := handlers.NewDatasetHandler()
	evalHandler := handlers.NewEvalHandler(evalSvc)
	actionHandler := handlers.NewActionHandler()
	rolloutHandler := handlers.NewRolloutHandler(rolloutStore)

	r := chi.NewRouter()

	app := &App{
		Router:    r,
		Retention: retention,
		startTime: time.Now(),
	}

	// Metrics collector for middleware
	metricsCollector := mw.NewMetricsCollector(&app.requestCount, &app.errorCount)

	// Global middleware (order matters)
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(metricsCollector.Middleware)
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(mw.RateLimit(config.RateLimitRPS(), config.RateLimitBurst()))

	// Health (no auth)
	r.Get("/health", healthHandler(db))

	// Metrics (no auth)
	r.Get("/metrics", app.metricsHandler())

	// Authenticated routes
	r.Route("/v1", func(r chi.Router) {
		r.Use(mw.APIKeyAuth(config.APIKey()))

		r.Post("/episodes/run", episodeHandler.Run)
		r.Post("/datasets/generate", datasetHandler.Generate)
		r.Post("/eval", evalHandler.Evaluate)
		r.Post("/actions/parse", actionHandler.Parse)

		r.Route("/rollouts", func(r chi.Router) {
			r.Get("/", rolloutHandler.List)
			r.Get("/{id}", rolloutHandler.GetByID)
		})
	})

	return app
}

func healthHandler(db *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.Ping(r.Context()); err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusServiceUnavailable)
				_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": err.Error()})
				return
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

func (app *App) metricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(app.startTime)

		response := map[string]any{
			"version":        buildconfig.Version(),
			"commit":         buildconfig.Commit(),
			"uptime_seconds": uptime.Seconds(),
			"uptime_human":   uptime.Round(time.Second).String(),
			"request_count":  app.requestCount.Load(),
			"error_count":    app.errorCount.Load(),
			"goroutines":     runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb":       float64(memStats.Alloc) / 1024 / 1024,
				"total_alloc_mb": float64(memStats.TotalAlloc) / 1024 / 1024,
				"sys_mb":         float64(memStats.Sys) / 1024 / 1024,
				"num_gc":         memStats.NumGC,
			},
			"go_version": runtime.Version(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// Ensure the pgx store satisfies the domain interface at compile time.
var _ domain.RolloutStore = (*store.RolloutStore)(nil)
