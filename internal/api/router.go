package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/Harshitk-cp/litsynth/internal/api/handlers"
	mw "github.com/Harshitk-cp/litsynth/internal/api/middleware"
	"github.com/Harshitk-cp/litsynth/internal/buildconfig"
	"github.com/Harshitk-cp/litsynth/internal/config"
	"github.com/Harshitk-cp/litsynth/internal/domain"
	"github.com/Harshitk-cp/litsynth/internal/embedding"
	"github.com/Harshitk-cp/litsynth/internal/llm"
	"github.com/Harshitk-cp/litsynth/internal/metrics"
	"github.com/Harshitk-cp/litsynth/internal/service"
	"github.com/Harshitk-cp/litsynth/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// App holds the router and background services for lifecycle management.
type App struct {
	Router       *chi.Mux
	Sessions     *service.SessionService
	Expirer      *service.ExpirerService
	Registry     *prometheus.Registry
	startTime    time.Time
	requestCount atomic.Int64
	errorCount   atomic.Int64
}

// NewClients builds the embedding and judge clients from the environment.
// A judge that fails to initialize is logged and left nil, so synthesis
// runs with placeholder names and no contradiction checks. The embedder is
// required.
func NewClients(logger *zap.Logger) (domain.EmbeddingClient, domain.JudgeClient, error) {
	llmProvider := config.LLMProvider()
	judge, err := llm.NewClient(llmProvider, config.LLMAPIKey(), llm.Options{
		BaseURL: config.CompatBaseURL(),
		Model:   config.CompatModel(),
	})
	if err != nil {
		logger.Warn("LLM client initialization failed", zap.String("provider", llmProvider), zap.Error(err))
		judge = nil
	} else {
		logger.Info("LLM client initialized", zap.String("provider", llmProvider))
	}

	embeddingProvider := config.EmbeddingProvider()
	embedder, err := embedding.NewClient(embeddingProvider, config.EmbeddingAPIKey(), embedding.Options{
		Model:      config.EmbeddingModel(),
		BaseURL:    config.EmbeddingBaseURL(),
		Dimensions: config.EmbeddingDimensions(),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("init embedding client: %w", err)
	}
	logger.Info("Embedding client initialized", zap.String("provider", embeddingProvider))

	return embedder, judge, nil
}

// NewApp wires the API. db may be nil, which disables the journal.
func NewApp(db *pgxpool.Pool, logger *zap.Logger) (*App, error) {
	engineCfg, err := config.LoadEngineConfig(config.SynthesisConfigPath())
	if err != nil {
		return nil, err
	}

	embedder, judge, err := NewClients(logger)
	if err != nil {
		return nil, err
	}

	var journal domain.SynthesisJournal = store.NopJournal{}
	var history handlers.UpdateReader
	if db != nil {
		js := store.NewJournalStore(db)
		journal, history = js, js
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	synthMetrics := metrics.NewSynthesis(reg)
	httpRequests := metrics.NewHTTPRequests(reg)

	sessions := service.NewSessionService(engineCfg, embedder, judge, journal, logger, synthMetrics)
	synthesisHandler := handlers.NewSynthesisHandler(sessions, history, logger)

	r := chi.NewRouter()

	app := &App{
		Router:    r,
		Sessions:  sessions,
		Expirer:   service.NewExpirerService(sessions, config.SessionTTL(), logger),
		Registry:  reg,
		startTime: time.Now(),
	}

	metricsCollector := mw.NewMetricsCollector(&app.requestCount, &app.errorCount, httpRequests)

	// Global middleware (order matters)
	r.Use(mw.RequestID)                                                 // Generate/extract request ID first
	r.Use(middleware.RealIP)                                            // Extract real IP
	r.Use(metricsCollector.Middleware)                                  // Collect metrics
	r.Use(mw.Logging(logger))                                           // Log all requests
	r.Use(middleware.Recoverer)                                         // Recover from panics
	r.Use(mw.RateLimit(config.RateLimitRPS(), config.RateLimitBurst())) // Rate limiting

	r.Get("/health", healthHandler(db))
	r.Get("/stats", app.statsHandler())
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	r.Route("/v1", func(r chi.Router) {
		if keys := config.APIKeys(); len(keys) > 0 {
			hashed := make(map[string]string, len(keys))
			for key, name := range keys {
				hashed[mw.HashAPIKey(key)] = name
			}
			r.Use(mw.APIKeyAuth(hashed))
		} else {
			logger.Warn("API_KEYS not set, /v1 is unauthenticated")
		}

		r.Route("/syntheses", func(r chi.Router) {
			r.Post("/", synthesisHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", synthesisHandler.Get)
				r.Delete("/", synthesisHandler.Delete)
				r.Post("/documents", synthesisHandler.ProcessDocument)
				r.Post("/finalize", synthesisHandler.Finalize)
				r.Get("/updates", synthesisHandler.Updates)
			})
		})
	})

	return app, nil
}

func healthHandler(db *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if db == nil {
			w.WriteHeader(http.StatusOK)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok", "journal": "disabled"})
			return
		}

		if err := db.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": err.Error()})
			return
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok", "journal": "postgres"})
	}
}

func (app *App) statsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(app.startTime)

		response := map[string]any{
			"uptime_seconds":  uptime.Seconds(),
			"uptime_human":    uptime.Round(time.Second).String(),
			"request_count":   app.requestCount.Load(),
			"error_count":     app.errorCount.Load(),
			"active_sessions": app.Sessions.Count(),
			"goroutines":      runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb":       float64(memStats.Alloc) / 1024 / 1024,
				"total_alloc_mb": float64(memStats.TotalAlloc) / 1024 / 1024,
				"sys_mb":         float64(memStats.Sys) / 1024 / 1024,
				"num_gc":         memStats.NumGC,
			},
			"go_version": runtime.Version(),
			"build":      buildconfig.VersionInfo(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// Ensure stores and clients satisfy interfaces at compile time.
var (
	_ domain.SynthesisJournal = (*store.JournalStore)(nil)
	_ domain.SynthesisJournal = store.NopJournal{}
	_ handlers.UpdateReader   = (*store.JournalStore)(nil)
	_ domain.EmbeddingClient  = (*embedding.OpenAIClient)(nil)
	_ domain.EmbeddingClient  = (*embedding.MockClient)(nil)
	_ domain.JudgeClient      = (*llm.OpenAIClient)(nil)
	_ domain.JudgeClient      = (*llm.AnthropicClient)(nil)
	_ domain.JudgeClient      = (*llm.GeminiClient)(nil)
	_ domain.JudgeClient      = (*llm.CompatClient)(nil)
	_ domain.JudgeClient      = (*llm.MockClient)(nil)
)
