// Package app wires the service together: configuration, logging,
// metrics, the analysis pipeline, and the HTTP server with its router.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"creditscan/internal/analysis"
	"creditscan/internal/config"
	"creditscan/internal/exporter"
	"creditscan/internal/infrastructure"
	"creditscan/internal/metrics"
	customMiddleware "creditscan/internal/middleware"
	"creditscan/internal/pdfextract"
	"creditscan/internal/services"
	handlers "creditscan/internal/transport/http"
	ws "creditscan/internal/websocket"
	"creditscan/pkg/contracts"
	"creditscan/pkg/contracts/domain"
)

// Application represents the main application container
type Application struct {
	Config          *config.Config
	Router          *chi.Mux
	Server          *http.Server
	Logger          *slog.Logger
	Metrics         *metrics.Metrics
	WebSocketHub    *ws.Hub
	AnalysisService *services.AnalysisService
	HealthService   *services.HealthService
}

// NewApplication creates a new application instance with dependency
// injection
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("application starting",
		slog.String("version", contracts.Version),
		slog.String("build_time", contracts.BuildTime))

	m := metrics.New()
	hub := ws.NewHub(logger)

	legend := domain.DefaultLegend()
	analyzer, err := analysis.New(analysis.Config{
		Sentinel:       cfg.Layout.Sentinel,
		WindowAbove:    cfg.Layout.WindowAbove,
		WindowBelow:    cfg.Layout.WindowBelow,
		RowGranularity: cfg.Layout.RowGranularity,
	}, legend)
	if err != nil {
		return nil, fmt.Errorf("failed to create analyzer: %w", err)
	}

	analysisService := services.NewAnalysisService(
		pdfextract.New(logger),
		analyzer,
		exporter.NewExcelWriter(logger),
		m,
		hub,
		legend,
		logger,
	)
	healthService := services.NewHealthService(contracts.Version, contracts.BuildTime, logger)

	app := &Application{
		Config:          cfg,
		Logger:          logger,
		Metrics:         m,
		WebSocketHub:    hub,
		AnalysisService: analysisService,
		HealthService:   healthService,
	}
	app.Router = app.setupRouter()
	app.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        app.Router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	return app, nil
}

// setupRouter assembles the chi router with the middleware chain and
// all routes
func (a *Application) setupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.Logger))
	r.Use(customMiddleware.SecurityHeaders)
	r.Use(customMiddleware.Compress(5))
	r.Use(chimiddleware.StripSlashes)

	if a.Config.Security.EnableCORS {
		r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{
			AllowedOrigins: a.Config.Security.AllowedOrigins,
		}))
	}
	if a.Config.Security.RateLimit.Enabled {
		limiter := customMiddleware.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.Logger,
		)
		r.Use(limiter.Handler)
	}

	analyzeHandler := handlers.NewAnalyzeHandler(a.AnalysisService, a.Config.Upload, a.Metrics, a.Logger)
	healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)

	r.Route("/api", func(r chi.Router) {
		r.With(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.Logger)).
			Post("/analyze", analyzeHandler.Analyze)
		r.With(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.Logger)).
			Post("/analyze/export", analyzeHandler.Export)

		r.Get("/health", healthHandler.HealthCheck)
		r.Get("/health/ready", healthHandler.ReadinessCheck)
		r.Get("/health/live", healthHandler.LivenessCheck)
		r.Get("/version", healthHandler.Version)
	})

	r.Get("/metrics", a.Metrics.Handler().ServeHTTP)
	r.Get("/ws", ws.ServeWS(a.WebSocketHub, a.Logger))

	return r
}

// Start starts the background services and the HTTP server
func (a *Application) Start(ctx context.Context) error {
	a.WebSocketHub.Start()

	a.Logger.InfoContext(ctx, "HTTP server listening",
		slog.String("addr", a.Server.Addr))

	if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	a.WebSocketHub.Stop()
	infrastructure.CloseLogFile()

	a.Logger.InfoContext(ctx, "application shutdown complete")
	return nil
}

// Run runs the application until interrupted
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- a.Start(ctx)
	}()

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		a.Logger.InfoContext(ctx, "received signal", slog.String("signal", sig.String()))
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout+5*time.Second)
	defer stopCancel()
	return a.Stop(stopCtx)
}
