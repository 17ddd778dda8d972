package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"policysim/internal/config"
	apperrors "policysim/internal/errors"
	"policysim/internal/infrastructure"
	"policysim/internal/middleware"
	"policysim/internal/services"
	transporthttp "policysim/internal/transport/http"
)

// App wires the simulation server: configuration, logging, metrics,
// services and the HTTP router.
type App struct {
	Config  *config.Config
	Paths   *config.Paths
	Logger  *slog.Logger
	Router  chi.Router
	server  *http.Server
	metrics *infrastructure.MetricsProviders

	simulationService *services.SimulationService
	healthService     *services.HealthService
	errorHandler      *apperrors.ErrorHandler
}

// New builds a fully wired application. Missing model artifacts do not
// fail startup; the simulation service reports them per request instead.
func New(cfg *config.Config) (*App, error) {
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	paths, err := config.GetPaths()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}

	metrics, err := infrastructure.InitializeMetrics(context.Background(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}
	business, err := infrastructure.CreateBusinessMetrics(metrics.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}

	app := &App{
		Config:       cfg,
		Paths:        paths,
		Logger:       logger,
		metrics:      metrics,
		errorHandler: apperrors.NewErrorHandler(logger, false),
	}

	app.simulationService = services.NewSimulationService(paths, logger)
	app.healthService = services.NewHealthService(app.simulationService)
	app.Router = app.setupRouter(business)

	app.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      app.Router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return app, nil
}

func (a *App) setupRouter(business *infrastructure.BusinessMetrics) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.StructuredLogger(a.Logger))
	r.Use(middleware.Recoverer(a.Logger))
	r.Use(middleware.CORS)
	r.Use(middleware.RateLimit(a.Config.Server.RateLimitRPS, a.Config.Server.RateLimitBurst))
	r.Use(chimiddleware.Timeout(30 * time.Second))

	predictHandler := transporthttp.NewPredictHandler(a.simulationService, business, a.Logger)
	healthHandler := transporthttp.NewHealthHandler(a.healthService)

	r.Post("/predict", predictHandler.Predict)
	r.Get("/api/health", healthHandler.Health)
	r.Get("/api/health/ready", healthHandler.Ready)
	r.Method(http.MethodGet, "/metrics", a.metrics.PrometheusHTTP)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		a.errorHandler.HandleError(w, r, apperrors.NotFoundError(r.URL.Path))
	})

	a.mountStatic(r)

	return r
}

// mountStatic serves the simulator front end when the web directory
// exists. The API works without it.
func (a *App) mountStatic(r chi.Router) {
	indexPath := filepath.Join(a.Paths.WebDir, "index.html")
	if _, err := os.Stat(indexPath); err != nil {
		a.Logger.Warn("web directory not found, front end disabled",
			slog.String("path", a.Paths.WebDir))
		return
	}

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.ServeFile(w, req, indexPath)
	})
	r.Handle("/static/*", http.StripPrefix("/static/",
		http.FileServer(http.Dir(a.Paths.WebDir))))
}

// Run starts the server and blocks until the context is cancelled, then
// shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("server listening",
			slog.Int("port", a.Config.Server.Port),
			slog.Bool("models_loaded", a.simulationService.Healthy()))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	a.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	if err := a.metrics.Shutdown(shutdownCtx); err != nil {
		a.Logger.Warn("metrics shutdown failed", slog.String("error", err.Error()))
	}
	infrastructure.CloseLogFile()
	return nil
}
