package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"

	"esglens/internal/config"
	"esglens/internal/esg"
	"esglens/internal/infrastructure"
	"esglens/internal/services"
	transport "esglens/internal/transport/http"
)

const (
	Version = "1.0.0"
	AppName = "ESG Lens"
)

// Application wires configuration, services, router and HTTP server together.
type Application struct {
	Config    *config.Config
	Logger    *slog.Logger
	Router    chi.Router
	Server    *http.Server
	Data      *services.DataService
	Analytics *services.AnalyticsService
}

// NewApplication builds the application container: configuration, logger,
// services, router and server, in that order.
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
		slog.String("name", AppName),
		slog.String("version", Version))

	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	app := &Application{
		Config: cfg,
		Logger: logger,
	}

	if err := app.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	if err := app.setupRouter(); err != nil {
		return nil, fmt.Errorf("failed to set up router: %w", err)
	}
	app.createServer()

	return app, nil
}

// initializeServices constructs the data and analytics services and loads
// the dataset. A missing dataset file is not fatal: the server starts and
// the dataset can be loaded later via the reload endpoint.
func (a *Application) initializeServices() error {
	a.Data = services.NewDataService(a.Config, a.Logger)

	thresholds := esg.DefaultThresholds()
	if path := a.Config.ThresholdsPath(); path != "" {
		loaded, err := esg.LoadThresholds(path)
		if err != nil {
			a.Logger.Warn("failed to load risk thresholds, using defaults",
				slog.String("path", path),
				slog.String("error", err.Error()))
		} else {
			thresholds = loaded
		}
	}

	a.Analytics = services.NewAnalyticsService(a.Data, esg.NewAnalyzer(thresholds), a.Logger)

	if err := a.Data.Load(context.Background()); err != nil {
		a.Logger.Warn("dataset not loaded at startup",
			slog.String("path", a.Config.DatasetPath()),
			slog.String("error", err.Error()),
			slog.String("action", "load it via POST /api/dataset/reload"))
	}

	return nil
}

// setupRouter builds the HTTP router from the service container
func (a *Application) setupRouter() error {
	router, err := transport.NewRouter(transport.RouterDeps{
		Config:    a.Config,
		Logger:    a.Logger,
		Data:      a.Data,
		Analytics: a.Analytics,
		Version:   Version,
	})
	if err != nil {
		return err
	}
	a.Router = router
	return nil
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Start begins serving requests. The server runs in a goroutine; a listen
// failure cancels the supplied context so Run can shut down cleanly.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "starting HTTP server",
		slog.Int("port", a.Config.Server.Port),
		slog.String("dataset", a.Config.DatasetPath()))

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	a.Logger.InfoContext(ctx, "application started",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))
	return nil
}

// Stop gracefully shuts down the HTTP server
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	a.Logger.InfoContext(ctx, "application shutdown complete")
	return nil
}

// Run starts the application and blocks until an interrupt signal arrives
// or the server fails, then shuts down gracefully.
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case sig := <-sigChan:
		a.Logger.InfoContext(ctx, "received signal", slog.String("signal", sig.String()))
	case <-ctx.Done():
	}

	return a.Stop(context.Background())
}
