package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"cacases/internal/config"
	apperrors "cacases/internal/errors"
	"cacases/internal/infrastructure"
	customMiddleware "cacases/internal/middleware"
	"cacases/internal/services"
	"cacases/internal/store"
	transport "cacases/internal/transport/http"
	"cacases/pkg/contracts"
)

const compressLevel = 5

// Application represents the API server container
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Store         *store.Store
	RunService    *services.RunService
	HealthService *services.HealthService
	OTelProviders *infrastructure.OTelProviders
	Logger        *slog.Logger

	errorHandler *apperrors.ErrorHandler
	listener     net.Listener
	ready        chan struct{}
	serveErr     chan error
}

// New opens the snapshot store and builds the router and server. providers
// may be nil, in which case telemetry is disabled.
func New(cfg *config.Config, logger *slog.Logger, providers *infrastructure.OTelProviders) (*Application, error) {
	if cfg == nil {
		return nil, apperrors.NewConfigError("application config is nil", nil)
	}
	if cfg.Store.Path == "" {
		return nil, apperrors.NewConfigError("serve requires a snapshot store path", nil)
	}
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	if providers == nil {
		var err error
		providers, err = infrastructure.InitializeOTel(&infrastructure.OTelConfig{
			ServiceName:    infrastructure.ServiceName,
			ServiceVersion: contracts.Version,
			TraceExporter:  "none",
			MetricExporter: "none",
		}, logger)
		if err != nil {
			return nil, err
		}
	}

	st, err := store.Open(cfg.Store.Path, cfg.Store.Timeout, logger)
	if err != nil {
		return nil, err
	}

	a := &Application{
		Config:        cfg,
		Store:         st,
		RunService:    services.NewRunService(st, logger),
		HealthService: services.NewHealthService(st, logger),
		OTelProviders: providers,
		Logger:        logger.With(slog.String("component", "app")),
		errorHandler:  apperrors.NewErrorHandler(logger, false),
		ready:         make(chan struct{}),
	}

	if err := a.setupRouter(); err != nil {
		st.Close()
		return nil, err
	}
	a.createServer()

	return a, nil
}

// setupRouter builds the middleware chain and mounts the API.
func (a *Application) setupRouter() error {
	r := chi.NewRouter()

	otelMiddleware, err := customMiddleware.NewOTelMiddleware(a.OTelProviders)
	if err != nil {
		return fmt.Errorf("create OpenTelemetry middleware: %w", err)
	}

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(otelMiddleware.Handler)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.errorHandler))
	r.Use(customMiddleware.Timeout(a.Config.Server.WriteTimeout))
	r.Use(customMiddleware.SecurityHeaders)

	if rl := a.Config.Server.RateLimit; rl.Enabled {
		r.Use(customMiddleware.NewRateLimiter(rl.RPS, rl.Burst, a.Logger).Handler)
	}

	r.NotFound(a.errorHandler.NotFound)
	r.MethodNotAllowed(a.errorHandler.MethodNotAllowed)

	health := transport.NewHealthHandler(a.HealthService, a.Logger)
	runs := transport.NewRunHandler(a.RunService, a.Logger, a.errorHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(customMiddleware.Compress(compressLevel))
		r.Mount("/health", health.Routes())
		r.Get("/version", health.Version)
		r.Mount("/", runs.Routes())
	})

	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	a.Router = r
	return nil
}

// createServer creates the HTTP server. otelhttp opens the server span
// outside the router so every middleware sees it.
func (a *Application) createServer() {
	handler := otelhttp.NewHandler(a.Router, "http.server",
		otelhttp.WithFilter(func(r *http.Request) bool { return r.URL.Path != "/metrics" }),
	)

	a.Server = &http.Server{
		Addr:         a.Config.Server.Addr,
		Handler:      handler,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(a.Logger.Handler(), slog.LevelError),
	}
}

// Start binds the listener and serves in the background. Serve failures
// are reported by Done.
func (a *Application) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return apperrors.NewConfigError(fmt.Sprintf("listen on %s", a.Server.Addr), err)
	}
	a.listener = ln
	a.serveErr = make(chan error, 1)
	close(a.ready)

	go func() {
		if err := a.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "server error", slog.String("error", err.Error()))
			a.serveErr <- err
		}
		close(a.serveErr)
	}()

	a.Logger.InfoContext(ctx, "API server started",
		slog.String("version", contracts.Version),
		slog.String("address", ln.Addr().String()),
		slog.String("store", a.Config.Store.Path),
		slog.Bool("rate_limit", a.Config.Server.RateLimit.Enabled))
	return nil
}

// Ready closes once Start has bound the listener.
func (a *Application) Ready() <-chan struct{} {
	return a.ready
}

// Addr returns the bound address once Start has succeeded.
func (a *Application) Addr() string {
	if a.listener == nil {
		return a.Server.Addr
	}
	return a.listener.Addr().String()
}

// Done delivers a serve error, or closes when the server stops.
func (a *Application) Done() <-chan error {
	return a.serveErr
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown: %w", err))
	}
	if err := a.Store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("store close: %w", err))
	}
	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "application shutdown complete")
	return errors.Join(errs...)
}

// Run serves until ctx ends, SIGINT or SIGTERM arrives, or the server
// fails, then shuts down.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Start(ctx); err != nil {
		a.Store.Close()
		return err
	}

	var serveErr error
	select {
	case <-ctx.Done():
		a.Logger.InfoContext(ctx, "shutdown requested")
	case err, ok := <-a.Done():
		if ok {
			serveErr = err
		}
	}

	return errors.Join(serveErr, a.Stop(context.Background()))
}
