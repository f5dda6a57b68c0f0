package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/onboarding"
	"github.com/aretw0/onboarding/internal/config"
	httpAdapter "github.com/aretw0/onboarding/pkg/adapters/http"
	"github.com/aretw0/onboarding/pkg/observability"
	"github.com/aretw0/onboarding/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ShutdownTimeout bounds how long in-flight requests may run after a stop signal.
const ShutdownTimeout = 5 * time.Second

// NewServeHandler mounts the session API and, when enabled, the Prometheus
// endpoint of reg at cfg.Metrics.Path.
func NewServeHandler(cfg config.Config, engine *onboarding.Engine, sessions *session.Manager, reg *prometheus.Registry, logger *slog.Logger) http.Handler {
	api := httpAdapter.NewHandler(engine, sessions,
		httpAdapter.WithLogger(logger),
		httpAdapter.WithDefaultLocale(cfg.Locale),
	)
	if !cfg.Metrics.Enabled || reg == nil {
		return api
	}

	r := chi.NewRouter()
	r.Handle(cfg.Metrics.Path, promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	r.Mount("/", api)
	return r
}

// Serve runs the HTTP server until ctx is cancelled, then drains in-flight
// requests for at most ShutdownTimeout.
func Serve(ctx context.Context, cfg config.Config, logger *slog.Logger, out io.Writer) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	engine, err := BuildEngine(cfg, logger, metrics.Hooks())
	if err != nil {
		return err
	}

	p, err := OpenPersistence(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = p.Close() }()

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           NewServeHandler(cfg, engine, p.Sessions, reg, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	fmt.Fprintf(out, "Starting onboarding server on %s\n", srv.Addr)
	fmt.Fprintf(out, "Flow: %s, sessions: %s\n", engine.Flow().ID, p.Kind)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		fmt.Fprintln(out, "\nStarting shutdown...")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("graceful shutdown did not complete", "timeout", ShutdownTimeout, "error", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("error killing server: %w", err)
			}
		}
		fmt.Fprintln(out, "Onboarding server stopped gracefully")
		return nil
	}
}
