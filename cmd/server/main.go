// Command server runs the finsight HTTP API: natural-language financial
// questions answered from the configured source tables.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"finsight/internal/config"
	"finsight/internal/infrastructure"
	"finsight/internal/services"
	transport "finsight/internal/transport/http"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}

	telemetry, err := infrastructure.InitializeTelemetry()
	if err != nil {
		return fmt.Errorf("initialize telemetry: %w", err)
	}
	defer telemetry.Shutdown(context.Background())

	httpMetrics, err := infrastructure.NewHTTPMetrics(telemetry.Meter)
	if err != nil {
		return fmt.Errorf("create http metrics: %w", err)
	}

	dataService := services.NewDataService(cfg.Data, logger)
	metricService := services.NewMetricService(dataService, logger)
	queryService := services.NewQueryService(metricService, logger)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(transport.Instrument(httpMetrics))
	r.Use(transport.RequestLogger(logger))
	r.Use(transport.RateLimit(cfg.RateLimit))

	r.Mount("/api", transport.NewQueryHandler(queryService, metricService, logger).Routes())
	r.Mount("/health", transport.NewHealthHandler().Routes())
	r.Handle("/metrics", telemetry.PrometheusHTTP)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP server", slog.Int("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("shutting down", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(ctx)
}
