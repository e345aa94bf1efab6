package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/julienschmidt/httprouter"
	"wayfinder.app/internal/appconf"
	"wayfinder.app/internal/logging"
	"wayfinder.app/internal/restapi"
	"wayfinder.app/internal/webui"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := loadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
		os.Exit(1)
	}

	cfg, sim, err := parseConfig(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(2)
	}

	logger := logging.NewStructuredLogger(os.Stdout, logging.ParseLevel(cfg.LogLevel))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, cleanup, err := build(ctx, cfg, logger)
	if err != nil {
		logging.LogError(logger, "failed to initialize application", err)
		os.Exit(1)
	}
	defer cleanup()
	defer func() {
		if err := application.Close(); err != nil {
			logging.LogError(logger, "failed to close application", err)
		}
	}()

	var extraRoutes []func(*httprouter.Router)
	if cfg.Env != appconf.Production {
		extraRoutes = append(extraRoutes, webui.New(application).SetWebUIRoutes)
	}

	api := restapi.NewRestAPI(application)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      api.Handler(extraRoutes...),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 20 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	if sim.enabled() {
		go func() {
			err := runSimulation(ctx, application, sim, logger)
			if err != nil && !errors.Is(err, context.Canceled) {
				logging.LogError(logger, "simulation failed", err)
			}
		}()
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", srv.Addr, "env", cfg.Env.String())
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			logging.LogError(logger, "server stopped", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logging.LogError(logger, "graceful shutdown failed", err)
		}
	}
}
