package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"groundwater-backend/internal/bootstrap"
	"groundwater-backend/internal/shared/config"
	"groundwater-backend/internal/shared/server"
	"groundwater-backend/internal/shared/telemetry"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func run() error {
	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.BuildWithOptions(ctx, cfg, bootstrap.Options{})
	if err != nil {
		return err
	}
	defer app.Close()
	defer telemetry.Sync()

	srv := &http.Server{
		Addr:              server.Addr(cfg.Port),
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		telemetry.Info("server.start", map[string]any{"addr": srv.Addr, "env": cfg.Env})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		telemetry.Info("server.shutdown", map[string]any{"timeout": cfg.ShutdownTimeout.String()})
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
