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

	"pc-setup-agent/internal/di"
	"pc-setup-agent/internal/infrastructure/env"
)

func main() {
	envService := env.NewEnvService()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, err := di.NewContainer(ctx, di.LoadConfig(envService))
	if err != nil {
		log.Fatalf("Initialization failed: %v", err)
	}
	defer container.Close()

	addr := envService.GetWithDefault("HTTP_ADDR", ":5000")
	srv := &http.Server{
		Addr:              addr,
		Handler:           container.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		container.Logger.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			container.Logger.Error("HTTP server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	container.Logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		container.Logger.Error("Graceful shutdown failed", "error", err)
	}
}
