package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bgraves/pagemill/internal/api"
	"github.com/bgraves/pagemill/internal/cms"
	"github.com/bgraves/pagemill/internal/config"
	"github.com/bgraves/pagemill/internal/jobs"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cmsClient := cms.NewClient(cfg.CMSBaseURL, cfg.CMSAPIKey)

	orch := jobs.NewOrchestrator(cfg, log)
	orch.Start(ctx)

	srv := api.NewServer(orch, cmsClient, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		// Drain HTTP first: handlers submit to the pipeline, so the
		// pipeline must outlive them.
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		orch.Stop()
		cmsClient.Close()
	}()

	log.Info("starting pagemill", "port", cfg.Port, "policy", cfg.DefaultPolicy)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
