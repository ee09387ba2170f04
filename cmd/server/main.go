package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/bomdiff/internal/api"
	"github.com/dgallion1/bomdiff/internal/archive"
	"github.com/dgallion1/bomdiff/internal/config"
	"github.com/dgallion1/bomdiff/internal/metrics"
	"github.com/dgallion1/bomdiff/internal/parser"
	"github.com/dgallion1/bomdiff/internal/pipeline"
	"github.com/dgallion1/bomdiff/internal/stats"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	profiles, err := parser.LoadProfilesFile(cfg.ProfilesFile)
	if err != nil {
		log.Error("failed to load profiles", "path", cfg.ProfilesFile, "error", err)
		os.Exit(1)
	}
	if _, err := profiles.Lookup(cfg.DefaultProfile); err != nil {
		log.Error("invalid default profile", "error", err, "available", profiles.Names())
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize clients.
	var arc *archive.Client
	var pipelineArchive pipeline.Archive
	if cfg.ArchiveEnabled() {
		arc = archive.NewClient(cfg.ArchiveURL, cfg.ArchiveAPIKey)
		pipelineArchive = arc
		log.Info("archiving reports", "url", cfg.ArchiveURL)
	}
	st := stats.New(cfg.StatsWindow)
	reg := metrics.NewRegistry()

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, profiles, pipelineArchive, st, reg, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, arc, st, reg, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: stop accepting requests before closing the queue.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		orch.Stop()
		if arc != nil {
			arc.Close()
		}
	}()

	log.Info("starting bomdiff", "port", cfg.Port, "workers", cfg.WorkerCount, "profiles", profiles.Names())
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
