package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/claude/fitstreak/internal/bootstrap"
	"github.com/claude/fitstreak/internal/config"
	"github.com/claude/fitstreak/internal/importer"
	"github.com/claude/fitstreak/internal/ingest/alpha"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	exportPath := flag.String("path", "", "directory of Alpha Progression CSV exports (required)")
	userID := flag.String("user", "local", "user the sessions are stored under (tailnet login name)")
	dryRun := flag.Bool("dry-run", false, "list files that would be imported without saving sessions")
	force := flag.Bool("force", false, "ignore import state and re-import every file")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *exportPath == "" {
		fmt.Fprintf(os.Stderr, "Usage: fitstreak-import -config config.yaml -path /path/to/exports [-user login] [-dry-run] [-force]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Verify export directory exists
	info, err := os.Stat(*exportPath)
	if err != nil || !info.IsDir() {
		log.Error("export path does not exist or is not a directory", "path", *exportPath)
		os.Exit(1)
	}

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *dryRun {
		log.Info("DRY RUN mode, no sessions will be saved")
	}

	store, closeStore, err := bootstrap.OpenStore(ctx, cfg, "migrations", nil, log)
	if err != nil {
		log.Error("failed to open store", "driver", cfg.Store.Driver, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	svc, err := bootstrap.NewService(cfg, store, log)
	if err != nil {
		log.Error("failed to build service", "error", err)
		os.Exit(1)
	}

	var state *importer.StateDB
	if !*force {
		state, err = importer.OpenStateDB(cfg.Importer.StateDir)
		if err != nil {
			log.Error("failed to open import state", "dir", cfg.Importer.StateDir, "error", err)
			os.Exit(1)
		}
		defer state.Close()
	}

	// Run import
	imp := importer.New(alpha.NewProvider(svc, log), state, log, *userID, *dryRun)
	stats, err := imp.Import(ctx, *exportPath)
	if err != nil {
		log.Error("import failed", "error", err)
		printStats(log, stats)
		os.Exit(1)
	}

	printStats(log, stats)
	log.Info("import complete")
}

func printStats(log *slog.Logger, stats *importer.Stats) {
	log.Info("import stats",
		"files_processed", stats.FilesProcessed,
		"files_skipped", stats.FilesSkipped,
		"files_errored", stats.FilesErrored,
		"sessions_received", stats.SessionsReceived,
		"sessions_saved", stats.SessionsSaved,
		"exercises_saved", stats.ExercisesSaved,
		"sets_received", stats.SetsReceived,
		"warmups_skipped", stats.WarmupsSkipped,
	)
}
