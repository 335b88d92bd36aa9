package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/claude/fitstreak/internal/bootstrap"
	"github.com/claude/fitstreak/internal/config"
	"github.com/claude/fitstreak/internal/mcp"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "", "path to config file (local mode)")
	remote := flag.String("remote", "", "FitStreak server URL (e.g. http://fitstreak.tail1234.ts.net); overrides mcp.remote_url")
	userID := flag.String("user", mcp.DefaultUserID, "user to query in local mode")
	flag.Parse()

	// stdout carries the MCP protocol, so logs go to stderr
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var cfg *config.Config
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		if *remote == "" {
			*remote = cfg.MCP.RemoteURL
		}
	}

	var ds mcp.DataSource
	switch {
	case *remote != "":
		log.Info("remote mode", "server", *remote)
		ds = mcp.NewHTTPClient(*remote)

	case cfg != nil:
		ctx := context.Background()
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
		ds = mcp.Local{Service: svc}

	default:
		fmt.Fprintf(os.Stderr, "Usage: fitstreak-mcp (-config config.yaml | -remote URL) [-user login]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	s := mcp.New(ds, Version, log)
	err := server.ServeStdio(s, server.WithStdioContextFunc(func(ctx context.Context) context.Context {
		return mcp.WithUserID(ctx, *userID)
	}))
	if err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
