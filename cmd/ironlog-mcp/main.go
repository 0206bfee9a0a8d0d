// Command ironlog-mcp serves the IronLog MCP tools over stdio so an
// assistant can read recovery state and log sets. It runs in one of two
// modes: local (direct database access via config.yaml) or remote (-url),
// where all data flows through the REST API of a running ironlog server.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/claude/ironlog/internal/config"
	"github.com/claude/ironlog/internal/mcp"
	"github.com/claude/ironlog/internal/recovery"
	"github.com/claude/ironlog/internal/refresh"
	"github.com/claude/ironlog/internal/storage"
	"github.com/claude/ironlog/internal/suggest"
	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file (local mode)")
	remoteURL := flag.String("url", "", "base URL of a running ironlog server (remote mode)")
	apiKey := flag.String("api-key", "", "API key for remote mode (or IRONLOG_AUTH_API_KEY)")
	flag.Parse()

	// stdout carries the MCP protocol; all logging goes to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	_ = godotenv.Load()

	var mcpSrv *server.MCPServer

	if *remoteURL != "" {
		key := *apiKey
		if key == "" {
			key = os.Getenv("IRONLOG_AUTH_API_KEY")
		}
		client := mcp.NewHTTPClient(*remoteURL, key)
		refresher := refresh.New(client, suggest.DefaultThreshold, recovery.DefaultWindows(), "", log)
		mcpSrv = mcp.New(client, refresher, Version, log)
		log.Info("mcp server starting", "mode", "remote", "url", *remoteURL)
	} else {
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Error("failed to load config", "error", err)
			os.Exit(1)
		}

		db, err := storage.New(context.Background(), cfg.Database.DSN())
		if err != nil {
			log.Error("failed to connect database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		windows := recovery.WindowsFromHours(cfg.Training.WindowHours)
		refresher := refresh.New(db, cfg.Training.Threshold, windows, "", log)
		mcpSrv = mcp.New(db, refresher, Version, log)
		log.Info("mcp server starting", "mode", "local")
	}

	if err := server.ServeStdio(mcpSrv); err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
