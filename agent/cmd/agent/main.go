package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tabtamer/tabtamer/agent/internal/config"
	"github.com/tabtamer/tabtamer/agent/internal/shipper"
	"github.com/tabtamer/tabtamer/agent/internal/source"
	"github.com/tabtamer/tabtamer/pkg/client"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	logLevel := flag.String("log-level", "info", "log level: debug|info|warn|error")
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "invalid -log-level %q: %v\n", *logLevel, err)
		os.Exit(2)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	slog.Info("tabtamer-agent starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	ac := cfg.Agent
	slog.Info("config loaded",
		"server_endpoint", ac.ServerEndpoint,
		"source", ac.Source.Endpoint,
		"poll_interval", ac.PollInterval,
		"compress", ac.Compression(),
	)

	src, err := source.New(ac.Source)
	if err != nil {
		slog.Error("failed to build source", "err", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Hot-reload is logged only; the source and shipper are built once.
	go func() {
		if err := config.Watch(ctx, *configPath, func(updated *config.Config) {
			slog.Info("config hot-reloaded, restart to apply",
				"server_endpoint", updated.Agent.ServerEndpoint,
				"poll_interval", updated.Agent.PollInterval)
		}); err != nil {
			slog.Error("config watcher stopped", "err", err)
		}
	}()

	api := client.New(ac.ServerEndpoint, client.Options{
		Header:   ac.ServerAuth.EffectiveHeader(),
		Key:      ac.ServerAuth.Key(),
		Compress: ac.Compression(),
	})
	ship := shipper.New(api, ac.BufferSize)
	go ship.Run(ctx)

	poll := func() {
		tabs, err := src.Poll(ctx)
		if err != nil {
			slog.Warn("poll error", "source", ac.Source.Endpoint, "err", err)
			return
		}
		ship.Ship(tabs)
		slog.Debug("queued batch", "tabs", len(tabs), "pending", ship.Pending())
	}

	// Poll once at startup, then every PollInterval.
	poll()
	ticker := time.NewTicker(ac.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			slog.Info("tabtamer-agent shutting down")
			return
		case <-ticker.C:
			poll()
		}
	}
}
