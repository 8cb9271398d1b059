package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"github.com/rs/cors"

	"github.com/tabtamer/tabtamer/server/internal/advisor"
	"github.com/tabtamer/tabtamer/server/internal/api"
	"github.com/tabtamer/tabtamer/server/internal/auth"
	"github.com/tabtamer/tabtamer/server/internal/chart"
	"github.com/tabtamer/tabtamer/server/internal/config"
	"github.com/tabtamer/tabtamer/server/internal/ledger"
	"github.com/tabtamer/tabtamer/server/internal/sysmem"
	"github.com/tabtamer/tabtamer/server/internal/ws"
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

	slog.Info("tabtamer-server starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	sc := cfg.Server

	slog.Info("config loaded",
		"http_port", sc.HTTPPort,
		"auth_mode", sc.Auth.Mode,
		"reset_interval", sc.Ledger.ResetInterval,
		"advisor_enabled", sc.Advisor.Enabled,
	)
	if sc.Auth.Mode == "apikey" && sc.Auth.Key() == "" {
		slog.Warn("auth mode is apikey but the key env var is empty; write routes will reject every request",
			"key_env", sc.Auth.KeyEnv)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	lg := ledger.New()
	lg.SetResetInterval(sc.Ledger.ResetInterval)
	go lg.Run(ctx)

	adv := advisor.New(sc.Advisor)

	handler := api.New(lg, api.Options{
		Chart:      chart.New(sc.Chart.Width, sc.Chart.Height),
		Advisor:    adv,
		Memory:     sysmem.New(),
		WriteGuard: auth.APIKey(sc.Auth.Mode, sc.Auth.EffectiveHeader(), sc.Auth.Key()),
	})

	hub := ws.New(lg, sc.Hub.Interval)
	go hub.Run(ctx)

	go func() {
		err := config.Watch(ctx, *configPath, func(next *config.Config) {
			adv.Update(next.Server.Advisor)
			lg.SetResetInterval(next.Server.Ledger.ResetInterval)
			slog.Info("config applied",
				"advisor_enabled", next.Server.Advisor.Enabled,
				"reset_interval", next.Server.Ledger.ResetInterval,
			)
		})
		if err != nil {
			slog.Warn("config watcher disabled", "err", err)
		}
	}()

	// The hub hijacks its connection, so only the API side is compressed.
	mux := http.NewServeMux()
	mux.Handle("/", gzhttp.GzipHandler(handler))
	mux.Handle("/ws/stream", hub)

	c := cors.New(cors.Options{
		AllowedOrigins: sc.CORS.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})

	httpSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", sc.HTTPPort),
		Handler:           c.Handler(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		slog.Info("HTTP server listening", "port", sc.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server stopped", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("tabtamer-server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	httpSrv.Shutdown(shutdownCtx) //nolint:errcheck
}
