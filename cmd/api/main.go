package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/PratikDhanave/invite-tracker/internal/config"
	"github.com/PratikDhanave/invite-tracker/internal/handlers"
	"github.com/PratikDhanave/invite-tracker/internal/httpserver"
	"github.com/PratikDhanave/invite-tracker/internal/logging"
	"github.com/PratikDhanave/invite-tracker/internal/metrics"
	"github.com/PratikDhanave/invite-tracker/internal/registry"
	"github.com/PratikDhanave/invite-tracker/internal/store"
	"github.com/PratikDhanave/invite-tracker/internal/telegram"
)

// main boots the service: config → logger → DB → bot registry → HTTP server.
func main() {
	// Load runtime config from environment (DB_*, TELEGRAM_*, PORT).
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.NewLogger(logging.Config{
		Component: "invite-tracker",
		Level:     cfg.LogLevel,
		Format:    cfg.LogFormat,
	})
	if err != nil {
		log.Fatalf("create logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, cfg, logger)
	stop()
	if err != nil {
		logger.Error("service stopped", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

// run wires the service and blocks until ctx is cancelled or the listener fails.
func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	// The pool connects lazily; an unreachable DB only degrades /ready.
	db, err := store.NewPostgresStore(ctx, store.PoolConfig{
		ConnString:      cfg.Postgres.ConnString(),
		MaxConns:        cfg.Postgres.MaxConns,
		MinConns:        cfg.Postgres.MinConns,
		MaxConnLifetime: cfg.Postgres.MaxConnLifetime,
		MaxConnIdleTime: cfg.Postgres.MaxConnIdleTime,
	})
	if err != nil {
		return fmt.Errorf("create postgres store: %w", err)
	}
	defer db.Close()

	bootCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	if err := db.Ping(bootCtx); err != nil {
		logger.Warn("database not reachable at startup", zap.Error(err))
	}
	if err := db.EnsureSchema(bootCtx); err != nil {
		logger.Warn("ensure schema", zap.Error(err))
	}

	bots := registry.Load(bootCtx, db, logger)
	for _, bot := range bots.Bots() {
		if err := db.EnsureBotTables(bootCtx, bot); err != nil {
			logger.Error("ensure bot tables", zap.String("bot_prefix", bot.Prefix), zap.Error(err))
		}
	}
	cancel()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	inviter := telegram.NewInviter(telegram.Config{
		Endpoint: cfg.Telegram.APIEndpoint,
		TTL:      cfg.InviteTTL,
		Client:   &http.Client{Timeout: cfg.Telegram.Timeout},
	})

	router := httpserver.NewRouter(cfg, httpserver.Dependencies{
		Store:    db,
		Registry: bots,
		Gatherer: reg,
		Links: handlers.Deps{
			Bots:         bots,
			Identifiers:  db,
			Attributions: db,
			Issuer:       inviter,
			Metrics:      metrics.NewMetrics(reg),
			Logger:       logger,
		},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return serve(ctx, srv, logger, cfg.ShutdownTimeout)
}

// serve runs srv until ctx is done, then shuts it down gracefully.
// A listener failure is returned instead of exiting so callers' defers run.
func serve(ctx context.Context, srv *http.Server, logger *zap.Logger, shutdownTimeout time.Duration) error {
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("listen on %s: %w", srv.Addr, err)
	case <-ctx.Done():
	}
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
