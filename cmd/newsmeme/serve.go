package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/newsmeme"
	"github.com/aretw0/newsmeme/internal/config"
	"github.com/aretw0/newsmeme/internal/presentation/tui"
	httpAdapter "github.com/aretw0/newsmeme/pkg/adapters/http"
	"github.com/aretw0/newsmeme/pkg/adapters/memory"
	redisStore "github.com/aretw0/newsmeme/pkg/adapters/redis"
	"github.com/aretw0/newsmeme/pkg/adapters/sqlite"
	"github.com/aretw0/newsmeme/pkg/observability"
	"github.com/aretw0/newsmeme/pkg/ports"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the reference action server",
	Long:  `Serves the newsmeme vote and delete actions over HTTP, backed by an in-memory, Redis or SQLite store. Metrics are exposed on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		if flags.Changed("addr") {
			cfg.Server.Addr, _ = flags.GetString("addr")
		}
		if flags.Changed("store") {
			cfg.Server.Store, _ = flags.GetString("store")
		}
		if flags.Changed("seed") {
			cfg.Server.Seed, _ = flags.GetBool("seed")
		}
		if flags.Changed("moderator") {
			cfg.Server.Moderators, _ = flags.GetStringSlice("moderator")
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		store, closer, err := openStore(cfg.Server)
		if err != nil {
			return err
		}
		defer func() {
			if err := closer.Close(); err != nil {
				logger.Warn("Failed to close store", "error", err)
			}
		}()

		if cfg.Server.Seed {
			if err := newsmeme.Seed(cmd.Context(), store); err != nil {
				return err
			}
			logger.Info("Seeded demo content")
		}

		if tui.IsTerminal(os.Stdout) {
			tui.PrintBanner(os.Stdout)
		}
		return serve(cfg.Server, store, logger)
	},
}

func openStore(cfg config.ServerConfig) (ports.VoteStore, io.Closer, error) {
	switch cfg.Store {
	case config.StoreRedis:
		s := redisStore.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, redisStore.WithPrefix(cfg.Redis.Prefix))
		return s, s, nil
	case config.StoreSQLite:
		s, err := sqlite.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	default:
		return memory.NewStore(), closerFunc(func() error { return nil }), nil
	}
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func serve(cfg config.ServerConfig, store ports.VoteStore, logger *slog.Logger) error {
	metrics := observability.NewMetrics()
	handler := httpAdapter.NewHandler(store,
		httpAdapter.WithServerLogger(logger),
		httpAdapter.WithServerObserver(metrics),
		httpAdapter.WithMetricsHandler(metrics.Handler()),
		httpAdapter.WithModerators(cfg.Moderators...),
	)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)

	go func() {
		logger.Info("Starting newsmeme action server", "addr", srv.Addr, "store", cfg.Store)
		serverErrors <- srv.ListenAndServe()
	}()

	// Channel to listen for interrupt or terminate signals.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	// Blocking main and waiting for shutdown.
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info("Start shutdown", "signal", sig.String())

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		// Asking listener to shut down and shed load.
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Graceful shutdown did not complete", "timeout", shutdownTimeout, "error", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("failed to kill server: %w", err)
			}
		}
		logger.Info("Action server stopped gracefully")
		return nil
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Address to listen on (default :8080)")
	serveCmd.Flags().String("store", "", "Vote store backend: memory, redis or sqlite")
	serveCmd.Flags().Bool("seed", true, "Seed demo posts and comments")
	serveCmd.Flags().StringSlice("moderator", nil, "User allowed to delete any post or comment (repeatable)")
}
