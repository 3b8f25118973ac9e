package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"goop-cafe-go/internal/app"
	"goop-cafe-go/internal/config"
	"goop-cafe-go/internal/db"
	"goop-cafe-go/internal/handlers"
	"goop-cafe-go/internal/metrics"
	"goop-cafe-go/internal/session"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func main() {
	// Prices and totals go out as JSON numbers (65, not "65").
	decimal.MarshalJSONWithoutQuotes = true

	root := &cobra.Command{
		Use:   "goopcafe",
		Short: "Goop café ordering and admin backend",
		// Running the bare binary starts the server.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
		SilenceUsage: true,
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runServe(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply schema migrations and exit",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runMigrate(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "schema [table]",
			Short: "Print the columns of a table (default: orders)",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				table := "orders"
				if len(args) == 1 {
					table = args[0]
				}
				return runSchema(cmd.Context(), table)
			},
		},
		&cobra.Command{
			Use:   "verify-admin",
			Short: "Check that the configured admin credentials can log in",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runVerifyAdmin(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "hash-password <password>",
			Short: "Print an argon2id hash for a password",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				hash, err := app.HashPassword(args[0])
				if err != nil {
					return err
				}
				fmt.Println(hash)
				return nil
			},
		},
	)

	if err := root.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
}

func newSessionStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (session.Store, func(), error) {
	switch cfg.SessionBackend {
	case "memory":
		store := session.NewMemoryStore()
		if cfg.MetricsEnabled {
			metrics.WatchSessions(store.Len)
		}
		return store, func() {}, nil
	case "redis":
		rdb, err := session.DialRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("redis: %w", err)
		}
		logger.Info("sessions stored in redis")
		return session.NewRedisStore(rdb), func() { _ = rdb.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown SESSION_BACKEND %q", cfg.SessionBackend)
}

func openApp(ctx context.Context) (*app.App, *slog.Logger, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("config: %w", err)
	}
	logger := newLogger(cfg)

	sessions, closeSessions, err := newSessionStore(ctx, cfg, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	a, err := app.New(ctx, cfg, logger, sessions)
	if err != nil {
		closeSessions()
		return nil, nil, nil, fmt.Errorf("app init: %w", err)
	}
	return a, logger, func() {
		_ = a.Close()
		closeSessions()
	}, nil
}

func runServe(ctx context.Context) error {
	a, logger, closeApp, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer closeApp()

	cfg := a.Config()
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handlers.NewRouter(a),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  90 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Addr, "db", cfg.DBPath, "sessions", cfg.SessionBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-stop:
	case err := <-errc:
		logger.Error("server error", "err", err)
		return err
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	logger.Info("shutdown complete")
	return nil
}

func runMigrate(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return err
	}
	store, err := db.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := db.Migrate(ctx, store.DB); err != nil {
		return err
	}
	fmt.Println("migrations applied:", cfg.DBPath)
	return nil
}

func runSchema(ctx context.Context, table string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	store, err := db.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	cols, err := store.Q.TableColumns(ctx, table)
	if err != nil {
		return err
	}
	if len(cols) == 0 {
		return fmt.Errorf("table %q not found", table)
	}
	fmt.Printf("Columns in %s table:\n", table)
	for _, c := range cols {
		fmt.Printf("- %s (%s)\n", c.Name, c.Type)
	}
	counts, err := store.Q.DebugCounts(ctx)
	if err != nil {
		return err
	}
	fmt.Println(counts)
	return nil
}

func runVerifyAdmin(ctx context.Context) error {
	a, _, closeApp, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer closeApp()

	cfg := a.Config()
	res, err := a.Login(ctx, cfg.AdminUsername, cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("admin login failed: %w", err)
	}
	if res.User.Role != app.RoleAdmin {
		return fmt.Errorf("user %q has role %q, want %q", res.User.Username, res.User.Role, app.RoleAdmin)
	}
	fmt.Printf("admin %q ok (id %s)\n", res.User.Username, res.User.ID)
	return a.Logout(ctx, res.Token)
}
