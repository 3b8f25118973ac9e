package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"goop-cafe-go/internal/config"
	"goop-cafe-go/internal/db"
	"goop-cafe-go/internal/session"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type App struct {
	cfg      *config.Config
	store    *db.Store
	log      *slog.Logger
	sessions session.Store
}

// New opens and migrates the database, makes sure the bootstrap admin
// exists, seeds demo data when configured and reconciles the order counter.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, sessions session.Store) (*App, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	if sessions == nil {
		return nil, errors.New("session store is required")
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir data dir: %w", err)
	}

	store, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.Migrate(ctx, store.DB); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	a := &App{cfg: cfg, store: store, log: logger, sessions: sessions}

	if err := a.bootstrapAdmin(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}

	if cfg.SeedDemoData {
		seeded, err := db.SeedDemo(ctx, store.DB)
		if err != nil {
			a.log.Warn("demo seed failed", "err", err)
		} else if len(seeded) > 0 {
			a.log.Info("demo data seeded", "tables", strings.Join(seeded, ","))
		}
	}

	next, err := store.Q.ReconcileOrderCounter(ctx)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("order counter: %w", err)
	}
	a.log.Debug("order counter ready", "last_seq", next)

	return a, nil
}

func (a *App) bootstrapAdmin(ctx context.Context) error {
	hasAdmin, err := a.store.Q.HasAnyAdmin(ctx)
	if err != nil {
		return err
	}
	if hasAdmin {
		return nil
	}

	name := strings.TrimSpace(a.cfg.AdminUsername)
	pass := a.cfg.AdminPassword
	if name == "" || pass == "" {
		return errors.New("bootstrap admin: ADMIN_USERNAME and ADMIN_PASSWORD are required on first run")
	}
	hash, err := HashPassword(pass)
	if err != nil {
		return err
	}
	if err := a.store.Q.CreateUser(ctx, db.CreateUserParams{
		ID:           db.SeedAdminID,
		Username:     name,
		PasswordHash: hash,
		Role:         RoleAdmin,
	}); err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	a.log.Info("bootstrapped admin user", "username", name)
	return nil
}

func (a *App) Close() error {
	if a == nil {
		return nil
	}
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}

func (a *App) Store() *db.Store        { return a.store }
func (a *App) Config() *config.Config  { return a.cfg }
func (a *App) Logger() *slog.Logger    { return a.log }
func (a *App) Sessions() session.Store { return a.sessions }
