package app

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"goop-cafe-go/internal/config"
	"goop-cafe-go/internal/session"

	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		DataDir:        dir,
		DBPath:         filepath.Join(dir, "goop.db"),
		AdminUsername:  "admin",
		AdminPassword:  "12345",
		SeedDemoData:   true,
		SessionBackend: "memory",
		CORSOrigins:    []string{"*"},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	a, err := New(context.Background(), cfg, logger, session.NewMemoryStore())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func login(t *testing.T, a *App, username, password string) *session.Session {
	t.Helper()
	ctx := context.Background()
	res, err := a.Login(ctx, username, password)
	require.NoError(t, err)
	s, err := a.Authenticate(ctx, res.Token)
	require.NoError(t, err)
	return s
}

func register(t *testing.T, a *App, username string) *session.Session {
	t.Helper()
	ctx := context.Background()
	res, err := a.Register(ctx, username, "secret")
	require.NoError(t, err)
	s, err := a.Authenticate(ctx, res.Token)
	require.NoError(t, err)
	return s
}
