package db

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrate brings the schema up to date. Database files from earlier
// releases are accepted as-is: the first migration only creates missing
// tables, and an orders table without user_id gets the column added first.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	if err := addLegacyOrderOwner(ctx, db); err != nil {
		return fmt.Errorf("legacy orders.user_id: %w", err)
	}

	src, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return err
	}
	drv, err := sqlite3.WithInstance(db.DB, &sqlite3.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", drv)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func addLegacyOrderOwner(ctx context.Context, db *sqlx.DB) error {
	cols, err := (&Queries{db: db}).TableColumns(ctx, "orders")
	if err != nil {
		return err
	}
	if len(cols) == 0 {
		return nil
	}
	for _, c := range cols {
		if c.Name == "user_id" {
			return nil
		}
	}
	_, err = db.ExecContext(ctx, `ALTER TABLE orders ADD COLUMN user_id TEXT`)
	return err
}
