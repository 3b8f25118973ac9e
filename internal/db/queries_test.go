package db

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserDuplicateIsConflict(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	p := CreateUserParams{ID: "u1", Username: "alice", PasswordHash: "h", Role: "user"}
	require.NoError(t, s.Q.CreateUser(ctx, p))

	p.ID = "u2"
	err := s.Q.CreateUser(ctx, p)
	assert.ErrorIs(t, err, ErrConflict)

	u, err := s.Q.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "u1", u.ID)

	missing, err := s.Q.GetUserByUsername(ctx, "nobody")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMenuPricesSkipsUnknownIDs(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.Q.CreateMenuItem(ctx, MenuItemParams{ID: "a", Name: "A", Category: "Bebidas", Price: decimal.RequireFromString("12.5"), Available: true}))
	require.NoError(t, s.Q.CreateMenuItem(ctx, MenuItemParams{ID: "b", Name: "B", Category: "Postres", Price: decimal.NewFromInt(30), Available: true}))

	prices, err := s.Q.MenuPrices(ctx, []string{"a", "b", "a", "ghost"})
	require.NoError(t, err)
	require.Len(t, prices, 2)
	assert.True(t, prices["a"].Equal(decimal.RequireFromString("12.5")))
	assert.True(t, prices["b"].Equal(decimal.NewFromInt(30)))

	// Repeats collapse to one bind variable each, well under SQLite's limit.
	repeated := make([]string, 40001)
	for i := range repeated {
		repeated[i] = "b"
	}
	prices, err = s.Q.MenuPrices(ctx, repeated)
	require.NoError(t, err)
	require.Len(t, prices, 1)

	empty, err := s.Q.MenuPrices(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMenuCategoryCheckConstraint(t *testing.T) {
	s := openTestStore(t)
	err := s.Q.CreateMenuItem(context.Background(), MenuItemParams{ID: "x", Name: "X", Category: "Otros", Price: decimal.NewFromInt(1)})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrConflict)
}

func TestTableColumnsAndCounts(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	cols, err := s.Q.TableColumns(ctx, "orders")
	require.NoError(t, err)
	var names []string
	for _, c := range cols {
		names = append(names, c.Name)
	}
	assert.Contains(t, names, "user_id")
	assert.Contains(t, names, "products")

	none, err := s.Q.TableColumns(ctx, "nope")
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = s.Q.TableColumns(ctx, "orders; DROP TABLE users")
	assert.Error(t, err)

	counts, err := s.Q.DebugCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, "users=0 | menu=0 | orders=0 | inventory=0", counts)
}

func TestMigrateAddsLegacyOwnerColumn(t *testing.T) {
	ctx := context.Background()
	s, err := Open(t.TempDir() + "/legacy.db")
	require.NoError(t, err)
	defer s.Close()

	_, err = s.DB.ExecContext(ctx, `CREATE TABLE orders (
		id TEXT PRIMARY KEY, client TEXT NOT NULL, products TEXT NOT NULL,
		total REAL NOT NULL DEFAULT 0, status TEXT NOT NULL DEFAULT 'Pendiente',
		created_at TEXT DEFAULT (datetime('now')))`)
	require.NoError(t, err)
	_, err = s.DB.ExecContext(ctx, `INSERT INTO orders(id, client, products, total) VALUES('PED-005','Old','["m1"]',65)`)
	require.NoError(t, err)

	require.NoError(t, Migrate(ctx, s.DB))
	// Running twice is a no-op.
	require.NoError(t, Migrate(ctx, s.DB))

	o, err := s.Q.GetOrder(ctx, "PED-005")
	require.NoError(t, err)
	require.NotNil(t, o)
	assert.Nil(t, o.UserID)

	last, err := s.Q.ReconcileOrderCounter(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), last)
}

func TestStorageErrorsAreWrapped(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	s := New(sqlx.NewDb(mockDB, "sqlite3"))
	boom := errors.New("disk I/O error")

	mock.ExpectQuery("SELECT .* FROM menu ORDER BY category, name").WillReturnError(boom)
	_, err = s.Q.ListMenu(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "list menu")

	mock.ExpectExec("DELETE FROM inventory").WithArgs("i1").WillReturnResult(sqlmock.NewResult(0, 0))
	err = s.Q.DeleteInventoryItem(context.Background(), "i1")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}
