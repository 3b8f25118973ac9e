package db

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedDemoFillsEmptyTablesOnce(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	seeded, err := SeedDemo(ctx, s.DB)
	require.NoError(t, err)
	assert.Equal(t, []string{"menu", "orders", "inventory"}, seeded)

	menu, err := s.Q.ListMenu(ctx)
	require.NoError(t, err)
	assert.Len(t, menu, len(seedMenu))

	m1, err := s.Q.GetMenuItem(ctx, "m1")
	require.NoError(t, err)
	require.NotNil(t, m1)
	assert.True(t, m1.Price.Equal(decimal.NewFromInt(65)))

	o, err := s.Q.GetOrder(ctx, "PED-002")
	require.NoError(t, err)
	require.NotNil(t, o)
	assert.Equal(t, SeedAdminID, *o.UserID)
	assert.Equal(t, ProductIDs{"m2", "m7"}, o.Products)
	assert.True(t, o.Total.Equal(decimal.NewFromInt(150)))

	inv, err := s.Q.GetInventoryItem(ctx, "i1")
	require.NoError(t, err)
	require.NotNil(t, inv)
	assert.True(t, inv.Quantity.Equal(decimal.RequireFromString("4.5")))

	again, err := SeedDemo(ctx, s.DB)
	require.NoError(t, err)
	assert.Empty(t, again)

	last, err := s.Q.ReconcileOrderCounter(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), last)
}

func TestSeedDemoSkipsNonEmptyTable(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.Q.CreateMenuItem(ctx, MenuItemParams{ID: "own", Name: "Own", Category: "Bebidas", Price: decimal.NewFromInt(10)}))

	seeded, err := SeedDemo(ctx, s.DB)
	require.NoError(t, err)
	assert.Equal(t, []string{"orders", "inventory"}, seeded)

	menu, err := s.Q.ListMenu(ctx)
	require.NoError(t, err)
	require.Len(t, menu, 1)
	assert.Equal(t, "own", menu[0].ID)
}
