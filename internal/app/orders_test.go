package app

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }

func products(ids ...string) *[]string { return &ids }

func TestCreateOrderPricesAndOwnership(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	alice := register(t, a, "alice")

	o, err := a.CreateOrder(ctx, alice, OrderInput{
		Client:   strp("Alice"),
		Products: products("m1"),
		Status:   strp(StatusDelivered),
	})
	require.NoError(t, err)
	assert.Equal(t, "PED-004", o.ID)
	assert.True(t, o.Total.Equal(decimal.NewFromInt(65)))
	assert.Equal(t, StatusPending, o.Status, "non-admin status is ignored")
	assert.Equal(t, alice.UserID, *o.UserID)

	// Repeated products count once per occurrence.
	o2, err := a.CreateOrder(ctx, alice, OrderInput{Client: strp("Alice"), Products: products("m1", "m1", "m6")})
	require.NoError(t, err)
	assert.Equal(t, "PED-005", o2.ID)
	assert.True(t, o2.Total.Equal(decimal.NewFromInt(175)))

	admin := login(t, a, "admin", "12345")
	o3, err := a.CreateOrder(ctx, admin, OrderInput{Client: strp("Mostrador"), Products: products("m2"), Status: strp(StatusPreparing)})
	require.NoError(t, err)
	assert.Equal(t, StatusPreparing, o3.Status)
}

func TestCreateOrderValidation(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	alice := register(t, a, "alice")

	_, err := a.CreateOrder(ctx, nil, OrderInput{Client: strp("x"), Products: products("m1")})
	assert.Equal(t, KindAuth, KindOf(err))

	_, err = a.CreateOrder(ctx, alice, OrderInput{Products: products("m1")})
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = a.CreateOrder(ctx, alice, OrderInput{Client: strp("x"), Products: products()})
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = a.CreateOrder(ctx, alice, OrderInput{Client: strp("x"), Products: products("ghost")})
	assert.Equal(t, KindValidation, KindOf(err))

	admin := login(t, a, "admin", "12345")
	_, err = a.CreateOrder(ctx, admin, OrderInput{Client: strp("x"), Products: products("m1"), Status: strp("Cancelado")})
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestCreateOrderSkipsUnknownProducts(t *testing.T) {
	a := newTestApp(t)
	alice := register(t, a, "alice")

	o, err := a.CreateOrder(context.Background(), alice, OrderInput{Client: strp("x"), Products: products("m1", "ghost")})
	require.NoError(t, err)
	assert.True(t, o.Total.Equal(decimal.NewFromInt(65)))
	assert.Equal(t, []string{"m1", "ghost"}, []string(o.Products))
}

func TestOrderTotalFrozenAfterPriceChange(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	alice := register(t, a, "alice")
	admin := login(t, a, "admin", "12345")

	o, err := a.CreateOrder(ctx, alice, OrderInput{Client: strp("Alice"), Products: products("m1")})
	require.NoError(t, err)

	price := decimal.NewFromInt(100)
	_, err = a.UpdateMenuItem(ctx, admin, "m1", MenuInput{Price: &price})
	require.NoError(t, err)

	got, err := a.GetOrder(ctx, alice, o.ID)
	require.NoError(t, err)
	assert.True(t, got.Total.Equal(decimal.NewFromInt(65)))

	_, err = a.DeleteMenuItem(ctx, admin, "m1")
	require.NoError(t, err)
	got, err = a.GetOrder(ctx, alice, o.ID)
	require.NoError(t, err)
	assert.True(t, got.Total.Equal(decimal.NewFromInt(65)))
}

func TestOrderVisibility(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	alice := register(t, a, "alice")
	bob := register(t, a, "bob")
	admin := login(t, a, "admin", "12345")

	o, err := a.CreateOrder(ctx, alice, OrderInput{Client: strp("Alice"), Products: products("m1")})
	require.NoError(t, err)

	mine, err := a.ListOrders(ctx, alice, "")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, o.ID, mine[0].ID)

	none, err := a.ListOrders(ctx, bob, "all")
	require.NoError(t, err)
	assert.Empty(t, none)

	all, err := a.ListOrders(ctx, admin, "")
	require.NoError(t, err)
	assert.Len(t, all, 4)

	pending, err := a.ListOrders(ctx, admin, StatusPending)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	_, err = a.ListOrders(ctx, admin, "Cancelado")
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = a.GetOrder(ctx, bob, o.ID)
	assert.Equal(t, KindForbidden, KindOf(err))

	_, err = a.GetOrder(ctx, alice, "PED-001")
	assert.Equal(t, KindForbidden, KindOf(err))

	_, err = a.GetOrder(ctx, admin, o.ID)
	assert.NoError(t, err)

	_, err = a.GetOrder(ctx, admin, "PED-999")
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestUpdateOrderRules(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	alice := register(t, a, "alice")
	bob := register(t, a, "bob")
	admin := login(t, a, "admin", "12345")

	o, err := a.CreateOrder(ctx, alice, OrderInput{Client: strp("Alice"), Products: products("m1")})
	require.NoError(t, err)

	_, err = a.UpdateOrder(ctx, bob, o.ID, OrderInput{
		Client:   strp("Bob"),
		Products: products("m7"),
		Status:   strp(StatusDelivered),
	})
	assert.Equal(t, KindForbidden, KindOf(err))
	assert.Equal(t, "No tienes permiso para editar este pedido", Message(err))

	unchanged, err := a.GetOrder(ctx, alice, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.Client, unchanged.Client)
	assert.Equal(t, o.Products, unchanged.Products)
	assert.True(t, o.Total.Equal(unchanged.Total))
	assert.Equal(t, o.Status, unchanged.Status)

	updated, err := a.UpdateOrder(ctx, alice, o.ID, OrderInput{Products: products("m1", "m8"), Status: strp(StatusDelivered)})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, updated.Status)
	assert.Equal(t, "Alice", updated.Client)
	assert.True(t, updated.Total.Equal(decimal.NewFromInt(120)))

	updated, err = a.UpdateOrder(ctx, admin, o.ID, OrderInput{Status: strp(StatusPreparing)})
	require.NoError(t, err)
	assert.Equal(t, StatusPreparing, updated.Status)

	_, err = a.UpdateOrder(ctx, admin, o.ID, OrderInput{Products: products("ghost")})
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = a.UpdateOrder(ctx, admin, "PED-999", OrderInput{Status: strp(StatusPreparing)})
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestAdvanceOrder(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	alice := register(t, a, "alice")
	admin := login(t, a, "admin", "12345")

	o, err := a.CreateOrder(ctx, alice, OrderInput{Client: strp("Alice"), Products: products("m1")})
	require.NoError(t, err)

	_, err = a.AdvanceOrder(ctx, alice, o.ID)
	assert.Equal(t, KindForbidden, KindOf(err))

	got, err := a.AdvanceOrder(ctx, admin, o.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPreparing, got.Status)

	got, err = a.AdvanceOrder(ctx, admin, o.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusDelivered, got.Status)

	_, err = a.AdvanceOrder(ctx, admin, o.ID)
	assert.Equal(t, KindValidation, KindOf(err))

	next, ok := NextStatus(StatusDelivered)
	assert.False(t, ok)
	assert.Empty(t, next)
}

func TestDeleteOrder(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	alice := register(t, a, "alice")
	admin := login(t, a, "admin", "12345")

	o, err := a.CreateOrder(ctx, alice, OrderInput{Client: strp("Alice"), Products: products("m1")})
	require.NoError(t, err)

	assert.Equal(t, KindForbidden, KindOf(a.DeleteOrder(ctx, alice, o.ID)))
	require.NoError(t, a.DeleteOrder(ctx, admin, o.ID))
	assert.Equal(t, KindNotFound, KindOf(a.DeleteOrder(ctx, admin, o.ID)))

	next, err := a.CreateOrder(ctx, alice, OrderInput{Client: strp("Alice"), Products: products("m1")})
	require.NoError(t, err)
	assert.Equal(t, "PED-005", next.ID)
}

func TestOrderWithRemovedProductsStaysEditable(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	admin := login(t, a, "admin", "12345")

	for _, id := range []string{"m3", "m8"} {
		_, err := a.DeleteMenuItem(ctx, admin, id)
		require.NoError(t, err)
	}

	got, err := a.AdvanceOrder(ctx, admin, "PED-003")
	require.NoError(t, err)
	assert.Equal(t, StatusPreparing, got.Status)
	assert.True(t, got.Total.IsZero())
	assert.Equal(t, []string{"m3", "m8"}, []string(got.Products))

	got, err = a.UpdateOrder(ctx, admin, "PED-003", OrderInput{Status: strp(StatusPending)})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, got.Status)

	got, err = a.UpdateOrder(ctx, admin, "PED-003", OrderInput{Client: strp("Sofía L.")})
	require.NoError(t, err)
	assert.Equal(t, "Sofía L.", got.Client)

	// A newly sent list must still resolve to at least one menu item.
	_, err = a.UpdateOrder(ctx, admin, "PED-003", OrderInput{Products: products("m3")})
	assert.Equal(t, KindValidation, KindOf(err))

	got, err = a.UpdateOrder(ctx, admin, "PED-003", OrderInput{Products: products("m3", "m1")})
	require.NoError(t, err)
	assert.True(t, got.Total.Equal(decimal.NewFromInt(65)))
}

func TestOrderProductListIsCapped(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	alice := register(t, a, "alice")

	many := make([]string, 501)
	for i := range many {
		many[i] = "m1"
	}
	_, err := a.CreateOrder(ctx, alice, OrderInput{Client: strp("Alice"), Products: &many})
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Equal(t, "Demasiados productos en el pedido", Message(err))

	o, err := a.CreateOrder(ctx, alice, OrderInput{Client: strp("Alice"), Products: products("m1")})
	require.NoError(t, err)
	_, err = a.UpdateOrder(ctx, alice, o.ID, OrderInput{Products: &many})
	assert.Equal(t, KindValidation, KindOf(err))

	limit := many[:500]
	o, err = a.CreateOrder(ctx, alice, OrderInput{Client: strp("Alice"), Products: &limit})
	require.NoError(t, err)
	assert.True(t, o.Total.Equal(decimal.NewFromInt(65*500)))
}
