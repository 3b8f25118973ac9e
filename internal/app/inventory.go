package app

import (
	"context"
	"errors"
	"strings"

	"goop-cafe-go/internal/db"
	"goop-cafe-go/internal/session"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	LevelCritical = "critical"
	LevelLow      = "low"
	LevelOK       = "ok"
)

var (
	hundred       = decimal.NewFromInt(100)
	criticalBelow = decimal.NewFromInt(10)
	lowBelow      = decimal.NewFromInt(25)
)

// StockLevel classifies quantity against capacity. percent is
// min(100, round(quantity/capacity*100)); ≤10 is critical, ≤25 low.
func StockLevel(quantity, capacity decimal.Decimal) (int64, string) {
	if !capacity.IsPositive() {
		return 0, LevelCritical
	}
	pct := quantity.Div(capacity).Mul(hundred).Round(0)
	if pct.GreaterThan(hundred) {
		pct = hundred
	}
	if pct.IsNegative() {
		pct = decimal.Zero
	}
	switch {
	case pct.LessThanOrEqual(criticalBelow):
		return pct.IntPart(), LevelCritical
	case pct.LessThanOrEqual(lowBelow):
		return pct.IntPart(), LevelLow
	default:
		return pct.IntPart(), LevelOK
	}
}

// Stock is an inventory row plus its derived level.
type Stock struct {
	db.InventoryItem
	Percent int64  `json:"percent"`
	Level   string `json:"level"`
}

func withLevel(it db.InventoryItem) Stock {
	pct, lvl := StockLevel(it.Quantity, it.MaxCapacity)
	return Stock{InventoryItem: it, Percent: pct, Level: lvl}
}

type InventoryInput struct {
	Name        *string          `json:"name"`
	Quantity    *decimal.Decimal `json:"quantity"`
	Unit        *string          `json:"unit"`
	MaxCapacity *decimal.Decimal `json:"max_capacity"`
}

type inventoryRecord struct {
	Name        string          `validate:"required"`
	Unit        string          `validate:"required"`
	Quantity    decimal.Decimal `validate:"gte=0"`
	MaxCapacity decimal.Decimal `validate:"gt=0"`
}

func (a *App) ListInventory(ctx context.Context, s *session.Session) ([]Stock, error) {
	if err := requireAdmin(s); err != nil {
		return nil, err
	}
	items, err := a.store.Q.ListInventory(ctx)
	if err != nil {
		return nil, StorageError("No se pudo leer el inventario", err)
	}
	out := make([]Stock, 0, len(items))
	for _, it := range items {
		out = append(out, withLevel(it))
	}
	return out, nil
}

func (a *App) GetInventoryItem(ctx context.Context, s *session.Session, id string) (*Stock, error) {
	if err := requireAdmin(s); err != nil {
		return nil, err
	}
	return a.inventoryItem(ctx, id)
}

func (a *App) inventoryItem(ctx context.Context, id string) (*Stock, error) {
	it, err := a.store.Q.GetInventoryItem(ctx, id)
	if err != nil {
		return nil, StorageError("No se pudo leer el insumo", err)
	}
	if it == nil {
		return nil, NotFoundError("Insumo no encontrado")
	}
	st := withLevel(*it)
	return &st, nil
}

func (a *App) CreateInventoryItem(ctx context.Context, s *session.Session, in InventoryInput) (*Stock, error) {
	if err := requireAdmin(s); err != nil {
		return nil, err
	}
	if in.Name == nil || in.Unit == nil || in.Quantity == nil || in.MaxCapacity == nil {
		return nil, ValidationError("Faltan campos requeridos")
	}
	p := db.InventoryParams{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(*in.Name),
		Quantity:    *in.Quantity,
		Unit:        strings.TrimSpace(*in.Unit),
		MaxCapacity: *in.MaxCapacity,
	}
	if err := check(inventoryRecord{Name: p.Name, Unit: p.Unit, Quantity: p.Quantity, MaxCapacity: p.MaxCapacity}); err != nil {
		return nil, err
	}
	if err := a.store.Q.CreateInventoryItem(ctx, p); err != nil {
		return nil, StorageError("No se pudo crear el insumo", err)
	}
	a.log.Info("inventory item created", "id", p.ID, "name", p.Name, "by", s.Username)
	return a.inventoryItem(ctx, p.ID)
}

func (a *App) UpdateInventoryItem(ctx context.Context, s *session.Session, id string, in InventoryInput) (*Stock, error) {
	if err := requireAdmin(s); err != nil {
		return nil, err
	}
	cur, err := a.inventoryItem(ctx, id)
	if err != nil {
		return nil, err
	}
	p := db.InventoryParams{
		ID:          cur.ID,
		Name:        cur.Name,
		Quantity:    cur.Quantity,
		Unit:        cur.Unit,
		MaxCapacity: cur.MaxCapacity,
	}
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Quantity != nil {
		p.Quantity = *in.Quantity
	}
	if in.Unit != nil {
		p.Unit = strings.TrimSpace(*in.Unit)
	}
	if in.MaxCapacity != nil {
		p.MaxCapacity = *in.MaxCapacity
	}
	if err := check(inventoryRecord{Name: p.Name, Unit: p.Unit, Quantity: p.Quantity, MaxCapacity: p.MaxCapacity}); err != nil {
		return nil, err
	}
	if err := a.store.Q.UpdateInventoryItem(ctx, p); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, NotFoundError("Insumo no encontrado")
		}
		return nil, StorageError("No se pudo actualizar el insumo", err)
	}
	return a.inventoryItem(ctx, id)
}

func (a *App) DeleteInventoryItem(ctx context.Context, s *session.Session, id string) (*Stock, error) {
	if err := requireAdmin(s); err != nil {
		return nil, err
	}
	cur, err := a.inventoryItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := a.store.Q.DeleteInventoryItem(ctx, id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, NotFoundError("Insumo no encontrado")
		}
		return nil, StorageError("No se pudo eliminar el insumo", err)
	}
	a.log.Info("inventory item deleted", "id", id, "by", s.Username)
	return cur, nil
}
