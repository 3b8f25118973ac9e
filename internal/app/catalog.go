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

// MenuInput carries a create or a partial update; nil fields are unset.
type MenuInput struct {
	Name      *string          `json:"name"`
	Category  *string          `json:"category"`
	Price     *decimal.Decimal `json:"price"`
	Image     *string          `json:"image"`
	Available *bool            `json:"available"`
}

type menuRecord struct {
	Name     string          `validate:"required"`
	Category string          `validate:"oneof=Bebidas Alimentos Postres"`
	Price    decimal.Decimal `validate:"gte=0"`
}

func requireAdmin(s *session.Session) error {
	if s == nil {
		return AuthError("No autorizado. Inicia sesión primero.")
	}
	if s.Role != RoleAdmin {
		return ForbiddenError("Acceso denegado. Se requiere rol de administrador.")
	}
	return nil
}

func (a *App) ListMenu(ctx context.Context) ([]db.MenuItem, error) {
	items, err := a.store.Q.ListMenu(ctx)
	if err != nil {
		return nil, StorageError("No se pudo leer el menú", err)
	}
	return items, nil
}

func (a *App) GetMenuItem(ctx context.Context, id string) (*db.MenuItem, error) {
	m, err := a.store.Q.GetMenuItem(ctx, id)
	if err != nil {
		return nil, StorageError("No se pudo leer el producto", err)
	}
	if m == nil {
		return nil, NotFoundError("Producto no encontrado")
	}
	return m, nil
}

func (a *App) CreateMenuItem(ctx context.Context, s *session.Session, in MenuInput) (*db.MenuItem, error) {
	if err := requireAdmin(s); err != nil {
		return nil, err
	}
	if in.Name == nil || in.Category == nil || in.Price == nil {
		return nil, ValidationError("Faltan campos requeridos: name, category, price")
	}

	p := db.MenuItemParams{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(*in.Name),
		Category:  *in.Category,
		Price:     *in.Price,
		Available: true,
	}
	if in.Image != nil {
		p.Image = strings.TrimSpace(*in.Image)
	}
	if in.Available != nil {
		p.Available = *in.Available
	}
	if err := check(menuRecord{Name: p.Name, Category: p.Category, Price: p.Price}); err != nil {
		return nil, err
	}

	if err := a.store.Q.CreateMenuItem(ctx, p); err != nil {
		return nil, StorageError("No se pudo crear el producto", err)
	}
	a.log.Info("menu item created", "id", p.ID, "name", p.Name, "by", s.Username)
	return a.GetMenuItem(ctx, p.ID)
}

func (a *App) UpdateMenuItem(ctx context.Context, s *session.Session, id string, in MenuInput) (*db.MenuItem, error) {
	if err := requireAdmin(s); err != nil {
		return nil, err
	}
	cur, err := a.GetMenuItem(ctx, id)
	if err != nil {
		return nil, err
	}

	p := db.MenuItemParams{
		ID:        cur.ID,
		Name:      cur.Name,
		Category:  cur.Category,
		Price:     cur.Price,
		Image:     cur.Image,
		Available: cur.Available,
	}
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Image != nil {
		p.Image = strings.TrimSpace(*in.Image)
	}
	if in.Available != nil {
		p.Available = *in.Available
	}
	if err := check(menuRecord{Name: p.Name, Category: p.Category, Price: p.Price}); err != nil {
		return nil, err
	}

	if err := a.store.Q.UpdateMenuItem(ctx, p); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, NotFoundError("Producto no encontrado")
		}
		return nil, StorageError("No se pudo actualizar el producto", err)
	}
	return a.GetMenuItem(ctx, id)
}

// DeleteMenuItem removes the item and returns the deleted record. Orders that
// reference it keep their stored total.
func (a *App) DeleteMenuItem(ctx context.Context, s *session.Session, id string) (*db.MenuItem, error) {
	if err := requireAdmin(s); err != nil {
		return nil, err
	}
	cur, err := a.GetMenuItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := a.store.Q.DeleteMenuItem(ctx, id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, NotFoundError("Producto no encontrado")
		}
		return nil, StorageError("No se pudo eliminar el producto", err)
	}
	a.log.Info("menu item deleted", "id", id, "by", s.Username)
	return cur, nil
}
