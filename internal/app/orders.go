package app

import (
	"context"
	"errors"
	"strings"

	"goop-cafe-go/internal/db"
	"goop-cafe-go/internal/metrics"
	"goop-cafe-go/internal/session"

	"github.com/shopspring/decimal"
)

const (
	StatusPending   = "Pendiente"
	StatusPreparing = "Preparando"
	StatusDelivered = "Entregado"
)

// statusFilterAll is the listing filter value meaning "no filter".
const statusFilterAll = "all"

// NextStatus returns the forward step from status; Entregado is terminal.
func NextStatus(status string) (string, bool) {
	switch status {
	case StatusPending:
		return StatusPreparing, true
	case StatusPreparing:
		return StatusDelivered, true
	default:
		return "", false
	}
}

func validStatus(s string) bool {
	return s == StatusPending || s == StatusPreparing || s == StatusDelivered
}

type OrderInput struct {
	Client   *string   `json:"client"`
	Products *[]string `json:"products"`
	Status   *string   `json:"status"`
}

type orderRecord struct {
	Client   string   `validate:"required"`
	Products []string `validate:"min=1,max=500"`
	Status   string   `validate:"oneof=Pendiente Preparando Entregado"`
}

func canSee(s *session.Session, o *db.Order) bool {
	if s.Role == RoleAdmin {
		return true
	}
	return o.UserID != nil && *o.UserID == s.UserID
}

// priceOrder sums the current menu price of every occurrence in products.
// Ids that no longer exist are skipped. When strict is set and none resolve
// the order is rejected; otherwise the total is whatever resolves, possibly 0.
func (a *App) priceOrder(ctx context.Context, products []string, strict bool) (decimal.Decimal, error) {
	prices, err := a.store.Q.MenuPrices(ctx, products)
	if err != nil {
		return decimal.Zero, StorageError("No se pudo calcular el total", err)
	}
	total := decimal.Zero
	var missing []string
	for _, id := range products {
		p, ok := prices[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		total = total.Add(p)
	}
	if strict && len(missing) == len(products) {
		return decimal.Zero, ValidationError("Ninguno de los productos seleccionados existe en el menú")
	}
	if len(missing) > 0 {
		a.log.Warn("order references unknown products", "missing", strings.Join(missing, ","))
	}
	return total, nil
}

func (a *App) ListOrders(ctx context.Context, s *session.Session, status string) ([]db.Order, error) {
	if s == nil {
		return nil, AuthError("No autorizado. Inicia sesión primero.")
	}
	status = strings.TrimSpace(status)
	if status == statusFilterAll {
		status = ""
	}
	if status != "" && !validStatus(status) {
		return nil, ValidationError("Estatus inválido")
	}

	f := db.OrderFilter{Status: status}
	if s.Role != RoleAdmin {
		uid := s.UserID
		f.UserID = &uid
	}
	orders, err := a.store.Q.ListOrders(ctx, f)
	if err != nil {
		return nil, StorageError("No se pudieron leer los pedidos", err)
	}
	return orders, nil
}

func (a *App) GetOrder(ctx context.Context, s *session.Session, id string) (*db.Order, error) {
	if s == nil {
		return nil, AuthError("No autorizado. Inicia sesión primero.")
	}
	o, err := a.store.Q.GetOrder(ctx, id)
	if err != nil {
		return nil, StorageError("No se pudo leer el pedido", err)
	}
	if o == nil {
		return nil, NotFoundError("Pedido no encontrado")
	}
	if !canSee(s, o) {
		return nil, ForbiddenError("No tienes permiso para ver este pedido")
	}
	return o, nil
}

func (a *App) CreateOrder(ctx context.Context, s *session.Session, in OrderInput) (*db.Order, error) {
	if s == nil {
		return nil, AuthError("No autorizado. Inicia sesión primero.")
	}

	rec := orderRecord{Status: StatusPending}
	if in.Client != nil {
		rec.Client = strings.TrimSpace(*in.Client)
	}
	if in.Products != nil {
		rec.Products = *in.Products
	}
	// Only an admin may open an order in another status; anyone else's
	// requested status is ignored.
	if s.Role == RoleAdmin && in.Status != nil {
		rec.Status = *in.Status
	}
	if err := check(rec); err != nil {
		return nil, err
	}

	total, err := a.priceOrder(ctx, rec.Products, true)
	if err != nil {
		return nil, err
	}

	owner := s.UserID
	o, err := a.store.Q.CreateOrder(ctx, db.CreateOrderParams{
		Client:   rec.Client,
		UserID:   &owner,
		Products: db.ProductIDs(rec.Products),
		Total:    total,
		Status:   rec.Status,
	})
	if err != nil {
		if errors.Is(err, db.ErrConflict) {
			return nil, ConflictError("El identificador del pedido ya existe, intenta de nuevo")
		}
		return nil, StorageError("Error al guardar el pedido", err)
	}

	metrics.OrderCreated(s.Role)
	a.log.Info("order created", "id", o.ID, "user_id", owner, "total", o.Total.String(), "status", o.Status)
	return o, nil
}

// UpdateOrder applies a partial update. The total is always recomputed from
// current menu prices. A non-admin caller can edit client and products of
// an order they own but their status field is ignored.
func (a *App) UpdateOrder(ctx context.Context, s *session.Session, id string, in OrderInput) (*db.Order, error) {
	cur, err := a.GetOrder(ctx, s, id)
	if err != nil {
		if KindOf(err) == KindForbidden {
			return nil, ForbiddenError("No tienes permiso para editar este pedido")
		}
		return nil, err
	}

	rec := orderRecord{
		Client:   cur.Client,
		Products: []string(cur.Products),
		Status:   cur.Status,
	}
	if in.Client != nil {
		rec.Client = strings.TrimSpace(*in.Client)
	}
	if in.Products != nil {
		rec.Products = *in.Products
	}
	if s.Role == RoleAdmin && in.Status != nil {
		rec.Status = *in.Status
	}
	if err := check(rec); err != nil {
		return nil, err
	}

	// A stored list whose items were all removed from the menu still allows
	// status and client edits; only a newly sent list must resolve.
	total, err := a.priceOrder(ctx, rec.Products, in.Products != nil)
	if err != nil {
		return nil, err
	}

	if err := a.store.Q.UpdateOrder(ctx, db.UpdateOrderParams{
		ID:       cur.ID,
		Client:   rec.Client,
		Products: db.ProductIDs(rec.Products),
		Total:    total,
		Status:   rec.Status,
	}); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, NotFoundError("Pedido no encontrado")
		}
		return nil, StorageError("No se pudo actualizar el pedido", err)
	}
	if rec.Status != cur.Status {
		a.log.Info("order status changed", "id", cur.ID, "from", cur.Status, "to", rec.Status, "by", s.Username)
	}
	return a.GetOrder(ctx, s, id)
}

// AdvanceOrder moves an order one step forward: Pendiente, then Preparando,
// then Entregado. Unlike UpdateOrder it never jumps or goes backwards.
func (a *App) AdvanceOrder(ctx context.Context, s *session.Session, id string) (*db.Order, error) {
	if err := requireAdmin(s); err != nil {
		return nil, err
	}
	cur, err := a.GetOrder(ctx, s, id)
	if err != nil {
		return nil, err
	}
	next, ok := NextStatus(cur.Status)
	if !ok {
		return nil, ValidationError("El pedido ya fue entregado")
	}
	return a.UpdateOrder(ctx, s, id, OrderInput{Status: &next})
}

func (a *App) DeleteOrder(ctx context.Context, s *session.Session, id string) error {
	if err := requireAdmin(s); err != nil {
		return err
	}
	if _, err := a.GetOrder(ctx, s, id); err != nil {
		return err
	}
	if err := a.store.Q.DeleteOrder(ctx, id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return NotFoundError("Pedido no encontrado")
		}
		return StorageError("No se pudo eliminar el pedido", err)
	}
	a.log.Info("order deleted", "id", id, "by", s.Username)
	return nil
}
