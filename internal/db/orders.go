package db

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/jmoiron/sqlx"
)

const orderColumns = `id, client, user_id, products, total, status, COALESCE(created_at,'') AS created_at`

const orderCounter = "orders"

var orderIDPattern = regexp.MustCompile(`^PED-(\d+)$`)

// FormatOrderID renders seq as PED-NNN; the width grows past 999.
func FormatOrderID(seq int64) string {
	return fmt.Sprintf("PED-%03d", seq)
}

// ParseOrderSeq extracts the numeric suffix of a PED-<digits> id.
func ParseOrderSeq(id string) (int64, bool) {
	m := orderIDPattern.FindStringSubmatch(id)
	if m == nil {
		return 0, false
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// MaxOrderSeq scans ids and returns the largest PED-<digits> suffix,
// ignoring ids that do not match the pattern.
func MaxOrderSeq(ids []string) int64 {
	var max int64
	for _, id := range ids {
		if n, ok := ParseOrderSeq(id); ok && n > max {
			max = n
		}
	}
	return max
}

// ReconcileOrderCounter raises the order counter to at least the largest
// suffix present in the orders table. Rows inserted by older versions (or
// seeded by hand) are therefore never handed out again.
func (q *Queries) ReconcileOrderCounter(ctx context.Context) (int64, error) {
	var ids []string
	if err := q.db.SelectContext(ctx, &ids, `SELECT id FROM orders`); err != nil {
		return 0, wrap("scan order ids", err)
	}
	max := MaxOrderSeq(ids)

	if _, err := q.db.ExecContext(ctx, `
		INSERT INTO counters(name, value) VALUES(?, ?)
		ON CONFLICT(name) DO UPDATE SET value = MAX(value, excluded.value)`,
		orderCounter, max); err != nil {
		return 0, wrap("reconcile order counter", err)
	}

	var cur int64
	if err := q.db.GetContext(ctx, &cur, `SELECT value FROM counters WHERE name=?`, orderCounter); err != nil {
		return 0, wrap("read order counter", err)
	}
	return cur, nil
}

func nextOrderSeq(ctx context.Context, tx *sqlx.Tx) (int64, error) {
	var n int64
	err := tx.QueryRowxContext(ctx, `
		INSERT INTO counters(name, value) VALUES(?, 1)
		ON CONFLICT(name) DO UPDATE SET value = value + 1
		RETURNING value`, orderCounter).Scan(&n)
	return n, err
}

// CreateOrder allocates the next PED id and inserts the order in the same
// transaction, then returns the stored row.
func (q *Queries) CreateOrder(ctx context.Context, p CreateOrderParams) (*Order, error) {
	tx, err := q.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, wrap("create order", err)
	}
	defer func() { _ = tx.Rollback() }()

	seq, err := nextOrderSeq(ctx, tx)
	if err != nil {
		return nil, wrap("allocate order id", err)
	}
	id := FormatOrderID(seq)

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO orders(id, client, user_id, products, total, status)
		VALUES(?,?,?,?,?,?)`,
		id, p.Client, p.UserID, p.Products, p.Total, p.Status); err != nil {
		return nil, wrap("create order", err)
	}

	var o Order
	if err := tx.GetContext(ctx, &o, `SELECT `+orderColumns+` FROM orders WHERE id=?`, id); err != nil {
		return nil, wrap("create order", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, wrap("create order", err)
	}
	return &o, nil
}

func (q *Queries) GetOrder(ctx context.Context, id string) (*Order, error) {
	var o Order
	ok, err := q.getOne(ctx, "get order", &o, `SELECT `+orderColumns+` FROM orders WHERE id=?`, id)
	if !ok {
		return nil, err
	}
	return &o, nil
}

// ListOrders returns orders newest first; rows created in the same second
// keep their insertion order reversed.
func (q *Queries) ListOrders(ctx context.Context, f OrderFilter) ([]Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE 1=1`
	var args []any
	if f.UserID != nil {
		query += ` AND user_id = ?`
		args = append(args, *f.UserID)
	}
	if f.Status != "" {
		query += ` AND status = ?`
		args = append(args, f.Status)
	}
	query += ` ORDER BY created_at DESC, rowid DESC`

	out := []Order{}
	if err := q.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, wrap("list orders", err)
	}
	return out, nil
}

func (q *Queries) UpdateOrder(ctx context.Context, p UpdateOrderParams) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE orders SET client=?, products=?, total=?, status=?
		WHERE id=?`,
		p.Client, p.Products, p.Total, p.Status, p.ID)
	return affected("update order", res, err)
}

func (q *Queries) DeleteOrder(ctx context.Context, id string) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM orders WHERE id=?`, id)
	return affected("delete order", res, err)
}
