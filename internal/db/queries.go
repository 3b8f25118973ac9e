package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type Queries struct {
	db *sqlx.DB
}

const (
	userColumns      = `id, username, password, role, COALESCE(created_at,'') AS created_at`
	menuColumns      = `id, name, category, price, COALESCE(image,'') AS image, available, COALESCE(created_at,'') AS created_at`
	inventoryColumns = `id, name, quantity, unit, max_capacity, COALESCE(created_at,'') AS created_at`
)

func (q *Queries) getOne(ctx context.Context, op string, dest any, query string, args ...any) (bool, error) {
	if err := q.db.GetContext(ctx, dest, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, wrap(op, err)
	}
	return true, nil
}

func affected(op string, res sql.Result, err error) error {
	if err != nil {
		return wrap(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrap(op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

/* ---------------- Users ---------------- */

func (q *Queries) HasAnyAdmin(ctx context.Context) (bool, error) {
	var n int
	if err := q.db.GetContext(ctx, &n, `SELECT COUNT(1) FROM users WHERE role='admin'`); err != nil {
		return false, wrap("count admins", err)
	}
	return n > 0, nil
}

func (q *Queries) GetUserByID(ctx context.Context, id string) (*User, error) {
	var u User
	ok, err := q.getOne(ctx, "get user", &u, `SELECT `+userColumns+` FROM users WHERE id=?`, id)
	if !ok {
		return nil, err
	}
	return &u, nil
}

func (q *Queries) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	var u User
	ok, err := q.getOne(ctx, "get user", &u, `SELECT `+userColumns+` FROM users WHERE username=?`, username)
	if !ok {
		return nil, err
	}
	return &u, nil
}

func (q *Queries) CreateUser(ctx context.Context, p CreateUserParams) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO users(id, username, password, role)
		VALUES(?,?,?,?)`,
		p.ID, p.Username, p.PasswordHash, p.Role)
	return wrap("create user", err)
}

func (q *Queries) SetUserPassword(ctx context.Context, id, hash string) error {
	res, err := q.db.ExecContext(ctx, `UPDATE users SET password=? WHERE id=?`, hash, id)
	return affected("set password", res, err)
}

/* ---------------- Menu ---------------- */

func (q *Queries) ListMenu(ctx context.Context) ([]MenuItem, error) {
	out := []MenuItem{}
	if err := q.db.SelectContext(ctx, &out, `SELECT `+menuColumns+` FROM menu ORDER BY category, name`); err != nil {
		return nil, wrap("list menu", err)
	}
	return out, nil
}

func (q *Queries) GetMenuItem(ctx context.Context, id string) (*MenuItem, error) {
	var m MenuItem
	ok, err := q.getOne(ctx, "get menu item", &m, `SELECT `+menuColumns+` FROM menu WHERE id=?`, id)
	if !ok {
		return nil, err
	}
	return &m, nil
}

func (q *Queries) CreateMenuItem(ctx context.Context, p MenuItemParams) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO menu(id, name, category, price, image, available)
		VALUES(?,?,?,?,?,?)`,
		p.ID, p.Name, p.Category, p.Price, p.Image, p.Available)
	return wrap("create menu item", err)
}

func (q *Queries) UpdateMenuItem(ctx context.Context, p MenuItemParams) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE menu SET name=?, category=?, price=?, image=?, available=?
		WHERE id=?`,
		p.Name, p.Category, p.Price, p.Image, p.Available, p.ID)
	return affected("update menu item", res, err)
}

func (q *Queries) DeleteMenuItem(ctx context.Context, id string) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM menu WHERE id=?`, id)
	return affected("delete menu item", res, err)
}

// MenuPrices returns the current price of every id in ids that exists.
// Repeated ids are looked up once.
func (q *Queries) MenuPrices(ctx context.Context, ids []string) (map[string]decimal.Decimal, error) {
	out := map[string]decimal.Decimal{}
	if len(ids) == 0 {
		return out, nil
	}
	seen := make(map[string]struct{}, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	query, args, err := sqlx.In(`SELECT id, price FROM menu WHERE id IN (?)`, unique)
	if err != nil {
		return nil, wrap("menu prices", err)
	}
	var rows []struct {
		ID    string          `db:"id"`
		Price decimal.Decimal `db:"price"`
	}
	if err := q.db.SelectContext(ctx, &rows, q.db.Rebind(query), args...); err != nil {
		return nil, wrap("menu prices", err)
	}
	for _, r := range rows {
		out[r.ID] = r.Price
	}
	return out, nil
}

/* ---------------- Inventory ---------------- */

func (q *Queries) ListInventory(ctx context.Context) ([]InventoryItem, error) {
	out := []InventoryItem{}
	if err := q.db.SelectContext(ctx, &out, `SELECT `+inventoryColumns+` FROM inventory ORDER BY name`); err != nil {
		return nil, wrap("list inventory", err)
	}
	return out, nil
}

func (q *Queries) GetInventoryItem(ctx context.Context, id string) (*InventoryItem, error) {
	var it InventoryItem
	ok, err := q.getOne(ctx, "get inventory item", &it, `SELECT `+inventoryColumns+` FROM inventory WHERE id=?`, id)
	if !ok {
		return nil, err
	}
	return &it, nil
}

func (q *Queries) CreateInventoryItem(ctx context.Context, p InventoryParams) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO inventory(id, name, quantity, unit, max_capacity)
		VALUES(?,?,?,?,?)`,
		p.ID, p.Name, p.Quantity, p.Unit, p.MaxCapacity)
	return wrap("create inventory item", err)
}

func (q *Queries) UpdateInventoryItem(ctx context.Context, p InventoryParams) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE inventory SET name=?, quantity=?, unit=?, max_capacity=?
		WHERE id=?`,
		p.Name, p.Quantity, p.Unit, p.MaxCapacity, p.ID)
	return affected("update inventory item", res, err)
}

func (q *Queries) DeleteInventoryItem(ctx context.Context, id string) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM inventory WHERE id=?`, id)
	return affected("delete inventory item", res, err)
}

/* ---------------- Debug ---------------- */

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// TableColumns lists the columns of table; an unknown table yields none.
func (q *Queries) TableColumns(ctx context.Context, table string) ([]Column, error) {
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("table columns: invalid table name %q", table)
	}
	var cols []Column
	if err := q.db.SelectContext(ctx, &cols, fmt.Sprintf(`PRAGMA table_info(%s)`, table)); err != nil {
		return nil, wrap("table columns", err)
	}
	return cols, nil
}

func (q *Queries) DebugCounts(ctx context.Context) (string, error) {
	var parts []string
	for _, table := range []string{"users", "menu", "orders", "inventory"} {
		var n int
		if err := q.db.GetContext(ctx, &n, `SELECT COUNT(1) FROM `+table); err != nil {
			return "", wrap("count "+table, err)
		}
		parts = append(parts, fmt.Sprintf("%s=%d", table, n))
	}
	return strings.Join(parts, " | "), nil
}
