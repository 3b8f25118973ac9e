package db

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID           string    `db:"id"`
	Username     string    `db:"username"`
	PasswordHash string    `db:"password"`
	Role         string    `db:"role"`
	CreatedAt    Timestamp `db:"created_at"`
}

type MenuItem struct {
	ID        string          `db:"id" json:"id"`
	Name      string          `db:"name" json:"name"`
	Category  string          `db:"category" json:"category"`
	Price     decimal.Decimal `db:"price" json:"price"`
	Image     string          `db:"image" json:"image"`
	Available bool            `db:"available" json:"available"`
	CreatedAt Timestamp       `db:"created_at" json:"created_at"`
}

type Order struct {
	ID        string          `db:"id" json:"id"`
	Client    string          `db:"client" json:"client"`
	UserID    *string         `db:"user_id" json:"user_id"`
	Products  ProductIDs      `db:"products" json:"products"`
	Total     decimal.Decimal `db:"total" json:"total"`
	Status    string          `db:"status" json:"status"`
	CreatedAt Timestamp       `db:"created_at" json:"created_at"`
}

type InventoryItem struct {
	ID          string          `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	Quantity    decimal.Decimal `db:"quantity" json:"quantity"`
	Unit        string          `db:"unit" json:"unit"`
	MaxCapacity decimal.Decimal `db:"max_capacity" json:"max_capacity"`
	CreatedAt   Timestamp       `db:"created_at" json:"created_at"`
}

type Column struct {
	CID        int     `db:"cid"`
	Name       string  `db:"name"`
	Type       string  `db:"type"`
	NotNull    bool    `db:"notnull"`
	Default    *string `db:"dflt_value"`
	PrimaryKey int     `db:"pk"`
}

// ProductIDs is the ordered menu-id list of an order. It is stored as a JSON
// array in a TEXT column, the layout existing database files use.
type ProductIDs []string

func (p ProductIDs) Value() (driver.Value, error) {
	if p == nil {
		p = ProductIDs{}
	}
	b, err := json.Marshal([]string(p))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (p *ProductIDs) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*p = ProductIDs{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("products: unsupported type %T", src)
	}
	if len(raw) == 0 {
		*p = ProductIDs{}
		return nil
	}
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return fmt.Errorf("products: %w", err)
	}
	if ids == nil {
		ids = []string{}
	}
	*p = ids
	return nil
}

// Timestamp reads SQLite's datetime('now') text ("2006-01-02 15:04:05", UTC).
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999999",
	time.RFC3339Nano,
}

func (t *Timestamp) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		t.Time = time.Time{}
		return nil
	case time.Time:
		t.Time = v.UTC()
		return nil
	case int64:
		t.Time = time.Unix(v, 0).UTC()
		return nil
	case []byte:
		return t.parse(string(v))
	case string:
		return t.parse(v)
	}
	return fmt.Errorf("timestamp: unsupported type %T", src)
}

func (t *Timestamp) parse(s string) error {
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			t.Time = ts
			return nil
		}
	}
	return fmt.Errorf("timestamp: cannot parse %q", s)
}

/* ---------- parameter structs ---------- */

type CreateUserParams struct {
	ID           string
	Username     string
	PasswordHash string
	Role         string
}

type MenuItemParams struct {
	ID        string
	Name      string
	Category  string
	Price     decimal.Decimal
	Image     string
	Available bool
}

type CreateOrderParams struct {
	Client   string
	UserID   *string
	Products ProductIDs
	Total    decimal.Decimal
	Status   string
}

type UpdateOrderParams struct {
	ID       string
	Client   string
	Products ProductIDs
	Total    decimal.Decimal
	Status   string
}

type OrderFilter struct {
	// UserID restricts the listing to one owner when set.
	UserID *string
	// Status restricts the listing to one status when non-empty.
	Status string
}

type InventoryParams struct {
	ID          string
	Name        string
	Quantity    decimal.Decimal
	Unit        string
	MaxCapacity decimal.Decimal
}
