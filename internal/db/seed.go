package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// SeedAdminID is the id of the bootstrap admin; the demo orders belong to it.
const SeedAdminID = "admin-001"

type seedOrder struct {
	ID       string
	Client   string
	Products ProductIDs
	Total    int64
	Status   string
}

var seedMenu = []MenuItemParams{
	{ID: "m1", Name: "Latte de Vainilla", Category: "Bebidas", Price: decimal.NewFromInt(65), Available: true},
	{ID: "m2", Name: "Cappuccino Clásico", Category: "Bebidas", Price: decimal.NewFromInt(58), Available: true},
	{ID: "m3", Name: "Matcha Latte", Category: "Bebidas", Price: decimal.NewFromInt(72), Available: true},
	{ID: "m4", Name: "Tostada de Aguacate", Category: "Alimentos", Price: decimal.NewFromInt(85), Available: true},
	{ID: "m5", Name: "Bowl de Granola", Category: "Alimentos", Price: decimal.NewFromInt(78), Available: false},
	{ID: "m6", Name: "Croissant de Mantequilla", Category: "Alimentos", Price: decimal.NewFromInt(45), Available: true},
	{ID: "m7", Name: "Cheesecake de Frutos Rojos", Category: "Postres", Price: decimal.NewFromInt(92), Available: true},
	{ID: "m8", Name: "Brownie de Chocolate", Category: "Postres", Price: decimal.NewFromInt(55), Available: true},
}

var seedOrders = []seedOrder{
	{ID: "PED-001", Client: "Ana Martínez", Products: ProductIDs{"m1", "m4"}, Total: 150, Status: "Entregado"},
	{ID: "PED-002", Client: "Carlos Ruiz", Products: ProductIDs{"m2", "m7"}, Total: 150, Status: "Preparando"},
	{ID: "PED-003", Client: "Sofía López", Products: ProductIDs{"m3", "m8"}, Total: 127, Status: "Pendiente"},
}

var seedInventory = []InventoryParams{
	{ID: "i1", Name: "Café Molido", Quantity: decimal.RequireFromString("4.5"), Unit: "kg", MaxCapacity: decimal.NewFromInt(10)},
	{ID: "i2", Name: "Leche Entera", Quantity: decimal.NewFromInt(8), Unit: "L", MaxCapacity: decimal.NewFromInt(20)},
	{ID: "i3", Name: "Leche de Avena", Quantity: decimal.RequireFromString("1.2"), Unit: "L", MaxCapacity: decimal.NewFromInt(15)},
	{ID: "i4", Name: "Azúcar", Quantity: decimal.RequireFromString("0.4"), Unit: "kg", MaxCapacity: decimal.NewFromInt(5)},
	{ID: "i5", Name: "Harina", Quantity: decimal.NewFromInt(3), Unit: "kg", MaxCapacity: decimal.NewFromInt(10)},
	{ID: "i6", Name: "Mantequilla", Quantity: decimal.RequireFromString("0.2"), Unit: "kg", MaxCapacity: decimal.NewFromInt(3)},
	{ID: "i7", Name: "Polvo de Matcha", Quantity: decimal.NewFromInt(80), Unit: "g", MaxCapacity: decimal.NewFromInt(500)},
	{ID: "i8", Name: "Vainilla Líquida", Quantity: decimal.NewFromInt(30), Unit: "mL", MaxCapacity: decimal.NewFromInt(500)},
}

// SeedDemo fills the menu, orders and inventory tables, each one only if it
// is empty and each in its own transaction so a table is never half seeded.
// Returns the names of the tables it filled.
func SeedDemo(ctx context.Context, db *sqlx.DB) ([]string, error) {
	var seeded []string

	steps := []struct {
		table string
		fill  func(tx *sqlx.Tx) error
	}{
		{"menu", func(tx *sqlx.Tx) error {
			for _, m := range seedMenu {
				if _, err := tx.ExecContext(ctx, `
					INSERT INTO menu(id, name, category, price, image, available)
					VALUES(?,?,?,?,?,?)`,
					m.ID, m.Name, m.Category, m.Price, m.Image, m.Available); err != nil {
					return err
				}
			}
			return nil
		}},
		{"orders", func(tx *sqlx.Tx) error {
			for _, o := range seedOrders {
				if _, err := tx.ExecContext(ctx, `
					INSERT INTO orders(id, client, user_id, products, total, status)
					VALUES(?,?,?,?,?,?)`,
					o.ID, o.Client, SeedAdminID, o.Products, o.Total, o.Status); err != nil {
					return err
				}
			}
			return nil
		}},
		{"inventory", func(tx *sqlx.Tx) error {
			for _, it := range seedInventory {
				if _, err := tx.ExecContext(ctx, `
					INSERT INTO inventory(id, name, quantity, unit, max_capacity)
					VALUES(?,?,?,?,?)`,
					it.ID, it.Name, it.Quantity, it.Unit, it.MaxCapacity); err != nil {
					return err
				}
			}
			return nil
		}},
	}

	for _, st := range steps {
		ok, err := seedTable(ctx, db, st.table, st.fill)
		if err != nil {
			return seeded, fmt.Errorf("seed %s: %w", st.table, err)
		}
		if ok {
			seeded = append(seeded, st.table)
		}
	}
	return seeded, nil
}

func seedTable(ctx context.Context, db *sqlx.DB, table string, fill func(tx *sqlx.Tx) error) (bool, error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	var n int
	if err := tx.GetContext(ctx, &n, `SELECT COUNT(1) FROM `+table); err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	if err := fill(tx); err != nil {
		return false, err
	}
	return true, tx.Commit()
}
