package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

type productSeed struct {
	Name          string
	Description   string
	PriceCents    int64
	StockQuantity int
}

// Apply inserts basic seed data for manual testing. It is idempotent: the
// admin upserts on email and catalog rows are matched by name.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	if err := ensureAdmin(ctx, pool, "admin@example.com", "Admin123"); err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}

	supplierID, err := ensureSupplier(ctx, pool, "Demo Supplies Co", "sales@demosupplies.example")
	if err != nil {
		return fmt.Errorf("ensure supplier: %w", err)
	}

	products := []productSeed{
		{
			Name:          "Demo T-Shirt",
			Description:   "Soft cotton tee for demo purposes",
			PriceCents:    1999,
			StockQuantity: 100,
		},
		{
			Name:          "Demo Mug",
			Description:   "Ceramic mug with demo logo",
			PriceCents:    1299,
			StockQuantity: 50,
		},
		{
			Name:          "Demo Sticker Pack",
			Description:   "Ten assorted vinyl stickers",
			PriceCents:    499,
			StockQuantity: 500,
		},
	}

	for _, p := range products {
		if err := ensureProduct(ctx, pool, supplierID, p); err != nil {
			return fmt.Errorf("ensure product %s: %w", p.Name, err)
		}
	}

	return nil
}

func ensureAdmin(ctx context.Context, pool *pgxpool.Pool, email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO users (email, password_hash, first_name, role)
VALUES ($1, $2, 'Admin', 'admin')
ON CONFLICT (email) DO UPDATE SET role = 'admin'
`
	_, err = pool.Exec(ctx, q, email, string(hash))
	return err
}

func ensureSupplier(ctx context.Context, pool *pgxpool.Pool, name, contactEmail string) (string, error) {
	var id string
	err := pool.QueryRow(ctx, `SELECT id::text FROM suppliers WHERE name = $1 AND status = 'active'`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", err
	}
	err = pool.QueryRow(ctx, `
INSERT INTO suppliers (name, contact_email)
VALUES ($1, $2)
RETURNING id::text
`, name, contactEmail).Scan(&id)
	return id, err
}

func ensureProduct(ctx context.Context, pool *pgxpool.Pool, supplierID string, p productSeed) error {
	var id string
	err := pool.QueryRow(ctx, `SELECT id::text FROM products WHERE name = $1 AND status <> 'deleted'`, p.Name).Scan(&id)
	if err == nil {
		_, err = pool.Exec(ctx, `
UPDATE products
SET description = $2, price_cents = $3, stock_quantity = $4, updated_at = now()
WHERE id = $1
`, id, p.Description, p.PriceCents, p.StockQuantity)
		return err
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	_, err = pool.Exec(ctx, `
INSERT INTO products (supplier_id, name, description, price_cents, stock_quantity)
VALUES ($1, $2, $3, $4, $5)
`, supplierID, p.Name, p.Description, p.PriceCents, p.StockQuantity)
	return err
}
