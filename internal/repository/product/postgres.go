package product

import (
	"context"
	"errors"
	"io"
	"log"

	"shopapi/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const productColumns = `id::text, COALESCE(supplier_id::text, ''), name, description, price_cents, stock_quantity, status, created_at, updated_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	var supplierID string
	if err := row.Scan(&p.ID, &supplierID, &p.Name, &p.Description, &p.PriceCents, &p.StockQuantity, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.SupplierID = supplierID
	return &p, nil
}

func (r *postgresRepo) Create(ctx context.Context, in CreateProductInput) (*domain.Product, error) {
	const q = `
INSERT INTO products (supplier_id, name, description, price_cents, stock_quantity, status)
VALUES (NULLIF($1, '')::uuid, $2, $3, $4, $5, COALESCE(NULLIF($6, ''), 'active'))
RETURNING ` + productColumns
	p, err := scanProduct(r.pool.QueryRow(ctx, q, in.SupplierID, in.Name, in.Description, in.PriceCents, in.StockQuantity, in.Status))
	if err != nil {
		r.logger.Printf("product repo: create name=%q error=%v", in.Name, err)
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	const q = `
SELECT ` + productColumns + `
FROM products
WHERE id = $1 AND status <> 'deleted'
`
	p, err := scanProduct(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: get id=%s error=%v", id, err)
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) List(ctx context.Context, includeInactive bool) ([]domain.Product, error) {
	q := `
SELECT ` + productColumns + `
FROM products
WHERE status = 'active'
ORDER BY created_at DESC
`
	if includeInactive {
		q = `
SELECT ` + productColumns + `
FROM products
WHERE status <> 'deleted'
ORDER BY created_at DESC
`
	}
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("product repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) Update(ctx context.Context, id string, in UpdateProductInput) (*domain.Product, error) {
	const q = `
UPDATE products
SET name = COALESCE($2, name),
    description = COALESCE($3, description),
    price_cents = COALESCE($4, price_cents),
    status = COALESCE($5, status),
    updated_at = now()
WHERE id = $1 AND status <> 'deleted'
RETURNING ` + productColumns
	p, err := scanProduct(r.pool.QueryRow(ctx, q, id, in.Name, in.Description, in.PriceCents, in.Status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: update id=%s error=%v", id, err)
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) SoftDelete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE products
SET status = 'deleted', updated_at = now()
WHERE id = $1 AND status <> 'deleted'
`, id)
	if err != nil {
		r.logger.Printf("product repo: delete id=%s error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) CheckAvailability(ctx context.Context, id string, quantity int) (bool, error) {
	const q = `
SELECT stock_quantity
FROM products
WHERE id = $1 AND status = 'active'
`
	var stock int
	if err := r.pool.QueryRow(ctx, q, id).Scan(&stock); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, domain.ErrNotFound
		}
		r.logger.Printf("product repo: availability id=%s error=%v", id, err)
		return false, err
	}
	return stock >= quantity, nil
}

// Reserve is the single point where two checkouts contend for the same
// units: the decrement only happens when the guard still holds, so the sum
// of successful reservations can never exceed the starting stock.
func (r *postgresRepo) Reserve(ctx context.Context, id string, quantity int) error {
	const q = `
UPDATE products
SET stock_quantity = stock_quantity - $2, updated_at = now()
WHERE id = $1 AND status = 'active' AND stock_quantity >= $2
`
	cmd, err := r.pool.Exec(ctx, q, id, quantity)
	if err != nil {
		r.logger.Printf("product repo: reserve id=%s qty=%d error=%v", id, quantity, err)
		return err
	}
	if cmd.RowsAffected() > 0 {
		return nil
	}

	// The guard failed: distinguish a missing product from short stock.
	p, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !p.Sellable() {
		return domain.ErrNotFound
	}
	return &domain.StockError{
		ProductID:   p.ID,
		ProductName: p.Name,
		Requested:   quantity,
		Available:   p.StockQuantity,
	}
}

func (r *postgresRepo) AddStock(ctx context.Context, id string, quantity int) (*domain.Product, error) {
	const q = `
UPDATE products
SET stock_quantity = stock_quantity + $2, updated_at = now()
WHERE id = $1 AND status <> 'deleted'
RETURNING ` + productColumns
	p, err := scanProduct(r.pool.QueryRow(ctx, q, id, quantity))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: add stock id=%s qty=%d error=%v", id, quantity, err)
		return nil, err
	}
	return p, nil
}
