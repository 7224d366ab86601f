package supplier

import (
	"context"
	"errors"
	"io"
	"log"

	"shopapi/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const supplierColumns = `id::text, name, contact_email, phone, address, status, created_at, updated_at`

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

func (r *postgresRepo) Create(ctx context.Context, in CreateSupplierInput) (*domain.Supplier, error) {
	const q = `
INSERT INTO suppliers (name, contact_email, phone, address)
VALUES ($1, $2, $3, $4)
RETURNING ` + supplierColumns
	s, err := scanSupplier(r.pool.QueryRow(ctx, q, in.Name, in.ContactEmail, in.Phone, in.Address))
	if err != nil {
		r.logger.Printf("supplier repo: create name=%q error=%v", in.Name, err)
		return nil, err
	}
	return s, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Supplier, error) {
	const q = `
SELECT ` + supplierColumns + `
FROM suppliers
WHERE id = $1 AND status <> 'deleted'
`
	s, err := scanSupplier(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("supplier repo: get id=%s error=%v", id, err)
		return nil, err
	}
	return s, nil
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Supplier, error) {
	const q = `
SELECT ` + supplierColumns + `
FROM suppliers
WHERE status <> 'deleted'
ORDER BY name ASC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("supplier repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Supplier
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) Update(ctx context.Context, id string, in UpdateSupplierInput) (*domain.Supplier, error) {
	const q = `
UPDATE suppliers
SET name = COALESCE($2, name),
    contact_email = COALESCE($3, contact_email),
    phone = COALESCE($4, phone),
    address = COALESCE($5, address),
    updated_at = now()
WHERE id = $1 AND status <> 'deleted'
RETURNING ` + supplierColumns
	s, err := scanSupplier(r.pool.QueryRow(ctx, q, id, in.Name, in.ContactEmail, in.Phone, in.Address))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("supplier repo: update id=%s error=%v", id, err)
		return nil, err
	}
	return s, nil
}

func (r *postgresRepo) SoftDelete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE suppliers
SET status = 'deleted', updated_at = now()
WHERE id = $1 AND status <> 'deleted'
`, id)
	if err != nil {
		r.logger.Printf("supplier repo: delete id=%s error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanSupplier(row pgx.Row) (*domain.Supplier, error) {
	var s domain.Supplier
	if err := row.Scan(&s.ID, &s.Name, &s.ContactEmail, &s.Phone, &s.Address, &s.Status, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}
