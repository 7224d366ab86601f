package order

import (
	"context"
	"errors"
	"io"
	"log"

	"shopapi/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const orderColumns = `id::text, user_id::text, status, total_cents, item_count, shipping_address, payment_method, notes, created_at, updated_at`

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

func (r *postgresRepo) CreateFromCart(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var orderID string
	err = tx.QueryRow(ctx, `
INSERT INTO orders (user_id, total_cents, item_count, shipping_address, payment_method, notes)
VALUES ($1, $2, $3, $4, COALESCE(NULLIF($5, ''), 'pending'), $6)
RETURNING id::text
`, in.UserID, in.TotalCents, in.ItemCount, in.ShippingAddress, in.PaymentMethod, in.Notes).Scan(&orderID)
	if err != nil {
		r.logger.Printf("order repo: insert header user=%s error=%v", in.UserID, err)
		return nil, err
	}

	for _, line := range in.Lines {
		if _, err := tx.Exec(ctx, `
INSERT INTO order_items (order_id, product_id, product_name, product_description, quantity, unit_price_cents, subtotal_cents)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`, orderID, line.ProductID, line.ProductName, line.ProductDescription, line.Quantity, line.PriceCentsWhenAdded, line.SubtotalCents); err != nil {
			r.logger.Printf("order repo: insert line order=%s product=%s error=%v", orderID, line.ProductID, err)
			return nil, err
		}

		// Authoritative stock check: the snapshot may be stale by now, so
		// each line re-validates through the conditional decrement. A
		// failed guard aborts the transaction and nothing above survives.
		cmd, err := tx.Exec(ctx, `
UPDATE products
SET stock_quantity = stock_quantity - $2, updated_at = now()
WHERE id = $1 AND status = 'active' AND stock_quantity >= $2
`, line.ProductID, line.Quantity)
		if err != nil {
			r.logger.Printf("order repo: reserve order=%s product=%s error=%v", orderID, line.ProductID, err)
			return nil, err
		}
		if cmd.RowsAffected() == 0 {
			var available int
			if err := tx.QueryRow(ctx, `
SELECT stock_quantity FROM products WHERE id = $1 AND status = 'active'
`, line.ProductID).Scan(&available); err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return nil, domain.ErrNotFound
				}
				return nil, err
			}
			return nil, &domain.StockError{
				ProductID:   line.ProductID,
				ProductName: line.ProductName,
				Requested:   line.Quantity,
				Available:   available,
			}
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, in.UserID); err != nil {
		r.logger.Printf("order repo: clear cart user=%s error=%v", in.UserID, err)
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, orderID)
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	var o domain.Order
	err := r.pool.QueryRow(ctx, `
SELECT `+orderColumns+`
FROM orders
WHERE id = $1
`, id).Scan(&o.ID, &o.UserID, &o.Status, &o.TotalCents, &o.ItemCount, &o.ShippingAddress, &o.PaymentMethod, &o.Notes, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("order repo: get id=%s error=%v", id, err)
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
SELECT id::text, order_id::text, product_id::text, product_name, product_description, quantity, unit_price_cents, subtotal_cents
FROM order_items
WHERE order_id = $1
ORDER BY product_name ASC
`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName, &item.ProductDescription, &item.Quantity, &item.UnitPriceCents, &item.SubtotalCents); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+orderColumns+`
FROM orders
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3
`, userID, limit, offset)
	if err != nil {
		r.logger.Printf("order repo: list user=%s error=%v", userID, err)
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

func (r *postgresRepo) List(ctx context.Context, f ListFilter) ([]domain.Order, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `
SELECT COUNT(*) FROM orders WHERE $1::text IS NULL OR status = $1
`, f.Status).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
SELECT `+orderColumns+`
FROM orders
WHERE $1::text IS NULL OR status = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3
`, f.Status, f.Limit, f.Offset)
	if err != nil {
		r.logger.Printf("order repo: list error=%v", err)
		return nil, 0, err
	}
	defer rows.Close()

	orders, err := collectOrders(rows)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id string, expect, target domain.OrderStatus) (*domain.Order, error) {
	var o domain.Order
	err := r.pool.QueryRow(ctx, `
UPDATE orders
SET status = $3, updated_at = now()
WHERE id = $1 AND status = $2
RETURNING `+orderColumns+`
`, id, expect, target).Scan(&o.ID, &o.UserID, &o.Status, &o.TotalCents, &o.ItemCount, &o.ShippingAddress, &o.PaymentMethod, &o.Notes, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("order repo: update status id=%s target=%s error=%v", id, target, err)
		return nil, err
	}
	return &o, nil
}

func (r *postgresRepo) Stats(ctx context.Context) (*domain.OrderStats, error) {
	rows, err := r.pool.Query(ctx, `
SELECT status, COUNT(*), COALESCE(SUM(total_cents), 0)
FROM orders
GROUP BY status
`)
	if err != nil {
		r.logger.Printf("order repo: stats error=%v", err)
		return nil, err
	}
	defer rows.Close()

	stats := &domain.OrderStats{CountByStatus: map[domain.OrderStatus]int{}}
	for rows.Next() {
		var status domain.OrderStatus
		var count int
		var revenue int64
		if err := rows.Scan(&status, &count, &revenue); err != nil {
			return nil, err
		}
		stats.CountByStatus[status] = count
		stats.TotalOrders += count
		if status != domain.OrderStatusCancelled {
			stats.TotalRevenueCents += revenue
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return stats, nil
}

func collectOrders(rows pgx.Rows) ([]domain.Order, error) {
	var result []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Status, &o.TotalCents, &o.ItemCount, &o.ShippingAddress, &o.PaymentMethod, &o.Notes, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
