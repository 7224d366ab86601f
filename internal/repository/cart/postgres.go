package cart

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"shopapi/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

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

// ownerColumn maps the owner discriminant onto the cart_items column it
// lives in. The column name comes from a fixed two-value set, never from
// caller input.
func ownerColumn(owner domain.Owner) (column, value string) {
	if id, ok := owner.UserID(); ok {
		return "user_id", id
	}
	id, _ := owner.SessionID()
	return "session_id", id
}

func (r *postgresRepo) AddLine(ctx context.Context, owner domain.Owner, productID string, quantity int) (*domain.CartItem, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Lock the product row for the duration of the merge-then-check so two
	// concurrent adds for the same product serialize instead of both
	// validating against the same stock reading.
	var priceCents int64
	var stock int
	var name string
	err = tx.QueryRow(ctx, `
SELECT price_cents, stock_quantity, name
FROM products
WHERE id = $1 AND status = 'active'
FOR UPDATE
`, productID).Scan(&priceCents, &stock, &name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	col, val := ownerColumn(owner)
	var lineID string
	var existingQty int
	err = tx.QueryRow(ctx, `
SELECT id::text, quantity
FROM cart_items
WHERE `+col+` = $1 AND product_id = $2
FOR UPDATE
`, val, productID).Scan(&lineID, &existingQty)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	// The merged total must fit within current stock, not just the delta.
	merged := existingQty + quantity
	if merged > stock {
		return nil, &domain.StockError{
			ProductID:   productID,
			ProductName: name,
			Requested:   quantity,
			Available:   stock,
			InCart:      existingQty,
		}
	}

	var item *domain.CartItem
	if lineID != "" {
		item, err = scanLine(tx.QueryRow(ctx, `
UPDATE cart_items
SET quantity = $1, updated_at = now()
WHERE id = $2
RETURNING id::text, product_id::text, quantity, price_cents_when_added, created_at, updated_at
`, merged, lineID))
	} else {
		item, err = scanLine(tx.QueryRow(ctx, `
INSERT INTO cart_items (`+col+`, product_id, quantity, price_cents_when_added)
VALUES ($1, $2, $3, $4)
RETURNING id::text, product_id::text, quantity, price_cents_when_added, created_at, updated_at
`, val, productID, quantity, priceCents))
	}
	if err != nil {
		r.logger.Printf("cart repo: add line owner=%s product=%s error=%v", owner, productID, err)
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	item.Owner = owner
	return item, nil
}

func (r *postgresRepo) Summary(ctx context.Context, owner domain.Owner) (*domain.CartSummary, error) {
	col, val := ownerColumn(owner)
	rows, err := r.pool.Query(ctx, `
SELECT c.product_id::text, p.name, p.description, c.quantity, c.price_cents_when_added, p.price_cents, p.stock_quantity, c.created_at
FROM cart_items c
JOIN products p ON p.id = c.product_id
WHERE c.`+col+` = $1 AND p.status = 'active'
ORDER BY c.created_at ASC
`, val)
	if err != nil {
		r.logger.Printf("cart repo: summary owner=%s error=%v", owner, err)
		return nil, err
	}
	defer rows.Close()

	summary := &domain.CartSummary{Items: []domain.CartSummaryItem{}}
	for rows.Next() {
		var item domain.CartSummaryItem
		if err := rows.Scan(
			&item.ProductID,
			&item.ProductName,
			&item.ProductDescription,
			&item.Quantity,
			&item.PriceCentsWhenAdded,
			&item.CurrentPriceCents,
			&item.StockQuantity,
			&item.AddedAt,
		); err != nil {
			return nil, err
		}
		item.SubtotalCents = item.PriceCentsWhenAdded * int64(item.Quantity)

		summary.Items = append(summary.Items, item)
		summary.ItemCount++
		summary.TotalQuantity += item.Quantity
		summary.SubtotalCents += item.SubtotalCents
		if item.PriceCentsWhenAdded != item.CurrentPriceCents {
			summary.HasPriceChanges = true
		}
		if item.Quantity > item.StockQuantity {
			summary.HasStockIssues = true
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return summary, nil
}

func (r *postgresRepo) UpdateLineQuantity(ctx context.Context, owner domain.Owner, productID string, quantity int) (*domain.CartItem, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Same lock order as AddLine: product row first, then the cart line.
	var stock int
	var name string
	err = tx.QueryRow(ctx, `
SELECT stock_quantity, name
FROM products
WHERE id = $1 AND status = 'active'
FOR UPDATE
`, productID).Scan(&stock, &name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	col, val := ownerColumn(owner)
	var lineID string
	err = tx.QueryRow(ctx, `
SELECT id::text
FROM cart_items
WHERE `+col+` = $1 AND product_id = $2
FOR UPDATE
`, val, productID).Scan(&lineID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	// Unlike AddLine this replaces the quantity, so the check is against
	// the new value alone rather than a merged total.
	if quantity > stock {
		return nil, &domain.StockError{
			ProductID:   productID,
			ProductName: name,
			Requested:   quantity,
			Available:   stock,
		}
	}

	item, err := scanLine(tx.QueryRow(ctx, `
UPDATE cart_items
SET quantity = $1, updated_at = now()
WHERE id = $2
RETURNING id::text, product_id::text, quantity, price_cents_when_added, created_at, updated_at
`, quantity, lineID))
	if err != nil {
		r.logger.Printf("cart repo: update line owner=%s product=%s error=%v", owner, productID, err)
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	item.Owner = owner
	return item, nil
}

func (r *postgresRepo) DeleteLine(ctx context.Context, owner domain.Owner, productID string) error {
	col, val := ownerColumn(owner)
	cmd, err := r.pool.Exec(ctx, `
DELETE FROM cart_items
WHERE `+col+` = $1 AND product_id = $2
`, val, productID)
	if err != nil {
		r.logger.Printf("cart repo: delete line owner=%s product=%s error=%v", owner, productID, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) Clear(ctx context.Context, owner domain.Owner) (int64, error) {
	col, val := ownerColumn(owner)
	cmd, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE `+col+` = $1`, val)
	if err != nil {
		r.logger.Printf("cart repo: clear owner=%s error=%v", owner, err)
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

// MigrateSession folds a session cart into a user cart in one transaction:
// overlapping lines merge quantities into the user's row, the rest are
// rekeyed, and whatever is left under the session is swept. A line is never
// visible under both owners or neither from outside the transaction.
func (r *postgresRepo) MigrateSession(ctx context.Context, sessionID, userID string) (int64, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	mergedCmd, err := tx.Exec(ctx, `
UPDATE cart_items u
SET quantity = u.quantity + s.quantity, updated_at = now()
FROM cart_items s
WHERE u.user_id = $2
  AND s.session_id = $1
  AND u.product_id = s.product_id
`, sessionID, userID)
	if err != nil {
		r.logger.Printf("cart repo: migrate merge session=%s user=%s error=%v", sessionID, userID, err)
		return 0, err
	}

	rekeyedCmd, err := tx.Exec(ctx, `
UPDATE cart_items c
SET user_id = $2, session_id = NULL, updated_at = now()
WHERE c.session_id = $1
  AND NOT EXISTS (
      SELECT 1 FROM cart_items u
      WHERE u.user_id = $2 AND u.product_id = c.product_id
  )
`, sessionID, userID)
	if err != nil {
		r.logger.Printf("cart repo: migrate rekey session=%s user=%s error=%v", sessionID, userID, err)
		return 0, err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE session_id = $1`, sessionID); err != nil {
		r.logger.Printf("cart repo: migrate sweep session=%s error=%v", sessionID, err)
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return mergedCmd.RowsAffected() + rekeyedCmd.RowsAffected(), nil
}

func (r *postgresRepo) DeleteStaleSessionLines(ctx context.Context, cutoff time.Time) (int64, error) {
	cmd, err := r.pool.Exec(ctx, `
DELETE FROM cart_items
WHERE session_id IS NOT NULL AND updated_at < $1
`, cutoff)
	if err != nil {
		r.logger.Printf("cart repo: cleanup cutoff=%s error=%v", cutoff, err)
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func scanLine(row pgx.Row) (*domain.CartItem, error) {
	var item domain.CartItem
	if err := row.Scan(&item.ID, &item.ProductID, &item.Quantity, &item.PriceCentsWhenAdded, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return nil, err
	}
	return &item, nil
}
