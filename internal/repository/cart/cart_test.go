package cart

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"shopapi/internal/domain"
	"shopapi/internal/migrate"
)

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return pool
}

func resetTables(ctx context.Context, t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if _, err := pool.Exec(ctx, `TRUNCATE order_items, orders, cart_items, tokens, products, suppliers, users RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func insertUser(ctx context.Context, t *testing.T, pool *pgxpool.Pool, email string) string {
	t.Helper()
	var id string
	err := pool.QueryRow(ctx, `INSERT INTO users (email, password_hash) VALUES ($1, 'x') RETURNING id::text`, email).Scan(&id)
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}
	return id
}

func insertProduct(ctx context.Context, t *testing.T, pool *pgxpool.Pool, name string, priceCents int64, stock int) string {
	t.Helper()
	var id string
	err := pool.QueryRow(ctx,
		`INSERT INTO products (name, price_cents, stock_quantity) VALUES ($1, $2, $3) RETURNING id::text`,
		name, priceCents, stock).Scan(&id)
	if err != nil {
		t.Fatalf("insert product: %v", err)
	}
	return id
}

func TestPostgres_AddLineMergesAndChecksStock(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()
	resetTables(ctx, t, pool)

	productID := insertProduct(ctx, t, pool, "Mug", 1000, 5)
	repo := NewPostgres(pool, testLogger())
	owner := domain.SessionOwner("sess-1")

	first, err := repo.AddLine(ctx, owner, productID, 2)
	if err != nil {
		t.Fatalf("AddLine: %v", err)
	}
	if first.Quantity != 2 || first.PriceCentsWhenAdded != 1000 {
		t.Fatalf("unexpected line %+v", first)
	}

	// Second add merges into the same line.
	merged, err := repo.AddLine(ctx, owner, productID, 3)
	if err != nil {
		t.Fatalf("AddLine merge: %v", err)
	}
	if merged.Quantity != 5 || merged.ID != first.ID {
		t.Fatalf("expected merged quantity 5 on same line, got %+v", merged)
	}

	// Stock is exhausted: one more unit must fail with full context.
	_, err = repo.AddLine(ctx, owner, productID, 1)
	var se *domain.StockError
	if !errors.As(err, &se) {
		t.Fatalf("expected StockError, got %v", err)
	}
	if se.Available != 5 || se.InCart != 5 || se.Requested != 1 {
		t.Fatalf("stock context wrong: %+v", se)
	}
}

func TestPostgres_AddLineFreezesPrice(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()
	resetTables(ctx, t, pool)

	productID := insertProduct(ctx, t, pool, "Mug", 1000, 10)
	repo := NewPostgres(pool, testLogger())
	owner := domain.SessionOwner("sess-1")

	if _, err := repo.AddLine(ctx, owner, productID, 1); err != nil {
		t.Fatalf("AddLine: %v", err)
	}
	if _, err := pool.Exec(ctx, `UPDATE products SET price_cents = 1500 WHERE id = $1`, productID); err != nil {
		t.Fatalf("reprice: %v", err)
	}

	// Merging more units keeps the original captured price.
	line, err := repo.AddLine(ctx, owner, productID, 1)
	if err != nil {
		t.Fatalf("AddLine: %v", err)
	}
	if line.PriceCentsWhenAdded != 1000 {
		t.Fatalf("captured price drifted: %d", line.PriceCentsWhenAdded)
	}

	summary, err := repo.Summary(ctx, owner)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if !summary.HasPriceChanges {
		t.Fatal("expected price drift flag")
	}
	if summary.SubtotalCents != 2000 {
		t.Fatalf("subtotal must use frozen price, got %d", summary.SubtotalCents)
	}
	if summary.Items[0].CurrentPriceCents != 1500 {
		t.Fatalf("current price not reported: %d", summary.Items[0].CurrentPriceCents)
	}
}

func TestPostgres_AddLineRejectsInactiveProduct(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()
	resetTables(ctx, t, pool)

	productID := insertProduct(ctx, t, pool, "Mug", 1000, 10)
	if _, err := pool.Exec(ctx, `UPDATE products SET status = 'inactive' WHERE id = $1`, productID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	repo := NewPostgres(pool, testLogger())
	if _, err := repo.AddLine(ctx, domain.SessionOwner("sess-1"), productID, 1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found for inactive product, got %v", err)
	}
}

func TestPostgres_SummaryExcludesDeactivatedLines(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()
	resetTables(ctx, t, pool)

	activeID := insertProduct(ctx, t, pool, "Mug", 1000, 10)
	goneID := insertProduct(ctx, t, pool, "Plate", 500, 10)
	repo := NewPostgres(pool, testLogger())
	owner := domain.SessionOwner("sess-1")

	if _, err := repo.AddLine(ctx, owner, activeID, 1); err != nil {
		t.Fatalf("AddLine: %v", err)
	}
	if _, err := repo.AddLine(ctx, owner, goneID, 1); err != nil {
		t.Fatalf("AddLine: %v", err)
	}
	if _, err := pool.Exec(ctx, `UPDATE products SET status = 'deleted' WHERE id = $1`, goneID); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	summary, err := repo.Summary(ctx, owner)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if summary.ItemCount != 1 || summary.Items[0].ProductID != activeID {
		t.Fatalf("deactivated line leaked into summary: %+v", summary)
	}
}

func TestPostgres_UpdateLineQuantityReplacement(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()
	resetTables(ctx, t, pool)

	productID := insertProduct(ctx, t, pool, "Mug", 1000, 5)
	repo := NewPostgres(pool, testLogger())
	owner := domain.UserOwner(insertUser(ctx, t, pool, "u@example.com"))

	if _, err := repo.AddLine(ctx, owner, productID, 4); err != nil {
		t.Fatalf("AddLine: %v", err)
	}

	// Replacement quantity is checked alone, so 5 fits even with 4 in cart.
	line, err := repo.UpdateLineQuantity(ctx, owner, productID, 5)
	if err != nil {
		t.Fatalf("UpdateLineQuantity: %v", err)
	}
	if line.Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", line.Quantity)
	}

	if _, err := repo.UpdateLineQuantity(ctx, owner, productID, 6); !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock for 6, got %v", err)
	}
}

func TestPostgres_MigrateSessionMergesAndRekeys(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()
	resetTables(ctx, t, pool)

	shared := insertProduct(ctx, t, pool, "Mug", 1000, 50)
	only := insertProduct(ctx, t, pool, "Plate", 500, 50)
	userID := insertUser(ctx, t, pool, "u@example.com")
	repo := NewPostgres(pool, testLogger())
	session := domain.SessionOwner("sess-1")
	user := domain.UserOwner(userID)

	if _, err := repo.AddLine(ctx, user, shared, 2); err != nil {
		t.Fatalf("AddLine user: %v", err)
	}
	if _, err := repo.AddLine(ctx, session, shared, 3); err != nil {
		t.Fatalf("AddLine session: %v", err)
	}
	if _, err := repo.AddLine(ctx, session, only, 1); err != nil {
		t.Fatalf("AddLine session: %v", err)
	}

	migrated, err := repo.MigrateSession(ctx, "sess-1", userID)
	if err != nil {
		t.Fatalf("MigrateSession: %v", err)
	}
	if migrated != 2 {
		t.Fatalf("expected 2 migrated lines, got %d", migrated)
	}

	summary, err := repo.Summary(ctx, user)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if summary.ItemCount != 2 || summary.TotalQuantity != 6 {
		t.Fatalf("unexpected merged cart: %+v", summary)
	}

	// The session cart is empty afterwards and a retry is a zero no-op.
	sessionSummary, err := repo.Summary(ctx, session)
	if err != nil {
		t.Fatalf("Summary session: %v", err)
	}
	if sessionSummary.ItemCount != 0 {
		t.Fatalf("session cart not emptied: %+v", sessionSummary)
	}
	again, err := repo.MigrateSession(ctx, "sess-1", userID)
	if err != nil || again != 0 {
		t.Fatalf("expected idempotent zero, got %d %v", again, err)
	}
}

func TestPostgres_DeleteStaleSessionLines(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()
	resetTables(ctx, t, pool)

	productID := insertProduct(ctx, t, pool, "Mug", 1000, 50)
	userID := insertUser(ctx, t, pool, "u@example.com")
	repo := NewPostgres(pool, testLogger())

	if _, err := repo.AddLine(ctx, domain.SessionOwner("old-sess"), productID, 1); err != nil {
		t.Fatalf("AddLine: %v", err)
	}
	if _, err := repo.AddLine(ctx, domain.UserOwner(userID), productID, 1); err != nil {
		t.Fatalf("AddLine: %v", err)
	}
	if _, err := pool.Exec(ctx, `UPDATE cart_items SET updated_at = now() - interval '40 days' WHERE session_id IS NOT NULL`); err != nil {
		t.Fatalf("age lines: %v", err)
	}

	removed, err := repo.DeleteStaleSessionLines(ctx, time.Now().AddDate(0, 0, -30))
	if err != nil {
		t.Fatalf("DeleteStaleSessionLines: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 swept line, got %d", removed)
	}

	// User-owned lines are never swept regardless of age.
	if _, err := pool.Exec(ctx, `UPDATE cart_items SET updated_at = now() - interval '90 days'`); err != nil {
		t.Fatalf("age lines: %v", err)
	}
	removed, err = repo.DeleteStaleSessionLines(ctx, time.Now().AddDate(0, 0, -30))
	if err != nil || removed != 0 {
		t.Fatalf("user lines must survive sweep, removed=%d err=%v", removed, err)
	}
}

func TestPostgres_ClearAndDeleteLine(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()
	resetTables(ctx, t, pool)

	p1 := insertProduct(ctx, t, pool, "Mug", 1000, 10)
	p2 := insertProduct(ctx, t, pool, "Plate", 500, 10)
	repo := NewPostgres(pool, testLogger())
	owner := domain.SessionOwner("sess-1")

	if _, err := repo.AddLine(ctx, owner, p1, 1); err != nil {
		t.Fatalf("AddLine: %v", err)
	}
	if _, err := repo.AddLine(ctx, owner, p2, 1); err != nil {
		t.Fatalf("AddLine: %v", err)
	}

	if err := repo.DeleteLine(ctx, owner, p1); err != nil {
		t.Fatalf("DeleteLine: %v", err)
	}
	if err := repo.DeleteLine(ctx, owner, p1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}

	removed, err := repo.Clear(ctx, owner)
	if err != nil || removed != 1 {
		t.Fatalf("Clear removed=%d err=%v", removed, err)
	}
}
