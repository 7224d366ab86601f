package cart

import (
	"context"
	"time"

	"shopapi/internal/domain"
)

// Repository persists cart lines keyed by an owner identity. Every mutation
// that depends on a prior read (merge-then-check, replace-then-check) runs
// inside a single transaction so concurrent requests for the same
// (owner, product) pair cannot lose updates.
type Repository interface {
	AddLine(ctx context.Context, owner domain.Owner, productID string, quantity int) (*domain.CartItem, error)
	Summary(ctx context.Context, owner domain.Owner) (*domain.CartSummary, error)
	UpdateLineQuantity(ctx context.Context, owner domain.Owner, productID string, quantity int) (*domain.CartItem, error)
	DeleteLine(ctx context.Context, owner domain.Owner, productID string) error
	Clear(ctx context.Context, owner domain.Owner) (int64, error)
	MigrateSession(ctx context.Context, sessionID, userID string) (int64, error)
	DeleteStaleSessionLines(ctx context.Context, cutoff time.Time) (int64, error)
}
