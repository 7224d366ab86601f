package cart

import (
	"context"
	"fmt"
	"time"

	"shopapi/internal/domain"
	"shopapi/internal/metrics"
)

type cartRepo interface {
	AddLine(ctx context.Context, owner domain.Owner, productID string, quantity int) (*domain.CartItem, error)
	Summary(ctx context.Context, owner domain.Owner) (*domain.CartSummary, error)
	UpdateLineQuantity(ctx context.Context, owner domain.Owner, productID string, quantity int) (*domain.CartItem, error)
	DeleteLine(ctx context.Context, owner domain.Owner, productID string) error
	Clear(ctx context.Context, owner domain.Owner) (int64, error)
	MigrateSession(ctx context.Context, sessionID, userID string) (int64, error)
	DeleteStaleSessionLines(ctx context.Context, cutoff time.Time) (int64, error)
}

// Service implements the cart store: stock-aware add/merge, drift-detecting
// reads, and the session-to-user migration that runs at login.
type Service struct {
	repo    cartRepo
	metrics *metrics.Metrics
}

func New(repo cartRepo, m *metrics.Metrics) *Service {
	return &Service{repo: repo, metrics: m}
}

// AddItem adds quantity units of a product to the owner's cart, merging
// with an existing line. Validation failures happen before any storage
// call; stock validation against the merged total happens in the
// repository's transaction.
func (s *Service) AddItem(ctx context.Context, owner domain.Owner, productID string, quantity int) (*domain.CartItem, error) {
	if owner.IsZero() {
		return nil, fmt.Errorf("%w: owner identity required", domain.ErrInvalidInput)
	}
	if productID == "" {
		return nil, fmt.Errorf("%w: product id required", domain.ErrInvalidInput)
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be a positive integer", domain.ErrInvalidInput)
	}
	return s.repo.AddLine(ctx, owner, productID, quantity)
}

// GetItems returns the owner's cart joined against live product data. It is
// a pure read: drift (price changes, stock shortfalls) is reported in the
// summary flags, never written back to the stored lines.
func (s *Service) GetItems(ctx context.Context, owner domain.Owner) (*domain.CartSummary, error) {
	if owner.IsZero() {
		return nil, fmt.Errorf("%w: owner identity required", domain.ErrInvalidInput)
	}
	return s.repo.Summary(ctx, owner)
}

// UpdateItemQuantity replaces a line's quantity. Zero or negative delegates
// to RemoveItem; otherwise the new quantity alone is validated against
// stock, not merged with the existing line.
func (s *Service) UpdateItemQuantity(ctx context.Context, owner domain.Owner, productID string, quantity int) (*domain.CartItem, error) {
	if owner.IsZero() {
		return nil, fmt.Errorf("%w: owner identity required", domain.ErrInvalidInput)
	}
	if productID == "" {
		return nil, fmt.Errorf("%w: product id required", domain.ErrInvalidInput)
	}
	if quantity <= 0 {
		if err := s.RemoveItem(ctx, owner, productID); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return s.repo.UpdateLineQuantity(ctx, owner, productID, quantity)
}

func (s *Service) RemoveItem(ctx context.Context, owner domain.Owner, productID string) error {
	if owner.IsZero() {
		return fmt.Errorf("%w: owner identity required", domain.ErrInvalidInput)
	}
	if productID == "" {
		return fmt.Errorf("%w: product id required", domain.ErrInvalidInput)
	}
	return s.repo.DeleteLine(ctx, owner, productID)
}

// ClearCart removes every line for the owner. Removing zero lines is a
// successful no-op, not an error.
func (s *Service) ClearCart(ctx context.Context, owner domain.Owner) (int64, error) {
	if owner.IsZero() {
		return 0, fmt.Errorf("%w: owner identity required", domain.ErrInvalidInput)
	}
	return s.repo.Clear(ctx, owner)
}

// MigrateSessionCart folds an anonymous session's cart into the user's cart,
// merging overlapping product lines. Migrating an empty session is a no-op
// reporting zero, which also makes the operation idempotent.
func (s *Service) MigrateSessionCart(ctx context.Context, sessionID, userID string) (int64, error) {
	if sessionID == "" || userID == "" {
		return 0, fmt.Errorf("%w: session id and user id required", domain.ErrInvalidInput)
	}
	migrated, err := s.repo.MigrateSession(ctx, sessionID, userID)
	if err != nil {
		return 0, err
	}
	if s.metrics != nil {
		s.metrics.CartsMigrated.Add(float64(migrated))
	}
	return migrated, nil
}

// CleanupOldCarts removes session-owned lines not touched for daysOld days.
// User-owned lines are never swept.
func (s *Service) CleanupOldCarts(ctx context.Context, daysOld int) (int64, error) {
	if daysOld <= 0 {
		return 0, fmt.Errorf("%w: daysOld must be positive", domain.ErrInvalidInput)
	}
	cutoff := time.Now().AddDate(0, 0, -daysOld)
	removed, err := s.repo.DeleteStaleSessionLines(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if s.metrics != nil {
		s.metrics.CartLinesCleaned.Add(float64(removed))
	}
	return removed, nil
}
