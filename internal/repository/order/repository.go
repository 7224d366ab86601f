package order

import (
	"context"

	"shopapi/internal/domain"
)

// CreateOrderInput carries the cart snapshot checkout was started from.
// Totals come from the snapshot and are frozen into the order header.
type CreateOrderInput struct {
	UserID          string
	ShippingAddress string
	PaymentMethod   string
	Notes           string
	Lines           []domain.CartSummaryItem
	TotalCents      int64
	ItemCount       int
}

type ListFilter struct {
	Status *domain.OrderStatus
	Limit  int
	Offset int
}

type Repository interface {
	// CreateFromCart runs the whole checkout write path in one
	// transaction: order header, order lines, conditional stock decrement
	// per line, and the cart clear. Any failure rolls back all of it.
	CreateFromCart(ctx context.Context, in CreateOrderInput) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Order, error)
	List(ctx context.Context, f ListFilter) ([]domain.Order, int64, error)
	// UpdateStatus moves the order from expect to target; ErrNotFound when
	// the order is missing or its status moved concurrently.
	UpdateStatus(ctx context.Context, id string, expect, target domain.OrderStatus) (*domain.Order, error)
	Stats(ctx context.Context) (*domain.OrderStats, error)
}
