package product

import (
	"context"

	"shopapi/internal/domain"
)

type CreateProductInput struct {
	SupplierID    string
	Name          string
	Description   string
	PriceCents    int64
	StockQuantity int
	Status        string
}

type UpdateProductInput struct {
	Name        *string
	Description *string
	PriceCents  *int64
	Status      *string
}

// Repository persists products and owns the inventory ledger operations.
type Repository interface {
	Create(ctx context.Context, in CreateProductInput) (*domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, includeInactive bool) ([]domain.Product, error)
	Update(ctx context.Context, id string, in UpdateProductInput) (*domain.Product, error)
	SoftDelete(ctx context.Context, id string) error

	// CheckAvailability reports whether current stock covers quantity. A
	// missing or non-active product is ErrNotFound, never a false result.
	CheckAvailability(ctx context.Context, id string, quantity int) (bool, error)
	// Reserve decrements stock by quantity in a single conditional update,
	// failing with a StockError when stock is short.
	Reserve(ctx context.Context, id string, quantity int) error
	// AddStock increments stock, for admin restocking.
	AddStock(ctx context.Context, id string, quantity int) (*domain.Product, error)
}
