package supplier

import (
	"context"

	"shopapi/internal/domain"
)

type CreateSupplierInput struct {
	Name         string
	ContactEmail string
	Phone        string
	Address      string
}

type UpdateSupplierInput struct {
	Name         *string
	ContactEmail *string
	Phone        *string
	Address      *string
}

type Repository interface {
	Create(ctx context.Context, in CreateSupplierInput) (*domain.Supplier, error)
	GetByID(ctx context.Context, id string) (*domain.Supplier, error)
	List(ctx context.Context) ([]domain.Supplier, error)
	Update(ctx context.Context, id string, in UpdateSupplierInput) (*domain.Supplier, error)
	SoftDelete(ctx context.Context, id string) error
}
