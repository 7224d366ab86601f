package product

import (
	"context"
	"fmt"
	"strings"

	"shopapi/internal/domain"
	productrepo "shopapi/internal/repository/product"
)

type Service struct {
	repo productrepo.Repository
}

func New(repo productrepo.Repository) *Service {
	return &Service{repo: repo}
}

type CreateInput struct {
	SupplierID    string `json:"supplierId"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	PriceCents    int64  `json:"priceCents"`
	StockQuantity int    `json:"stockQuantity"`
	Status        string `json:"status"`
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Product, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: product name required", domain.ErrInvalidInput)
	}
	if in.PriceCents < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", domain.ErrInvalidInput)
	}
	if in.StockQuantity < 0 {
		return nil, fmt.Errorf("%w: stock cannot be negative", domain.ErrInvalidInput)
	}
	if in.Status != "" && in.Status != domain.ProductStatusActive && in.Status != domain.ProductStatusInactive {
		return nil, fmt.Errorf("%w: unknown product status %q", domain.ErrInvalidInput, in.Status)
	}
	return s.repo.Create(ctx, productrepo.CreateProductInput{
		SupplierID:    in.SupplierID,
		Name:          strings.TrimSpace(in.Name),
		Description:   in.Description,
		PriceCents:    in.PriceCents,
		StockQuantity: in.StockQuantity,
		Status:        in.Status,
	})
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, includeInactive bool) ([]domain.Product, error) {
	return s.repo.List(ctx, includeInactive)
}

type UpdateInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	PriceCents  *int64  `json:"priceCents"`
	Status      *string `json:"status"`
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*domain.Product, error) {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, fmt.Errorf("%w: product name cannot be empty", domain.ErrInvalidInput)
	}
	if in.PriceCents != nil && *in.PriceCents < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", domain.ErrInvalidInput)
	}
	if in.Status != nil && *in.Status != domain.ProductStatusActive && *in.Status != domain.ProductStatusInactive {
		return nil, fmt.Errorf("%w: unknown product status %q", domain.ErrInvalidInput, *in.Status)
	}
	return s.repo.Update(ctx, id, productrepo.UpdateProductInput{
		Name:        in.Name,
		Description: in.Description,
		PriceCents:  in.PriceCents,
		Status:      in.Status,
	})
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.SoftDelete(ctx, id)
}

// CheckAvailability reports whether stock covers quantity for an active
// product. A missing or inactive product is NotFound, never a false result.
func (s *Service) CheckAvailability(ctx context.Context, id string, quantity int) (bool, error) {
	if quantity <= 0 {
		return false, fmt.Errorf("%w: quantity must be a positive integer", domain.ErrInvalidInput)
	}
	return s.repo.CheckAvailability(ctx, id, quantity)
}

// Restock adds stock to a product for admin replenishment.
func (s *Service) Restock(ctx context.Context, id string, quantity int) (*domain.Product, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be a positive integer", domain.ErrInvalidInput)
	}
	return s.repo.AddStock(ctx, id, quantity)
}
