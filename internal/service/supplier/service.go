package supplier

import (
	"context"
	"fmt"
	"strings"

	"shopapi/internal/domain"
	supplierrepo "shopapi/internal/repository/supplier"
)

type Service struct {
	repo supplierrepo.Repository
}

func New(repo supplierrepo.Repository) *Service {
	return &Service{repo: repo}
}

type CreateInput struct {
	Name         string `json:"name"`
	ContactEmail string `json:"contactEmail"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Supplier, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: supplier name required", domain.ErrInvalidInput)
	}
	return s.repo.Create(ctx, supplierrepo.CreateSupplierInput{
		Name:         strings.TrimSpace(in.Name),
		ContactEmail: strings.TrimSpace(in.ContactEmail),
		Phone:        strings.TrimSpace(in.Phone),
		Address:      strings.TrimSpace(in.Address),
	})
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Supplier, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]domain.Supplier, error) {
	return s.repo.List(ctx)
}

type UpdateInput struct {
	Name         *string `json:"name"`
	ContactEmail *string `json:"contactEmail"`
	Phone        *string `json:"phone"`
	Address      *string `json:"address"`
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*domain.Supplier, error) {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, fmt.Errorf("%w: supplier name cannot be empty", domain.ErrInvalidInput)
	}
	return s.repo.Update(ctx, id, supplierrepo.UpdateSupplierInput{
		Name:         in.Name,
		ContactEmail: in.ContactEmail,
		Phone:        in.Phone,
		Address:      in.Address,
	})
}

// Delete soft-deletes the supplier. Its products are not touched; they are
// flagged independently.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.SoftDelete(ctx, id)
}
