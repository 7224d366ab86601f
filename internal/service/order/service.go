package order

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"shopapi/internal/domain"
	"shopapi/internal/metrics"
	orderrepo "shopapi/internal/repository/order"
)

const defaultPageSize = 20

type orderRepo interface {
	CreateFromCart(ctx context.Context, in orderrepo.CreateOrderInput) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Order, error)
	List(ctx context.Context, f orderrepo.ListFilter) ([]domain.Order, int64, error)
	UpdateStatus(ctx context.Context, id string, expect, target domain.OrderStatus) (*domain.Order, error)
	Stats(ctx context.Context) (*domain.OrderStats, error)
}

type cartReader interface {
	Summary(ctx context.Context, owner domain.Owner) (*domain.CartSummary, error)
}

// Service runs the order assembly pipeline and the status lifecycle.
type Service struct {
	repo    orderRepo
	cart    cartReader
	metrics *metrics.Metrics
}

func New(repo orderrepo.Repository, cart cartReader, m *metrics.Metrics) *Service {
	return &Service{repo: repo, cart: cart, metrics: m}
}

type CreateInput struct {
	ShippingAddress string `json:"shippingAddress"`
	PaymentMethod   string `json:"paymentMethod,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

// CreateFromCart converts the user's cart into an order. The snapshot check
// is optimistic: it rejects obviously stale carts up front, while the
// repository's transaction re-validates stock authoritatively when it
// decrements, rolling everything back on any conflict.
func (s *Service) CreateFromCart(ctx context.Context, userID string, in CreateInput) (*domain.Order, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(in.ShippingAddress) == "" {
		return nil, fmt.Errorf("%w: shipping address required", domain.ErrInvalidInput)
	}

	snapshot, err := s.cart.Summary(ctx, domain.UserOwner(userID))
	if err != nil {
		return nil, err
	}
	if len(snapshot.Items) == 0 {
		return nil, domain.ErrEmptyCart
	}
	if snapshot.HasStockIssues {
		for _, item := range snapshot.Items {
			if item.Quantity > item.StockQuantity {
				if s.metrics != nil {
					s.metrics.StockConflicts.Inc()
				}
				return nil, &domain.StockError{
					ProductID:   item.ProductID,
					ProductName: item.ProductName,
					Requested:   item.Quantity,
					Available:   item.StockQuantity,
				}
			}
		}
	}

	order, err := s.repo.CreateFromCart(ctx, orderrepo.CreateOrderInput{
		UserID:          userID,
		ShippingAddress: strings.TrimSpace(in.ShippingAddress),
		PaymentMethod:   strings.TrimSpace(in.PaymentMethod),
		Notes:           in.Notes,
		Lines:           snapshot.Items,
		TotalCents:      snapshot.SubtotalCents,
		ItemCount:       snapshot.TotalQuantity,
	})
	if err != nil {
		if s.metrics != nil && errors.Is(err, domain.ErrInsufficientStock) {
			s.metrics.StockConflicts.Inc()
		}
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.OrdersCreated.Inc()
	}
	return order, nil
}

// Get returns an order with its lines. Non-admin callers only see their own
// orders; anything else is PermissionDenied.
func (s *Service) Get(ctx context.Context, actor *domain.User, orderID string) (*domain.Order, error) {
	if orderID == "" {
		return nil, fmt.Errorf("%w: order id required", domain.ErrInvalidInput)
	}
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && (actor == nil || order.UserID != actor.ID) {
		return nil, domain.ErrPermissionDenied
	}
	return order, nil
}

func (s *Service) ListForUser(ctx context.Context, userID string, page, pageSize int) ([]domain.Order, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id required", domain.ErrInvalidInput)
	}
	limit, offset := pageBounds(page, pageSize)
	return s.repo.ListByUser(ctx, userID, limit, offset)
}

type ListInput struct {
	Status   string
	Page     int
	PageSize int
}

type ListResult struct {
	Orders []domain.Order `json:"orders"`
	Total  int64          `json:"total"`
}

// ListAll is the privileged listing with status and pagination filters.
func (s *Service) ListAll(ctx context.Context, in ListInput) (*ListResult, error) {
	var status *domain.OrderStatus
	if in.Status != "" {
		parsed := domain.OrderStatus(in.Status)
		if !parsed.Valid() {
			return nil, fmt.Errorf("%w: unknown order status %q", domain.ErrInvalidInput, in.Status)
		}
		status = &parsed
	}
	limit, offset := pageBounds(in.Page, in.PageSize)
	orders, total, err := s.repo.List(ctx, orderrepo.ListFilter{Status: status, Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &ListResult{Orders: orders, Total: total}, nil
}

// UpdateStatus transitions an order. Admins may perform any valid
// transition; other callers may only cancel their own order while it is
// still pending or confirmed.
func (s *Service) UpdateStatus(ctx context.Context, actor *domain.User, orderID, targetRaw string) (*domain.Order, error) {
	if orderID == "" {
		return nil, fmt.Errorf("%w: order id required", domain.ErrInvalidInput)
	}
	target := domain.OrderStatus(targetRaw)
	if !target.Valid() {
		return nil, fmt.Errorf("%w: unknown order status %q", domain.ErrInvalidInput, targetRaw)
	}

	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !actor.IsAdmin() {
		if actor == nil || order.UserID != actor.ID {
			return nil, domain.ErrPermissionDenied
		}
		if target != domain.OrderStatusCancelled {
			return nil, domain.ErrPermissionDenied
		}
		if order.Status != domain.OrderStatusPending && order.Status != domain.OrderStatusConfirmed {
			return nil, fmt.Errorf("%w: order can no longer be cancelled", domain.ErrPermissionDenied)
		}
	}

	if !order.Status.CanTransitionTo(target) {
		return nil, fmt.Errorf("%w: cannot transition order from %s to %s", domain.ErrInvalidInput, order.Status, target)
	}
	return s.repo.UpdateStatus(ctx, orderID, order.Status, target)
}

// Stats returns the privileged aggregate view.
func (s *Service) Stats(ctx context.Context) (*domain.OrderStats, error) {
	return s.repo.Stats(ctx)
}

func pageBounds(page, pageSize int) (limit, offset int) {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if page <= 0 {
		page = 1
	}
	return pageSize, (page - 1) * pageSize
}
