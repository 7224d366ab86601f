package httpserver

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"shopapi/internal/domain"
	ordersvc "shopapi/internal/service/order"
)

func TestCreateOrderRequiresAuth(t *testing.T) {
	router := newTestRouter(t, Deps{})

	body := `{"shippingAddress":"1 Main St"}`
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 anonymous, got %d", rec.Code)
	}
}

func TestCreateOrderCreated(t *testing.T) {
	user := &domain.User{ID: "u1"}
	order := &domain.Order{ID: "o1", UserID: "u1", Status: domain.OrderStatusPending, TotalCents: 2500, ItemCount: 3}
	orders := &stubOrderService{order: order}
	router := newTestRouter(t, Deps{UserSvc: &stubUserService{user: user}, OrderSvc: orders})

	body := `{"shippingAddress":"1 Main St","paymentMethod":"card"}`
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	if orders.lastUser != "u1" {
		t.Fatalf("order created for wrong user: %q", orders.lastUser)
	}
	if !strings.Contains(rec.Body.String(), `"totalCents":2500`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestCreateOrderEmptyCart(t *testing.T) {
	user := &domain.User{ID: "u1"}
	router := newTestRouter(t, Deps{
		UserSvc:  &stubUserService{user: user},
		OrderSvc: &stubOrderService{err: domain.ErrEmptyCart},
	})

	body := `{"shippingAddress":"1 Main St"}`
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for empty cart, got %d", rec.Code)
	}
}

func TestCreateOrderStockConflict(t *testing.T) {
	user := &domain.User{ID: "u1"}
	stockErr := &domain.StockError{ProductID: "p1", ProductName: "Mug", Requested: 5, Available: 1}
	router := newTestRouter(t, Deps{
		UserSvc:  &stubUserService{user: user},
		OrderSvc: &stubOrderService{err: stockErr},
	})

	body := `{"shippingAddress":"1 Main St"}`
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"productName":"Mug"`) {
		t.Fatalf("stock details missing: %s", rec.Body.String())
	}
}

func TestGetOrderForbiddenForStranger(t *testing.T) {
	user := &domain.User{ID: "u2"}
	router := newTestRouter(t, Deps{
		UserSvc:  &stubUserService{user: user},
		OrderSvc: &stubOrderService{err: domain.ErrPermissionDenied},
	})

	req := httptest.NewRequest(http.MethodGet, "/orders/o1", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestCancelOrderSuccess(t *testing.T) {
	user := &domain.User{ID: "u1"}
	cancelled := &domain.Order{ID: "o1", UserID: "u1", Status: domain.OrderStatusCancelled}
	router := newTestRouter(t, Deps{
		UserSvc:  &stubUserService{user: user},
		OrderSvc: &stubOrderService{order: cancelled},
	})

	req := httptest.NewRequest(http.MethodPost, "/orders/o1/cancel", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"status":"cancelled"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestCancelOrderDeniedAfterShipping(t *testing.T) {
	user := &domain.User{ID: "u1"}
	router := newTestRouter(t, Deps{
		UserSvc:  &stubUserService{user: user},
		OrderSvc: &stubOrderService{err: domain.ErrPermissionDenied},
	})

	req := httptest.NewRequest(http.MethodPost, "/orders/o1/cancel", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestAdminUpdateOrderStatusInvalidTransition(t *testing.T) {
	admin := &domain.User{ID: "a1", Role: domain.RoleAdmin}
	router := newTestRouter(t, Deps{
		UserSvc:  &stubUserService{user: admin},
		OrderSvc: &stubOrderService{err: domain.ErrInvalidInput},
	})

	body := `{"status":"pending"}`
	req := httptest.NewRequest(http.MethodPut, "/admin/orders/o1/status", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAdminUpdateOrderStatusSuccess(t *testing.T) {
	admin := &domain.User{ID: "a1", Role: domain.RoleAdmin}
	shipped := &domain.Order{ID: "o1", Status: domain.OrderStatusShipped}
	router := newTestRouter(t, Deps{
		UserSvc:  &stubUserService{user: admin},
		OrderSvc: &stubOrderService{order: shipped},
	})

	body := `{"status":"shipped"}`
	req := httptest.NewRequest(http.MethodPut, "/admin/orders/o1/status", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"status":"shipped"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestListMyOrders(t *testing.T) {
	user := &domain.User{ID: "u1"}
	orders := &stubOrderService{orders: []domain.Order{{ID: "o1", UserID: "u1"}, {ID: "o2", UserID: "u1"}}}
	router := newTestRouter(t, Deps{UserSvc: &stubUserService{user: user}, OrderSvc: orders})

	req := httptest.NewRequest(http.MethodGet, "/orders?page=2&pageSize=10", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"count":2`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestAdminListOrdersWithFilter(t *testing.T) {
	admin := &domain.User{ID: "a1", Role: domain.RoleAdmin}
	list := &ordersvc.ListResult{Orders: []domain.Order{{ID: "o1", Status: domain.OrderStatusShipped}}, Total: 1}
	router := newTestRouter(t, Deps{
		UserSvc:  &stubUserService{user: admin},
		OrderSvc: &stubOrderService{list: list},
	})

	req := httptest.NewRequest(http.MethodGet, "/admin/orders?status=shipped", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"total":1`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestAdminOrderStats(t *testing.T) {
	admin := &domain.User{ID: "a1", Role: domain.RoleAdmin}
	stats := &domain.OrderStats{
		TotalOrders:       4,
		TotalRevenueCents: 10000,
		CountByStatus:     map[domain.OrderStatus]int{domain.OrderStatusPending: 3, domain.OrderStatusCancelled: 1},
	}
	router := newTestRouter(t, Deps{
		UserSvc:  &stubUserService{user: admin},
		OrderSvc: &stubOrderService{stats: stats},
	})

	req := httptest.NewRequest(http.MethodGet, "/admin/orders/stats", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"totalRevenueCents":10000`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}
