package httpserver

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"shopapi/internal/domain"
	usersvc "shopapi/internal/service/user"
)

func TestRegisterHandlerCreated(t *testing.T) {
	user := &domain.User{ID: "u1", Email: "user@example.com", Role: domain.RoleCustomer}
	router := newTestRouter(t, Deps{UserSvc: &stubUserService{user: user}})

	body := `{"email":"user@example.com","password":"Abcdefg1"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"email":"user@example.com"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestRegisterHandlerDuplicate(t *testing.T) {
	router := newTestRouter(t, Deps{UserSvc: &stubUserService{regErr: domain.ErrAlreadyExists}})

	body := `{"email":"user@example.com","password":"Abcdefg1"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestLoginHandlerInvalidCredentials(t *testing.T) {
	router := newTestRouter(t, Deps{UserSvc: &stubUserService{loginErr: usersvc.ErrInvalidCredentials}})

	body := `{"email":"user@example.com","password":"badpass"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestLoginHandlerMigratesSessionCart(t *testing.T) {
	user := &domain.User{ID: "u1", Email: "user@example.com"}
	carts := &stubCartService{migrated: 2}
	router := newTestRouter(t, Deps{UserSvc: &stubUserService{user: user}, CartSvc: carts})

	body := `{"email":"user@example.com","password":"Abcdefg1"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(sessionHeader, "sess-42")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if carts.migrateCalls != 1 || carts.lastSession != "sess-42" || carts.lastUser != "u1" {
		t.Fatalf("unexpected migration call: calls=%d session=%q user=%q", carts.migrateCalls, carts.lastSession, carts.lastUser)
	}
	if !strings.Contains(rec.Body.String(), `"migratedCartLines":2`) {
		t.Fatalf("migration count missing from body: %s", rec.Body.String())
	}
}

func TestLoginHandlerWithoutSessionSkipsMigration(t *testing.T) {
	user := &domain.User{ID: "u1"}
	carts := &stubCartService{}
	router := newTestRouter(t, Deps{UserSvc: &stubUserService{user: user}, CartSvc: carts})

	body := `{"email":"user@example.com","password":"Abcdefg1"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if carts.migrateCalls != 0 {
		t.Fatalf("migration must not run without a session token, got %d calls", carts.migrateCalls)
	}
}

func TestLoginHandlerSurvivesMigrationFailure(t *testing.T) {
	user := &domain.User{ID: "u1"}
	carts := &stubCartService{migrateErr: domain.ErrNotFound}
	router := newTestRouter(t, Deps{UserSvc: &stubUserService{user: user}, CartSvc: carts})

	body := `{"email":"user@example.com","password":"Abcdefg1"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(sessionHeader, "sess-42")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("login must succeed even when migration fails, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"migratedCartLines":0`) {
		t.Fatalf("expected zero migrated lines: %s", rec.Body.String())
	}
}

func TestMeHandlerUnauthorizedWithoutToken(t *testing.T) {
	router := newTestRouter(t, Deps{})

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestMeHandlerSuccess(t *testing.T) {
	user := &domain.User{ID: "u1", Email: "me@example.com"}
	router := newTestRouter(t, Deps{UserSvc: &stubUserService{user: user}})

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"email":"me@example.com"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}
