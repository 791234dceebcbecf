package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/tradzyhq/tradzy-backend/pkg/db/models"
	"github.com/tradzyhq/tradzy-backend/pkg/enums"
)

type fakeRoleLookup struct {
	accounts map[uuid.UUID]*models.User
}

func (f *fakeRoleLookup) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	return f.accounts[id], nil
}

func requestAs(userID uuid.UUID, tokenRole enums.Role) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := WithUserID(req.Context(), userID)
	ctx = WithRole(ctx, tokenRole)
	return req.WithContext(ctx)
}

func TestRequireRoleUsesStoredRoleNotTokenClaim(t *testing.T) {
	userID := uuid.New()
	lookup := &fakeRoleLookup{accounts: map[uuid.UUID]*models.User{
		userID: {Role: enums.RoleRetailer},
	}}

	// Token still claims admin, but the account was demoted.
	handler := RequireRole(lookup, nil, enums.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, requestAs(userID, enums.RoleAdmin))
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestRequireRoleRejectsDeletedAccount(t *testing.T) {
	lookup := &fakeRoleLookup{accounts: map[uuid.UUID]*models.User{}}

	handler := RequireRole(lookup, nil, enums.RoleRetailer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, requestAs(uuid.New(), enums.RoleRetailer))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestRequireRoleRefreshesContextRole(t *testing.T) {
	userID := uuid.New()
	lookup := &fakeRoleLookup{accounts: map[uuid.UUID]*models.User{
		userID: {Role: enums.RoleWholesaler},
	}}

	var seen enums.Role
	handler := RequireRole(lookup, nil, enums.RoleWholesaler)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RoleFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, requestAs(userID, enums.RoleRetailer))
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if seen != enums.RoleWholesaler {
		t.Fatalf("expected refreshed role wholesaler, got %s", seen)
	}
}

func TestRequireRoleAllowsAnyListedRole(t *testing.T) {
	userID := uuid.New()
	lookup := &fakeRoleLookup{accounts: map[uuid.UUID]*models.User{
		userID: {Role: enums.RoleRetailer},
	}}

	handler := RequireRole(lookup, nil, enums.RoleRetailer, enums.RoleWholesaler)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, requestAs(userID, enums.RoleRetailer))
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
}
