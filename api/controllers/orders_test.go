package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tradzyhq/tradzy-backend/api/middleware"
	ordersvc "github.com/tradzyhq/tradzy-backend/internal/orders"
	"github.com/tradzyhq/tradzy-backend/pkg/enums"
	pkgerrors "github.com/tradzyhq/tradzy-backend/pkg/errors"
)

type stubOrderService struct {
	ordersvc.Service

	createBuyer  uuid.UUID
	createInput  ordersvc.CreateOrderInput
	statusCalled bool
	statusValue  enums.OrderStatus
	err          error
}

func (s *stubOrderService) CreateOrder(_ context.Context, buyerID uuid.UUID, input ordersvc.CreateOrderInput) (*ordersvc.OrderDTO, error) {
	s.createBuyer = buyerID
	s.createInput = input
	if s.err != nil {
		return nil, s.err
	}
	return &ordersvc.OrderDTO{ID: uuid.New(), BuyerID: buyerID}, nil
}

func (s *stubOrderService) UpdateStatus(_ context.Context, _ uuid.UUID, _ enums.Role, _ uuid.UUID, status enums.OrderStatus) (*ordersvc.OrderDTO, error) {
	s.statusCalled = true
	s.statusValue = status
	if s.err != nil {
		return nil, s.err
	}
	return &ordersvc.OrderDTO{Status: status}, nil
}

func TestOrderCreateForwardsLines(t *testing.T) {
	stub := &stubOrderService{}
	buyerID := uuid.New()
	productID := uuid.New()

	body := `{"items":[{"product_id":"` + productID.String() + `","quantity":3}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), buyerID))
	rec := httptest.NewRecorder()
	OrderCreate(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.createBuyer != buyerID {
		t.Fatalf("buyer id not taken from context")
	}
	if len(stub.createInput.Items) != 1 || stub.createInput.Items[0].Quantity != 3 {
		t.Fatalf("lines not forwarded: %+v", stub.createInput.Items)
	}
}

func TestOrderCreateRejectsZeroQuantity(t *testing.T) {
	stub := &stubOrderService{}
	body := `{"items":[{"product_id":"` + uuid.NewString() + `","quantity":0}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	rec := httptest.NewRecorder()
	OrderCreate(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for zero quantity, got %d", rec.Code)
	}
	if stub.createBuyer != uuid.Nil {
		t.Fatalf("service should not be reached on invalid payload")
	}
}

func TestOrderCreateAllowsEmptyBodyForCartCheckout(t *testing.T) {
	stub := &stubOrderService{}
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(`{}`))
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.New()))
	rec := httptest.NewRecorder()
	OrderCreate(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(stub.createInput.Items) != 0 {
		t.Fatalf("expected no explicit lines, got %+v", stub.createInput.Items)
	}
}

func TestOrderUpdateStatusParsesValue(t *testing.T) {
	stub := &stubOrderService{}
	orderID := uuid.New()
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("orderId", orderID.String())

	req := httptest.NewRequest(http.MethodPatch, "/api/orders/"+orderID.String()+"/status", strings.NewReader(`{"status":"shipped"}`))
	ctx := middleware.WithUserID(req.Context(), uuid.New())
	ctx = middleware.WithRole(ctx, enums.RoleWholesaler)
	ctx = context.WithValue(ctx, chi.RouteCtxKey, routeCtx)
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	OrderUpdateStatus(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !stub.statusCalled || stub.statusValue != enums.OrderStatusShipped {
		t.Fatalf("status not forwarded: %v", stub.statusValue)
	}
}

func TestOrderUpdateStatusRejectsUnknownValue(t *testing.T) {
	stub := &stubOrderService{}
	orderID := uuid.New()
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("orderId", orderID.String())

	req := httptest.NewRequest(http.MethodPatch, "/api/orders/"+orderID.String()+"/status", strings.NewReader(`{"status":"teleported"}`))
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
	rec := httptest.NewRecorder()
	OrderUpdateStatus(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status, got %d", rec.Code)
	}
	if stub.statusCalled {
		t.Fatalf("service should not be reached on unknown status")
	}
}

func TestOrderUpdateStatusMapsStateConflict(t *testing.T) {
	stub := &stubOrderService{err: pkgerrors.New(pkgerrors.CodeStateConflict, "cannot cancel a shipped order")}
	orderID := uuid.New()
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("orderId", orderID.String())

	req := httptest.NewRequest(http.MethodPatch, "/api/orders/"+orderID.String()+"/status", strings.NewReader(`{"status":"cancelled"}`))
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
	rec := httptest.NewRecorder()
	OrderUpdateStatus(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for state conflict, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "cannot cancel a shipped order") {
		t.Fatalf("expected message passthrough, got %s", rec.Body.String())
	}
}
