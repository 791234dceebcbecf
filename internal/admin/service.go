package admin

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	order "github.com/tradzyhq/tradzy-backend/internal/orders"
	product "github.com/tradzyhq/tradzy-backend/internal/products"
	user "github.com/tradzyhq/tradzy-backend/internal/users"
	"github.com/tradzyhq/tradzy-backend/pkg/enums"
	pkgerrors "github.com/tradzyhq/tradzy-backend/pkg/errors"
)

// StatsDTO aggregates platform-wide numbers for the admin dashboard.
type StatsDTO struct {
	TotalUsers       int64           `json:"total_users"`
	TotalRetailers   int64           `json:"total_retailers"`
	TotalWholesalers int64           `json:"total_wholesalers"`
	TotalProducts    int64           `json:"total_products"`
	TotalOrders      int64           `json:"total_orders"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
}

// Service exposes platform administration operations.
type Service interface {
	ListUsers(ctx context.Context) ([]user.UserDTO, error)
	ListRetailers(ctx context.Context) ([]user.UserDTO, error)
	ListWholesalers(ctx context.Context) ([]user.UserDTO, error)
	DeleteUser(ctx context.Context, actorID, targetID uuid.UUID) error
	Stats(ctx context.Context) (*StatsDTO, error)
}

type service struct {
	users    *user.Repository
	products *product.Repository
	orders   *order.Repository
}

// NewService constructs the admin service.
func NewService(users *user.Repository, products *product.Repository, orders *order.Repository) (Service, error) {
	if users == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if orders == nil {
		return nil, fmt.Errorf("order repository required")
	}
	return &service{users: users, products: products, orders: orders}, nil
}

// ListUsers returns every account, newest first.
func (s *service) ListUsers(ctx context.Context) ([]user.UserDTO, error) {
	rows, err := s.users.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing users")
	}
	return user.ToDTOs(rows), nil
}

// ListRetailers returns all retailer accounts.
func (s *service) ListRetailers(ctx context.Context) ([]user.UserDTO, error) {
	rows, err := s.users.ListByRole(ctx, enums.RoleRetailer)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing retailers")
	}
	return user.ToDTOs(rows), nil
}

// ListWholesalers returns all wholesaler accounts.
func (s *service) ListWholesalers(ctx context.Context) ([]user.UserDTO, error) {
	rows, err := s.users.ListByRole(ctx, enums.RoleWholesaler)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing wholesalers")
	}
	return user.ToDTOs(rows), nil
}

// DeleteUser removes an account. Admins cannot remove themselves; that
// would orphan the session performing the call.
func (s *service) DeleteUser(ctx context.Context, actorID, targetID uuid.UUID) error {
	if actorID == targetID {
		return pkgerrors.New(pkgerrors.CodeValidation, "cannot delete your own account")
	}
	deleted, err := s.users.Delete(ctx, targetID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting user")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return nil
}

// Stats assembles the platform-wide dashboard counters.
func (s *service) Stats(ctx context.Context) (*StatsDTO, error) {
	stats := &StatsDTO{}
	var err error

	if stats.TotalUsers, err = s.users.Count(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting users")
	}
	if stats.TotalRetailers, err = s.users.CountByRole(ctx, enums.RoleRetailer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting retailers")
	}
	if stats.TotalWholesalers, err = s.users.CountByRole(ctx, enums.RoleWholesaler); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting wholesalers")
	}
	if stats.TotalProducts, err = s.products.Count(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting products")
	}
	if stats.TotalOrders, err = s.orders.Count(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting orders")
	}
	if stats.TotalRevenue, err = s.orders.TotalRevenue(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "summing revenue")
	}
	return stats, nil
}
