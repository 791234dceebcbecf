package wholesaler

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	order "github.com/tradzyhq/tradzy-backend/internal/orders"
	product "github.com/tradzyhq/tradzy-backend/internal/products"
	"github.com/tradzyhq/tradzy-backend/pkg/enums"
	pkgerrors "github.com/tradzyhq/tradzy-backend/pkg/errors"
)

// StatsDTO aggregates a seller's own numbers.
type StatsDTO struct {
	TotalProducts int64           `json:"total_products"`
	TotalOrders   int64           `json:"total_orders"`
	PendingOrders int64           `json:"pending_orders"`
	Revenue       decimal.Decimal `json:"revenue"`
}

// DashboardDTO combines stats with the latest incoming orders.
type DashboardDTO struct {
	Stats        StatsDTO         `json:"stats"`
	RecentOrders []order.OrderDTO `json:"recent_orders"`
}

// CategorySaleDTO is one row of the per-category sales breakdown.
type CategorySaleDTO struct {
	Category string          `json:"category"`
	Units    int64           `json:"units"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// ProductSaleDTO is one row of the best-seller ranking.
type ProductSaleDTO struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Units       int64           `json:"units"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// SalesStatsDTO is the seller's sales analytics view.
type SalesStatsDTO struct {
	CategorySales     []CategorySaleDTO `json:"category_sales"`
	TopProducts       []ProductSaleDTO  `json:"top_products"`
	DistinctCustomers int64             `json:"distinct_customers"`
}

const (
	recentOrderLimit = 5
	topProductLimit  = 5
)

// Service exposes the wholesaler's self-service views.
type Service interface {
	Dashboard(ctx context.Context, sellerID uuid.UUID) (*DashboardDTO, error)
	Products(ctx context.Context, sellerID uuid.UUID, filter product.SellerFilter) ([]product.ProductDTO, error)
	Product(ctx context.Context, sellerID, productID uuid.UUID) (*product.ProductDTO, error)
	Orders(ctx context.Context, sellerID uuid.UUID, status *enums.OrderStatus) ([]order.OrderDTO, error)
	Stats(ctx context.Context, sellerID uuid.UUID) (*StatsDTO, error)
	SalesStats(ctx context.Context, sellerID uuid.UUID) (*SalesStatsDTO, error)
}

type service struct {
	products *product.Repository
	orders   *order.Repository
}

// NewService constructs the wholesaler service.
func NewService(products *product.Repository, orders *order.Repository) (Service, error) {
	if products == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if orders == nil {
		return nil, fmt.Errorf("order repository required")
	}
	return &service{products: products, orders: orders}, nil
}

// Dashboard returns stats plus the most recent incoming orders.
func (s *service) Dashboard(ctx context.Context, sellerID uuid.UUID) (*DashboardDTO, error) {
	stats, err := s.Stats(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	rows, err := s.orders.ListForSeller(ctx, sellerID, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}
	if len(rows) > recentOrderLimit {
		rows = rows[:recentOrderLimit]
	}

	return &DashboardDTO{
		Stats:        *stats,
		RecentOrders: order.ToDTOs(rows),
	}, nil
}

// Products returns the seller's catalog, optionally filtered.
func (s *service) Products(ctx context.Context, sellerID uuid.UUID, filter product.SellerFilter) ([]product.ProductDTO, error) {
	rows, err := s.products.ListBySeller(ctx, sellerID, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing products")
	}
	return product.ToDTOs(rows), nil
}

// Product returns one of the seller's own products. Foreign products are
// reported as missing.
func (s *service) Product(ctx context.Context, sellerID, productID uuid.UUID) (*product.ProductDTO, error) {
	row, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	if row == nil || row.SellerID != sellerID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return product.ToDTO(row), nil
}

// Orders returns incoming orders trimmed to the seller's own lines.
func (s *service) Orders(ctx context.Context, sellerID uuid.UUID, status *enums.OrderStatus) ([]order.OrderDTO, error) {
	rows, err := s.orders.ListForSeller(ctx, sellerID, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}
	return order.ToDTOs(rows), nil
}

// Stats assembles the seller's dashboard counters.
func (s *service) Stats(ctx context.Context, sellerID uuid.UUID) (*StatsDTO, error) {
	stats := &StatsDTO{}
	var err error

	if stats.TotalProducts, err = s.products.CountBySeller(ctx, sellerID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting products")
	}
	if stats.TotalOrders, err = s.orders.CountForSeller(ctx, sellerID, nil); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting orders")
	}
	pending := enums.OrderStatusPending
	if stats.PendingOrders, err = s.orders.CountForSeller(ctx, sellerID, &pending); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting pending orders")
	}
	if stats.Revenue, err = s.orders.SellerRevenue(ctx, sellerID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "summing revenue")
	}
	return stats, nil
}

// SalesStats breaks the seller's sales down by category and product and
// counts distinct buyers.
func (s *service) SalesStats(ctx context.Context, sellerID uuid.UUID) (*SalesStatsDTO, error) {
	categories, err := s.orders.SellerCategorySales(ctx, sellerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "grouping category sales")
	}
	top, err := s.orders.SellerTopProducts(ctx, sellerID, topProductLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "ranking products")
	}
	buyers, err := s.orders.SellerDistinctBuyers(ctx, sellerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting buyers")
	}

	out := &SalesStatsDTO{
		CategorySales:     make([]CategorySaleDTO, 0, len(categories)),
		TopProducts:       make([]ProductSaleDTO, 0, len(top)),
		DistinctCustomers: buyers,
	}
	for _, row := range categories {
		out.CategorySales = append(out.CategorySales, CategorySaleDTO(row))
	}
	for _, row := range top {
		out.TopProducts = append(out.TopProducts, ProductSaleDTO(row))
	}
	return out, nil
}
