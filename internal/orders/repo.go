package order

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tradzyhq/tradzy-backend/pkg/db/models"
	"github.com/tradzyhq/tradzy-backend/pkg/enums"
)

// Repository provides persistence for orders and their lines.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts the order together with its lines.
func (r *Repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// FindByID loads an order with its lines. Returns nil when absent.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByBuyer returns a buyer's orders with lines, newest first.
func (r *Repository) ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("buyer_id = ?", buyerID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// ListAll returns every order with lines, newest first.
func (r *Repository) ListAll(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// ListForSeller returns orders containing at least one of the seller's
// products, newest first. Each order carries only the seller's own lines;
// other wholesalers' lines stay invisible.
func (r *Repository) ListForSeller(ctx context.Context, sellerID uuid.UUID, status *enums.OrderStatus) ([]models.Order, error) {
	idQuery := r.db.WithContext(ctx).
		Table("order_items").
		Select("DISTINCT order_items.order_id").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("products.seller_id = ?", sellerID)

	query := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Joins("JOIN products ON products.id = order_items.product_id").
				Where("products.seller_id = ?", sellerID)
		}).
		Where("orders.id IN (?)", idQuery)
	if status != nil {
		query = query.Where("orders.status = ?", *status)
	}

	var orders []models.Order
	if err := query.Order("orders.created_at DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// SellerHasLines reports whether any line of the order resolves to one of
// the seller's products.
func (r *Repository) SellerHasLines(ctx context.Context, orderID, sellerID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("order_items").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("order_items.order_id = ? AND products.seller_id = ?", orderID, sellerID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateStatus sets the order status.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// Count returns the total number of orders.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Order{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountForSeller returns the number of orders containing the seller's products.
func (r *Repository) CountForSeller(ctx context.Context, sellerID uuid.UUID, status *enums.OrderStatus) (int64, error) {
	query := r.db.WithContext(ctx).
		Table("order_items").
		Joins("JOIN products ON products.id = order_items.product_id").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("products.seller_id = ?", sellerID)
	if status != nil {
		query = query.Where("orders.status = ?", *status)
	}

	var count int64
	if err := query.Distinct("order_items.order_id").Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// TotalRevenue sums every order total.
func (r *Repository) TotalRevenue(ctx context.Context) (decimal.Decimal, error) {
	var raw *string
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("CAST(COALESCE(SUM(total_amount), 0) AS TEXT)").
		Scan(&raw).Error
	if err != nil {
		return decimal.Zero, err
	}
	return parseDecimal(raw)
}

// SellerRevenue sums the seller's line subtotals across all orders.
func (r *Repository) SellerRevenue(ctx context.Context, sellerID uuid.UUID) (decimal.Decimal, error) {
	var raw *string
	err := r.db.WithContext(ctx).
		Table("order_items").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("products.seller_id = ?", sellerID).
		Select("CAST(COALESCE(SUM(order_items.unit_price * order_items.quantity), 0) AS TEXT)").
		Scan(&raw).Error
	if err != nil {
		return decimal.Zero, err
	}
	return parseDecimal(raw)
}

// CategorySale aggregates a seller's units and revenue per product category.
type CategorySale struct {
	Category string
	Units    int64
	Revenue  decimal.Decimal
}

type categorySaleRow struct {
	Category *string
	Units    int64
	Revenue  *string
}

// SellerCategorySales groups the seller's sold lines by product category.
// Uncategorized products land in an empty-string bucket.
func (r *Repository) SellerCategorySales(ctx context.Context, sellerID uuid.UUID) ([]CategorySale, error) {
	var rows []categorySaleRow
	err := r.db.WithContext(ctx).
		Table("order_items").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("products.seller_id = ?", sellerID).
		Select("products.category AS category, " +
			"SUM(order_items.quantity) AS units, " +
			"CAST(SUM(order_items.unit_price * order_items.quantity) AS TEXT) AS revenue").
		Group("products.category").
		Order("SUM(order_items.unit_price * order_items.quantity) DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	sales := make([]CategorySale, 0, len(rows))
	for _, row := range rows {
		revenue, err := parseDecimal(row.Revenue)
		if err != nil {
			return nil, err
		}
		sale := CategorySale{Units: row.Units, Revenue: revenue}
		if row.Category != nil {
			sale.Category = *row.Category
		}
		sales = append(sales, sale)
	}
	return sales, nil
}

// ProductSale aggregates units and revenue for one of the seller's products.
type ProductSale struct {
	ProductID   uuid.UUID
	ProductName string
	Units       int64
	Revenue     decimal.Decimal
}

type productSaleRow struct {
	ProductID   uuid.UUID
	ProductName string
	Units       int64
	Revenue     *string
}

// SellerTopProducts returns the seller's best sellers by units sold. Names
// come from the order line snapshot, so renamed products keep their sold-as
// name.
func (r *Repository) SellerTopProducts(ctx context.Context, sellerID uuid.UUID, limit int) ([]ProductSale, error) {
	var rows []productSaleRow
	err := r.db.WithContext(ctx).
		Table("order_items").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("products.seller_id = ?", sellerID).
		Select("order_items.product_id AS product_id, " +
			"MAX(order_items.product_name) AS product_name, " +
			"SUM(order_items.quantity) AS units, " +
			"CAST(SUM(order_items.unit_price * order_items.quantity) AS TEXT) AS revenue").
		Group("order_items.product_id").
		Order("SUM(order_items.quantity) DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	sales := make([]ProductSale, 0, len(rows))
	for _, row := range rows {
		revenue, err := parseDecimal(row.Revenue)
		if err != nil {
			return nil, err
		}
		sales = append(sales, ProductSale{
			ProductID:   row.ProductID,
			ProductName: row.ProductName,
			Units:       row.Units,
			Revenue:     revenue,
		})
	}
	return sales, nil
}

// SellerDistinctBuyers counts how many different buyers ordered from the seller.
func (r *Repository) SellerDistinctBuyers(ctx context.Context, sellerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("order_items").
		Joins("JOIN products ON products.id = order_items.product_id").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("products.seller_id = ?", sellerID).
		Distinct("orders.buyer_id").
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func parseDecimal(raw *string) (decimal.Decimal, error) {
	if raw == nil || *raw == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(*raw)
}
