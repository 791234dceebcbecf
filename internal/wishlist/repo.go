package wishlist

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tradzyhq/tradzy-backend/pkg/db/models"
)

// ItemWithProduct joins a wishlist entry with the current product row.
type ItemWithProduct struct {
	ItemID    uuid.UUID
	ProductID uuid.UUID
	Name      string
	Price     decimal.Decimal
	Stock     int
	ImageURL  *string
}

// Repository provides persistence for wishlists.
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

// EnsureWishlist lazily creates the user's wishlist container, racing
// safely on the user_id unique constraint.
func (r *Repository) EnsureWishlist(ctx context.Context, userID uuid.UUID) (*models.Wishlist, error) {
	fresh := &models.Wishlist{UserID: userID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(fresh).Error
	if err != nil {
		return nil, err
	}

	var list models.Wishlist
	if err := r.db.WithContext(ctx).First(&list, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &list, nil
}

// AddItem inserts an entry, silently keeping the existing one when the
// product is already saved. Reports whether a new row was written.
func (r *Repository) AddItem(ctx context.Context, wishlistID, productID uuid.UUID) (bool, error) {
	item := &models.WishlistItem{
		WishlistID: wishlistID,
		ProductID:  productID,
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "wishlist_id"}, {Name: "product_id"}},
			DoNothing: true,
		}).
		Create(item)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ListItems returns the wishlist entries joined with product data.
func (r *Repository) ListItems(ctx context.Context, wishlistID uuid.UUID) ([]ItemWithProduct, error) {
	var items []ItemWithProduct
	err := r.db.WithContext(ctx).
		Table("wishlist_items").
		Select(`wishlist_items.id AS item_id,
			wishlist_items.product_id,
			products.name,
			products.price,
			products.stock,
			products.image_url`).
		Joins("JOIN products ON products.id = wishlist_items.product_id").
		Where("wishlist_items.wishlist_id = ?", wishlistID).
		Order("wishlist_items.created_at ASC").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// FindItemForUser loads an entry only when it belongs to the user's
// wishlist. The join is the ownership check.
func (r *Repository) FindItemForUser(ctx context.Context, itemID, userID uuid.UUID) (*models.WishlistItem, error) {
	var item models.WishlistItem
	err := r.db.WithContext(ctx).
		Joins("JOIN wishlists ON wishlists.id = wishlist_items.wishlist_id").
		Where("wishlist_items.id = ? AND wishlists.user_id = ?", itemID, userID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// DeleteItem removes an entry by primary key.
func (r *Repository) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", itemID).Delete(&models.WishlistItem{}).Error
}
