package wishlist

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	product "github.com/tradzyhq/tradzy-backend/internal/products"
	pkgerrors "github.com/tradzyhq/tradzy-backend/pkg/errors"
)

// ItemDTO is a wishlist entry with its live product snapshot.
type ItemDTO struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	ImageURL  *string         `json:"image_url,omitempty"`
}

// WishlistDTO is the full wishlist view returned to the client.
type WishlistDTO struct {
	ID    uuid.UUID `json:"id"`
	Items []ItemDTO `json:"items"`
}

// Service exposes wishlist operations.
type Service interface {
	GetWishlist(ctx context.Context, userID uuid.UUID) (*WishlistDTO, error)
	AddItem(ctx context.Context, userID, productID uuid.UUID) (*WishlistDTO, error)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*WishlistDTO, error)
}

type service struct {
	repo     *Repository
	products *product.Repository
}

// NewService constructs the wishlist service.
func NewService(repo *Repository, products *product.Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("wishlist repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo, products: products}, nil
}

// GetWishlist returns the wishlist, creating the container on first read.
func (s *service) GetWishlist(ctx context.Context, userID uuid.UUID) (*WishlistDTO, error) {
	list, err := s.repo.EnsureWishlist(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading wishlist")
	}
	return s.buildDTO(ctx, list.ID)
}

// AddItem saves a product. Re-adding an already saved product is a no-op,
// not an error.
func (s *service) AddItem(ctx context.Context, userID, productID uuid.UUID) (*WishlistDTO, error) {
	prod, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	if prod == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	list, err := s.repo.EnsureWishlist(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading wishlist")
	}
	if _, err := s.repo.AddItem(ctx, list.ID, productID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving wishlist item")
	}
	return s.buildDTO(ctx, list.ID)
}

// RemoveItem deletes an entry the user owns. A foreign entry is reported
// as missing, not forbidden.
func (s *service) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*WishlistDTO, error) {
	item, err := s.repo.FindItemForUser(ctx, itemID, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading wishlist item")
	}
	if item == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "wishlist item not found")
	}
	if err := s.repo.DeleteItem(ctx, item.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "removing wishlist item")
	}
	return s.buildDTO(ctx, item.WishlistID)
}

func (s *service) buildDTO(ctx context.Context, wishlistID uuid.UUID) (*WishlistDTO, error) {
	rows, err := s.repo.ListItems(ctx, wishlistID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing wishlist items")
	}

	dto := &WishlistDTO{
		ID:    wishlistID,
		Items: make([]ItemDTO, 0, len(rows)),
	}
	for _, row := range rows {
		dto.Items = append(dto.Items, ItemDTO{
			ID:        row.ItemID,
			ProductID: row.ProductID,
			Name:      row.Name,
			Price:     row.Price,
			Stock:     row.Stock,
			ImageURL:  row.ImageURL,
		})
	}
	return dto, nil
}
