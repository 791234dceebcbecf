package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	product "github.com/tradzyhq/tradzy-backend/internal/products"
	"github.com/tradzyhq/tradzy-backend/pkg/db"
	"github.com/tradzyhq/tradzy-backend/pkg/db/models"
	pkgerrors "github.com/tradzyhq/tradzy-backend/pkg/errors"
)

// Service exposes cart operations for retail buyers.
type Service interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
	AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*CartDTO, error)
	UpdateItem(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*CartDTO, error)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*CartDTO, error)
}

type service struct {
	repo     *Repository
	products *product.Repository
	dbClient *db.Client
}

// NewService constructs the cart service.
func NewService(repo *Repository, products *product.Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, products: products, dbClient: dbClient}, nil
}

// GetCart returns the cart, creating the container on first read.
func (s *service) GetCart(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	cart, err := s.repo.EnsureCart(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
	}
	return s.buildDTO(ctx, cart.ID)
}

// AddItem upserts a product line. Adding a product already in the cart
// increments the line instead of failing.
func (s *service) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*CartDTO, error) {
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	var cartID uuid.UUID
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		products := s.products.WithTx(tx)

		prod, err := products.FindByID(ctx, productID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
		}
		if prod == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}

		cart, err := repo.EnsureCart(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
		}
		cartID = cart.ID

		existing, err := repo.FindItemByProduct(ctx, cart.ID, productID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart item")
		}

		requested := quantity
		if existing != nil {
			requested += existing.Quantity
		}
		if requested > prod.Stock {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("only %d in stock", prod.Stock))
		}

		if existing != nil {
			return repo.UpdateItemQuantity(ctx, existing.ID, requested)
		}
		return repo.CreateItem(ctx, &models.CartItem{
			CartID:    cart.ID,
			ProductID: productID,
			Quantity:  quantity,
		})
	})
	if err != nil {
		return nil, err
	}
	return s.buildDTO(ctx, cartID)
}

// UpdateItem sets the quantity of a line the user owns. A line in someone
// else's cart is reported as missing, not forbidden.
func (s *service) UpdateItem(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*CartDTO, error) {
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	prod, err := s.products.FindByID(ctx, item.ProductID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	if prod != nil && quantity > prod.Stock {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("only %d in stock", prod.Stock))
	}

	if err := s.repo.UpdateItemQuantity(ctx, item.ID, quantity); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating cart item")
	}
	return s.buildDTO(ctx, item.CartID)
}

// RemoveItem deletes a line the user owns, with the same masking as UpdateItem.
func (s *service) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*CartDTO, error) {
	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.DeleteItem(ctx, item.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "removing cart item")
	}
	return s.buildDTO(ctx, item.CartID)
}

func (s *service) ownedItem(ctx context.Context, userID, itemID uuid.UUID) (*models.CartItem, error) {
	item, err := s.repo.FindItemForUser(ctx, itemID, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart item")
	}
	if item == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	return item, nil
}

func (s *service) buildDTO(ctx context.Context, cartID uuid.UUID) (*CartDTO, error) {
	rows, err := s.repo.ListItems(ctx, cartID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing cart items")
	}

	dto := &CartDTO{
		ID:    cartID,
		Items: make([]ItemDTO, 0, len(rows)),
		Total: decimal.Zero,
	}
	for _, row := range rows {
		subtotal := row.Price.Mul(decimal.NewFromInt(int64(row.Quantity)))
		dto.Items = append(dto.Items, ItemDTO{
			ID:        row.ItemID,
			ProductID: row.ProductID,
			Name:      row.Name,
			Price:     row.Price,
			Quantity:  row.Quantity,
			Subtotal:  subtotal,
			Stock:     row.Stock,
			ImageURL:  row.ImageURL,
		})
		dto.Total = dto.Total.Add(subtotal)
	}
	return dto, nil
}
