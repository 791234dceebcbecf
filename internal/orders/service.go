package order

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	cartpkg "github.com/tradzyhq/tradzy-backend/internal/cart"
	"github.com/tradzyhq/tradzy-backend/internal/notifications"
	product "github.com/tradzyhq/tradzy-backend/internal/products"
	user "github.com/tradzyhq/tradzy-backend/internal/users"
	"github.com/tradzyhq/tradzy-backend/pkg/db"
	"github.com/tradzyhq/tradzy-backend/pkg/db/models"
	"github.com/tradzyhq/tradzy-backend/pkg/enums"
	pkgerrors "github.com/tradzyhq/tradzy-backend/pkg/errors"
)

// Service exposes order placement and lifecycle operations.
type Service interface {
	ListOrders(ctx context.Context, actorID uuid.UUID, role enums.Role) ([]OrderDTO, error)
	GetOrder(ctx context.Context, actorID uuid.UUID, role enums.Role, orderID uuid.UUID) (*OrderDTO, error)
	CreateOrder(ctx context.Context, buyerID uuid.UUID, input CreateOrderInput) (*OrderDTO, error)
	UpdateStatus(ctx context.Context, actorID uuid.UUID, role enums.Role, orderID uuid.UUID, status enums.OrderStatus) (*OrderDTO, error)
}

// LineInput is one requested purchase line.
type LineInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// CreateOrderInput describes an order request. With no explicit lines the
// buyer's cart is used and cleared on success. Email overrides the
// registered address for the confirmation receipt.
type CreateOrderInput struct {
	Items []LineInput
	Email *string
}

// Params collects the service dependencies.
type Params struct {
	Orders   *Repository
	Carts    *cartpkg.Repository
	Products *product.Repository
	Users    *user.Repository
	Outbox   *notifications.Repository
	DBClient *db.Client
}

type service struct {
	orders   *Repository
	carts    *cartpkg.Repository
	products *product.Repository
	users    *user.Repository
	outbox   *notifications.Repository
	dbClient *db.Client
}

// NewService constructs the order service.
func NewService(p Params) (Service, error) {
	if p.Orders == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if p.Carts == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if p.Products == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if p.Users == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if p.Outbox == nil {
		return nil, fmt.Errorf("outbox repository required")
	}
	if p.DBClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{
		orders:   p.Orders,
		carts:    p.Carts,
		products: p.Products,
		users:    p.Users,
		outbox:   p.Outbox,
		dbClient: p.DBClient,
	}, nil
}

// ListOrders returns the role-scoped order history: buyers see their own
// orders, wholesalers the orders touching their products, admins everything.
func (s *service) ListOrders(ctx context.Context, actorID uuid.UUID, role enums.Role) ([]OrderDTO, error) {
	var (
		rows []models.Order
		err  error
	)
	switch role {
	case enums.RoleAdmin:
		rows, err = s.orders.ListAll(ctx)
	case enums.RoleWholesaler:
		rows, err = s.orders.ListForSeller(ctx, actorID, nil)
	default:
		rows, err = s.orders.ListByBuyer(ctx, actorID)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}
	return ToDTOs(rows), nil
}

// GetOrder returns a single order the actor may see. Orders outside the
// actor's scope are reported as missing.
func (s *service) GetOrder(ctx context.Context, actorID uuid.UUID, role enums.Role, orderID uuid.UUID) (*OrderDTO, error) {
	row, err := s.visibleOrder(ctx, actorID, role, orderID)
	if err != nil {
		return nil, err
	}
	return ToDTO(row), nil
}

// CreateOrder places an order from explicit lines or from the cart. Stock
// is decremented conditionally inside one transaction, so either every
// line is reserved or nothing is written.
func (s *service) CreateOrder(ctx context.Context, buyerID uuid.UUID, input CreateOrderInput) (*OrderDTO, error) {
	for _, line := range input.Items {
		if line.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
		}
	}

	buyer, err := s.users.FindByID(ctx, buyerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading buyer")
	}
	if buyer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "account no longer exists")
	}

	recipient := buyer.Email
	if input.Email != nil && *input.Email != "" {
		recipient = *input.Email
	}

	var created *models.Order
	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		orders := s.orders.WithTx(tx)
		carts := s.carts.WithTx(tx)
		products := s.products.WithTx(tx)
		outbox := s.outbox.WithTx(tx)

		lines := input.Items
		fromCart := len(lines) == 0
		var cartID uuid.UUID
		if fromCart {
			cart, err := carts.FindCartByUserID(ctx, buyerID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
			}
			if cart == nil {
				return pkgerrors.New(pkgerrors.CodeValidation, "order has no items")
			}
			cartID = cart.ID
			items, err := carts.ListItems(ctx, cart.ID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing cart items")
			}
			for _, item := range items {
				lines = append(lines, LineInput{ProductID: item.ProductID, Quantity: item.Quantity})
			}
		}
		if len(lines) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "order has no items")
		}

		total := decimal.Zero
		orderItems := make([]models.OrderItem, 0, len(lines))
		receiptItems := make([]notifications.ReceiptItem, 0, len(lines))
		for _, line := range lines {
			prod, err := products.FindByID(ctx, line.ProductID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
			}
			if prod == nil {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}

			ok, err := products.DecrementStock(ctx, prod.ID, line.Quantity)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reserving stock")
			}
			if !ok {
				return pkgerrors.New(pkgerrors.CodeValidation,
					fmt.Sprintf("not enough stock for %s", prod.Name))
			}

			subtotal := prod.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
			total = total.Add(subtotal)
			orderItems = append(orderItems, models.OrderItem{
				ProductID:   prod.ID,
				ProductName: prod.Name,
				Quantity:    line.Quantity,
				UnitPrice:   prod.Price,
			})
			receiptItems = append(receiptItems, notifications.ReceiptItem{
				Name:      prod.Name,
				Quantity:  line.Quantity,
				UnitPrice: prod.Price,
				Subtotal:  subtotal,
			})
		}

		row := &models.Order{
			BuyerID:     buyerID,
			TotalAmount: total,
			Status:      enums.OrderStatusPending,
			Items:       orderItems,
		}
		if _, err := orders.Create(ctx, row); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating order")
		}

		if fromCart {
			if err := carts.ClearItems(ctx, cartID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clearing cart")
			}
		}

		subject, body, err := notifications.RenderReceipt(notifications.ReceiptData{
			OrderID:  row.ID,
			Username: buyer.Username,
			Items:    receiptItems,
			Total:    total,
			PlacedAt: time.Now().UTC(),
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rendering receipt")
		}
		if err := outbox.Enqueue(ctx, &models.EmailOutbox{
			OrderID:   row.ID,
			Recipient: recipient,
			Subject:   subject,
			BodyHTML:  body,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "queueing receipt")
		}

		created = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ToDTO(created), nil
}

// UpdateStatus applies a role-scoped status transition.
//
// Retailers may cancel their own order while it is still pending.
// Wholesalers move orders containing their products forward through
// confirmed, shipped, and delivered; going backwards is refused. Admins
// may set any valid status on any order.
func (s *service) UpdateStatus(ctx context.Context, actorID uuid.UUID, role enums.Role, orderID uuid.UUID, status enums.OrderStatus) (*OrderDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid status %q", status))
	}

	row, err := s.visibleOrder(ctx, actorID, role, orderID)
	if err != nil {
		return nil, err
	}

	switch role {
	case enums.RoleAdmin:
		// no transition restrictions

	case enums.RoleRetailer:
		if status != enums.OrderStatusCancelled {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "buyers may only cancel orders")
		}
		if row.Status != enums.OrderStatusPending {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("cannot cancel a %s order", row.Status))
		}

	case enums.RoleWholesaler:
		switch status {
		case enums.OrderStatusConfirmed, enums.OrderStatusShipped, enums.OrderStatusDelivered:
		default:
			return nil, pkgerrors.New(pkgerrors.CodeForbidden,
				fmt.Sprintf("sellers cannot set status %s", status))
		}
		if !row.Status.CanAdvanceTo(status) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("cannot move order from %s to %s", row.Status, status))
		}

	default:
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "access denied")
	}

	if err := s.orders.UpdateStatus(ctx, row.ID, status); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating order status")
	}

	fresh, err := s.orders.FindByID(ctx, row.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reloading order")
	}
	return ToDTO(fresh), nil
}

func (s *service) visibleOrder(ctx context.Context, actorID uuid.UUID, role enums.Role, orderID uuid.UUID) (*models.Order, error) {
	row, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	if row == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}

	switch role {
	case enums.RoleAdmin:
		return row, nil
	case enums.RoleWholesaler:
		ok, err := s.orders.SellerHasLines(ctx, orderID, actorID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking order visibility")
		}
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return row, nil
	default:
		if row.BuyerID != actorID {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return row, nil
	}
}
