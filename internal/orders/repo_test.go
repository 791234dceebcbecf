package order

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tradzyhq/tradzy-backend/pkg/db/models"
	"github.com/tradzyhq/tradzy-backend/pkg/enums"
)

func seedOrder(t *testing.T, conn *gorm.DB, buyerID, sellerID uuid.UUID, total string, status enums.OrderStatus) *models.Order {
	t.Helper()
	prod := mustCreateProduct(t, conn, sellerID, "Seeded", total, 100)
	o := &models.Order{
		BuyerID:     buyerID,
		TotalAmount: decimal.RequireFromString(total),
		Status:      status,
		Items: []models.OrderItem{{
			ProductID:   prod.ID,
			ProductName: prod.Name,
			Quantity:    1,
			UnitPrice:   prod.Price,
		}},
	}
	require.NoError(t, conn.Create(o).Error)
	return o
}

func TestRepositorySellerScoping(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	buyer := mustCreateUser(t, conn, enums.RoleRetailer)
	sellerA := mustCreateUser(t, conn, enums.RoleWholesaler)
	sellerB := mustCreateUser(t, conn, enums.RoleWholesaler)

	orderA := seedOrder(t, conn, buyer.ID, sellerA.ID, "1.00", enums.OrderStatusPending)
	seedOrder(t, conn, buyer.ID, sellerB.ID, "2.00", enums.OrderStatusPending)

	rows, err := repo.ListForSeller(ctx, sellerA.ID, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, orderA.ID, rows[0].ID)

	has, err := repo.SellerHasLines(ctx, orderA.ID, sellerB.ID)
	require.NoError(t, err)
	assert.False(t, has)

	count, err := repo.CountForSeller(ctx, sellerA.ID, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestRepositoryRevenueSums(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	buyer := mustCreateUser(t, conn, enums.RoleRetailer)
	seller := mustCreateUser(t, conn, enums.RoleWholesaler)

	seedOrder(t, conn, buyer.ID, seller.ID, "10.50", enums.OrderStatusDelivered)
	seedOrder(t, conn, buyer.ID, seller.ID, "4.25", enums.OrderStatusPending)

	total, err := repo.TotalRevenue(ctx)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("14.75")), "got %s", total)

	sellerTotal, err := repo.SellerRevenue(ctx, seller.ID)
	require.NoError(t, err)
	assert.True(t, sellerTotal.Equal(decimal.RequireFromString("14.75")), "got %s", sellerTotal)
}

func TestRepositoryRevenueZeroWhenEmpty(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)

	total, err := repo.TotalRevenue(context.Background())
	require.NoError(t, err)
	assert.True(t, total.IsZero())
}

func TestRepositoryUpdateStatus(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	buyer := mustCreateUser(t, conn, enums.RoleRetailer)
	seller := mustCreateUser(t, conn, enums.RoleWholesaler)
	o := seedOrder(t, conn, buyer.ID, seller.ID, "3.00", enums.OrderStatusPending)

	require.NoError(t, repo.UpdateStatus(ctx, o.ID, enums.OrderStatusConfirmed))

	reloaded, err := repo.FindByID(ctx, o.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded)
	assert.Equal(t, enums.OrderStatusConfirmed, reloaded.Status)
	require.Len(t, reloaded.Items, 1)
}
