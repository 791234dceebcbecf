package order

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	cartpkg "github.com/tradzyhq/tradzy-backend/internal/cart"
	"github.com/tradzyhq/tradzy-backend/internal/notifications"
	product "github.com/tradzyhq/tradzy-backend/internal/products"
	user "github.com/tradzyhq/tradzy-backend/internal/users"
	"github.com/tradzyhq/tradzy-backend/pkg/db"
	"github.com/tradzyhq/tradzy-backend/pkg/db/models"
	"github.com/tradzyhq/tradzy-backend/pkg/enums"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := conn.AutoMigrate(
		&models.User{}, &models.Product{},
		&models.Cart{}, &models.CartItem{},
		&models.Order{}, &models.OrderItem{},
		&models.EmailOutbox{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		sqlDB, err := conn.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return conn
}

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn := openTestDB(t)
	svc, err := NewService(Params{
		Orders:   NewRepository(conn),
		Carts:    cartpkg.NewRepository(conn),
		Products: product.NewRepository(conn),
		Users:    user.NewRepository(conn),
		Outbox:   notifications.NewRepository(conn),
		DBClient: db.NewFromGorm(conn),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, conn
}

func mustCreateUser(t *testing.T, conn *gorm.DB, role enums.Role) *models.User {
	t.Helper()
	u := &models.User{
		Username:     fmt.Sprintf("user_%s", uuid.NewString()[:8]),
		Email:        fmt.Sprintf("u_%s@example.com", uuid.NewString()[:8]),
		PasswordHash: "hash",
		Role:         role,
	}
	if err := conn.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func mustCreateProduct(t *testing.T, conn *gorm.DB, sellerID uuid.UUID, name, price string, stock int) *models.Product {
	t.Helper()
	p := &models.Product{
		SellerID: sellerID,
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
	}
	if err := conn.Create(p).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return p
}
