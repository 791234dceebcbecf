package user

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

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
	if err := conn.AutoMigrate(&models.User{}); err != nil {
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

func mustCreateUser(t *testing.T, conn *gorm.DB, username, email string) *models.User {
	t.Helper()
	u := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: "hash",
		Role:         enums.RoleRetailer,
	}
	if err := conn.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func TestFindByIdentifierMatchesUsernameAndEmail(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	u := mustCreateUser(t, conn, "casey", "casey@example.com")

	byUsername, err := repo.FindByIdentifier(ctx, "casey")
	if err != nil {
		t.Fatalf("lookup by username: %v", err)
	}
	if byUsername == nil || byUsername.ID != u.ID {
		t.Fatalf("expected user %s by username, got %+v", u.ID, byUsername)
	}

	byEmail, err := repo.FindByIdentifier(ctx, "casey@example.com")
	if err != nil {
		t.Fatalf("lookup by email: %v", err)
	}
	if byEmail == nil || byEmail.ID != u.ID {
		t.Fatalf("expected user %s by email, got %+v", u.ID, byEmail)
	}

	missing, err := repo.FindByIdentifier(ctx, "nobody")
	if err != nil {
		t.Fatalf("lookup missing: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for unknown identifier, got %+v", missing)
	}
}

func TestFindByIdentifierPrefersUsernameMatch(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	// One account's username collides with another account's email. The
	// username match must win.
	owner := mustCreateUser(t, conn, "pat@example.com", "other@example.com")
	mustCreateUser(t, conn, "pat", "pat@example.com")

	found, err := repo.FindByIdentifier(ctx, "pat@example.com")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if found == nil || found.ID != owner.ID {
		t.Fatalf("expected username match %s, got %+v", owner.ID, found)
	}
}
