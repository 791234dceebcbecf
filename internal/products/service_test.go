package product

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/tradzyhq/tradzy-backend/pkg/enums"
	pkgerrors "github.com/tradzyhq/tradzy-backend/pkg/errors"
)

func TestCreateProductNormalizesCategory(t *testing.T) {
	conn := openTestDB(t)
	svc, err := NewService(NewRepository(conn))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	ctx := context.Background()
	seller := mustCreateTestSeller(t, conn)

	dto, err := svc.CreateProduct(ctx, seller.ID, CreateProductInput{
		Name:     "  Basmati Rice  ",
		Price:    decimal.RequireFromString("19.99"),
		Stock:    100,
		Category: stringPtr("  Grains "),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.Name != "Basmati Rice" {
		t.Fatalf("expected trimmed name, got %q", dto.Name)
	}
	if dto.Category == nil || *dto.Category != "grains" {
		t.Fatalf("expected lowercased category, got %v", dto.Category)
	}
}

func TestCreateProductValidation(t *testing.T) {
	conn := openTestDB(t)
	svc, _ := NewService(NewRepository(conn))
	ctx := context.Background()
	seller := mustCreateTestSeller(t, conn)

	cases := []CreateProductInput{
		{Name: "   ", Price: decimal.NewFromInt(1), Stock: 1},
		{Name: "Thing", Price: decimal.NewFromInt(-1), Stock: 1},
		{Name: "Thing", Price: decimal.NewFromInt(1), Stock: -1},
	}
	for _, input := range cases {
		_, err := svc.CreateProduct(ctx, seller.ID, input)
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error for %+v, got %v", input, err)
		}
	}
}

func TestUpdateProductOwnershipCheckedBeforeValidation(t *testing.T) {
	conn := openTestDB(t)
	svc, _ := NewService(NewRepository(conn))
	ctx := context.Background()
	owner := mustCreateTestSeller(t, conn)
	intruder := mustCreateTestSeller(t, conn)

	dto, err := svc.CreateProduct(ctx, owner.ID, CreateProductInput{
		Name:  "Widget",
		Price: decimal.NewFromInt(5),
		Stock: 5,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// garbage payload, but the intruder must see the access error
	badName := "   "
	_, err = svc.UpdateProduct(ctx, intruder.ID, enums.RoleWholesaler, dto.ID, UpdateProductInput{Name: &badName})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden before validation, got %v", err)
	}

	// the owner with the same payload gets the validation error
	_, err = svc.UpdateProduct(ctx, owner.ID, enums.RoleWholesaler, dto.ID, UpdateProductInput{Name: &badName})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for owner, got %v", err)
	}
}

func TestUpdateProductPartialFields(t *testing.T) {
	conn := openTestDB(t)
	svc, _ := NewService(NewRepository(conn))
	ctx := context.Background()
	owner := mustCreateTestSeller(t, conn)

	dto, err := svc.CreateProduct(ctx, owner.ID, CreateProductInput{
		Name:        "Widget",
		Description: stringPtr("original"),
		Price:       decimal.NewFromInt(5),
		Stock:       5,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.UpdateProduct(ctx, owner.ID, enums.RoleWholesaler, dto.ID, UpdateProductInput{
		Stock: intPtr(42),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Stock != 42 {
		t.Fatalf("expected stock 42, got %d", updated.Stock)
	}
	if updated.Name != "Widget" || updated.Description == nil || *updated.Description != "original" {
		t.Fatalf("untouched fields changed: %+v", updated)
	}
}

func TestDeleteProductAdminOverride(t *testing.T) {
	conn := openTestDB(t)
	svc, _ := NewService(NewRepository(conn))
	ctx := context.Background()
	owner := mustCreateTestSeller(t, conn)
	admin := mustCreateTestSeller(t, conn)

	dto, err := svc.CreateProduct(ctx, owner.ID, CreateProductInput{
		Name:  "Widget",
		Price: decimal.NewFromInt(5),
		Stock: 5,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.DeleteProduct(ctx, admin.ID, enums.RoleAdmin, dto.ID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}

	_, err = svc.GetProduct(ctx, dto.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}
