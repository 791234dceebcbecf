package product

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tradzyhq/tradzy-backend/pkg/db/models"
)

func TestListFiltersAndOrdering(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()
	seller := mustCreateTestSeller(t, conn)

	older := &models.Product{
		SellerID: seller.ID,
		Name:     "Bulk Rice 25kg",
		Price:    decimal.RequireFromString("42.50"),
		Stock:    10,
		Category: stringPtr("grains"),
	}
	if _, err := repo.Create(ctx, older); err != nil {
		t.Fatalf("create older: %v", err)
	}
	// spread created_at so ordering is deterministic
	if err := conn.Model(older).UpdateColumn("created_at", time.Now().Add(-time.Hour)).Error; err != nil {
		t.Fatalf("backdate: %v", err)
	}

	newer := &models.Product{
		SellerID: seller.ID,
		Name:     "Brown Rice 5kg",
		Price:    decimal.RequireFromString("12.00"),
		Stock:    0,
		Category: stringPtr("grains"),
	}
	if _, err := repo.Create(ctx, newer); err != nil {
		t.Fatalf("create newer: %v", err)
	}
	other := &models.Product{
		SellerID: seller.ID,
		Name:     "Olive Oil 1L",
		Price:    decimal.RequireFromString("8.99"),
		Stock:    5,
		Category: stringPtr("oils"),
	}
	if _, err := repo.Create(ctx, other); err != nil {
		t.Fatalf("create other: %v", err)
	}

	t.Run("searchIsCaseInsensitive", func(t *testing.T) {
		rows, err := repo.List(ctx, ListFilter{Search: "RICE"})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(rows) != 2 {
			t.Fatalf("expected 2 rice products, got %d", len(rows))
		}
		if rows[0].Name != "Brown Rice 5kg" {
			t.Fatalf("expected newest first, got %q", rows[0].Name)
		}
	})

	t.Run("categoryFilter", func(t *testing.T) {
		rows, err := repo.List(ctx, ListFilter{Category: "Oils"})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(rows) != 1 || rows[0].Name != "Olive Oil 1L" {
			t.Fatalf("unexpected rows %+v", rows)
		}
	})

	t.Run("sellerInStockOnly", func(t *testing.T) {
		rows, err := repo.ListBySeller(ctx, seller.ID, SellerFilter{InStockOnly: true})
		if err != nil {
			t.Fatalf("list by seller: %v", err)
		}
		if len(rows) != 2 {
			t.Fatalf("expected 2 in-stock products, got %d", len(rows))
		}
		for _, row := range rows {
			if row.Stock <= 0 {
				t.Fatalf("out-of-stock product leaked: %+v", row)
			}
		}
	})
}

func TestDecrementStockGuardsAgainstOverdraw(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()
	seller := mustCreateTestSeller(t, conn)

	row := &models.Product{
		SellerID: seller.ID,
		Name:     "Scarce Widget",
		Price:    decimal.RequireFromString("3.00"),
		Stock:    3,
	}
	if _, err := repo.Create(ctx, row); err != nil {
		t.Fatalf("create: %v", err)
	}

	ok, err := repo.DecrementStock(ctx, row.ID, 2)
	if err != nil {
		t.Fatalf("decrement: %v", err)
	}
	if !ok {
		t.Fatal("expected decrement to apply")
	}

	// only one unit left, a two-unit decrement must not apply
	ok, err = repo.DecrementStock(ctx, row.ID, 2)
	if err != nil {
		t.Fatalf("second decrement: %v", err)
	}
	if ok {
		t.Fatal("expected decrement to be refused")
	}

	fresh, err := repo.FindByID(ctx, row.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if fresh.Stock != 1 {
		t.Fatalf("expected stock 1, got %d", fresh.Stock)
	}
}
