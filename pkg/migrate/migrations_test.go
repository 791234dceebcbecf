package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMigrationsDirIsValid(t *testing.T) {
	if err := ValidateDir("migrations"); err != nil {
		t.Fatalf("migrations dir failed validation: %v", err)
	}
}

func TestInitSchemaCoversCoreTables(t *testing.T) {
	entries, err := os.ReadDir("migrations")
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}

	var initSQL string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), "_init_schema.sql") {
			b, err := os.ReadFile(filepath.Join("migrations", e.Name()))
			if err != nil {
				t.Fatalf("read init migration: %v", err)
			}
			initSQL = string(b)
		}
	}
	if initSQL == "" {
		t.Fatal("init_schema migration not found")
	}

	for _, table := range []string{
		"users", "products", "carts", "cart_items",
		"wishlists", "wishlist_items", "orders", "order_items",
	} {
		if !strings.Contains(initSQL, "CREATE TABLE "+table+" (") {
			t.Errorf("init migration missing table %q", table)
		}
	}

	// upsert targets depend on these names
	for _, constraint := range []string{
		"cart_items_cart_product_key",
		"wishlist_items_list_product_key",
		"carts_user_key",
	} {
		if !strings.Contains(initSQL, constraint) {
			t.Errorf("init migration missing unique constraint %q", constraint)
		}
	}
}
