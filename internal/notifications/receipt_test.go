package notifications

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestRenderReceipt(t *testing.T) {
	orderID := uuid.New()
	subject, html, err := RenderReceipt(ReceiptData{
		OrderID:  orderID,
		Username: "shop-a",
		Items: []ReceiptItem{
			{
				Name:      "Bulk Rice 25kg",
				Quantity:  2,
				UnitPrice: decimal.RequireFromString("42.50"),
				Subtotal:  decimal.RequireFromString("85.00"),
			},
		},
		Total:    decimal.RequireFromString("85.00"),
		PlacedAt: time.Date(2026, 2, 10, 14, 30, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	if !strings.Contains(subject, "#"+orderID.String()[:8]) {
		t.Fatalf("subject missing order ref: %q", subject)
	}
	for _, want := range []string{"shop-a", "Bulk Rice 25kg", "85.00", orderID.String()} {
		if !strings.Contains(html, want) {
			t.Fatalf("body missing %q", want)
		}
	}
}

func TestRenderReceiptEscapesHTML(t *testing.T) {
	_, html, err := RenderReceipt(ReceiptData{
		OrderID:  uuid.New(),
		Username: "<script>alert(1)</script>",
		Total:    decimal.Zero,
		PlacedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Fatal("template must escape user content")
	}
}
