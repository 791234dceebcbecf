package notifications

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReceiptItem is one purchased line on the confirmation email.
type ReceiptItem struct {
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}

// ReceiptData feeds the order confirmation template.
type ReceiptData struct {
	OrderID  uuid.UUID
	Username string
	Items    []ReceiptItem
	Total    decimal.Decimal
	PlacedAt time.Time
}

var receiptTmpl = template.Must(template.New("receipt").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Thanks for your order, {{.Username}}!</h2>
  <p>Order <strong>{{.OrderID}}</strong> was placed on {{.PlacedAt.Format "Jan 2, 2006 at 15:04 MST"}}.</p>
  <table border="0" cellpadding="6" cellspacing="0" style="border-collapse: collapse; width: 100%;">
    <tr style="background: #f4f4f4;">
      <th align="left">Product</th>
      <th align="right">Qty</th>
      <th align="right">Unit price</th>
      <th align="right">Subtotal</th>
    </tr>
    {{range .Items}}
    <tr style="border-bottom: 1px solid #eee;">
      <td>{{.Name}}</td>
      <td align="right">{{.Quantity}}</td>
      <td align="right">{{.UnitPrice.StringFixed 2}}</td>
      <td align="right">{{.Subtotal.StringFixed 2}}</td>
    </tr>
    {{end}}
    <tr>
      <td colspan="3" align="right"><strong>Total</strong></td>
      <td align="right"><strong>{{.Total.StringFixed 2}}</strong></td>
    </tr>
  </table>
  <p>We will let you know when the seller confirms your order.</p>
</body>
</html>
`))

// RenderReceipt produces the subject line and HTML body for an order
// confirmation email.
func RenderReceipt(data ReceiptData) (subject, html string, err error) {
	var buf bytes.Buffer
	if err := receiptTmpl.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("rendering receipt: %w", err)
	}
	subject = fmt.Sprintf("Order confirmation %s", shortOrderRef(data.OrderID))
	return subject, buf.String(), nil
}

func shortOrderRef(id uuid.UUID) string {
	s := id.String()
	if len(s) >= 8 {
		return "#" + s[:8]
	}
	return "#" + s
}
