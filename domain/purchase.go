package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	PurchaseDraft     = "draft"
	PurchaseApproved  = "approved"
	PurchasePending   = "pending"
	PurchaseRejected  = "rejected"
	PurchaseCompleted = "completed"
)

// PurchaseItem is one order line. Invoices snapshot the same shape.
type PurchaseItem struct {
	Name      string  `json:"name" validate:"required"`
	Model     string  `json:"model,omitempty"`
	Supplier  string  `json:"supplier,omitempty"`
	Quantity  float64 `json:"quantity" validate:"gt=0"`
	UnitPrice float64 `json:"unitPrice" validate:"gte=0"`
	UOM       string  `json:"uom,omitempty"`
	Currency  string  `json:"currency,omitempty" validate:"omitempty,len=3"`
	Total     float64 `json:"total"`
}

type Purchase struct {
	Meta
	PONumber  string         `json:"poNumber,omitempty"`
	ClientID  string         `json:"clientId,omitempty"`
	Supplier  string         `json:"supplier,omitempty"`
	OrderDate string         `json:"orderDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Items     []PurchaseItem `json:"items" validate:"required,min=1,dive"`
	Status    string         `json:"status" validate:"oneof=draft approved pending rejected completed"`
	Subtotal  float64        `json:"subtotal"`
	Tax       float64        `json:"tax" validate:"gte=0"`
	Total     float64        `json:"total"`
	Notes     string         `json:"notes,omitempty"`
}

// Normalize recomputes line totals and aggregates so that every line total
// equals quantity * unitPrice and total = subtotal + tax.
func (p *Purchase) Normalize() {
	p.Status = strings.ToLower(strings.TrimSpace(p.Status))
	if p.Status == "" {
		p.Status = PurchaseDraft
	}
	subtotal := recomputeItems(p.Items)
	p.Subtotal = subtotal.InexactFloat64()
	p.Total = subtotal.Add(money(p.Tax)).InexactFloat64()
}

// recomputeItems rewrites each line total and returns their sum.
func recomputeItems(items []PurchaseItem) decimal.Decimal {
	subtotal := decimal.Zero
	for i := range items {
		items[i].Currency = strings.ToUpper(strings.TrimSpace(items[i].Currency))
		line := money(items[i].Quantity).Mul(money(items[i].UnitPrice)).Round(2)
		items[i].Total = line.InexactFloat64()
		subtotal = subtotal.Add(line)
	}
	return subtotal
}

func money(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}
