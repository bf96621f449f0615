package domain

import (
	"strings"
	"time"
)

const (
	InvoiceDraft   = "draft"
	InvoiceSent    = "sent"
	InvoicePaid    = "paid"
	InvoiceOverdue = "overdue"
)

const DateLayout = "2006-01-02"

type Invoice struct {
	Meta
	InvoiceNumber string `json:"invoiceNumber"`
	ClientID      string `json:"clientId" validate:"required"`
	PurchaseID    string `json:"purchaseId,omitempty"`
	// PurchaseIDs is accepted for invoices spanning several orders; PurchaseID
	// remains the authoritative reference.
	PurchaseIDs []string       `json:"purchaseIds,omitempty"`
	IssueDate   string         `json:"issueDate" validate:"omitempty,datetime=2006-01-02"`
	DueDate     string         `json:"dueDate" validate:"omitempty,datetime=2006-01-02"`
	Items       []PurchaseItem `json:"items" validate:"required,min=1,dive"`
	Subtotal    float64        `json:"subtotal"`
	TaxRate     *float64       `json:"taxRate,omitempty" validate:"omitempty,gte=0,lte=100"`
	Tax         float64        `json:"tax"`
	Total       float64        `json:"total"`
	Currency    string         `json:"currency,omitempty" validate:"omitempty,len=3"`
	Status      string         `json:"status" validate:"oneof=draft sent paid overdue"`
	Notes       string         `json:"notes,omitempty"`
}

// InvoiceDefaults are the settings-derived values applied to new invoices.
type InvoiceDefaults struct {
	Today        time.Time
	PaymentTerms int
	TaxRate      float64
	Currency     string
	Prefix       string
	Suffix       string
}

// ApplyDefaults fills fields left empty on creation.
func (inv *Invoice) ApplyDefaults(d InvoiceDefaults) {
	if inv.IssueDate == "" {
		inv.IssueDate = d.Today.Format(DateLayout)
	}
	if inv.DueDate == "" {
		if issued, err := time.Parse(DateLayout, inv.IssueDate); err == nil {
			inv.DueDate = issued.AddDate(0, 0, d.PaymentTerms).Format(DateLayout)
		}
	}
	if inv.TaxRate == nil {
		rate := d.TaxRate
		inv.TaxRate = &rate
	}
	if inv.Currency == "" {
		inv.Currency = d.Currency
	}
	if inv.InvoiceNumber == "" {
		inv.InvoiceNumber = d.Prefix + "-" + d.Today.Format("20060102") + "-" + d.Suffix
	}
}

// Normalize resolves the purchase reference and recomputes amounts. When a
// tax rate is present the tax is derived from it.
func (inv *Invoice) Normalize() {
	inv.Status = strings.ToLower(strings.TrimSpace(inv.Status))
	if inv.Status == "" {
		inv.Status = InvoiceDraft
	}
	if inv.PurchaseID == "" && len(inv.PurchaseIDs) > 0 {
		inv.PurchaseID = inv.PurchaseIDs[0]
	}
	inv.Currency = strings.ToUpper(strings.TrimSpace(inv.Currency))

	subtotal := recomputeItems(inv.Items)
	tax := money(inv.Tax)
	if inv.TaxRate != nil {
		tax = subtotal.Mul(money(*inv.TaxRate)).Div(money(100)).Round(2)
	}
	inv.Subtotal = subtotal.InexactFloat64()
	inv.Tax = tax.InexactFloat64()
	inv.Total = subtotal.Add(tax).InexactFloat64()
}
