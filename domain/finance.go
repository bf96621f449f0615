package domain

import "strings"

const (
	FinanceInvested = "invested"
	FinanceExpense  = "expense"
	FinanceTDS      = "tds"

	FinanceCompleted = "completed"
	FinancePending   = "pending"
	FinanceFailed    = "failed"
)

// FinanceRecord is a typed ledger entry.
type FinanceRecord struct {
	Meta
	Type          string  `json:"type" validate:"oneof=invested expense tds"`
	Status        string  `json:"status" validate:"oneof=completed pending failed"`
	Amount        float64 `json:"amount" validate:"gt=0"`
	Category      string  `json:"category,omitempty"`
	PaymentMethod string  `json:"paymentMethod,omitempty"`
	Description   string  `json:"description,omitempty"`
	Reference     string  `json:"reference,omitempty"`
	TaxYear       string  `json:"taxYear,omitempty"`
	Date          string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

// Normalize lower-cases the enumerated fields and defaults the status.
func (r *FinanceRecord) Normalize() {
	r.Type = strings.ToLower(strings.TrimSpace(r.Type))
	r.Status = strings.ToLower(strings.TrimSpace(r.Status))
	r.PaymentMethod = strings.ToLower(strings.TrimSpace(r.PaymentMethod))
	r.Category = strings.TrimSpace(r.Category)
	if r.Status == "" {
		r.Status = FinanceCompleted
	}
}
