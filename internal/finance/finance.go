// Package finance filters ledger records and aggregates their totals.
package finance

import (
	"net/url"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/balagrajendran/purchase-management-sub001/domain"
)

// Filter selects finance records. Empty fields match everything.
type Filter struct {
	Type          string
	Category      string
	Status        string
	PaymentMethod string
	Search        string
}

// FilterFromQuery reads a Filter from list/stats query parameters.
func FilterFromQuery(q url.Values) Filter {
	return Filter{
		Type:          strings.TrimSpace(q.Get("type")),
		Category:      strings.TrimSpace(q.Get("category")),
		Status:        strings.TrimSpace(q.Get("status")),
		PaymentMethod: strings.TrimSpace(q.Get("paymentMethod")),
		Search:        strings.TrimSpace(q.Get("search")),
	}
}

// Match reports whether r satisfies f.
func (f Filter) Match(r domain.FinanceRecord) bool {
	if f.Type != "" && !strings.EqualFold(f.Type, r.Type) {
		return false
	}
	if f.Category != "" && !strings.EqualFold(f.Category, r.Category) {
		return false
	}
	if f.Status != "" && !strings.EqualFold(f.Status, r.Status) {
		return false
	}
	if f.PaymentMethod != "" && !strings.EqualFold(f.PaymentMethod, r.PaymentMethod) {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		for _, hay := range []string{r.Description, r.Category, r.PaymentMethod, r.Reference} {
			if strings.Contains(strings.ToLower(hay), needle) {
				return true
			}
		}
		return false
	}
	return true
}

// Apply returns the records matching f, preserving order.
func Apply(records []domain.FinanceRecord, f Filter) []domain.FinanceRecord {
	out := make([]domain.FinanceRecord, 0, len(records))
	for _, r := range records {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// Stats are the completed-only totals of a record set.
type Stats struct {
	TotalInvested float64 `json:"totalInvested"`
	TotalExpenses float64 `json:"totalExpenses"`
	TotalTDS      float64 `json:"totalTDS"`
	Profit        float64 `json:"profit"`
}

// ComputeStats sums completed records by type. Pending and failed records
// never contribute.
func ComputeStats(records []domain.FinanceRecord) Stats {
	invested, expenses, tds := decimal.Zero, decimal.Zero, decimal.Zero
	for _, r := range records {
		if r.Status != domain.FinanceCompleted {
			continue
		}
		amount := decimal.NewFromFloat(r.Amount)
		switch r.Type {
		case domain.FinanceInvested:
			invested = invested.Add(amount)
		case domain.FinanceExpense:
			expenses = expenses.Add(amount)
		case domain.FinanceTDS:
			tds = tds.Add(amount)
		}
	}
	return Stats{
		TotalInvested: invested.Round(2).InexactFloat64(),
		TotalExpenses: expenses.Round(2).InexactFloat64(),
		TotalTDS:      tds.Round(2).InexactFloat64(),
		Profit:        invested.Sub(expenses).Sub(tds).Round(2).InexactFloat64(),
	}
}

// CategoryTotal is the completed amount of one type within one category.
type CategoryTotal struct {
	Category string  `json:"category"`
	Type     string  `json:"type"`
	Total    float64 `json:"total"`
	Count    int     `json:"count"`
}

// Summary is the payload of the stats endpoint.
type Summary struct {
	Stats
	ByCategory []CategoryTotal `json:"byCategory"`
}

// Summarize computes Stats plus per-category completed totals, ordered by
// type then category.
func Summarize(records []domain.FinanceRecord) Summary {
	type key struct{ typ, category string }
	sums := map[key]decimal.Decimal{}
	counts := map[key]int{}
	for _, r := range records {
		if r.Status != domain.FinanceCompleted {
			continue
		}
		k := key{r.Type, r.Category}
		sums[k] = sums[k].Add(decimal.NewFromFloat(r.Amount))
		counts[k]++
	}

	byCategory := make([]CategoryTotal, 0, len(sums))
	for k, sum := range sums {
		byCategory = append(byCategory, CategoryTotal{Category: k.category, Type: k.typ, Total: sum.Round(2).InexactFloat64(), Count: counts[k]})
	}
	sort.Slice(byCategory, func(i, j int) bool {
		if byCategory[i].Type != byCategory[j].Type {
			return byCategory[i].Type < byCategory[j].Type
		}
		return byCategory[i].Category < byCategory[j].Category
	})
	return Summary{Stats: ComputeStats(records), ByCategory: byCategory}
}
