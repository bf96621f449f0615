package api

import (
	"context"
	"math"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/balagrajendran/purchase-management-sub001/domain"
	"github.com/balagrajendran/purchase-management-sub001/internal/finance"
)

const (
	clientsCollection   = "clients"
	purchasesCollection = "purchases"
	invoicesCollection  = "invoices"
	financeCollection   = "finance"
)

// maxPaymentTermDays bounds the due-date offset taken from settings.
const maxPaymentTermDays = 3650

func (h *Handler) registerResources() {
	h.clients = &resource[domain.Client, *domain.Client]{
		h:          h,
		collection: clientsCollection,
		filters:    []string{"status"},
	}
	h.purchases = &resource[domain.Purchase, *domain.Purchase]{
		h:          h,
		collection: purchasesCollection,
		filters:    []string{"status", "clientId"},
	}
	h.invoices = &resource[domain.Invoice, *domain.Invoice]{
		h:          h,
		collection: invoicesCollection,
		filters:    []string{"status", "clientId", "purchaseId"},
		prepare:    h.prepareInvoice,
	}
	h.finance = &resource[domain.FinanceRecord, *domain.FinanceRecord]{
		h:          h,
		collection: financeCollection,
		prepare:    h.prepareFinanceRecord,
		narrow: func(r *http.Request, items []domain.FinanceRecord) []domain.FinanceRecord {
			return finance.Apply(items, finance.FilterFromQuery(r.URL.Query()))
		},
	}
}

// prepareInvoice fills dates, tax rate, currency and number from the current settings.
func (h *Handler) prepareInvoice(ctx context.Context, inv *domain.Invoice) error {
	current, err := h.settings.Current(ctx)
	if err != nil {
		return err
	}
	prefix := strings.TrimSpace(current.InvoicePrefix)
	if prefix == "" {
		prefix = "INV"
	}
	inv.ApplyDefaults(domain.InvoiceDefaults{
		Today:        h.now().UTC(),
		PaymentTerms: paymentTermDays(current.DefaultPaymentTerms),
		TaxRate:      current.DefaultTaxRate,
		Currency:     current.DefaultCurrency,
		Prefix:       prefix,
		Suffix:       strings.ReplaceAll(uuid.NewString(), "-", "")[:6],
	})
	return nil
}

// paymentTermDays converts the stored terms to whole days within [0, maxPaymentTermDays].
func paymentTermDays(terms float64) int {
	switch {
	case math.IsNaN(terms) || terms < 0:
		return 0
	case terms > maxPaymentTermDays:
		return maxPaymentTermDays
	}
	return int(terms)
}

func (h *Handler) prepareFinanceRecord(_ context.Context, rec *domain.FinanceRecord) error {
	if rec.Date == "" {
		rec.Date = h.now().UTC().Format(domain.DateLayout)
	}
	return nil
}

func (h *Handler) financeStats(w http.ResponseWriter, r *http.Request) {
	records, err := h.finance.fetch(r)
	if err != nil {
		respondServerError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, finance.Summarize(records))
}
