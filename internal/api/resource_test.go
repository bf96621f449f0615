package api

import (
	"fmt"
	"math"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createClient(t *testing.T, h http.Handler, name string, extra map[string]any) map[string]any {
	t.Helper()
	body := map[string]any{"companyName": name}
	for k, v := range extra {
		body[k] = v
	}
	rec := do(t, h, call{method: http.MethodPost, path: "/api/clients", body: body})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody[map[string]any](t, rec)
}

func TestHealth(t *testing.T) {
	h := newTestHandler(t, Options{})
	rec := do(t, h, call{method: http.MethodGet, path: "/health"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestClientCRUD(t *testing.T) {
	h := newTestHandler(t, Options{})

	created := createClient(t, h, "Acme Traders", map[string]any{"email": "Ops@Acme.com", "phone": "123"})
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, "active", created["status"])
	assert.Equal(t, "ops@acme.com", created["email"])
	assert.NotEmpty(t, created["createdAt"])
	assert.Equal(t, created["createdAt"], created["updatedAt"])

	rec := do(t, h, call{method: http.MethodGet, path: "/api/clients/" + id})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created, decodeBody[map[string]any](t, rec))

	rec = do(t, h, call{method: http.MethodPut, path: "/api/clients/" + id, body: map[string]any{"phone": "999", "status": "inactive"}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeBody[map[string]any](t, rec)
	assert.Equal(t, "Acme Traders", updated["companyName"])
	assert.Equal(t, "999", updated["phone"])
	assert.Equal(t, "inactive", updated["status"])
	assert.Equal(t, id, updated["id"])
	assert.Equal(t, created["createdAt"], updated["createdAt"])
	assert.NotEqual(t, created["updatedAt"], updated["updatedAt"])

	rec = do(t, h, call{method: http.MethodDelete, path: "/api/clients/" + id})
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = do(t, h, call{method: http.MethodGet, path: "/api/clients/" + id})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Not found"}`, rec.Body.String())
}

func TestCreateValidationError(t *testing.T) {
	h := newTestHandler(t, Options{})

	rec := do(t, h, call{method: http.MethodPost, path: "/api/clients", body: map[string]any{"email": "nope", "status": "archived"}})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody[validationBody](t, rec)
	assert.Equal(t, "ValidationError", body.Error)
	assert.ElementsMatch(t, []string{"companyName", "email", "status"}, fields(body.Details))
}

func TestCreateRejectsMalformedBodies(t *testing.T) {
	h := newTestHandler(t, Options{})

	for name, body := range map[string]any{
		"syntax":  `{"companyName":`,
		"unknown": map[string]any{"companyName": "A", "isVip": true},
		"type":    map[string]any{"companyName": 42},
		"empty":   "",
	} {
		rec := do(t, h, call{method: http.MethodPost, path: "/api/clients", body: body})
		assert.Equal(t, http.StatusBadRequest, rec.Code, name)
		assert.Equal(t, "ValidationError", decodeBody[validationBody](t, rec).Error, name)
	}
}

func TestUpdateValidatesMergedDocument(t *testing.T) {
	h := newTestHandler(t, Options{})
	id := createClient(t, h, "Acme", nil)["id"].(string)

	rec := do(t, h, call{method: http.MethodPut, path: "/api/clients/" + id, body: map[string]any{"companyName": ""}})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{"companyName"}, fields(decodeBody[validationBody](t, rec).Details))

	rec = do(t, h, call{method: http.MethodPut, path: "/api/clients/" + id, body: map[string]any{"tier": "gold"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, call{method: http.MethodPut, path: "/api/clients/missing", body: map[string]any{"phone": "1"}})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListPaginatesNewestFirst(t *testing.T) {
	h := newTestHandler(t, Options{})
	for i := 0; i < 5; i++ {
		createClient(t, h, fmt.Sprintf("Client %d", i), nil)
	}

	var names []any
	path := "/api/clients?limit=2"
	for pages := 0; pages < 10; pages++ {
		rec := do(t, h, call{method: http.MethodGet, path: path})
		require.Equal(t, http.StatusOK, rec.Code)
		page := decodeBody[listResponse](t, rec)
		assert.LessOrEqual(t, len(page.Items), 2)
		for _, item := range page.Items {
			names = append(names, item["companyName"])
		}
		if page.NextPageToken == nil {
			break
		}
		path = "/api/clients?limit=2&pageToken=" + *page.NextPageToken
	}
	assert.Equal(t, []any{"Client 4", "Client 3", "Client 2", "Client 1", "Client 0"}, names)
}

func TestListEmptyCollection(t *testing.T) {
	h := newTestHandler(t, Options{})
	rec := do(t, h, call{method: http.MethodGet, path: "/api/purchases"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":[],"nextPageToken":null}`, rec.Body.String())
}

func TestListStatusFilter(t *testing.T) {
	h := newTestHandler(t, Options{})
	createClient(t, h, "On", nil)
	createClient(t, h, "Off", map[string]any{"status": "inactive"})

	rec := do(t, h, call{method: http.MethodGet, path: "/api/clients?status=inactive"})
	require.Equal(t, http.StatusOK, rec.Code)
	page := decodeBody[listResponse](t, rec)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Off", page.Items[0]["companyName"])
}

func TestPurchaseTotalsAreRecomputed(t *testing.T) {
	h := newTestHandler(t, Options{})

	rec := do(t, h, call{method: http.MethodPost, path: "/api/purchases", body: map[string]any{
		"supplier": "Metro Wholesale",
		"items": []map[string]any{
			{"name": "Paper", "quantity": 4, "unitPrice": 2.5, "total": 1},
			{"name": "Toner", "quantity": 1, "unitPrice": 40},
		},
		"tax": 9,
	}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	p := decodeBody[map[string]any](t, rec)
	assert.Equal(t, "draft", p["status"])
	assert.Equal(t, 50.0, p["subtotal"])
	assert.Equal(t, 59.0, p["total"])
	items := p["items"].([]any)
	assert.Equal(t, 10.0, items[0].(map[string]any)["total"])

	id := p["id"].(string)
	rec = do(t, h, call{method: http.MethodPut, path: "/api/purchases/" + id, body: map[string]any{"status": "approved", "tax": 0}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	p = decodeBody[map[string]any](t, rec)
	assert.Equal(t, "approved", p["status"])
	assert.Equal(t, 50.0, p["total"])
}

func TestPurchaseItemValidation(t *testing.T) {
	h := newTestHandler(t, Options{})

	rec := do(t, h, call{method: http.MethodPost, path: "/api/purchases", body: map[string]any{"items": []any{}}})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{"items"}, fields(decodeBody[validationBody](t, rec).Details))

	rec = do(t, h, call{method: http.MethodPost, path: "/api/purchases", body: map[string]any{
		"items":  []map[string]any{{"name": "Paper", "quantity": 0, "unitPrice": 1}},
		"status": "shipped",
	}})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.ElementsMatch(t, []string{"items[0].quantity", "status"}, fields(decodeBody[validationBody](t, rec).Details))
}

func TestInvoiceUsesSettingsDefaults(t *testing.T) {
	h := newTestHandler(t, Options{})

	rec := do(t, h, call{method: http.MethodPatch, path: "/api/settings", body: map[string]any{
		"defaultPaymentTerms": 15, "defaultTaxRate": 5, "invoicePrefix": "ACME",
	}})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, call{method: http.MethodPost, path: "/api/invoices", body: map[string]any{
		"clientId":    "c-1",
		"purchaseIds": []string{"p-1", "p-2"},
		"items":       []map[string]any{{"name": "Consulting", "quantity": 2, "unitPrice": 100}},
	}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	inv := decodeBody[map[string]any](t, rec)

	assert.Equal(t, "2024-01-15", inv["issueDate"])
	assert.Equal(t, "2024-01-30", inv["dueDate"])
	assert.Equal(t, 5.0, inv["taxRate"])
	assert.Equal(t, 10.0, inv["tax"])
	assert.Equal(t, 210.0, inv["total"])
	assert.Equal(t, "INR", inv["currency"])
	assert.Equal(t, "p-1", inv["purchaseId"])
	assert.Equal(t, "draft", inv["status"])
	assert.Regexp(t, `^ACME-20240115-[0-9a-f]{6}$`, inv["invoiceNumber"])

	rec = do(t, h, call{method: http.MethodGet, path: "/api/invoices?clientId=c-1"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[listResponse](t, rec).Items, 1)

	rec = do(t, h, call{method: http.MethodGet, path: "/api/invoices?clientId=c-2"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeBody[listResponse](t, rec).Items)
}

func TestInvoiceRequiresClient(t *testing.T) {
	h := newTestHandler(t, Options{})
	rec := do(t, h, call{method: http.MethodPost, path: "/api/invoices", body: map[string]any{
		"items":  []map[string]any{{"name": "X", "quantity": 1, "unitPrice": 1}},
		"status": "void",
	}})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.ElementsMatch(t, []string{"clientId", "status"}, fields(decodeBody[validationBody](t, rec).Details))
}

func TestInvoiceDueDateBoundsPaymentTerms(t *testing.T) {
	h := newTestHandler(t, Options{})

	rec := do(t, h, call{method: http.MethodPatch, path: "/api/settings", body: map[string]any{"defaultPaymentTerms": 1e300}})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, call{method: http.MethodPost, path: "/api/invoices", body: map[string]any{
		"clientId": "c-1",
		"items":    []map[string]any{{"name": "Support", "quantity": 1, "unitPrice": 10}},
	}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	inv := decodeBody[map[string]any](t, rec)
	assert.Equal(t, "2024-01-15", inv["issueDate"])
	assert.Equal(t, "2034-01-12", inv["dueDate"])
}

func TestPaymentTermDays(t *testing.T) {
	for _, tc := range []struct {
		terms float64
		want  int
	}{
		{30, 30},
		{1, 1},
		{-4, 0},
		{math.NaN(), 0},
		{math.Inf(1), maxPaymentTermDays},
		{1e300, maxPaymentTermDays},
	} {
		assert.Equal(t, tc.want, paymentTermDays(tc.terms), "%v", tc.terms)
	}
}
