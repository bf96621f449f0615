package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/balagrajendran/purchase-management-sub001/internal/database"
	"github.com/balagrajendran/purchase-management-sub001/internal/migrations"
	"github.com/balagrajendran/purchase-management-sub001/internal/store"
)

func tickingClock() func() time.Time {
	current := time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)
	return func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}

func newTestHandler(t *testing.T, opts Options) http.Handler {
	t.Helper()
	db, err := database.Connect("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migrations.Run(context.Background(), db))

	if opts.Clock == nil {
		opts.Clock = tickingClock()
	}
	return New(store.NewSQLStore(db), opts).Router()
}

type call struct {
	method string
	path   string
	body   any
	token  string
}

func do(t *testing.T, h http.Handler, c call) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	switch b := c.body.(type) {
	case nil:
	case string:
		body.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&body).Encode(b))
	}
	req := httptest.NewRequest(c.method, c.path, &body)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

type listResponse struct {
	Items         []map[string]any `json:"items"`
	NextPageToken *string          `json:"nextPageToken"`
}

type validationBody struct {
	Error   string       `json:"error"`
	Details []fieldIssue `json:"details"`
}

func fields(details []fieldIssue) []string {
	out := make([]string, len(details))
	for i, d := range details {
		out[i] = d.Field
	}
	return out
}
