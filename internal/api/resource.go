package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/balagrajendran/purchase-management-sub001/domain"
	"github.com/balagrajendran/purchase-management-sub001/internal/metrics"
	"github.com/balagrajendran/purchase-management-sub001/internal/pagination"
	"github.com/balagrajendran/purchase-management-sub001/internal/store"
)

// entity is implemented by pointers to the domain types served as resources.
type entity[T any] interface {
	*T
	Base() *domain.Meta
	Normalize()
}

// resource serves the shared CRUD contract for one collection.
type resource[T any, P entity[T]] struct {
	h          *Handler
	collection string

	// filters lists query parameters applied as store equality filters on list.
	filters []string
	// prepare runs on create before normalization and validation.
	prepare func(ctx context.Context, v P) error
	// narrow post-filters decoded items on list.
	narrow func(r *http.Request, items []T) []T
}

func (res *resource[T, P]) routes(r chi.Router) {
	r.Get("/", res.list)
	r.Post("/", res.create)
	r.Get("/{id}", res.get)
	r.Put("/{id}", res.update)
	r.Delete("/{id}", res.remove)
}

// fetch loads every matching item, newest first.
func (res *resource[T, P]) fetch(r *http.Request) ([]T, error) {
	q := store.Query{OrderBy: "createdAt", Descending: true}
	for _, field := range res.filters {
		if v := r.URL.Query().Get(field); v != "" {
			q.Where = append(q.Where, store.Filter{Field: field, Value: v})
		}
	}
	docs, err := res.h.store.List(r.Context(), res.collection, q)
	if err != nil {
		return nil, err
	}

	items := make([]T, 0, len(docs))
	for _, doc := range docs {
		var item T
		if err := store.Decode(doc, &item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if res.narrow != nil {
		items = res.narrow(r, items)
	}
	return items, nil
}

func (res *resource[T, P]) list(w http.ResponseWriter, r *http.Request) {
	params := pagination.ParseListParams(r.URL.Query())
	items, err := res.fetch(r)
	if err != nil {
		respondServerError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, pagination.Paginate(items, params.Limit, params.PageToken))
}

func (res *resource[T, P]) get(w http.ResponseWriter, r *http.Request) {
	doc, err := res.h.store.Get(r.Context(), res.collection, chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Not found")
		return
	}
	if err != nil {
		respondServerError(w, r, err)
		return
	}
	var item T
	if err := store.Decode(doc, &item); err != nil {
		respondServerError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, &item)
}

func (res *resource[T, P]) create(w http.ResponseWriter, r *http.Request) {
	var item T
	if err := decodeJSON(r, &item); err != nil {
		respondDecodeError(w, err)
		return
	}
	p := P(&item)
	if res.prepare != nil {
		if err := res.prepare(r.Context(), p); err != nil {
			respondServerError(w, r, err)
			return
		}
	}
	p.Normalize()
	if err := res.h.validate.Struct(p); err != nil {
		respondValidation(w, validationDetails(err))
		return
	}

	ts := res.h.timestamp()
	meta := p.Base()
	meta.ID = ""
	meta.CreatedAt = ts
	meta.UpdatedAt = ts

	doc, err := store.Encode(p)
	if err != nil {
		respondServerError(w, r, err)
		return
	}
	saved, err := res.h.store.Create(r.Context(), res.collection, doc)
	if err != nil {
		respondServerError(w, r, err)
		return
	}
	meta.ID = saved.ID()
	metrics.RecordWrite(res.collection, "create")
	respondJSON(w, http.StatusCreated, p)
}

// update overlays the request body onto the stored document, then validates
// and writes the merged entity.
func (res *resource[T, P]) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	existing, err := res.h.store.Get(r.Context(), res.collection, id)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Not found")
		return
	}
	if err != nil {
		respondServerError(w, r, err)
		return
	}

	var patch map[string]any
	if err := decodeJSON(r, &patch); err != nil {
		respondDecodeError(w, err)
		return
	}
	createdAt, _ := existing["createdAt"].(string)
	merged := existing.Clone()
	for k, v := range patch {
		merged[k] = v
	}

	raw, err := json.Marshal(merged)
	if err != nil {
		respondServerError(w, r, err)
		return
	}
	var item T
	if err := decodeStrict(raw, &item); err != nil {
		respondDecodeError(w, err)
		return
	}
	p := P(&item)
	p.Normalize()
	if err := res.h.validate.Struct(p); err != nil {
		respondValidation(w, validationDetails(err))
		return
	}

	meta := p.Base()
	meta.ID = id
	meta.CreatedAt = createdAt
	meta.UpdatedAt = res.h.timestamp()

	doc, err := store.Encode(p)
	if err != nil {
		respondServerError(w, r, err)
		return
	}
	if _, err := res.h.store.Set(r.Context(), res.collection, id, doc); err != nil {
		respondServerError(w, r, err)
		return
	}
	metrics.RecordWrite(res.collection, "update")
	respondJSON(w, http.StatusOK, p)
}

func (res *resource[T, P]) remove(w http.ResponseWriter, r *http.Request) {
	if err := res.h.store.Delete(r.Context(), res.collection, chi.URLParam(r, "id")); err != nil {
		respondServerError(w, r, err)
		return
	}
	metrics.RecordWrite(res.collection, "delete")
	w.WriteHeader(http.StatusNoContent)
}
