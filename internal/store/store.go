// Package store is a small document database: JSON objects grouped in named
// collections, persisted in a single SQL table.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// TimeLayout is the fixed-width UTC layout used for stored timestamps so that
// lexical order matches chronological order.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Store is the document database used by the routers.
type Store interface {
	Create(ctx context.Context, collection string, doc Document) (Document, error)
	Get(ctx context.Context, collection, id string) (Document, error)
	Set(ctx context.Context, collection, id string, doc Document) (Document, error)
	Merge(ctx context.Context, collection, id string, patch Document) (Document, error)
	Delete(ctx context.Context, collection, id string) error
	List(ctx context.Context, collection string, q Query) ([]Document, error)
}

// SQLStore implements Store over the documents table.
type SQLStore struct {
	db  *sqlx.DB
	now func() time.Time
}

// Option configures a SQLStore.
type Option func(*SQLStore)

// WithClock overrides the clock used for the bookkeeping columns.
func WithClock(now func() time.Time) Option {
	return func(s *SQLStore) { s.now = now }
}

// NewSQLStore wraps an open database whose schema has been migrated.
func NewSQLStore(db *sqlx.DB, opts ...Option) *SQLStore {
	s := &SQLStore{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type documentRow struct {
	ID   string `db:"id"`
	Data string `db:"data"`
}

func (s *SQLStore) timestamp() string {
	return s.now().UTC().Format(TimeLayout)
}

// Create stores doc under a freshly generated id.
func (s *SQLStore) Create(ctx context.Context, collection string, doc Document) (Document, error) {
	id := uuid.NewString()
	out := doc.Clone()
	out["id"] = id

	body, err := json.Marshal(out)
	if err != nil {
		return nil, err
	}
	ts := s.timestamp()
	query := s.db.Rebind(`INSERT INTO documents (collection, id, data, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`)
	if _, err := s.db.ExecContext(ctx, query, collection, id, string(body), ts, ts); err != nil {
		return nil, fmt.Errorf("create %s: %w", collection, err)
	}
	return out, nil
}

// Get loads a single document.
func (s *SQLStore) Get(ctx context.Context, collection, id string) (Document, error) {
	return s.get(ctx, s.db, collection, id)
}

func (s *SQLStore) get(ctx context.Context, q sqlx.QueryerContext, collection, id string) (Document, error) {
	var row documentRow
	query := s.db.Rebind(`SELECT id, data FROM documents WHERE collection = ? AND id = ?`)
	if err := sqlx.GetContext(ctx, q, &row, query, collection, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return decodeRow(row)
}

// Set overwrites the document body, creating it when absent.
func (s *SQLStore) Set(ctx context.Context, collection, id string, doc Document) (Document, error) {
	out := doc.Clone()
	out["id"] = id
	if err := s.upsert(ctx, s.db, collection, id, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Merge applies the top-level keys of patch onto an existing document.
func (s *SQLStore) Merge(ctx context.Context, collection, id string, patch Document) (Document, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("merge %s/%s: %w", collection, id, err)
	}
	defer tx.Rollback()

	existing, err := s.get(ctx, tx, collection, id)
	if err != nil {
		return nil, err
	}
	for k, v := range patch {
		existing[k] = v
	}
	existing["id"] = id

	if err := s.upsert(ctx, tx, collection, id, existing); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("merge %s/%s: %w", collection, id, err)
	}
	return existing, nil
}

func (s *SQLStore) upsert(ctx context.Context, e sqlx.ExecerContext, collection, id string, doc Document) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	ts := s.timestamp()
	query := s.db.Rebind(`INSERT INTO documents (collection, id, data, created_at, updated_at) VALUES (?, ?, ?, ?, ?)
        ON CONFLICT (collection, id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`)
	if _, err := e.ExecContext(ctx, query, collection, id, string(body), ts, ts); err != nil {
		return fmt.Errorf("write %s/%s: %w", collection, id, err)
	}
	return nil
}

// Delete removes a document. Deleting a missing document is not an error.
func (s *SQLStore) Delete(ctx context.Context, collection, id string) error {
	query := s.db.Rebind(`DELETE FROM documents WHERE collection = ? AND id = ?`)
	if _, err := s.db.ExecContext(ctx, query, collection, id); err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}

// List returns every document in collection that satisfies q, fully materialized.
func (s *SQLStore) List(ctx context.Context, collection string, q Query) ([]Document, error) {
	var rows []documentRow
	query := s.db.Rebind(`SELECT id, data FROM documents WHERE collection = ? ORDER BY created_at, id`)
	if err := s.db.SelectContext(ctx, &rows, query, collection); err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}

	docs := make([]Document, 0, len(rows))
	for _, row := range rows {
		doc, err := decodeRow(row)
		if err != nil {
			return nil, err
		}
		if q.matches(doc) {
			docs = append(docs, doc)
		}
	}

	if q.OrderBy != "" {
		sort.SliceStable(docs, func(i, j int) bool {
			c := compareValues(docs[i][q.OrderBy], docs[j][q.OrderBy])
			if q.Descending {
				return c > 0
			}
			return c < 0
		})
	}
	if q.Limit > 0 && len(docs) > q.Limit {
		docs = docs[:q.Limit]
	}
	return docs, nil
}

func decodeRow(row documentRow) (Document, error) {
	var doc Document
	if err := json.Unmarshal([]byte(row.Data), &doc); err != nil || doc == nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDocument, row.ID)
	}
	doc["id"] = row.ID
	return doc, nil
}
