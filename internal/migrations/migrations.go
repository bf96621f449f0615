package migrations

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Run creates the schema backing the document store. Statements are portable
// between SQLite and PostgreSQL.
func Run(ctx context.Context, db *sqlx.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS documents (
            collection TEXT NOT NULL,
            id TEXT NOT NULL,
            data TEXT NOT NULL,
            created_at TEXT NOT NULL,
            updated_at TEXT NOT NULL,
            PRIMARY KEY (collection, id)
        );`,
		`CREATE INDEX IF NOT EXISTS idx_documents_collection_created ON documents (collection, created_at);`,
	}

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
