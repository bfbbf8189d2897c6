package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/exam-prep/internal/cloudsync"
	"github.com/aliskhannn/exam-prep/internal/infra/postgres"
)

const createDocumentsTable = `
	CREATE TABLE IF NOT EXISTS sync_documents (
		identity   TEXT PRIMARY KEY,
		doc        JSONB NOT NULL DEFAULT '{}'::jsonb,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

// DocumentRepository stores one JSONB document per identity.
type DocumentRepository struct {
	db postgres.DBTX
}

// NewDocumentRepository creates a new DocumentRepository with the provided database pool.
func NewDocumentRepository(db postgres.DBTX) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// EnsureSchema creates the documents table when it does not exist.
func (r *DocumentRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, createDocumentsTable); err != nil {
		return fmt.Errorf("create sync_documents: %w", err)
	}
	return nil
}

// Read returns the document of identity.
func (r *DocumentRepository) Read(ctx context.Context, identity string) (cloudsync.Document, bool, error) {
	query := `
		SELECT doc
		FROM sync_documents
		WHERE identity = $1
	`

	var raw []byte
	err := r.db.QueryRow(ctx, query, identity).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("select document: %w", err)
	}

	var doc cloudsync.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, false, fmt.Errorf("decode document: %w", err)
	}
	return doc, true, nil
}

// Write upserts the document of identity. With merge the top-level keys of doc are
// laid over the stored document, otherwise the stored document is replaced.
func (r *DocumentRepository) Write(ctx context.Context, identity string, doc cloudsync.Document, merge bool) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	query := `
		INSERT INTO sync_documents (identity, doc, updated_at)
		VALUES ($1, $2::jsonb, NOW())
		ON CONFLICT (identity) DO UPDATE
		SET doc = EXCLUDED.doc, updated_at = NOW()
	`
	if merge {
		query = `
			INSERT INTO sync_documents (identity, doc, updated_at)
			VALUES ($1, $2::jsonb, NOW())
			ON CONFLICT (identity) DO UPDATE
			SET doc = sync_documents.doc || EXCLUDED.doc, updated_at = NOW()
		`
	}

	if _, err := r.db.Exec(ctx, query, identity, string(payload)); err != nil {
		return fmt.Errorf("upsert document: %w", err)
	}
	return nil
}
