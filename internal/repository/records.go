package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Document is one row of an owner-scoped collection.
type Document struct {
	// ID is the document id, unique within its collection.
	ID string `json:"id"`
	// Data is the raw JSON payload.
	Data json.RawMessage `json:"data"`
}

// PostgresRecordRepository implements document-collection persistence
// against a PostgreSQL database. Deletes are soft; a background cleaner
// hard-deletes tombstones past retention.
type PostgresRecordRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresRecordRepository creates a new PostgresRecordRepository
// using the provided *sql.DB.
func NewPostgresRecordRepository(db *sql.DB) *PostgresRecordRepository {
	return &PostgresRecordRepository{DB: db}
}

// UpsertDocument inserts or replaces the document at (collection, docID).
func (r *PostgresRecordRepository) UpsertDocument(ctx context.Context, collection, docID string, data json.RawMessage) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO documents (collection, doc_id, data, deleted, updated_at)
		VALUES ($1, $2, $3, false, $4)
		ON CONFLICT (collection, doc_id) DO UPDATE SET
			data = EXCLUDED.data,
			deleted = false,
			updated_at = EXCLUDED.updated_at
	`, collection, docID, []byte(data), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("UpsertDocument: %w", err)
	}
	return nil
}

// DocumentsByCollection fetches all live documents of a collection.
func (r *PostgresRecordRepository) DocumentsByCollection(ctx context.Context, collection string) ([]Document, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT doc_id, data FROM documents WHERE collection = $1 AND deleted = false
	`, collection)
	if err != nil {
		return nil, fmt.Errorf("DocumentsByCollection: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var doc Document
		var data []byte
		if err := rows.Scan(&doc.ID, &data); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		doc.Data = json.RawMessage(data)
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("DocumentsByCollection: %w", err)
	}
	return docs, nil
}

// SoftDeleteDocument tombstones the document at (collection, docID).
// Tombstoning an unknown document is a no-op.
func (r *PostgresRecordRepository) SoftDeleteDocument(ctx context.Context, collection, docID string) error {
	_, err := r.DB.ExecContext(ctx, `
		UPDATE documents SET deleted = true, updated_at = $3
		 WHERE collection = $1 AND doc_id = $2
	`, collection, docID, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("SoftDeleteDocument: %w", err)
	}
	return nil
}
