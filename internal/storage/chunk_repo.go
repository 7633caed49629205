package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_chunk_store.go -package=mocks ragsync/internal/storage ChunkStore

import (
	"context"
	"database/sql"
	"fmt"
)

// ChunkStore is the state-store boundary the sync pipeline owns. It records
// which chunks the last successful run derived from the source documents.
type ChunkStore interface {
	// Checksums returns the id → checksum mapping from the last run.
	// An empty store yields an empty map, not an error.
	Checksums(ctx context.Context) (map[string]string, error)
	// ReplaceAll atomically replaces the table contents with records.
	// On failure the previous contents remain intact.
	ReplaceAll(ctx context.Context, records []ChunkRecord) error
}

// ChunkRepo provides methods for chunk state operations.
// It implements the ChunkStore interface.
type ChunkRepo struct {
	db *sql.DB
}

// NewChunkRepo creates a new ChunkRepo.
func NewChunkRepo(db *sql.DB) *ChunkRepo {
	return &ChunkRepo{db: db}
}

// Checksums returns the id → checksum mapping from the last run.
func (r *ChunkRepo) Checksums(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, checksum FROM rag_chunks")
	if err != nil {
		return nil, fmt.Errorf("failed to query checksums: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	checksums := make(map[string]string)
	for rows.Next() {
		var id, checksum string
		if err := rows.Scan(&id, &checksum); err != nil {
			return nil, fmt.Errorf("failed to scan checksum row: %w", err)
		}
		checksums[id] = checksum
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return checksums, nil
}

// ReplaceAll replaces the full table contents with records in one transaction,
// so a failed run can never leave a mix of old and new state behind.
func (r *ChunkRepo) ReplaceAll(ctx context.Context, records []ChunkRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, "DELETE FROM rag_chunks"); err != nil {
		return fmt.Errorf("failed to clear previous state: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO rag_chunks (id, source, topic, body, checksum, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
	)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx, rec.ID, rec.Source, rec.Topic, rec.Body, rec.Checksum, rec.UpdatedAt); err != nil {
			return fmt.Errorf("failed to insert chunk %s: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit state replacement: %w", err)
	}
	return nil
}

// All returns every stored chunk record. Used by the inspect command.
func (r *ChunkRepo) All(ctx context.Context) ([]ChunkRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, source, topic, body, checksum, updated_at FROM rag_chunks ORDER BY id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var records []ChunkRecord
	for rows.Next() {
		var rec ChunkRecord
		if err := rows.Scan(&rec.ID, &rec.Source, &rec.Topic, &rec.Body, &rec.Checksum, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chunk row: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return records, nil
}

// Sample returns up to limit randomly chosen records. Returns an empty slice
// when the store is empty (not an error).
func (r *ChunkRepo) Sample(ctx context.Context, limit int) ([]ChunkRecord, error) {
	if limit <= 0 {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT id, source, topic, body, checksum, updated_at FROM rag_chunks ORDER BY RANDOM() LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query samples: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var records []ChunkRecord
	for rows.Next() {
		var rec ChunkRecord
		if err := rows.Scan(&rec.ID, &rec.Source, &rec.Topic, &rec.Body, &rec.Checksum, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan sample row: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return records, nil
}

// GetByID gets a stored chunk by its ID. Returns ErrNotFound if not found.
func (r *ChunkRepo) GetByID(ctx context.Context, id string) (*ChunkRecord, error) {
	var rec ChunkRecord
	err := r.db.QueryRowContext(ctx,
		"SELECT id, source, topic, body, checksum, updated_at FROM rag_chunks WHERE id = ?",
		id,
	).Scan(&rec.ID, &rec.Source, &rec.Topic, &rec.Body, &rec.Checksum, &rec.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query chunk: %w", err)
	}

	return &rec, nil
}
