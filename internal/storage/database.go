package storage

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// New opens a SQLite database connection at the given path, creating the
// parent directory if needed.
func New(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	// The pipeline is single-threaded; keep the pool tiny so the full-replace
	// transaction is never interleaved with another connection's reads.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate creates the state table if it does not exist.
// It is idempotent and can be run multiple times safely.
func Migrate(db *sql.DB) error {
	schema := `CREATE TABLE IF NOT EXISTS rag_chunks (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		topic TEXT NOT NULL,
		body TEXT NOT NULL,
		checksum TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);`

	_, err := db.Exec(schema)
	return err
}
