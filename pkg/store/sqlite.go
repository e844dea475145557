package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore persists layout records in a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at dbPath.
// It enables WAL mode for concurrency and durability.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	// Enable WAL mode (Write-Ahead Logging)
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("schema migration failed: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// migrate creates the layouts table if it doesn't exist. The record body
// is stored as a JSON blob; the signature column is broken out so stale
// layouts can be inspected without decoding.
func (s *SQLiteStore) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS layouts (
		instance_id TEXT PRIMARY KEY,
		signature TEXT NOT NULL,
		record JSON NOT NULL,
		last_updated DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create layouts table: %w", err)
	}
	return nil
}

// Load returns the stored record for instanceID, or nil when absent.
// A record that fails to decode is logged and treated as absent.
func (s *SQLiteStore) Load(ctx context.Context, instanceID string) (*Record, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT record FROM layouts WHERE instance_id = ?", instanceID,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load layout %s: %w", instanceID, err)
	}

	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		log.Printf("Discarding corrupt layout record for %s: %v", instanceID, err)
		return nil, nil
	}
	return &rec, nil
}

// Save upserts the record for instanceID.
func (s *SQLiteStore) Save(ctx context.Context, instanceID string, rec Record) error {
	if rec.LastUpdated == 0 {
		rec.LastUpdated = time.Now().UnixMilli()
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal layout record: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO layouts (instance_id, signature, record, last_updated)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(instance_id) DO UPDATE SET
			signature = excluded.signature,
			record = excluded.record,
			last_updated = excluded.last_updated
	`, instanceID, rec.Signature, raw)
	if err != nil {
		return fmt.Errorf("failed to save layout %s: %w", instanceID, err)
	}
	writesTotal.Inc()
	return nil
}
