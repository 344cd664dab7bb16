package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/skip405/kickbox-verifier/internal/core"
	"go.uber.org/zap"
)

// slotName is the single durable slot holding the verification cache.
const slotName = "kickbox_verifications"

// SQLiteStore is a SQLite implementation of the StateStore interface. The
// cache lives in one row as a JSON payload, replaced wholesale on Save.
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteStore creates a new SQLite state store.
func NewSQLiteStore(dbPath string, logger *zap.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Create table if it doesn't exist
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS verification_state (
			slot TEXT PRIMARY KEY,
			payload TEXT NOT NULL,
			updated_at TIMESTAMP
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &SQLiteStore{db: db, logger: logger}, nil
}

// Load reads the full cache collection.
func (s *SQLiteStore) Load(ctx context.Context) (map[string]core.CacheEntry, error) {
	var payload string

	err := s.db.QueryRowContext(ctx, `
		SELECT payload FROM verification_state WHERE slot = ?
	`, slotName).Scan(&payload)

	if err != nil {
		if err == sql.ErrNoRows {
			return make(map[string]core.CacheEntry), nil
		}
		return nil, fmt.Errorf("failed to load verification state: %w", err)
	}

	entries := make(map[string]core.CacheEntry)
	if err := json.Unmarshal([]byte(payload), &entries); err != nil {
		// A corrupt payload behaves like an empty slot rather than
		// wedging every verification.
		s.logger.Error("Discarding malformed verification state", zap.Error(err))
		return make(map[string]core.CacheEntry), nil
	}

	return entries, nil
}

// Save replaces the full cache collection in one write.
func (s *SQLiteStore) Save(ctx context.Context, entries map[string]core.CacheEntry) error {
	payload, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode verification state: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO verification_state (slot, payload, updated_at)
		VALUES (?, ?, ?)
	`, slotName, string(payload), time.Now().UTC().Format(time.RFC3339))

	if err != nil {
		return fmt.Errorf("failed to save verification state: %w", err)
	}

	return nil
}

// Clear removes the slot entirely.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM verification_state WHERE slot = ?
	`, slotName)

	if err != nil {
		return fmt.Errorf("failed to clear verification state: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
