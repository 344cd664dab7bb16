package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/skip405/kickbox-verifier/internal/core"
	"go.uber.org/zap"
)

// MySQLStore is a MySQL implementation of the StateStore interface.
type MySQLStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewMySQLStore creates a new MySQL state store.
func NewMySQLStore(dsn string, logger *zap.Logger) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	// Create table if it doesn't exist
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS verification_state (
			slot VARCHAR(64) PRIMARY KEY,
			payload MEDIUMTEXT NOT NULL,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &MySQLStore{db: db, logger: logger}, nil
}

// Load reads the full cache collection.
func (s *MySQLStore) Load(ctx context.Context) (map[string]core.CacheEntry, error) {
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
		s.logger.Error("Discarding malformed verification state", zap.Error(err))
		return make(map[string]core.CacheEntry), nil
	}

	return entries, nil
}

// Save replaces the full cache collection in one write.
func (s *MySQLStore) Save(ctx context.Context, entries map[string]core.CacheEntry) error {
	payload, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode verification state: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO verification_state (slot, payload) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE payload = VALUES(payload)
	`, slotName, string(payload))

	if err != nil {
		return fmt.Errorf("failed to save verification state: %w", err)
	}

	return nil
}

// Clear removes the slot entirely.
func (s *MySQLStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM verification_state WHERE slot = ?
	`, slotName)

	if err != nil {
		return fmt.Errorf("failed to clear verification state: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (s *MySQLStore) Close() error {
	return s.db.Close()
}
