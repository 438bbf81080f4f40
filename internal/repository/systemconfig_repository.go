package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dcamoon/trading-backend/internal/apperrors"
)

// SystemConfigRepository provides access to the system_config key/value
// table, which stores runtime settings and encrypted credentials.
type SystemConfigRepository struct {
	db *sql.DB
}

// NewSystemConfigRepository creates a new SystemConfigRepository with the provided database connection.
func NewSystemConfigRepository(db *sql.DB) *SystemConfigRepository {
	return &SystemConfigRepository{db: db}
}

// Get returns the stored value for a key.
// Returns apperrors.ErrConfigKeyNotFound if the key has never been set.
func (r *SystemConfigRepository) Get(key string) (string, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM system_config WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", apperrors.ErrConfigKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to query system_config table: %w", err)
	}
	return value, nil
}

// Set stores or replaces the value for a key.
func (r *SystemConfigRepository) Set(key, value string, encrypted bool) error {
	query := `
		INSERT INTO system_config (key, value, is_encrypted, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value,
			is_encrypted = excluded.is_encrypted,
			updated_at = excluded.updated_at
	`

	_, err := r.db.Exec(query, key, value, encrypted, FormatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("failed to upsert system_config: %w", err)
	}

	return nil
}
