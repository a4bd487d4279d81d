package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/filmax/internal/shared"
)

// TokenKey is the settings key the bearer token is persisted under.
const TokenKey = "token"

// SettingsRepository stores client settings as key/value rows.
type SettingsRepository struct {
	db *sql.DB
}

// NewSettingsRepository creates a new [SettingsRepository] with the given database connection
func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the value stored under key, or [shared.ErrNotFound].
func (r *SettingsRepository) Get(key string) (string, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: setting %s", shared.ErrNotFound, key)
	}
	if err != nil {
		return "", fmt.Errorf("failed to query setting: %w", err)
	}
	return value, nil
}

// Set inserts or replaces the value stored under key.
func (r *SettingsRepository) Set(key, value string) error {
	if key == "" {
		return fmt.Errorf("%w: empty setting key", shared.ErrInvalidInput)
	}

	query := `
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`

	if _, err := r.db.Exec(query, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to save setting: %w", err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (r *SettingsRepository) Delete(key string) error {
	if _, err := r.db.Exec(`DELETE FROM settings WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete setting: %w", err)
	}
	return nil
}

// LoadToken returns the persisted bearer token, or "" when none is stored.
func (r *SettingsRepository) LoadToken() (string, error) {
	token, err := r.Get(TokenKey)
	if errors.Is(err, shared.ErrNotFound) {
		return "", nil
	}
	return token, err
}

// SaveToken persists token. An empty token clears it.
func (r *SettingsRepository) SaveToken(token string) error {
	if token == "" {
		return r.ClearToken()
	}
	return r.Set(TokenKey, token)
}

// ClearToken removes the persisted token.
func (r *SettingsRepository) ClearToken() error {
	return r.Delete(TokenKey)
}
