package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/muni-rrhh/dashboard/internal/application/port"
	"github.com/muni-rrhh/dashboard/internal/domain"
	"github.com/muni-rrhh/dashboard/internal/infrastructure/persistence/sqlite"
)

// SettingsRepository implements port.SettingsRepository
type SettingsRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *sql.DB, logger *zap.Logger) port.SettingsRepository {
	return &SettingsRepository{
		db:     db,
		logger: logger,
	}
}

// Get returns the stored value, or domain.ErrNotFound
func (r *SettingsRepository) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := sqlite.ExecutorFrom(ctx, r.db).
		QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).
		Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("setting %q: %w", key, domain.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("Failed to read setting", zap.String("key", key), zap.Error(err))
		return "", fmt.Errorf("failed to read setting: %w", err)
	}
	return value, nil
}

// Set inserts or overwrites a value
func (r *SettingsRepository) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query, key, value, time.Now()); err != nil {
		r.logger.Error("Failed to write setting", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to write setting: %w", err)
	}
	return nil
}

// Verify interface compliance
var _ port.SettingsRepository = (*SettingsRepository)(nil)
