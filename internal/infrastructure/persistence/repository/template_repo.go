package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/muni-rrhh/dashboard/internal/application/port"
	"github.com/muni-rrhh/dashboard/internal/domain"
	"github.com/muni-rrhh/dashboard/internal/domain/entity"
	"github.com/muni-rrhh/dashboard/internal/infrastructure/persistence/sqlite"
)

// TemplateRepository implements port.TemplateRepository.
// Column mappings are stored as a JSON array.
type TemplateRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewTemplateRepository creates a new template repository
func NewTemplateRepository(db *sql.DB, logger *zap.Logger) port.TemplateRepository {
	return &TemplateRepository{
		db:     db,
		logger: logger,
	}
}

const templateColumns = `id, name, description, dataset, header_row, mappings, created_at, updated_at`

// List returns templates, newest first
func (r *TemplateRepository) List(ctx context.Context) ([]*entity.Template, error) {
	rows, err := sqlite.ExecutorFrom(ctx, r.db).QueryContext(ctx,
		`SELECT `+templateColumns+` FROM templates ORDER BY created_at DESC, id DESC`)
	if err != nil {
		r.logger.Error("Failed to list templates", zap.Error(err))
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	defer rows.Close()

	templates := []*entity.Template{}
	for rows.Next() {
		tpl, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		templates = append(templates, tpl)
	}
	return templates, rows.Err()
}

// GetByID retrieves a template by ID
func (r *TemplateRepository) GetByID(ctx context.Context, id int64) (*entity.Template, error) {
	tpl, err := scanTemplate(sqlite.ExecutorFrom(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+templateColumns+` FROM templates WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("template %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("Failed to get template", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	return tpl, nil
}

// Create inserts a new template
func (r *TemplateRepository) Create(ctx context.Context, tpl *entity.Template) error {
	mappings, err := json.Marshal(tpl.Mappings)
	if err != nil {
		return fmt.Errorf("failed to marshal mappings: %w", err)
	}

	query := `
		INSERT INTO templates (name, description, dataset, header_row, mappings, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	now := time.Now()
	result, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		tpl.Name,
		tpl.Description,
		tpl.Dataset,
		tpl.HeaderRow,
		string(mappings),
		now,
		now,
	)
	if err != nil {
		r.logger.Error("Failed to create template", zap.String("name", tpl.Name), zap.Error(err))
		return fmt.Errorf("failed to create template: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	tpl.ID = id
	tpl.CreatedAt = now
	tpl.UpdatedAt = now
	return nil
}

// Update modifies an existing template
func (r *TemplateRepository) Update(ctx context.Context, tpl *entity.Template) error {
	mappings, err := json.Marshal(tpl.Mappings)
	if err != nil {
		return fmt.Errorf("failed to marshal mappings: %w", err)
	}

	query := `
		UPDATE templates
		SET name = ?, description = ?, dataset = ?, header_row = ?, mappings = ?, updated_at = ?
		WHERE id = ?
	`

	now := time.Now()
	result, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		tpl.Name,
		tpl.Description,
		tpl.Dataset,
		tpl.HeaderRow,
		string(mappings),
		now,
		tpl.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update template", zap.Int64("id", tpl.ID), zap.Error(err))
		return fmt.Errorf("failed to update template: %w", err)
	}
	if err := requireAffected(result, "template", tpl.ID); err != nil {
		return err
	}

	tpl.UpdatedAt = now
	return nil
}

// Delete removes a template
func (r *TemplateRepository) Delete(ctx context.Context, id int64) error {
	result, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, `DELETE FROM templates WHERE id = ?`, id)
	if err != nil {
		r.logger.Error("Failed to delete template", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete template: %w", err)
	}
	return requireAffected(result, "template", id)
}

func scanTemplate(s rowScanner) (*entity.Template, error) {
	var (
		tpl      entity.Template
		mappings string
	)
	err := s.Scan(
		&tpl.ID,
		&tpl.Name,
		&tpl.Description,
		&tpl.Dataset,
		&tpl.HeaderRow,
		&mappings,
		&tpl.CreatedAt,
		&tpl.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(mappings), &tpl.Mappings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal mappings: %w", err)
	}
	return &tpl, nil
}

// Verify interface compliance
var _ port.TemplateRepository = (*TemplateRepository)(nil)
