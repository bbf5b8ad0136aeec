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
	"github.com/muni-rrhh/dashboard/internal/domain/entity"
	"github.com/muni-rrhh/dashboard/internal/infrastructure/persistence/sqlite"
)

// DependencyRepository implements port.DependencyRepository
type DependencyRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewDependencyRepository creates a new dependency repository
func NewDependencyRepository(db *sql.DB, logger *zap.Logger) port.DependencyRepository {
	return &DependencyRepository{
		db:     db,
		logger: logger,
	}
}

const dependencyColumns = `id, name, code, secretariat, parent_id, active, created_at, updated_at`

// List returns dependencies sorted by name
func (r *DependencyRepository) List(ctx context.Context) ([]*entity.Dependency, error) {
	rows, err := sqlite.ExecutorFrom(ctx, r.db).QueryContext(ctx,
		`SELECT `+dependencyColumns+` FROM dependencies ORDER BY name COLLATE NOCASE ASC`)
	if err != nil {
		r.logger.Error("Failed to list dependencies", zap.Error(err))
		return nil, fmt.Errorf("failed to list dependencies: %w", err)
	}
	defer rows.Close()

	deps := []*entity.Dependency{}
	for rows.Next() {
		dep, err := scanDependency(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dependency: %w", err)
		}
		deps = append(deps, dep)
	}
	return deps, rows.Err()
}

// GetByID retrieves a dependency by ID
func (r *DependencyRepository) GetByID(ctx context.Context, id int64) (*entity.Dependency, error) {
	dep, err := scanDependency(sqlite.ExecutorFrom(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+dependencyColumns+` FROM dependencies WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("dependency %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("Failed to get dependency", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get dependency: %w", err)
	}
	return dep, nil
}

// Create inserts a new dependency
func (r *DependencyRepository) Create(ctx context.Context, dep *entity.Dependency) error {
	query := `
		INSERT INTO dependencies (name, code, secretariat, parent_id, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	now := time.Now()
	result, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		dep.Name,
		dep.Code,
		dep.Secretariat,
		nullInt64(dep.ParentID),
		dep.Active,
		now,
		now,
	)
	if err != nil {
		if sqlite.IsUniqueViolation(err) {
			return fmt.Errorf("dependency %q: %w", dep.Name, domain.ErrDuplicate)
		}
		r.logger.Error("Failed to create dependency", zap.String("name", dep.Name), zap.Error(err))
		return fmt.Errorf("failed to create dependency: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	dep.ID = id
	dep.CreatedAt = now
	dep.UpdatedAt = now
	return nil
}

// Update modifies an existing dependency
func (r *DependencyRepository) Update(ctx context.Context, dep *entity.Dependency) error {
	query := `
		UPDATE dependencies
		SET name = ?, code = ?, secretariat = ?, parent_id = ?, active = ?, updated_at = ?
		WHERE id = ?
	`

	now := time.Now()
	result, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		dep.Name,
		dep.Code,
		dep.Secretariat,
		nullInt64(dep.ParentID),
		dep.Active,
		now,
		dep.ID,
	)
	if err != nil {
		if sqlite.IsUniqueViolation(err) {
			return fmt.Errorf("dependency %q: %w", dep.Name, domain.ErrDuplicate)
		}
		r.logger.Error("Failed to update dependency", zap.Int64("id", dep.ID), zap.Error(err))
		return fmt.Errorf("failed to update dependency: %w", err)
	}
	if err := requireAffected(result, "dependency", dep.ID); err != nil {
		return err
	}

	dep.UpdatedAt = now
	return nil
}

// Delete removes a dependency
func (r *DependencyRepository) Delete(ctx context.Context, id int64) error {
	result, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, `DELETE FROM dependencies WHERE id = ?`, id)
	if err != nil {
		r.logger.Error("Failed to delete dependency", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete dependency: %w", err)
	}
	return requireAffected(result, "dependency", id)
}

func scanDependency(s rowScanner) (*entity.Dependency, error) {
	var (
		dep      entity.Dependency
		parentID sql.NullInt64
	)
	err := s.Scan(
		&dep.ID,
		&dep.Name,
		&dep.Code,
		&dep.Secretariat,
		&parentID,
		&dep.Active,
		&dep.CreatedAt,
		&dep.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if parentID.Valid {
		v := parentID.Int64
		dep.ParentID = &v
	}
	return &dep, nil
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

// Verify interface compliance
var _ port.DependencyRepository = (*DependencyRepository)(nil)
