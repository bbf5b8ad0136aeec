package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/muni-rrhh/dashboard/internal/application/port"
	"github.com/muni-rrhh/dashboard/internal/domain/entity"
	"github.com/muni-rrhh/dashboard/internal/infrastructure/persistence/sqlite"
)

var groupableAgentColumns = map[string]bool{
	port.AgentGroupDependency:       true,
	port.AgentGroupSecretariat:      true,
	port.AgentGroupGrouping:         true,
	port.AgentGroupLevel:            true,
	port.AgentGroupEmploymentStatus: true,
}

// unassignedLabel replaces empty group values in CountBy results
const unassignedLabel = "Sin asignar"

// AgentRepository implements port.AgentRepository
type AgentRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewAgentRepository creates a new agent repository
func NewAgentRepository(db *sql.DB, logger *zap.Logger) port.AgentRepository {
	return &AgentRepository{
		db:     db,
		logger: logger,
	}
}

// Upsert inserts an agent or refreshes the row with the same DNI
func (r *AgentRepository) Upsert(ctx context.Context, agent *entity.Agent) error {
	query := `
		INSERT INTO agents (
			dni, name, dependency, secretariat, grouping_name, level,
			employment_status, hire_date, imported_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(dni) DO UPDATE SET
			name = excluded.name,
			dependency = excluded.dependency,
			secretariat = excluded.secretariat,
			grouping_name = excluded.grouping_name,
			level = excluded.level,
			employment_status = excluded.employment_status,
			hire_date = excluded.hire_date,
			imported_at = excluded.imported_at
	`

	var hireDate sql.NullTime
	if agent.HireDate != nil {
		hireDate = sql.NullTime{Time: *agent.HireDate, Valid: true}
	}

	now := time.Now()
	exec := sqlite.ExecutorFrom(ctx, r.db)
	_, err := exec.ExecContext(ctx, query,
		agent.DNI,
		agent.Name,
		agent.Dependency,
		agent.Secretariat,
		agent.Grouping,
		agent.Level,
		agent.EmploymentStatus,
		hireDate,
		now,
	)
	if err != nil {
		r.logger.Error("Failed to upsert agent", zap.String("dni", agent.DNI), zap.Error(err))
		return fmt.Errorf("failed to upsert agent: %w", err)
	}

	// LastInsertId is unreliable for the update branch of an upsert
	if err := exec.QueryRowContext(ctx, `SELECT id FROM agents WHERE dni = ?`, agent.DNI).Scan(&agent.ID); err != nil {
		return fmt.Errorf("failed to read agent id: %w", err)
	}
	agent.ImportedAt = now
	return nil
}

// Count returns the number of agents
func (r *AgentRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := sqlite.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, `SELECT COUNT(*) FROM agents`).Scan(&n); err != nil {
		r.logger.Error("Failed to count agents", zap.Error(err))
		return 0, fmt.Errorf("failed to count agents: %w", err)
	}
	return n, nil
}

// CountBy groups agents by column, largest groups first
func (r *AgentRepository) CountBy(ctx context.Context, column string) ([]entity.CountByLabel, error) {
	if !groupableAgentColumns[column] {
		return nil, fmt.Errorf("cannot group agents by %q", column)
	}

	// column is whitelisted above
	query := fmt.Sprintf(`
		SELECT CASE WHEN TRIM(%[1]s) = '' THEN ? ELSE TRIM(%[1]s) END AS label, COUNT(*) AS total
		FROM agents
		GROUP BY label
		ORDER BY total DESC, label ASC
	`, column)

	rows, err := sqlite.ExecutorFrom(ctx, r.db).QueryContext(ctx, query, unassignedLabel)
	if err != nil {
		r.logger.Error("Failed to group agents", zap.String("column", column), zap.Error(err))
		return nil, fmt.Errorf("failed to group agents: %w", err)
	}
	defer rows.Close()

	counts := []entity.CountByLabel{}
	for rows.Next() {
		var c entity.CountByLabel
		if err := rows.Scan(&c.Label, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan agent group: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// DeleteAll removes every agent and reports how many were deleted
func (r *AgentRepository) DeleteAll(ctx context.Context) (int64, error) {
	result, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, `DELETE FROM agents`)
	if err != nil {
		r.logger.Error("Failed to delete agents", zap.Error(err))
		return 0, fmt.Errorf("failed to delete agents: %w", err)
	}
	return result.RowsAffected()
}

// Verify interface compliance
var _ port.AgentRepository = (*AgentRepository)(nil)
