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

// CaseRecordRepository implements port.CaseRecordRepository
type CaseRecordRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewCaseRecordRepository creates a new case record repository
func NewCaseRecordRepository(db *sql.DB, logger *zap.Logger) port.CaseRecordRepository {
	return &CaseRecordRepository{
		db:     db,
		logger: logger,
	}
}

const caseRecordColumns = `
	id, position, case_type, case_number, agent_status, start_date, initiated_by,
	procedure_name, current_location, agent_name, agent_dni, absences, case_status,
	resolution, notes, created_at, updated_at`

// List returns every record in grid order
func (r *CaseRecordRepository) List(ctx context.Context) ([]*entity.CaseRecord, error) {
	query := `SELECT ` + caseRecordColumns + ` FROM case_records ORDER BY position ASC, id ASC`

	rows, err := sqlite.ExecutorFrom(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list case records", zap.Error(err))
		return nil, fmt.Errorf("failed to list case records: %w", err)
	}
	defer rows.Close()

	records := []*entity.CaseRecord{}
	for rows.Next() {
		record, err := scanCaseRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan case record: %w", err)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// GetByID retrieves a case record by ID
func (r *CaseRecordRepository) GetByID(ctx context.Context, id int64) (*entity.CaseRecord, error) {
	query := `SELECT ` + caseRecordColumns + ` FROM case_records WHERE id = ?`

	record, err := scanCaseRecord(sqlite.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("case record %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("Failed to get case record", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get case record: %w", err)
	}
	return record, nil
}

// Create appends a record at the end of the list
func (r *CaseRecordRepository) Create(ctx context.Context, record *entity.CaseRecord) error {
	query := `
		INSERT INTO case_records (
			position, case_type, case_number, agent_status, start_date, initiated_by,
			procedure_name, current_location, agent_name, agent_dni, absences,
			case_status, resolution, notes, created_at, updated_at
		) VALUES (
			(SELECT COALESCE(MAX(position), 0) + 1 FROM case_records),
			?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?
		)
	`

	now := time.Now()
	result, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query, caseRecordArgs(record, now, now)...)
	if err != nil {
		r.logger.Error("Failed to create case record", zap.Error(err))
		return fmt.Errorf("failed to create case record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	record.ID = id
	record.CreatedAt = now
	record.UpdatedAt = now
	return nil
}

// Update overwrites every editable field of a record
func (r *CaseRecordRepository) Update(ctx context.Context, record *entity.CaseRecord) error {
	query := `
		UPDATE case_records SET
			case_type = ?, case_number = ?, agent_status = ?, start_date = ?,
			initiated_by = ?, procedure_name = ?, current_location = ?, agent_name = ?,
			agent_dni = ?, absences = ?, case_status = ?, resolution = ?, notes = ?,
			updated_at = ?
		WHERE id = ?
	`

	now := time.Now()
	result, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		record.Type,
		record.CaseNumber,
		record.AgentStatus,
		record.StartDate,
		record.InitiatedBy,
		record.Procedure,
		record.CurrentLocation,
		record.AgentName,
		record.AgentDNI,
		record.Absences,
		record.CaseStatus,
		record.Resolution,
		record.Notes,
		now,
		record.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update case record", zap.Int64("id", record.ID), zap.Error(err))
		return fmt.Errorf("failed to update case record: %w", err)
	}
	if err := requireAffected(result, "case record", record.ID); err != nil {
		return err
	}

	record.UpdatedAt = now
	return nil
}

// Delete removes a record
func (r *CaseRecordRepository) Delete(ctx context.Context, id int64) error {
	result, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, `DELETE FROM case_records WHERE id = ?`, id)
	if err != nil {
		r.logger.Error("Failed to delete case record", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete case record: %w", err)
	}
	return requireAffected(result, "case record", id)
}

// ReplaceAll deletes every record and inserts the given ones in order.
// Callers run it inside a transaction.
func (r *CaseRecordRepository) ReplaceAll(ctx context.Context, records []*entity.CaseRecord) error {
	exec := sqlite.ExecutorFrom(ctx, r.db)

	if _, err := exec.ExecContext(ctx, `DELETE FROM case_records`); err != nil {
		r.logger.Error("Failed to clear case records", zap.Error(err))
		return fmt.Errorf("failed to clear case records: %w", err)
	}

	query := `
		INSERT INTO case_records (
			position, case_type, case_number, agent_status, start_date, initiated_by,
			procedure_name, current_location, agent_name, agent_dni, absences,
			case_status, resolution, notes, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	now := time.Now()
	for i, record := range records {
		created := record.CreatedAt
		if created.IsZero() {
			created = now
		}
		args := append([]interface{}{i + 1}, caseRecordArgs(record, created, now)...)

		result, err := exec.ExecContext(ctx, query, args...)
		if err != nil {
			r.logger.Error("Failed to insert case record", zap.Int("position", i+1), zap.Error(err))
			return fmt.Errorf("failed to insert case record %d: %w", i+1, err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert id: %w", err)
		}
		record.ID = id
		record.Position = i + 1
		record.CreatedAt = created
		record.UpdatedAt = now
	}

	return nil
}

func caseRecordArgs(record *entity.CaseRecord, createdAt, updatedAt time.Time) []interface{} {
	return []interface{}{
		record.Type,
		record.CaseNumber,
		record.AgentStatus,
		record.StartDate,
		record.InitiatedBy,
		record.Procedure,
		record.CurrentLocation,
		record.AgentName,
		record.AgentDNI,
		record.Absences,
		record.CaseStatus,
		record.Resolution,
		record.Notes,
		createdAt,
		updatedAt,
	}
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCaseRecord(s rowScanner) (*entity.CaseRecord, error) {
	var record entity.CaseRecord
	err := s.Scan(
		&record.ID,
		&record.Position,
		&record.Type,
		&record.CaseNumber,
		&record.AgentStatus,
		&record.StartDate,
		&record.InitiatedBy,
		&record.Procedure,
		&record.CurrentLocation,
		&record.AgentName,
		&record.AgentDNI,
		&record.Absences,
		&record.CaseStatus,
		&record.Resolution,
		&record.Notes,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// requireAffected turns a zero-row UPDATE/DELETE into domain.ErrNotFound
func requireAffected(result sql.Result, what string, id int64) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", what, id, domain.ErrNotFound)
	}
	return nil
}

// Verify interface compliance
var _ port.CaseRecordRepository = (*CaseRecordRepository)(nil)
