package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/muni-rrhh/dashboard/internal/application/port"
	"github.com/muni-rrhh/dashboard/internal/domain"
	"github.com/muni-rrhh/dashboard/internal/domain/entity"
	"github.com/muni-rrhh/dashboard/internal/domain/event"
	"github.com/muni-rrhh/dashboard/internal/domain/reconciliation"
	"github.com/muni-rrhh/dashboard/pkg/listing"
	"github.com/muni-rrhh/dashboard/pkg/utils"
)

// CaseRecordService manages the loaded expedientes grid
type CaseRecordService interface {
	List(ctx context.Context, q listing.Query) (listing.Page[*entity.CaseRecord], error)
	Get(ctx context.Context, id int64) (*entity.CaseRecord, error)
	Create(ctx context.Context, record *entity.CaseRecord) error
	Update(ctx context.Context, record *entity.CaseRecord) error
	Delete(ctx context.Context, id int64) error

	// ReplaceAll validates every record first and then swaps the whole
	// grid in one transaction
	ReplaceAll(ctx context.Context, records []*entity.CaseRecord) error

	// Export writes the grid as xlsx and returns the download filename
	Export(ctx context.Context, w io.Writer) (string, error)
}

// caseRecordFields are the searchable and sortable grid columns
var caseRecordFields = listing.Fields[*entity.CaseRecord]{
	"tipo":            func(r *entity.CaseRecord) string { return r.Type },
	"expNro":          func(r *entity.CaseRecord) string { return r.CaseNumber },
	"situacionAgente": func(r *entity.CaseRecord) string { return r.AgentStatus },
	"fechaInicio":     func(r *entity.CaseRecord) string { return r.StartDate },
	"iniciadoPor":     func(r *entity.CaseRecord) string { return r.InitiatedBy },
	"tramite":         func(r *entity.CaseRecord) string { return r.Procedure },
	"dondeEsta":       func(r *entity.CaseRecord) string { return r.CurrentLocation },
	"agente":          func(r *entity.CaseRecord) string { return r.AgentName },
	"dni":             func(r *entity.CaseRecord) string { return r.AgentDNI },
	"estado":          func(r *entity.CaseRecord) string { return r.CaseStatus },
	"resolucion":      func(r *entity.CaseRecord) string { return r.Resolution },
	"observaciones":   func(r *entity.CaseRecord) string { return r.Notes },
}

type caseRecordServiceImpl struct {
	repo      port.CaseRecordRepository
	txManager port.TransactionManager
	writer    port.SpreadsheetWriter
	events    port.EventPublisher
	now       func() time.Time
	logger    Logger
}

// NewCaseRecordService creates a new CaseRecordService
func NewCaseRecordService(
	repo port.CaseRecordRepository,
	txManager port.TransactionManager,
	writer port.SpreadsheetWriter,
	events port.EventPublisher,
	logger Logger,
) CaseRecordService {
	return &caseRecordServiceImpl{
		repo:      repo,
		txManager: txManager,
		writer:    writer,
		events:    events,
		now:       time.Now,
		logger:    logger,
	}
}

func (s *caseRecordServiceImpl) List(ctx context.Context, q listing.Query) (listing.Page[*entity.CaseRecord], error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return listing.Page[*entity.CaseRecord]{}, fmt.Errorf("list case records: %w", err)
	}
	return listing.Apply(records, q, caseRecordFields), nil
}

func (s *caseRecordServiceImpl) Get(ctx context.Context, id int64) (*entity.CaseRecord, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *caseRecordServiceImpl) Create(ctx context.Context, record *entity.CaseRecord) error {
	if err := ValidateCaseRecord(record); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, record); err != nil {
		s.logger.Error("Failed to create case record", "error", err, "exp_nro", record.CaseNumber)
		return fmt.Errorf("create case record: %w", err)
	}
	s.logger.Info("Case record created", "id", record.ID, "exp_nro", record.CaseNumber)
	s.changed(ctx, event.OpCreate, 1)
	return nil
}

func (s *caseRecordServiceImpl) Update(ctx context.Context, record *entity.CaseRecord) error {
	if err := ValidateCaseRecord(record); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, record); err != nil {
		return fmt.Errorf("update case record: %w", err)
	}
	s.logger.Info("Case record updated", "id", record.ID)
	s.changed(ctx, event.OpUpdate, 1)
	return nil
}

func (s *caseRecordServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete case record: %w", err)
	}
	s.logger.Info("Case record deleted", "id", id)
	s.changed(ctx, event.OpDelete, 1)
	return nil
}

func (s *caseRecordServiceImpl) ReplaceAll(ctx context.Context, records []*entity.CaseRecord) error {
	verr := domain.NewValidationError()
	for i, r := range records {
		if r == nil {
			verr.Add(fmt.Sprintf("[%d]", i), "record is empty")
			continue
		}
		if err := ValidateCaseRecord(r); err != nil {
			var fe *domain.ValidationError
			if errors.As(err, &fe) {
				for field, msg := range fe.Fields {
					verr.Add(fmt.Sprintf("[%d].%s", i, field), msg)
				}
			}
		}
	}
	if err := verr.OrNil(); err != nil {
		return err
	}

	err := s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		return s.repo.ReplaceAll(ctx, records)
	})
	if err != nil {
		s.logger.Error("Failed to replace case records", "error", err, "count", len(records))
		return fmt.Errorf("replace case records: %w", err)
	}

	s.logger.Info("Case records replaced", "count", len(records))
	s.changed(ctx, event.OpReplace, len(records))
	return nil
}

// changed runs the cases.changed subscribers before the write returns. The
// write already succeeded, so a subscriber error is only logged.
func (s *caseRecordServiceImpl) changed(ctx context.Context, operation string, count int) {
	if err := s.events.Dispatch(ctx, event.CasesChanged(operation, count)); err != nil {
		s.logger.Error("Case change subscribers failed", "operation", operation, "error", err)
	}
}

func (s *caseRecordServiceImpl) Export(ctx context.Context, w io.Writer) (string, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return "", fmt.Errorf("list case records: %w", err)
	}

	values := make([]entity.CaseRecord, len(records))
	for i, r := range records {
		values[i] = *r
	}
	headers, rows := reconciliation.CaseRecordTable(values)

	if err := s.writer.Write(w, reconciliation.BucketLoaded.SheetTitle(), headers, rows); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return reconciliation.BucketLoaded.Filename(s.now()), nil
}

// ValidateCaseRecord trims every field, canonicalizes tipo and estado and
// checks the required fields. It returns a *domain.ValidationError keyed by
// the JSON field names.
func ValidateCaseRecord(r *entity.CaseRecord) error {
	for _, f := range []*string{
		&r.Type, &r.CaseNumber, &r.AgentStatus, &r.StartDate, &r.InitiatedBy, &r.Procedure,
		&r.CurrentLocation, &r.AgentName, &r.AgentDNI, &r.Absences, &r.CaseStatus,
		&r.Resolution, &r.Notes,
	} {
		*f = utils.SanitizeString(*f)
	}

	verr := domain.NewValidationError()

	required := []struct {
		field string
		value string
	}{
		{"tipo", r.Type},
		{"expNro", r.CaseNumber},
		{"agente", r.AgentName},
		{"dni", r.AgentDNI},
		{"estado", r.CaseStatus},
		{"dondeEsta", r.CurrentLocation},
	}
	for _, req := range required {
		if req.value == "" {
			verr.Add(req.field, "is required")
		}
	}

	if r.Type != "" {
		if canonical, ok := canonicalize(r.Type, entity.CaseTypes); ok {
			r.Type = canonical
		} else {
			verr.Add("tipo", "must be one of: "+strings.Join(entity.CaseTypes, ", "))
		}
	}
	if r.CaseStatus != "" {
		if canonical, ok := canonicalize(r.CaseStatus, entity.CaseStatuses); ok {
			r.CaseStatus = canonical
		} else {
			verr.Add("estado", "must be one of: "+strings.Join(entity.CaseStatuses, ", "))
		}
	}

	return verr.OrNil()
}

func canonicalize(value string, allowed []string) (string, bool) {
	for _, a := range allowed {
		if strings.EqualFold(value, a) {
			return a, true
		}
	}
	return "", false
}
