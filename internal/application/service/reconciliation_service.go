package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/muni-rrhh/dashboard/internal/application/port"
	"github.com/muni-rrhh/dashboard/internal/domain"
	"github.com/muni-rrhh/dashboard/internal/domain/entity"
	"github.com/muni-rrhh/dashboard/internal/domain/event"
	"github.com/muni-rrhh/dashboard/internal/domain/reconciliation"
)

const (
	// DefaultTimestampLayout renders lastReviewedTimestamp as dd/mm/yyyy hh:mm:ss
	DefaultTimestampLayout = "02/01/2006 15:04:05"

	// DefaultTimezone is the zone review timestamps and export names are rendered in
	DefaultTimezone = "America/Argentina/Buenos_Aires"
)

// ProcessInput is an uploaded authoritative spreadsheet
type ProcessInput struct {
	Filename string
	Content  io.Reader
}

// ReconciliationConfig configures the reconciliation service
type ReconciliationConfig struct {
	Options         reconciliation.Options
	Location        *time.Location
	TimestampLayout string
}

// ReconciliationService runs the expedientes reconciliation ("Procesar")
type ReconciliationService interface {
	// Process reconciles the uploaded spreadsheet against the loaded cases.
	// Only one run may be in flight; a concurrent call gets ErrRunInProgress.
	Process(ctx context.Context, in ProcessInput) (*entity.ReconciliationResult, error)

	// Latest returns the most recent result, from memory or from the
	// persisted snapshot. ErrNoResult when nothing has run yet.
	Latest(ctx context.Context) (*entity.ReconciliationResult, error)

	// Export writes one bucket of the latest result (or the loaded grid for
	// BucketLoaded) as xlsx and returns the download filename
	Export(ctx context.Context, bucket reconciliation.Bucket, w io.Writer) (string, error)
}

type reconciliationServiceImpl struct {
	records  port.CaseRecordRepository
	settings port.SettingsRepository
	tx       port.TransactionManager
	reader   port.SpreadsheetReader
	writer   port.SpreadsheetWriter
	events   port.EventPublisher
	cfg      ReconciliationConfig
	logger   Logger

	now   func() time.Time
	newID func() string

	run    sync.Mutex
	mu     sync.RWMutex
	latest *entity.ReconciliationResult
}

// NewReconciliationService creates a new ReconciliationService
func NewReconciliationService(
	records port.CaseRecordRepository,
	settings port.SettingsRepository,
	txManager port.TransactionManager,
	reader port.SpreadsheetReader,
	writer port.SpreadsheetWriter,
	events port.EventPublisher,
	cfg ReconciliationConfig,
	logger Logger,
) ReconciliationService {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.TimestampLayout == "" {
		cfg.TimestampLayout = DefaultTimestampLayout
	}
	return &reconciliationServiceImpl{
		records:  records,
		settings: settings,
		tx:       txManager,
		reader:   reader,
		writer:   writer,
		events:   events,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

func (s *reconciliationServiceImpl) Process(ctx context.Context, in ProcessInput) (*entity.ReconciliationResult, error) {
	if !s.run.TryLock() {
		return nil, ErrRunInProgress
	}
	defer s.run.Unlock()

	started := s.now()
	runID := s.newID()
	s.logger.Info("Reconciliation started", "run_id", runID, "file", in.Filename)

	rows, err := s.reader.ReadFirstSheet(in.Content, in.Filename)
	if err != nil {
		s.logger.Error("Failed to read spreadsheet", "run_id", runID, "file", in.Filename, "error", err)
		if !errors.Is(err, domain.ErrSpreadsheetUnreadable) {
			err = fmt.Errorf("%w: %v", domain.ErrSpreadsheetUnreadable, err)
		}
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stored, err := s.records.List(ctx)
	if err != nil {
		s.logger.Error("Failed to load case records", "run_id", runID, "error", err)
		return nil, fmt.Errorf("load case records: %w", err)
	}
	records := make([]entity.CaseRecord, len(stored))
	for i, r := range stored {
		records[i] = *r
	}

	buckets, summary := reconciliation.Reconcile(rows, records, s.cfg.Options)

	reviewedAt := s.now().In(s.cfg.Location)
	summary.LastReviewedTimestamp = reviewedAt.Format(s.cfg.TimestampLayout)

	result := &entity.ReconciliationResult{
		RunID:      runID,
		SourceFile: in.Filename,
		NoMovement: buckets.NoMovement,
		Missing:    buckets.Missing,
		Closed:     buckets.Closed,
		Summary:    summary,
		ReviewedAt: reviewedAt,
	}
	result.DurationMs = s.now().Sub(started).Milliseconds()
	result.Persisted = s.persist(ctx, result)

	s.mu.Lock()
	s.latest = result
	s.mu.Unlock()

	s.logger.Info("Reconciliation finished",
		"run_id", runID,
		"rows", len(rows),
		"records", len(records),
		"no_movement", len(result.NoMovement),
		"missing", len(result.Missing),
		"closed", len(result.Closed),
		"persisted", result.Persisted.Persisted,
	)
	s.events.Publish(ctx, event.ReconciliationCompleted(runID, summary.TotalFound, summary.TotalMissing))
	return result, nil
}

// persist stores the result snapshot and the review timestamp in one
// transaction. The snapshot records itself as persisted so a result read back
// after a restart reports the same outcome. Failures are reported on the
// result instead of failing the run.
func (s *reconciliationServiceImpl) persist(ctx context.Context, result *entity.ReconciliationResult) entity.PersistOutcome {
	snapshot := *result
	snapshot.Persisted = entity.PersistOutcome{Persisted: true}
	raw, err := json.Marshal(&snapshot)
	if err != nil {
		return entity.PersistOutcome{Error: err.Error()}
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.settings.Set(ctx, entity.SettingLastResult, string(raw)); err != nil {
			return fmt.Errorf("store result snapshot: %w", err)
		}
		if err := s.settings.Set(ctx, entity.SettingLastReviewed, result.Summary.LastReviewedTimestamp); err != nil {
			return fmt.Errorf("store review timestamp: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to persist reconciliation result", "run_id", result.RunID, "error", err)
		return entity.PersistOutcome{Error: err.Error()}
	}
	return entity.PersistOutcome{Persisted: true}
}

func (s *reconciliationServiceImpl) Latest(ctx context.Context) (*entity.ReconciliationResult, error) {
	s.mu.RLock()
	latest := s.latest
	s.mu.RUnlock()
	if latest != nil {
		return latest, nil
	}

	raw, err := s.settings.Get(ctx, entity.SettingLastResult)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, ErrNoResult
	}
	if err != nil {
		return nil, fmt.Errorf("load result snapshot: %w", err)
	}

	var result entity.ReconciliationResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		s.logger.Error("Stored result snapshot is corrupt", "error", err)
		return nil, ErrNoResult
	}

	s.mu.Lock()
	if s.latest == nil {
		s.latest = &result
	}
	latest = s.latest
	s.mu.Unlock()
	return latest, nil
}

func (s *reconciliationServiceImpl) Export(ctx context.Context, bucket reconciliation.Bucket, w io.Writer) (string, error) {
	if _, ok := reconciliation.ParseBucket(string(bucket)); !ok {
		return "", fmt.Errorf("%w: unknown bucket %q", domain.ErrValidation, bucket)
	}

	var headers []string
	var rows [][]string

	if bucket == reconciliation.BucketLoaded {
		stored, err := s.records.List(ctx)
		if err != nil {
			return "", fmt.Errorf("load case records: %w", err)
		}
		records := make([]entity.CaseRecord, len(stored))
		for i, r := range stored {
			records[i] = *r
		}
		headers, rows = reconciliation.CaseRecordTable(records)
	} else {
		result, err := s.Latest(ctx)
		if err != nil {
			return "", err
		}
		buckets := reconciliation.Buckets{
			NoMovement: result.NoMovement,
			Missing:    result.Missing,
			Closed:     result.Closed,
		}
		headers, rows = reconciliation.EntryTable(bucket, buckets.Entries(bucket))
	}

	if err := s.writer.Write(w, bucket.SheetTitle(), headers, rows); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return bucket.Filename(s.now().In(s.cfg.Location)), nil
}
