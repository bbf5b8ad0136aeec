package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/muni-rrhh/dashboard/internal/application/port"
	"github.com/muni-rrhh/dashboard/internal/domain"
	"github.com/muni-rrhh/dashboard/internal/domain/entity"
)

// Agent dimensions exposed under /analytics/agentes/por-<dimension>
var agentDimensions = map[string]string{
	"dependencia":  port.AgentGroupDependency,
	"secretaria":   port.AgentGroupSecretariat,
	"agrupamiento": port.AgentGroupGrouping,
	"nivel":        port.AgentGroupLevel,
	"situacion":    port.AgentGroupEmploymentStatus,
}

// AnalyticsService serves the pre-aggregated dashboard series
type AnalyticsService interface {
	AgentTotal(ctx context.Context) (int, error)
	AgentsBy(ctx context.Context, dimension string) ([]entity.CountByLabel, error)
	CasesByType(ctx context.Context) ([]entity.CountByLabel, error)
	CasesByStatus(ctx context.Context) ([]entity.CountByLabel, error)
	Control(ctx context.Context) (*entity.ControlSummary, error)

	// ClearDashboard deletes the imported agents and drops cached series
	ClearDashboard(ctx context.Context) (int64, error)
}

type analyticsServiceImpl struct {
	agents  port.AgentRepository
	records port.CaseRecordRepository
	recon   ReconciliationService
	cache   port.Cache
	ttl     time.Duration
	logger  Logger
}

// NewAnalyticsService creates a new AnalyticsService
func NewAnalyticsService(
	agents port.AgentRepository,
	records port.CaseRecordRepository,
	recon ReconciliationService,
	cache port.Cache,
	ttl time.Duration,
	logger Logger,
) AnalyticsService {
	return &analyticsServiceImpl{
		agents:  agents,
		records: records,
		recon:   recon,
		cache:   cache,
		ttl:     ttl,
		logger:  logger,
	}
}

func (s *analyticsServiceImpl) AgentTotal(ctx context.Context) (int, error) {
	const key = "agentes/total"
	if v, ok := s.cache.Get(key); ok {
		if n, ok := v.(int); ok {
			return n, nil
		}
	}
	gen := s.cache.Generation()

	n, err := s.agents.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count agents: %w", err)
	}
	s.cache.SetAt(gen, key, n, s.ttl)
	return n, nil
}

func (s *analyticsServiceImpl) AgentsBy(ctx context.Context, dimension string) ([]entity.CountByLabel, error) {
	column, ok := agentDimensions[dimension]
	if !ok {
		return nil, fmt.Errorf("agent dimension %q: %w", dimension, domain.ErrNotFound)
	}

	return s.cached("agentes/por-"+dimension, func() ([]entity.CountByLabel, error) {
		return s.agents.CountBy(ctx, column)
	})
}

// The expedientes series stay cached until a cases.changed event flushes them.
func (s *analyticsServiceImpl) CasesByType(ctx context.Context) ([]entity.CountByLabel, error) {
	return s.cached("expedientes/por-tipo", func() ([]entity.CountByLabel, error) {
		return s.countCases(ctx, entity.CaseTypes, func(r *entity.CaseRecord) string { return r.Type })
	})
}

func (s *analyticsServiceImpl) CasesByStatus(ctx context.Context) ([]entity.CountByLabel, error) {
	return s.cached("expedientes/por-estado", func() ([]entity.CountByLabel, error) {
		return s.countCases(ctx, entity.CaseStatuses, func(r *entity.CaseRecord) string { return r.CaseStatus })
	})
}

// countCases counts records per label. Known labels come first in their
// display order, including zero counts; unexpected values follow by count.
func (s *analyticsServiceImpl) countCases(ctx context.Context, known []string, label func(*entity.CaseRecord) string) ([]entity.CountByLabel, error) {
	records, err := s.records.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list case records: %w", err)
	}

	counts := make(map[string]int)
	for _, r := range records {
		counts[label(r)]++
	}

	out := make([]entity.CountByLabel, 0, len(known))
	for _, k := range known {
		out = append(out, entity.CountByLabel{Label: k, Count: counts[k]})
		delete(counts, k)
	}

	extra := make([]entity.CountByLabel, 0, len(counts))
	for k, n := range counts {
		extra = append(extra, entity.CountByLabel{Label: k, Count: n})
	}
	sort.Slice(extra, func(i, j int) bool {
		if extra[i].Count != extra[j].Count {
			return extra[i].Count > extra[j].Count
		}
		return extra[i].Label < extra[j].Label
	})
	return append(out, extra...), nil
}

func (s *analyticsServiceImpl) Control(ctx context.Context) (*entity.ControlSummary, error) {
	result, err := s.recon.Latest(ctx)
	if err != nil {
		return nil, err
	}
	summary := result.Summary
	return &summary, nil
}

func (s *analyticsServiceImpl) ClearDashboard(ctx context.Context) (int64, error) {
	deleted, err := s.agents.DeleteAll(ctx)
	if err != nil {
		s.logger.Error("Failed to clear dashboard", "error", err)
		return 0, fmt.Errorf("delete agents: %w", err)
	}
	s.cache.Flush()

	s.logger.Info("Dashboard cleared", "agents_deleted", deleted)
	return deleted, nil
}

func (s *analyticsServiceImpl) cached(key string, load func() ([]entity.CountByLabel, error)) ([]entity.CountByLabel, error) {
	if v, ok := s.cache.Get(key); ok {
		if series, ok := v.([]entity.CountByLabel); ok {
			return series, nil
		}
	}

	// A flush during the load means the series may already be stale.
	gen := s.cache.Generation()
	series, err := load()
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error("Failed to load analytics series", "key", key, "error", err)
		}
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	s.cache.SetAt(gen, key, series, s.ttl)
	return series, nil
}
