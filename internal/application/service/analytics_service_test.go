package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muni-rrhh/dashboard/internal/application/port"
	"github.com/muni-rrhh/dashboard/internal/domain"
	"github.com/muni-rrhh/dashboard/internal/domain/entity"
)

type stubReconciliation struct {
	ReconciliationService
	latest *entity.ReconciliationResult
}

func (s *stubReconciliation) Latest(ctx context.Context) (*entity.ReconciliationResult, error) {
	if s.latest == nil {
		return nil, ErrNoResult
	}
	return s.latest, nil
}

func TestAnalyticsService_AgentsByIsCached(t *testing.T) {
	agents := &mockAgentRepo{countByFunc: func(ctx context.Context, column string) ([]entity.CountByLabel, error) {
		assert.Equal(t, port.AgentGroupLevel, column)
		return []entity.CountByLabel{{Label: "Nivel 3", Count: 4}}, nil
	}}
	cache := &mockCache{}
	svc := NewAnalyticsService(agents, &mockCaseRecordRepo{}, &stubReconciliation{}, cache, time.Minute, &mockLogger{})

	for i := 0; i < 3; i++ {
		series, err := svc.AgentsBy(context.Background(), "nivel")
		require.NoError(t, err)
		assert.Equal(t, []entity.CountByLabel{{Label: "Nivel 3", Count: 4}}, series)
	}
	assert.Equal(t, 1, agents.countByHits)

	_, err := svc.AgentsBy(context.Background(), "color")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAnalyticsService_CasesByType(t *testing.T) {
	odd := loadedCase("EX-3", "Hacienda")
	odd.Type = "Multa"
	records := &mockCaseRecordRepo{records: []*entity.CaseRecord{
		loadedCase("EX-1", "Hacienda"),
		loadedCase("EX-2", "Hacienda"),
		odd,
	}}
	svc := NewAnalyticsService(&mockAgentRepo{}, records, &stubReconciliation{}, &mockCache{}, time.Minute, &mockLogger{})

	series, err := svc.CasesByType(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []entity.CountByLabel{
		{Label: entity.CaseTypeSancion, Count: 2},
		{Label: entity.CaseTypeCesantia, Count: 0},
		{Label: entity.CaseTypeAuditoria, Count: 0},
		{Label: entity.CaseTypeOtro, Count: 0},
		{Label: "Multa", Count: 1},
	}, series)

	series, err = svc.CasesByStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, series[0].Count)
}

func TestAnalyticsService_Control(t *testing.T) {
	recon := &stubReconciliation{}
	svc := NewAnalyticsService(&mockAgentRepo{}, &mockCaseRecordRepo{}, recon, &mockCache{}, time.Minute, &mockLogger{})

	_, err := svc.Control(context.Background())
	assert.ErrorIs(t, err, ErrNoResult)

	recon.latest = &entity.ReconciliationResult{Summary: entity.ControlSummary{Cerrados: 2}}
	summary, err := svc.Control(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Cerrados)
}

func TestAnalyticsService_ClearDashboard(t *testing.T) {
	agents := &mockAgentRepo{agents: map[string]*entity.Agent{"1": {DNI: "1"}, "2": {DNI: "2"}}}
	cache := &mockCache{}
	svc := NewAnalyticsService(agents, &mockCaseRecordRepo{}, &stubReconciliation{}, cache, time.Minute, &mockLogger{})

	total, err := svc.AgentTotal(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	deleted, err := svc.ClearDashboard(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, deleted)
	assert.Equal(t, 1, cache.flushes)

	total, err = svc.AgentTotal(context.Background())
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestAnalyticsService_CaseSeriesCachedUntilFlush(t *testing.T) {
	records := &mockCaseRecordRepo{records: []*entity.CaseRecord{loadedCase("EX-1", "Hacienda")}}
	cache := &mockCache{}
	svc := NewAnalyticsService(&mockAgentRepo{}, records, &stubReconciliation{}, cache, time.Minute, &mockLogger{})

	series, err := svc.CasesByStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, series[0].Count)

	records.records = append(records.records, loadedCase("EX-2", "Hacienda"))
	series, err = svc.CasesByStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, series[0].Count)

	cache.Flush()
	series, err = svc.CasesByStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, series[0].Count)
}
