package http

import (
	"context"
	"io"

	"github.com/muni-rrhh/dashboard/internal/application/service"
	"github.com/muni-rrhh/dashboard/internal/domain/entity"
	"github.com/muni-rrhh/dashboard/internal/domain/mapping"
	"github.com/muni-rrhh/dashboard/internal/domain/reconciliation"
	"github.com/muni-rrhh/dashboard/pkg/listing"
)

type nopLogger struct{}

func (nopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Error(msg string, keysAndValues ...interface{}) {}

// mockAuth accepts the tokens "admin-token" and "viewer-token"
type mockAuth struct {
	loginFunc func(ctx context.Context, email, password string) (*service.LoginResult, error)
	meFunc    func(ctx context.Context, userID int64) (*entity.User, error)
}

func (m *mockAuth) Login(ctx context.Context, email, password string) (*service.LoginResult, error) {
	return m.loginFunc(ctx, email, password)
}

func (m *mockAuth) ParseToken(token string) (*service.Claims, error) {
	switch token {
	case "admin-token":
		return &service.Claims{UserID: 1, Email: "admin@muni.gob.ar", Role: entity.RoleAdmin}, nil
	case "viewer-token":
		return &service.Claims{UserID: 2, Email: "viewer@muni.gob.ar", Role: entity.RoleViewer}, nil
	}
	return nil, service.ErrUnauthorized
}

func (m *mockAuth) Me(ctx context.Context, userID int64) (*entity.User, error) {
	return m.meFunc(ctx, userID)
}

func (m *mockAuth) UpdateEmail(ctx context.Context, userID int64, email string) (*entity.User, error) {
	return &entity.User{ID: userID, Email: email}, nil
}

func (m *mockAuth) UpdateNotifications(ctx context.Context, userID int64, enabled bool) (*entity.User, error) {
	return &entity.User{ID: userID, Notifications: enabled}, nil
}

func (m *mockAuth) SeedAdmin(ctx context.Context) error { return nil }

type mockCases struct {
	listFunc    func(ctx context.Context, q listing.Query) (listing.Page[*entity.CaseRecord], error)
	getFunc     func(ctx context.Context, id int64) (*entity.CaseRecord, error)
	createFunc  func(ctx context.Context, record *entity.CaseRecord) error
	replaceFunc func(ctx context.Context, records []*entity.CaseRecord) error
}

func (m *mockCases) List(ctx context.Context, q listing.Query) (listing.Page[*entity.CaseRecord], error) {
	return m.listFunc(ctx, q)
}

func (m *mockCases) Get(ctx context.Context, id int64) (*entity.CaseRecord, error) {
	return m.getFunc(ctx, id)
}

func (m *mockCases) Create(ctx context.Context, record *entity.CaseRecord) error {
	return m.createFunc(ctx, record)
}

func (m *mockCases) Update(ctx context.Context, record *entity.CaseRecord) error { return nil }

func (m *mockCases) Delete(ctx context.Context, id int64) error { return nil }

func (m *mockCases) ReplaceAll(ctx context.Context, records []*entity.CaseRecord) error {
	return m.replaceFunc(ctx, records)
}

func (m *mockCases) Export(ctx context.Context, w io.Writer) (string, error) {
	_, err := w.Write([]byte("grid"))
	return "seguimiento-expedientes-cargados-20250102_0304.xlsx", err
}

type mockReconciliation struct {
	processFunc func(ctx context.Context, in service.ProcessInput) (*entity.ReconciliationResult, error)
	latestFunc  func(ctx context.Context) (*entity.ReconciliationResult, error)
	exportFunc  func(ctx context.Context, bucket reconciliation.Bucket, w io.Writer) (string, error)
}

func (m *mockReconciliation) Process(ctx context.Context, in service.ProcessInput) (*entity.ReconciliationResult, error) {
	return m.processFunc(ctx, in)
}

func (m *mockReconciliation) Latest(ctx context.Context) (*entity.ReconciliationResult, error) {
	return m.latestFunc(ctx)
}

func (m *mockReconciliation) Export(ctx context.Context, bucket reconciliation.Bucket, w io.Writer) (string, error) {
	return m.exportFunc(ctx, bucket, w)
}

type mockTemplates struct {
	checkFunc func(tpl entity.Template, header []string) (*mapping.HeaderReport, error)
}

func (m *mockTemplates) List(ctx context.Context) ([]*entity.Template, error) { return nil, nil }

func (m *mockTemplates) Get(ctx context.Context, id int64) (*entity.Template, error) {
	return &entity.Template{ID: id}, nil
}

func (m *mockTemplates) Create(ctx context.Context, tpl *entity.Template) error { return nil }

func (m *mockTemplates) Update(ctx context.Context, tpl *entity.Template) error { return nil }

func (m *mockTemplates) Delete(ctx context.Context, id int64) error { return nil }

func (m *mockTemplates) Check(tpl entity.Template, header []string) (*mapping.HeaderReport, error) {
	return m.checkFunc(tpl, header)
}

type mockAnalytics struct {
	agentsByFunc func(ctx context.Context, dimension string) ([]entity.CountByLabel, error)
	clearCalls   int
}

func (m *mockAnalytics) AgentTotal(ctx context.Context) (int, error) { return 42, nil }

func (m *mockAnalytics) AgentsBy(ctx context.Context, dimension string) ([]entity.CountByLabel, error) {
	return m.agentsByFunc(ctx, dimension)
}

func (m *mockAnalytics) CasesByType(ctx context.Context) ([]entity.CountByLabel, error) {
	return []entity.CountByLabel{{Label: entity.CaseTypeCesantia, Count: 1}}, nil
}

func (m *mockAnalytics) CasesByStatus(ctx context.Context) ([]entity.CountByLabel, error) {
	return nil, nil
}

func (m *mockAnalytics) Control(ctx context.Context) (*entity.ControlSummary, error) {
	return &entity.ControlSummary{TotalFound: 3}, nil
}

func (m *mockAnalytics) ClearDashboard(ctx context.Context) (int64, error) {
	m.clearCalls++
	return 7, nil
}

type mockImport struct {
	importFunc func(ctx context.Context, in service.ImportInput) (*service.ImportResult, error)
}

func (m *mockImport) ImportAgents(ctx context.Context, in service.ImportInput) (*service.ImportResult, error) {
	return m.importFunc(ctx, in)
}
