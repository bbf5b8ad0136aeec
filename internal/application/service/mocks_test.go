package service

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/muni-rrhh/dashboard/internal/domain"
	"github.com/muni-rrhh/dashboard/internal/domain/entity"
	"github.com/muni-rrhh/dashboard/internal/domain/event"
)

// Mock repositories

type mockCaseRecordRepo struct {
	mu          sync.Mutex
	records     []*entity.CaseRecord
	listFunc    func(ctx context.Context) ([]*entity.CaseRecord, error)
	replaceFunc func(ctx context.Context, records []*entity.CaseRecord) error
}

func (m *mockCaseRecordRepo) List(ctx context.Context) ([]*entity.CaseRecord, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*entity.CaseRecord(nil), m.records...), nil
}

func (m *mockCaseRecordRepo) GetByID(ctx context.Context, id int64) (*entity.CaseRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockCaseRecordRepo) Create(ctx context.Context, record *entity.CaseRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	record.ID = int64(len(m.records) + 1)
	m.records = append(m.records, record)
	return nil
}

func (m *mockCaseRecordRepo) Update(ctx context.Context, record *entity.CaseRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.records {
		if r.ID == record.ID {
			m.records[i] = record
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockCaseRecordRepo) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.records {
		if r.ID == id {
			m.records = append(m.records[:i], m.records[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockCaseRecordRepo) ReplaceAll(ctx context.Context, records []*entity.CaseRecord) error {
	if m.replaceFunc != nil {
		return m.replaceFunc(ctx, records)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = records
	return nil
}

type mockSettingsRepo struct {
	mu      sync.Mutex
	values  map[string]string
	setFunc func(key, value string) error
}

func (m *mockSettingsRepo) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return "", domain.ErrNotFound
	}
	return v, nil
}

func (m *mockSettingsRepo) Set(ctx context.Context, key, value string) error {
	if m.setFunc != nil {
		if err := m.setFunc(key, value); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.values == nil {
		m.values = make(map[string]string)
	}
	m.values[key] = value
	return nil
}

type mockDependencyRepo struct {
	deps       map[int64]*entity.Dependency
	createFunc func(ctx context.Context, dep *entity.Dependency) error
}

func (m *mockDependencyRepo) List(ctx context.Context) ([]*entity.Dependency, error) {
	out := []*entity.Dependency{}
	for _, d := range m.deps {
		out = append(out, d)
	}
	return out, nil
}

func (m *mockDependencyRepo) GetByID(ctx context.Context, id int64) (*entity.Dependency, error) {
	if d, ok := m.deps[id]; ok {
		return d, nil
	}
	return nil, domain.ErrNotFound
}

func (m *mockDependencyRepo) Create(ctx context.Context, dep *entity.Dependency) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, dep)
	}
	if m.deps == nil {
		m.deps = make(map[int64]*entity.Dependency)
	}
	dep.ID = int64(len(m.deps) + 1)
	m.deps[dep.ID] = dep
	return nil
}

func (m *mockDependencyRepo) Update(ctx context.Context, dep *entity.Dependency) error {
	if _, ok := m.deps[dep.ID]; !ok {
		return domain.ErrNotFound
	}
	m.deps[dep.ID] = dep
	return nil
}

func (m *mockDependencyRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.deps[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.deps, id)
	return nil
}

type mockTemplateRepo struct {
	templates map[int64]*entity.Template
	created   int
}

func (m *mockTemplateRepo) List(ctx context.Context) ([]*entity.Template, error) {
	out := []*entity.Template{}
	for _, t := range m.templates {
		out = append(out, t)
	}
	return out, nil
}

func (m *mockTemplateRepo) GetByID(ctx context.Context, id int64) (*entity.Template, error) {
	if t, ok := m.templates[id]; ok {
		return t, nil
	}
	return nil, domain.ErrNotFound
}

func (m *mockTemplateRepo) Create(ctx context.Context, tpl *entity.Template) error {
	if m.templates == nil {
		m.templates = make(map[int64]*entity.Template)
	}
	m.created++
	tpl.ID = int64(m.created)
	m.templates[tpl.ID] = tpl
	return nil
}

func (m *mockTemplateRepo) Update(ctx context.Context, tpl *entity.Template) error {
	if _, ok := m.templates[tpl.ID]; !ok {
		return domain.ErrNotFound
	}
	m.templates[tpl.ID] = tpl
	return nil
}

func (m *mockTemplateRepo) Delete(ctx context.Context, id int64) error {
	delete(m.templates, id)
	return nil
}

type mockAgentRepo struct {
	agents      map[string]*entity.Agent
	countByFunc func(ctx context.Context, column string) ([]entity.CountByLabel, error)
	countByHits int
	upsertErr   error
}

func (m *mockAgentRepo) Upsert(ctx context.Context, agent *entity.Agent) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	if m.agents == nil {
		m.agents = make(map[string]*entity.Agent)
	}
	m.agents[agent.DNI] = agent
	return nil
}

func (m *mockAgentRepo) Count(ctx context.Context) (int, error) {
	return len(m.agents), nil
}

func (m *mockAgentRepo) CountBy(ctx context.Context, column string) ([]entity.CountByLabel, error) {
	m.countByHits++
	if m.countByFunc != nil {
		return m.countByFunc(ctx, column)
	}
	return []entity.CountByLabel{}, nil
}

func (m *mockAgentRepo) DeleteAll(ctx context.Context) (int64, error) {
	n := int64(len(m.agents))
	m.agents = nil
	return n, nil
}

type mockUserRepo struct {
	users map[int64]*entity.User
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockUserRepo) Create(ctx context.Context, user *entity.User) error {
	if m.users == nil {
		m.users = make(map[int64]*entity.User)
	}
	user.ID = int64(len(m.users) + 1)
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) UpdateEmail(ctx context.Context, id int64, email string) error {
	u, ok := m.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	for _, other := range m.users {
		if other.ID != id && other.Email == email {
			return domain.ErrDuplicate
		}
	}
	u.Email = email
	return nil
}

func (m *mockUserRepo) UpdateNotifications(ctx context.Context, id int64, enabled bool) error {
	u, ok := m.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.Notifications = enabled
	return nil
}

func (m *mockUserRepo) Count(ctx context.Context) (int, error) {
	return len(m.users), nil
}

type mockTxManager struct {
	withTransactionFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *mockTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.withTransactionFunc != nil {
		return m.withTransactionFunc(ctx, fn)
	}
	return fn(ctx)
}

// Mock spreadsheet adapters

type mockReader struct {
	rows     [][]string
	err      error
	readFunc func(r io.Reader, filename string) ([][]string, error)
}

func (m *mockReader) ReadFirstSheet(r io.Reader, filename string) ([][]string, error) {
	if m.readFunc != nil {
		return m.readFunc(r, filename)
	}
	return m.rows, m.err
}

type writtenSheet struct {
	sheet   string
	headers []string
	rows    [][]string
}

type mockWriter struct {
	written []writtenSheet
	err     error
}

func (m *mockWriter) Write(w io.Writer, sheetName string, headers []string, rows [][]string) error {
	if m.err != nil {
		return m.err
	}
	m.written = append(m.written, writtenSheet{sheet: sheetName, headers: headers, rows: rows})
	_, err := io.WriteString(w, sheetName)
	return err
}

type mockStorage struct {
	saved map[string][]byte
	err   error
}

func (m *mockStorage) Save(ctx context.Context, path string, content []byte) error {
	if m.err != nil {
		return m.err
	}
	if m.saved == nil {
		m.saved = make(map[string][]byte)
	}
	m.saved[path] = content
	return nil
}

func (m *mockStorage) PruneOlderThan(ctx context.Context, prefix string, cutoff time.Time) (int, error) {
	return 0, nil
}

type mockCache struct {
	items   map[string]interface{}
	gen     uint64
	flushes int
}

func (m *mockCache) Get(key string) (interface{}, bool) {
	v, ok := m.items[key]
	return v, ok
}

func (m *mockCache) Generation() uint64 {
	return m.gen
}

func (m *mockCache) SetAt(gen uint64, key string, value interface{}, ttl time.Duration) bool {
	if gen != m.gen {
		return false
	}
	if m.items == nil {
		m.items = make(map[string]interface{})
	}
	m.items[key] = value
	return true
}

func (m *mockCache) Flush() {
	m.items = nil
	m.gen++
	m.flushes++
}

type mockPublisher struct {
	mu          sync.Mutex
	published   []*event.Event
	dispatched  []*event.Event
	dispatchErr error
}

func (m *mockPublisher) Dispatch(ctx context.Context, evt *event.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dispatched = append(m.dispatched, evt)
	return m.dispatchErr
}

func (m *mockPublisher) Publish(ctx context.Context, evt *event.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, evt)
}

type mockLogger struct{}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {}
