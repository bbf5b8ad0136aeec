package port

import (
	"context"

	"github.com/muni-rrhh/dashboard/internal/domain/entity"
)

// CaseRecordRepository defines persistence operations for the tracked expedientes.
// Records are kept in an explicit order (the grid order).
type CaseRecordRepository interface {
	List(ctx context.Context) ([]*entity.CaseRecord, error)
	GetByID(ctx context.Context, id int64) (*entity.CaseRecord, error)
	Create(ctx context.Context, record *entity.CaseRecord) error
	Update(ctx context.Context, record *entity.CaseRecord) error
	Delete(ctx context.Context, id int64) error

	// ReplaceAll swaps the whole list, preserving the given order
	ReplaceAll(ctx context.Context, records []*entity.CaseRecord) error
}

// SettingsRepository is a small key/value store for values that the dashboard
// used to keep in browser storage
type SettingsRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// DependencyRepository defines persistence operations for Dependency
type DependencyRepository interface {
	List(ctx context.Context) ([]*entity.Dependency, error)
	GetByID(ctx context.Context, id int64) (*entity.Dependency, error)
	Create(ctx context.Context, dep *entity.Dependency) error
	Update(ctx context.Context, dep *entity.Dependency) error
	Delete(ctx context.Context, id int64) error
}

// TemplateRepository defines persistence operations for import templates
type TemplateRepository interface {
	List(ctx context.Context) ([]*entity.Template, error)
	GetByID(ctx context.Context, id int64) (*entity.Template, error)
	Create(ctx context.Context, tpl *entity.Template) error
	Update(ctx context.Context, tpl *entity.Template) error
	Delete(ctx context.Context, id int64) error
}

// Agent columns accepted by AgentRepository.CountBy
const (
	AgentGroupDependency       = "dependency"
	AgentGroupSecretariat      = "secretariat"
	AgentGroupGrouping         = "grouping_name"
	AgentGroupLevel            = "level"
	AgentGroupEmploymentStatus = "employment_status"
)

// AgentRepository defines persistence operations for imported agents
type AgentRepository interface {
	Upsert(ctx context.Context, agent *entity.Agent) error
	Count(ctx context.Context) (int, error)

	// CountBy groups agents by one of the allowed columns
	CountBy(ctx context.Context, column string) ([]entity.CountByLabel, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// UserRepository defines persistence operations for dashboard users
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Create(ctx context.Context, user *entity.User) error
	UpdateEmail(ctx context.Context, id int64, email string) error
	UpdateNotifications(ctx context.Context, id int64, enabled bool) error
	Count(ctx context.Context) (int, error)
}

// TransactionManager handles database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
