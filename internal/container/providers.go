package container

import (
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/muni-rrhh/dashboard/internal/application/dispatcher"
	"github.com/muni-rrhh/dashboard/internal/application/port"
	"github.com/muni-rrhh/dashboard/internal/application/service"
	"github.com/muni-rrhh/dashboard/internal/domain/entity"
	"github.com/muni-rrhh/dashboard/internal/domain/reconciliation"
	"github.com/muni-rrhh/dashboard/internal/infrastructure/cache"
	"github.com/muni-rrhh/dashboard/internal/infrastructure/persistence/repository"
	"github.com/muni-rrhh/dashboard/internal/infrastructure/persistence/sqlite"
	"github.com/muni-rrhh/dashboard/internal/infrastructure/spreadsheet"
	"github.com/muni-rrhh/dashboard/internal/infrastructure/storage"
	"github.com/muni-rrhh/dashboard/internal/infrastructure/worker"
	"github.com/muni-rrhh/dashboard/pkg/database"
)

// DatabaseBundle holds database-related components.
type DatabaseBundle struct {
	Conn           *database.DB
	TransactionMgr *sqlite.DB
}

// SpreadsheetBundle holds the workbook reader and writer.
type SpreadsheetBundle struct {
	Reader *spreadsheet.Reader
	Writer *spreadsheet.Writer
}

// ProvideDatabase opens the SQLite database and applies the embedded
// migrations.
func ProvideDatabase(cfg *DatabaseConfig, logger *zap.Logger) (*DatabaseBundle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	conn, err := database.New(database.Config{
		Path:            cfg.Path,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}, logger)
	if err != nil {
		return nil, err
	}

	if err := database.NewMigrator(conn, logger).RunEmbedded(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &DatabaseBundle{
		Conn:           conn,
		TransactionMgr: sqlite.NewDB(conn.DB, logger),
	}, nil
}

// ProvideRepositories creates all repositories from a database connection.
func ProvideRepositories(sqlDB *sql.DB, logger *zap.Logger) (*RepositoryBundle, error) {
	if sqlDB == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return &RepositoryBundle{
		CaseRecord: repository.NewCaseRecordRepository(sqlDB, logger),
		Settings:   repository.NewSettingsRepository(sqlDB, logger),
		Dependency: repository.NewDependencyRepository(sqlDB, logger),
		Template:   repository.NewTemplateRepository(sqlDB, logger),
		Agent:      repository.NewAgentRepository(sqlDB, logger),
		User:       repository.NewUserRepository(sqlDB, logger),
	}, nil
}

// ProvideStorage creates the upload storage rooted at the upload directory.
func ProvideStorage(cfg *StorageConfig, logger *zap.Logger) (*storage.LocalFileStorage, error) {
	if cfg == nil || cfg.UploadDir == "" {
		return nil, fmt.Errorf("storage upload dir is required")
	}
	return storage.NewLocalFileStorage(cfg.UploadDir, logger), nil
}

// ProvideSpreadsheets creates the workbook reader and writer.
func ProvideSpreadsheets(logger *zap.Logger) *SpreadsheetBundle {
	return &SpreadsheetBundle{
		Reader: spreadsheet.NewReader(logger),
		Writer: spreadsheet.NewWriter(logger),
	}
}

// ProvideCache creates the analytics cache.
func ProvideCache(cfg *AnalyticsConfig) *cache.MemoryCache {
	return cache.NewMemoryCache(cfg.CacheTTL, cfg.CleanupInterval)
}

// ProvideDispatcher creates the domain event dispatcher with the dashboard
// subscribers registered.
func ProvideDispatcher(cache dispatcher.Flusher, logger *zap.Logger) dispatcher.Dispatcher {
	adapter := &zapLoggerAdapter{logger: logger}
	d := dispatcher.NewDispatcher(dispatcher.WithLogger(adapter))
	dispatcher.RegisterDefaults(d, cache, &zapLoggerAdapter{logger: logger.Named("activity")})
	return d
}

// ServiceDeps holds dependencies for creating services.
type ServiceDeps struct {
	Repos        *RepositoryBundle
	TxManager    port.TransactionManager
	Spreadsheets *SpreadsheetBundle
	Storage      port.FileStorage
	Cache        port.Cache
	Events       port.EventPublisher
	AuthCfg      *AuthConfig
	ReconcileCfg *ReconciliationConfig
	AnalyticsCfg *AnalyticsConfig
	Logger       *zap.Logger
}

// ProvideServices creates all application services.
func ProvideServices(deps *ServiceDeps) (*ServiceBundle, error) {
	if deps == nil || deps.Repos == nil {
		return nil, fmt.Errorf("repositories are required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Events == nil {
		return nil, fmt.Errorf("event publisher is required")
	}

	location, err := time.LoadLocation(deps.ReconcileCfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid reconciliation timezone: %w", err)
	}

	serviceLogger := &zapLoggerAdapter{logger: deps.Logger}
	repos := deps.Repos

	recon := service.NewReconciliationService(
		repos.CaseRecord,
		repos.Settings,
		deps.TxManager,
		deps.Spreadsheets.Reader,
		deps.Spreadsheets.Writer,
		deps.Events,
		service.ReconciliationConfig{
			Options: reconciliation.Options{
				CaseNumberColumn:  deps.ReconcileCfg.CaseNumberColumn,
				DepartmentColumn:  deps.ReconcileCfg.DepartmentColumn,
				ArchiveDepartment: deps.ReconcileCfg.ArchiveDepartment,
				DGGADepartment:    deps.ReconcileCfg.DGGADepartment,
			},
			Location:        location,
			TimestampLayout: deps.ReconcileCfg.TimestampLayout,
		},
		serviceLogger,
	)

	return &ServiceBundle{
		Cases: service.NewCaseRecordService(
			repos.CaseRecord,
			deps.TxManager,
			deps.Spreadsheets.Writer,
			deps.Events,
			serviceLogger,
		),
		Reconciliation: recon,
		Dependencies:   service.NewDependencyService(repos.Dependency, serviceLogger),
		Templates:      service.NewTemplateService(repos.Template, serviceLogger),
		Auth: service.NewAuthService(repos.User, service.AuthConfig{
			JWTSecret:     deps.AuthCfg.JWTSecret,
			TokenTTL:      deps.AuthCfg.TokenTTL,
			AdminEmail:    deps.AuthCfg.AdminEmail,
			AdminPassword: deps.AuthCfg.AdminPassword,
			AdminName:     deps.AuthCfg.AdminName,
		}, serviceLogger),
		Analytics: service.NewAnalyticsService(
			repos.Agent,
			repos.CaseRecord,
			recon,
			deps.Cache,
			deps.AnalyticsCfg.CacheTTL,
			serviceLogger,
		),
		Import: service.NewImportService(
			repos.Template,
			repos.Agent,
			deps.TxManager,
			deps.Spreadsheets.Reader,
			deps.Storage,
			deps.Cache,
			serviceLogger,
		),
	}, nil
}

// ProvideWorkers creates the background workers. Retention is skipped when
// no max age is configured.
func ProvideWorkers(cfg *StorageConfig, pruner worker.Pruner, logger *zap.Logger) *worker.Manager {
	manager := worker.NewManager(logger)
	if cfg.RetentionMaxAge > 0 && cfg.RetentionInterval > 0 {
		manager.Register(worker.NewRetentionWorker(worker.RetentionConfig{
			Interval:  cfg.RetentionInterval,
			MaxAge:    cfg.RetentionMaxAge,
			Prefixes:  []string{entity.DatasetAgentes},
			RunOnBoot: true,
		}, pruner, logger))
	}
	return manager
}
