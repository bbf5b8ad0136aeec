package container

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/muni-rrhh/dashboard/internal/application/dispatcher"
	"github.com/muni-rrhh/dashboard/internal/application/port"
	"github.com/muni-rrhh/dashboard/internal/application/service"
	"github.com/muni-rrhh/dashboard/internal/infrastructure/cache"
	"github.com/muni-rrhh/dashboard/internal/infrastructure/persistence/sqlite"
	"github.com/muni-rrhh/dashboard/internal/infrastructure/storage"
	"github.com/muni-rrhh/dashboard/internal/infrastructure/worker"
	"github.com/muni-rrhh/dashboard/pkg/database"
)

// Container manages all application dependencies and lifecycle.
// Components start in dependency order and close in reverse order.
type Container struct {
	config *Config
	logger *zap.Logger

	// Infrastructure - Data
	conn         *database.DB
	db           *sqlite.DB
	repositories *RepositoryBundle

	// Infrastructure - Files and cache
	fileStorage  *storage.LocalFileStorage
	spreadsheets *SpreadsheetBundle
	cache        *cache.MemoryCache
	events       dispatcher.Dispatcher

	// Application
	services *ServiceBundle

	// Workers
	workers *worker.Manager

	// Lifecycle
	mu     sync.RWMutex
	ctx    context.Context
	cancel context.CancelFunc
	ready  atomic.Bool
	closed atomic.Bool
}

// RepositoryBundle groups all repositories for convenient access.
type RepositoryBundle struct {
	CaseRecord port.CaseRecordRepository
	Settings   port.SettingsRepository
	Dependency port.DependencyRepository
	Template   port.TemplateRepository
	Agent      port.AgentRepository
	User       port.UserRepository
}

// ServiceBundle groups all application services.
type ServiceBundle struct {
	Cases          service.CaseRecordService
	Reconciliation service.ReconciliationService
	Dependencies   service.DependencyService
	Templates      service.TemplateService
	Auth           service.AuthService
	Analytics      service.AnalyticsService
	Import         service.ImportService
}

// NewContainer creates a new container from configuration.
// It does not initialize components - call Start() to initialize.
func NewContainer(cfg *Config, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Container{
		config: cfg,
		logger: logger,
	}, nil
}

// Start initializes all components in dependency order:
// 1. Database and repositories
// 2. Storage, spreadsheets, cache and the event dispatcher
// 3. Application services (and the seeded administrator)
// 4. Workers
func (c *Container) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container has been closed")
	}
	if c.ready.Load() {
		return fmt.Errorf("container already started")
	}

	c.ctx, c.cancel = context.WithCancel(ctx)
	c.logger.Info("Starting container initialization")

	if err := c.initDatabase(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	c.logger.Info("Database initialized")

	if err := c.initInfrastructure(); err != nil {
		c.closeDatabase()
		return fmt.Errorf("failed to initialize infrastructure: %w", err)
	}
	c.logger.Info("Storage, cache and events initialized")

	if err := c.initServices(); err != nil {
		c.closeDatabase()
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	c.logger.Info("Application services initialized")

	if err := c.initWorkers(); err != nil {
		c.closeDatabase()
		return fmt.Errorf("failed to initialize workers: %w", err)
	}
	c.logger.Info("Workers initialized and started")

	c.ready.Store(true)
	c.logger.Info("Container started successfully")
	return nil
}

// Close gracefully shuts down all components in reverse order.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container already closed")
	}

	c.logger.Info("Closing container")

	var errs []error

	if c.cancel != nil {
		c.cancel()
	}

	// Reverse of step 4
	if c.workers != nil {
		if err := c.workers.StopAll(); err != nil {
			c.logger.Error("Failed to stop workers", zap.Error(err))
			errs = append(errs, fmt.Errorf("stop workers: %w", err))
		} else {
			c.logger.Info("Workers stopped")
		}
	}

	// Reverse of step 2
	if c.events != nil {
		if err := c.events.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close dispatcher: %w", err))
		}
	}
	if c.cache != nil {
		c.cache.Flush()
	}

	// Reverse of step 1
	if err := c.closeDatabase(); err != nil {
		errs = append(errs, fmt.Errorf("close database: %w", err))
	}

	c.closed.Store(true)
	c.ready.Store(false)

	if len(errs) > 0 {
		c.logger.Error("Container closed with errors", zap.Int("error_count", len(errs)))
		return fmt.Errorf("container closed with %d errors", len(errs))
	}

	c.logger.Info("Container closed successfully")
	return nil
}

func (c *Container) closeDatabase() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	if err != nil {
		c.logger.Error("Failed to close database", zap.Error(err))
		return err
	}
	c.logger.Info("Database closed")
	return nil
}

// Ready returns true when all components are initialized.
func (c *Container) Ready() bool {
	return c.ready.Load()
}

// Health pings the database and reports worker state. A nil value means the
// component is healthy.
func (c *Container) Health(ctx context.Context) map[string]error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	status := map[string]error{}

	if c.conn == nil {
		status["database"] = fmt.Errorf("not initialized")
	} else if err := c.conn.PingContext(ctx); err != nil {
		status["database"] = fmt.Errorf("ping failed: %w", err)
	} else {
		status["database"] = nil
	}

	if c.workers != nil && c.workers.Count() > 0 && !c.workers.IsRunning() {
		status["workers"] = fmt.Errorf("stopped")
	} else {
		status["workers"] = nil
	}

	return status
}

// initDatabase initializes the database and all repositories using providers.
func (c *Container) initDatabase() error {
	dbBundle, err := ProvideDatabase(&c.config.Database, c.logger)
	if err != nil {
		return err
	}
	c.conn = dbBundle.Conn
	c.db = dbBundle.TransactionMgr

	repos, err := ProvideRepositories(c.conn.DB, c.logger)
	if err != nil {
		return err
	}
	c.repositories = repos
	return nil
}

// initInfrastructure creates storage, the spreadsheet adapters and the cache.
func (c *Container) initInfrastructure() error {
	fileStorage, err := ProvideStorage(&c.config.Storage, c.logger)
	if err != nil {
		return err
	}
	c.fileStorage = fileStorage
	c.spreadsheets = ProvideSpreadsheets(c.logger)
	c.cache = ProvideCache(&c.config.Analytics)
	c.events = ProvideDispatcher(c.cache, c.logger)
	return nil
}

// initServices creates the services and seeds the administrator account.
func (c *Container) initServices() error {
	services, err := ProvideServices(&ServiceDeps{
		Repos:        c.repositories,
		TxManager:    c.db,
		Spreadsheets: c.spreadsheets,
		Storage:      c.fileStorage,
		Cache:        c.cache,
		Events:       c.events,
		AuthCfg:      &c.config.Auth,
		ReconcileCfg: &c.config.Reconciliation,
		AnalyticsCfg: &c.config.Analytics,
		Logger:       c.logger,
	})
	if err != nil {
		return err
	}
	c.services = services

	if err := c.services.Auth.SeedAdmin(c.ctx); err != nil {
		return fmt.Errorf("failed to seed administrator: %w", err)
	}
	return nil
}

// initWorkers creates and starts the background workers.
func (c *Container) initWorkers() error {
	c.workers = ProvideWorkers(&c.config.Storage, c.fileStorage, c.logger)
	if err := c.workers.StartAll(c.ctx); err != nil {
		return fmt.Errorf("failed to start workers: %w", err)
	}
	return nil
}

// DB returns the transaction manager.
func (c *Container) DB() port.TransactionManager {
	return c.db
}

// Repositories returns all repositories.
func (c *Container) Repositories() *RepositoryBundle {
	return c.repositories
}

// FileStorage returns the upload storage.
func (c *Container) FileStorage() port.FileStorage {
	return c.fileStorage
}

// Services returns all application services.
func (c *Container) Services() *ServiceBundle {
	return c.services
}

// Events returns the domain event dispatcher.
func (c *Container) Events() dispatcher.Dispatcher {
	return c.events
}

// Workers returns the worker manager.
func (c *Container) Workers() *worker.Manager {
	return c.workers
}

// Logger returns the container's logger.
func (c *Container) Logger() *zap.Logger {
	return c.logger
}

// Config returns the container's configuration.
func (c *Container) Config() *Config {
	return c.config
}

// ServiceLogger adapts the container's zap logger to the key/value logger
// used by services and the HTTP layer.
func (c *Container) ServiceLogger() service.Logger {
	return &zapLoggerAdapter{logger: c.logger}
}

// zapLoggerAdapter adapts zap.Logger to the service.Logger interface.
type zapLoggerAdapter struct {
	logger *zap.Logger
}

func (a *zapLoggerAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.logger.Info(msg, convertToZapFields(keysAndValues...)...)
}

func (a *zapLoggerAdapter) Error(msg string, keysAndValues ...interface{}) {
	a.logger.Error(msg, convertToZapFields(keysAndValues...)...)
}

// convertToZapFields converts key-value pairs to zap fields.
func convertToZapFields(keysAndValues ...interface{}) []zap.Field {
	fields := make([]zap.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		if err, isErr := keysAndValues[i+1].(error); isErr {
			fields = append(fields, zap.NamedError(key, err))
			continue
		}
		fields = append(fields, zap.Any(key, keysAndValues[i+1]))
	}
	return fields
}
