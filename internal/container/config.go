// Package container provides dependency injection and lifecycle management
// for the dashboard API.
package container

import (
	"fmt"
	"time"

	"github.com/muni-rrhh/dashboard/internal/application/service"
)

// Config holds all configuration for the Container.
// It aggregates configurations for all subsystems.
type Config struct {
	// Database configuration
	Database DatabaseConfig

	// Token signing and seeded administrator
	Auth AuthConfig

	// Upload storage and retention
	Storage StorageConfig

	// Authoritative spreadsheet layout
	Reconciliation ReconciliationConfig

	// Analytics cache
	Analytics AnalyticsConfig
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// Path to SQLite database file
	Path string

	// MaxOpenConns is the maximum number of open connections
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections
	MaxIdleConns int

	// ConnMaxLifetime is the maximum connection lifetime
	ConnMaxLifetime time.Duration
}

// AuthConfig holds authentication settings.
type AuthConfig struct {
	JWTSecret     string
	TokenTTL      time.Duration
	AdminEmail    string
	AdminPassword string
	AdminName     string
}

// StorageConfig holds file storage settings.
type StorageConfig struct {
	// UploadDir is the base directory for uploaded spreadsheets
	UploadDir string

	// RetentionMaxAge is how long uploads are kept; zero keeps them forever
	RetentionMaxAge time.Duration

	// RetentionInterval is how often old uploads are swept
	RetentionInterval time.Duration
}

// ReconciliationConfig holds the spreadsheet layout and sentinel departments.
type ReconciliationConfig struct {
	CaseNumberColumn  int
	DepartmentColumn  int
	ArchiveDepartment string
	DGGADepartment    string
	Timezone          string
	TimestampLayout   string
}

// AnalyticsConfig holds analytics cache settings.
type AnalyticsConfig struct {
	CacheTTL        time.Duration
	CleanupInterval time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:            "data/dashboard.db",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Auth: AuthConfig{
			TokenTTL:  12 * time.Hour,
			AdminName: "Administrador",
		},
		Storage: StorageConfig{
			UploadDir:         "data/uploads",
			RetentionMaxAge:   90 * 24 * time.Hour,
			RetentionInterval: 6 * time.Hour,
		},
		Reconciliation: ReconciliationConfig{
			CaseNumberColumn:  12,
			DepartmentColumn:  13,
			ArchiveDepartment: "Div. de Archivos e Impresiones",
			DGGADepartment:    "Direccion General De Gestion Del Agente Municipal",
			Timezone:          service.DefaultTimezone,
			TimestampLayout:   service.DefaultTimestampLayout,
		},
		Analytics: AnalyticsConfig{
			CacheTTL:        5 * time.Minute,
			CleanupInterval: 10 * time.Minute,
		},
	}
}

// Validate checks that required configuration values are present.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if c.Storage.UploadDir == "" {
		return fmt.Errorf("storage.upload_dir is required")
	}
	if c.Reconciliation.CaseNumberColumn < 0 || c.Reconciliation.DepartmentColumn < 0 {
		return fmt.Errorf("reconciliation column indices must be zero or positive")
	}
	return nil
}
