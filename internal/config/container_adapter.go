package config

import (
	"time"

	"github.com/muni-rrhh/dashboard/internal/container"
)

// ToContainerConfig converts the application Config to a container.Config.
// This provides a bridge between the file-based config loaded by viper
// and the container's configuration structure.
func (c *Config) ToContainerConfig() *container.Config {
	return &container.Config{
		Database: container.DatabaseConfig{
			Path:            c.Database.Path,
			MaxOpenConns:    c.Database.MaxOpenConns,
			MaxIdleConns:    c.Database.MaxIdleConns,
			ConnMaxLifetime: c.Database.ConnMaxLifetime,
		},
		Auth: container.AuthConfig{
			JWTSecret:     c.Auth.JWTSecret,
			TokenTTL:      c.Auth.TokenTTL,
			AdminEmail:    c.Auth.AdminEmail,
			AdminPassword: c.Auth.AdminPassword,
			AdminName:     c.Auth.AdminName,
		},
		Storage: container.StorageConfig{
			UploadDir:         c.Storage.UploadDir,
			RetentionMaxAge:   time.Duration(c.Storage.RetentionDays) * 24 * time.Hour,
			RetentionInterval: c.Storage.RetentionInterval,
		},
		Reconciliation: container.ReconciliationConfig{
			CaseNumberColumn:  c.Reconciliation.CaseNumberColumn,
			DepartmentColumn:  c.Reconciliation.DepartmentColumn,
			ArchiveDepartment: c.Reconciliation.ArchiveDepartment,
			DGGADepartment:    c.Reconciliation.DGGADepartment,
			Timezone:          c.Reconciliation.Timezone,
			TimestampLayout:   c.Reconciliation.TimestampLayout,
		},
		Analytics: container.AnalyticsConfig{
			CacheTTL:        c.Analytics.CacheTTL,
			CleanupInterval: c.Analytics.CleanupInterval,
		},
	}
}
