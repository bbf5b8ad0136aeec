package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"

	"github.com/muni-rrhh/dashboard/internal/application/service"
)

// Config holds all application configuration
type Config struct {
	Server         ServerConfig         `mapstructure:"server"`
	Database       DatabaseConfig       `mapstructure:"database"`
	Auth           AuthConfig           `mapstructure:"auth"`
	Logger         LoggerConfig         `mapstructure:"logger"`
	Storage        StorageConfig        `mapstructure:"storage"`
	Reconciliation ReconciliationConfig `mapstructure:"reconciliation"`
	Analytics      AnalyticsConfig      `mapstructure:"analytics"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	MaxUploadMB    int64         `mapstructure:"max_upload_mb"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// AuthConfig holds token signing and the seeded administrator
type AuthConfig struct {
	JWTSecret     string        `mapstructure:"jwt_secret"`
	TokenTTL      time.Duration `mapstructure:"token_ttl"`
	AdminEmail    string        `mapstructure:"admin_email"`
	AdminPassword string        `mapstructure:"admin_password"`
	AdminName     string        `mapstructure:"admin_name"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// StorageConfig holds upload storage and retention
type StorageConfig struct {
	UploadDir         string        `mapstructure:"upload_dir"`
	RetentionDays     int           `mapstructure:"retention_days"`
	RetentionInterval time.Duration `mapstructure:"retention_interval"`
}

// ReconciliationConfig holds the authoritative spreadsheet layout
type ReconciliationConfig struct {
	CaseNumberColumn  int    `mapstructure:"case_number_column"`
	DepartmentColumn  int    `mapstructure:"department_column"`
	ArchiveDepartment string `mapstructure:"archive_department"`
	DGGADepartment    string `mapstructure:"dgga_department"`
	Timezone          string `mapstructure:"timezone"`
	TimestampLayout   string `mapstructure:"timestamp_layout"`
}

// AnalyticsConfig holds the series cache settings
type AnalyticsConfig struct {
	CacheTTL        time.Duration `mapstructure:"cache_ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// Load loads configuration from file, .env and environment variables
func Load(configPath string) (*Config, error) {
	return LoadWithEnvFile(configPath, ".env")
}

// LoadWithEnvFile is Load with an explicit dotenv path. Variables already
// present in the environment win over the dotenv file. A missing config
// file or dotenv file is not an error.
func LoadWithEnvFile(configPath, envFile string) (*Config, error) {
	if envFile != "" {
		if err := gotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	bindEnvVars(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.max_upload_mb", 20)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173"})

	// Database defaults
	v.SetDefault("database.path", "data/dashboard.db")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	// Auth defaults
	v.SetDefault("auth.token_ttl", 12*time.Hour)
	v.SetDefault("auth.admin_name", "Administrador")

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.output_path", "stdout")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.max_size_mb", 10)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age_days", 30)
	v.SetDefault("logger.compress", false)

	// Storage defaults
	v.SetDefault("storage.upload_dir", "data/uploads")
	v.SetDefault("storage.retention_days", 90)
	v.SetDefault("storage.retention_interval", 6*time.Hour)

	// Reconciliation defaults
	v.SetDefault("reconciliation.case_number_column", 12)
	v.SetDefault("reconciliation.department_column", 13)
	v.SetDefault("reconciliation.archive_department", "Div. de Archivos e Impresiones")
	v.SetDefault("reconciliation.dgga_department", "Direccion General De Gestion Del Agente Municipal")
	v.SetDefault("reconciliation.timezone", service.DefaultTimezone)
	v.SetDefault("reconciliation.timestamp_layout", service.DefaultTimestampLayout)

	// Analytics defaults
	v.SetDefault("analytics.cache_ttl", 5*time.Minute)
	v.SetDefault("analytics.cleanup_interval", 10*time.Minute)
}

// bindEnvVars binds the secrets to their conventional variable names
func bindEnvVars(v *viper.Viper) {
	_ = v.BindEnv("auth.jwt_secret", "JWT_SECRET")
	_ = v.BindEnv("auth.admin_email", "ADMIN_EMAIL")
	_ = v.BindEnv("auth.admin_password", "ADMIN_PASSWORD")
	_ = v.BindEnv("database.path", "DATABASE_PATH")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("auth.jwt_secret must be at least 16 characters")
	}
	if (c.Auth.AdminEmail == "") != (c.Auth.AdminPassword == "") {
		return fmt.Errorf("auth.admin_email and auth.admin_password must be set together")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("server.max_upload_mb must be positive")
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Storage.UploadDir == "" {
		return fmt.Errorf("storage.upload_dir is required")
	}

	r := c.Reconciliation
	if r.CaseNumberColumn < 0 || r.DepartmentColumn < 0 {
		return fmt.Errorf("reconciliation column indices must be zero or positive")
	}
	if r.CaseNumberColumn == r.DepartmentColumn {
		return fmt.Errorf("reconciliation.case_number_column and department_column must differ")
	}
	if _, err := time.LoadLocation(r.Timezone); err != nil {
		return fmt.Errorf("reconciliation.timezone: %w", err)
	}

	return nil
}
