package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// Config is the root configuration of the API server
type Config struct {
	Server   ServerConfig   `json:"server"`
	Database DatabaseConfig `json:"database"`
	App      AppConfig      `json:"app"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Host      string `json:"host"`
	Port      int    `json:"port"`
	WebDomain string `json:"webDomain"`
	Debug     bool   `json:"debug"`
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Driver      string           `json:"driver"`
	Postgres    PostgreSQLConfig `json:"postgres"`
	SQLite      SQLiteConfig     `json:"sqlite"`
	AutoMigrate bool             `json:"autoMigrate"`
}

// PostgreSQLConfig holds PostgreSQL-specific configuration
type PostgreSQLConfig struct {
	Host            string        `json:"host"`
	Port            int           `json:"port"`
	Username        string        `json:"username"`
	Password        string        `json:"password"`
	Database        string        `json:"database"`
	SSLMode         string        `json:"sslMode"`
	ConnectTimeout  int           `json:"connectTimeout"`
	MaxOpenConns    int           `json:"maxOpenConns"`
	MaxIdleConns    int           `json:"maxIdleConns"`
	ConnMaxLifetime time.Duration `json:"connMaxLifetime"`
}

// SQLiteConfig holds SQLite-specific configuration
type SQLiteConfig struct {
	Path        string        `json:"path"`
	BusyTimeout time.Duration `json:"busyTimeout"`
}

// AppConfig holds application-related configuration
type AppConfig struct {
	Name             string `json:"name"`
	DefaultPageLimit int    `json:"defaultPageLimit"`
	MaxPageLimit     int    `json:"maxPageLimit"`
}

// LoadFromEnv loads configuration from the environment.
// Precedence: explicit environment variables, then the .env file, then defaults.
func LoadFromEnv() (*Config, error) {
	envPaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	var loadErr error
	for _, envPath := range envPaths {
		loadErr = godotenv.Load(envPath)
		if loadErr == nil {
			break
		}
	}

	if loadErr != nil {
		fmt.Println("INFO: .env file not found, using environment variables and defaults.")
	}

	return build(os.Getenv)
}

// LoadFromMap loads configuration from an in-memory map.
// Used to test configuration logic without touching process environment.
func LoadFromMap(envMap map[string]string) (*Config, error) {
	return build(func(key string) string {
		return envMap[key]
	})
}

func build(lookup func(string) string) (*Config, error) {
	get := func(key, defaultValue string) string {
		if value := lookup(key); value != "" {
			return value
		}
		return defaultValue
	}

	getInt := func(key string, defaultValue int) int {
		if value := lookup(key); value != "" {
			if intValue, err := strconv.Atoi(value); err == nil {
				return intValue
			}
		}
		return defaultValue
	}

	getBool := func(key string, defaultValue bool) bool {
		if value := lookup(key); value != "" {
			if boolValue, err := strconv.ParseBool(value); err == nil {
				return boolValue
			}
		}
		return defaultValue
	}

	getDuration := func(key string, defaultValue time.Duration) time.Duration {
		if value := lookup(key); value != "" {
			if duration, err := time.ParseDuration(value); err == nil {
				return duration
			}
		}
		return defaultValue
	}

	config := &Config{
		Server: ServerConfig{
			Host:      get("HOST", "localhost"),
			Port:      getInt("SERVER_PORT", 8080),
			WebDomain: get("WEB_DOMAIN", "http://localhost:3000"),
			Debug:     getBool("DEBUG", false),
		},
		Database: DatabaseConfig{
			Driver:      get("DB_DRIVER", DriverPostgres),
			AutoMigrate: getBool("DB_AUTO_MIGRATE", true),
			Postgres: PostgreSQLConfig{
				Host:            get("POSTGRES_HOST", "localhost"),
				Port:            getInt("POSTGRES_PORT", 5432),
				Username:        get("POSTGRES_USERNAME", ""),
				Password:        get("POSTGRES_PASSWORD", ""),
				Database:        get("POSTGRES_DATABASE", "linkboard"),
				SSLMode:         get("POSTGRES_SSL_MODE", "disable"),
				ConnectTimeout:  getInt("POSTGRES_CONNECT_TIMEOUT", 10),
				MaxOpenConns:    getInt("POSTGRES_MAX_OPEN_CONNS", 25),
				MaxIdleConns:    getInt("POSTGRES_MAX_IDLE_CONNS", 25),
				ConnMaxLifetime: time.Duration(getInt("POSTGRES_CONN_MAX_LIFETIME", 300)) * time.Second,
			},
			SQLite: SQLiteConfig{
				Path:        get("SQLITE_PATH", ""),
				BusyTimeout: getDuration("SQLITE_BUSY_TIMEOUT", 5*time.Second),
			},
		},
		App: AppConfig{
			Name:             get("APP_NAME", "linkboard"),
			DefaultPageLimit: getInt("DEFAULT_PAGE_LIMIT", 20),
			MaxPageLimit:     getInt("MAX_PAGE_LIMIT", 100),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration for required fields
func (c *Config) Validate() error {
	var errors []string

	validDrivers := []string{DriverPostgres, DriverSQLite}
	if !contains(validDrivers, c.Database.Driver) {
		errors = append(errors, fmt.Sprintf("DB_DRIVER must be one of: %s", strings.Join(validDrivers, ", ")))
	}

	if c.Database.Driver == DriverSQLite && strings.TrimSpace(c.Database.SQLite.Path) == "" {
		errors = append(errors, "SQLITE_PATH is required when DB_DRIVER=sqlite3")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errors = append(errors, "SERVER_PORT must be between 1 and 65535")
	}

	if c.App.DefaultPageLimit <= 0 || c.App.MaxPageLimit < c.App.DefaultPageLimit {
		errors = append(errors, "DEFAULT_PAGE_LIMIT must be positive and not exceed MAX_PAGE_LIMIT")
	}

	if len(errors) > 0 {
		return fmt.Errorf("validation errors: %s", strings.Join(errors, "; "))
	}

	return nil
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
