// Package config provides application configuration management.
// It loads configuration from environment variables with sensible defaults.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Operator OperatorConfig
	Email    EmailConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Environment  string
}

// DatabaseConfig holds database configuration. An empty URL falls back to
// the local SQLite file.
type DatabaseConfig struct {
	URL             string
	SQLitePath      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig holds Redis configuration for the ledger snapshot store.
type RedisConfig struct {
	Addr        string
	Password    string
	DB          int
	SnapshotKey string
}

// JWTConfig holds JWT token configuration.
type JWTConfig struct {
	Secret            string
	AccessTokenExpiry time.Duration
}

// OperatorConfig holds the single operator's credentials. PasswordHash is a
// bcrypt hash of the operator's password.
type OperatorConfig struct {
	Username     string
	PasswordHash string
}

// EmailConfig holds email service configuration.
type EmailConfig struct {
	ResendAPIKey      string
	FromName          string
	FromEmail         string
	ReminderRecipient string
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Port:         getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:  getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getEnvAsDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			Environment:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			SQLitePath:      getEnv("SQLITE_PATH", "tyre_ledger.db"),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			Addr:        getEnv("REDIS_ADDR", "localhost:6379"),
			Password:    getEnv("REDIS_PASSWORD", ""),
			DB:          getEnvAsInt("REDIS_DB", 0),
			SnapshotKey: getEnv("REDIS_SNAPSHOT_KEY", "tyre_ledger:entries"),
		},
		JWT: JWTConfig{
			Secret:            getEnv("JWT_SECRET", "change-me-in-production"),
			AccessTokenExpiry: getEnvAsDuration("JWT_EXPIRY", 12*time.Hour),
		},
		Operator: OperatorConfig{
			Username:     getEnv("OPERATOR_USERNAME", "admin"),
			PasswordHash: getEnv("OPERATOR_PASSWORD_HASH", ""),
		},
		Email: EmailConfig{
			ResendAPIKey:      getEnv("RESEND_API_KEY", ""),
			FromName:          getEnv("RESEND_FROM_NAME", "Tyre Ledger"),
			FromEmail:         getEnv("RESEND_FROM_EMAIL", "onboarding@resend.dev"),
			ReminderRecipient: getEnv("REMINDER_RECIPIENT", ""),
		},
	}
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
