package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Database configuration
	Database DatabaseConfig

	// Insight publishing configuration
	Content ContentConfig

	// Session validation configuration
	Auth AuthConfig

	// Seed data configuration
	Seed SeedConfig

	// Logging configuration
	Log LogConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host           string
	Port           string
	User           string
	Password       string
	Name           string
	SSLMode        string
	MaxOpenConns   int
	MaxIdleConns   int
	MaxLifetime    time.Duration
	MigrationsPath string
}

// ContentConfig holds insight lifecycle settings
type ContentConfig struct {
	DefaultListLimit  int
	DefaultAuthorBio  string
	EnforceCategories bool
	SlugInsertRetries int
}

// AuthConfig holds the session token shape accepted by ValidateSession
type AuthConfig struct {
	TokenPrefix    string
	MinTokenLength int
}

// SeedConfig holds the admin account created by the seeding routine
type SeedConfig struct {
	AdminEmail string
	AdminName  string
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string
	Format string // "json" or "pretty"
	Env    string
}

// Load reads configuration from environment variables.
// A .env file in the working directory is applied first, without overriding
// variables that are already set.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Host:           getEnv("DB_HOST", "localhost"),
			Port:           getEnv("DB_PORT", "5432"),
			User:           getEnv("DB_USER", "postgres"),
			Password:       getEnv("DB_PASSWORD", "postgres"),
			Name:           getEnv("DB_NAME", "live_learn_hub"),
			SSLMode:        getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:   getIntEnv("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:   getIntEnv("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:    getDurationEnv("DB_MAX_LIFETIME", 5*time.Minute),
			MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),
		},
		Content: ContentConfig{
			DefaultListLimit:  getIntEnv("CONTENT_DEFAULT_LIST_LIMIT", 100),
			DefaultAuthorBio:  getEnv("CONTENT_DEFAULT_AUTHOR_BIO", "Entrepreneur and advocate for personal growth."),
			EnforceCategories: getBoolEnv("CONTENT_ENFORCE_CATEGORIES", true),
			SlugInsertRetries: getIntEnv("CONTENT_SLUG_INSERT_RETRIES", 5),
		},
		Auth: AuthConfig{
			TokenPrefix:    getEnv("AUTH_TOKEN_PREFIX", "auth_"),
			MinTokenLength: getIntEnv("AUTH_MIN_TOKEN_LENGTH", 21),
		},
		Seed: SeedConfig{
			AdminEmail: getEnv("SEED_ADMIN_EMAIL", "admin@livelearnhub.local"),
			AdminName:  getEnv("SEED_ADMIN_NAME", "Hub Administrator"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
			Env:    getEnv("ENV", "production"),
		},
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default returns the configuration used when no environment is present.
// Tests build services from it.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: "8080"},
		Content: ContentConfig{
			DefaultListLimit:  100,
			DefaultAuthorBio:  "Entrepreneur and advocate for personal growth.",
			EnforceCategories: true,
			SlugInsertRetries: 5,
		},
		Auth: AuthConfig{
			TokenPrefix:    "auth_",
			MinTokenLength: 21,
		},
		Seed: SeedConfig{
			AdminEmail: "admin@livelearnhub.local",
			AdminName:  "Hub Administrator",
		},
		Log: LogConfig{Level: "info", Format: "json"},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if c.Content.DefaultListLimit <= 0 {
		return fmt.Errorf("CONTENT_DEFAULT_LIST_LIMIT must be positive")
	}
	if c.Content.SlugInsertRetries <= 0 {
		return fmt.Errorf("CONTENT_SLUG_INSERT_RETRIES must be positive")
	}
	if c.Auth.TokenPrefix == "" {
		return fmt.Errorf("AUTH_TOKEN_PREFIX is required")
	}
	return nil
}

// GetDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
