// Package config provides configuration loading from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// StorageBackend represents the storage implementation type.
type StorageBackend string

const (
	// StorageMemory uses in-memory storage (for development/testing).
	StorageMemory StorageBackend = "memory"
	// StoragePostgres uses PostgreSQL storage (for production).
	StoragePostgres StorageBackend = "postgres"
)

// Base contains configuration shared by the server binaries.
type Base struct {
	// Service identification
	ServiceName string
	Environment string // development, staging, production
	Version     string

	// Server
	GRPCPort int
	HTTPPort int

	// Storage backend
	StorageBackend StorageBackend

	// Database (used when StorageBackend is "postgres")
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis, used for rate limiting when RateLimitEnabled
	RedisURL string

	// Observability
	ObserveEndpoint string
	LogLevel        string
	LogFormat       string // json, text

	// Tracing
	TracingEnabled  bool
	TracingSampling float64
}

// Gateway holds the completion provider configuration.
type Gateway struct {
	GeminiAPIKey    string
	GeminiModel     string
	GeminiBaseURL   string
	GeminiSafety    string
	OpenAIAPIKey    string
	OpenAIModel     string
	OpenAIBaseURL   string
	ProviderTimeout time.Duration
	AuditTimeout    time.Duration

	RateLimitEnabled bool
	RateLimit        int
	RateLimitWindow  time.Duration
}

// Load loads base configuration from environment variables.
func Load(serviceName string) (*Base, error) {
	cfg := &Base{
		ServiceName: serviceName,
		Environment: getEnv("CAREERCLIMB_ENV", "development"),
		Version:     getEnv("CAREERCLIMB_VERSION", "dev"),

		GRPCPort: getEnvInt("CAREERCLIMB_GRPC_PORT", 9000),
		HTTPPort: getEnvInt("CAREERCLIMB_HTTP_PORT", 8080),

		StorageBackend: parseStorageBackend(getEnv("CAREERCLIMB_STORAGE_BACKEND", "memory")),

		DBHost:     getEnv("CAREERCLIMB_DB_HOST", "localhost"),
		DBPort:     getEnvInt("CAREERCLIMB_DB_PORT", 5432),
		DBUser:     getEnv("CAREERCLIMB_DB_USER", "careerclimb"),
		DBPassword: getEnv("CAREERCLIMB_DB_PASSWORD", ""),
		DBName:     getEnv("CAREERCLIMB_DB_NAME", "careerclimb"),
		DBSSLMode:  getEnv("CAREERCLIMB_DB_SSLMODE", "disable"),

		RedisURL: getEnv("CAREERCLIMB_REDIS_URL", "redis://localhost:6379"),

		ObserveEndpoint: getEnv("CAREERCLIMB_OTLP_ENDPOINT", "localhost:4317"),
		LogLevel:        getEnv("CAREERCLIMB_LOG_LEVEL", "info"),
		LogFormat:       getEnv("CAREERCLIMB_LOG_FORMAT", "json"),

		TracingEnabled:  getEnvBool("CAREERCLIMB_TRACING_ENABLED", false),
		TracingSampling: getEnvFloat("CAREERCLIMB_TRACING_SAMPLING", 1.0),
	}

	if cfg.HTTPPort <= 0 || cfg.HTTPPort > 65535 {
		return nil, fmt.Errorf("invalid CAREERCLIMB_HTTP_PORT: %d", cfg.HTTPPort)
	}

	return cfg, nil
}

// LoadGateway loads the provider configuration. The provider keys use the
// names the hosted APIs document.
func LoadGateway() (*Gateway, error) {
	cfg := &Gateway{
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		GeminiModel:     getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiBaseURL:   os.Getenv("GEMINI_BASE_URL"),
		GeminiSafety:    getEnv("GEMINI_SAFETY_THRESHOLD", "BLOCK_MEDIUM_AND_ABOVE"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:     getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:   getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		ProviderTimeout: getEnvDuration("CAREERCLIMB_PROVIDER_TIMEOUT", 30*time.Second),
		AuditTimeout:    getEnvDuration("CAREERCLIMB_AUDIT_TIMEOUT", 5*time.Second),

		RateLimitEnabled: getEnvBool("CAREERCLIMB_RATE_LIMIT_ENABLED", false),
		RateLimit:        getEnvInt("CAREERCLIMB_RATE_LIMIT", 60),
		RateLimitWindow:  getEnvDuration("CAREERCLIMB_RATE_LIMIT_WINDOW", time.Minute),
	}

	if cfg.ProviderTimeout <= 0 {
		return nil, fmt.Errorf("CAREERCLIMB_PROVIDER_TIMEOUT must be positive")
	}
	if cfg.RateLimitEnabled && cfg.RateLimit <= 0 {
		return nil, fmt.Errorf("CAREERCLIMB_RATE_LIMIT must be positive when rate limiting is enabled")
	}

	return cfg, nil
}

// HasAnyProvider reports whether at least one provider key is set.
func (g *Gateway) HasAnyProvider() bool {
	return g.GeminiAPIKey != "" || g.OpenAIAPIKey != ""
}

// DatabaseDSN returns the PostgreSQL connection string.
func (c *Base) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// IsDevelopment returns true if running in development mode.
func (c *Base) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production mode.
func (c *Base) IsProduction() bool {
	return c.Environment == "production"
}

// UsePostgresStorage returns true if using PostgreSQL storage.
func (c *Base) UsePostgresStorage() bool {
	return c.StorageBackend == StoragePostgres
}

// Helper functions

func parseStorageBackend(s string) StorageBackend {
	switch s {
	case "postgres", "postgresql", "pg":
		return StoragePostgres
	default:
		return StorageMemory
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
