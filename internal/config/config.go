// Package config handles application configuration loading and management.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/unifiedui/mongo-viewer/internal/core/cache"
)

// Config holds all configuration for the application.
type Config struct {
	Server    ServerConfig
	Cache     CacheConfig
	MongoDB   MongoDBConfig
	Documents DocumentsConfig
	Session   SessionConfig
	CORS      CORSConfig
	Log       LogConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host            string
	Port            int
	GinMode         string
	ShutdownTimeout time.Duration
}

// Address returns the server address in host:port format.
func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// CacheConfig holds cache-related configuration.
// The cache only backs session persistence; Type "none" disables it.
type CacheConfig struct {
	Type     string
	Host     string
	Port     string
	Password string
	DB       int
}

// Enabled reports whether a cache backend is configured.
func (c CacheConfig) Enabled() bool {
	return c.Type != "" && cache.Type(c.Type) != cache.TypeNone
}

// MongoDBConfig holds the MongoDB session configuration.
// A zero timeout leaves the driver default in force.
type MongoDBConfig struct {
	StartupURI        string
	ConnectTimeout    time.Duration
	PingTimeout       time.Duration
	DisconnectTimeout time.Duration
}

// DocumentsConfig controls the document reader.
type DocumentsConfig struct {
	DefaultLimit int64
	MaxLimit     int64
	JSONMode     string
}

// SessionConfig holds session persistence configuration.
type SessionConfig struct {
	TTL           time.Duration
	EncryptionKey string
}

// CORSConfig holds the allowed CORS origins.
type CORSConfig struct {
	AllowOrigins []string
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 3001),
			GinMode:         getEnv("GIN_MODE", "debug"),
			ShutdownTimeout: getEnvAsSeconds("SERVER_SHUTDOWN_TIMEOUT_SECONDS", 10),
		},
		Cache: CacheConfig{
			Type:     getEnv("CACHE_TYPE", "none"),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		MongoDB: MongoDBConfig{
			StartupURI:        getEnv("MONGODB_URI", ""),
			ConnectTimeout:    getEnvAsSeconds("MONGODB_CONNECT_TIMEOUT_SECONDS", 0),
			PingTimeout:       getEnvAsSeconds("MONGODB_PING_TIMEOUT_SECONDS", 0),
			DisconnectTimeout: getEnvAsSeconds("MONGODB_DISCONNECT_TIMEOUT_SECONDS", 10),
		},
		Documents: DocumentsConfig{
			DefaultLimit: int64(getEnvAsInt("DOCUMENT_DEFAULT_LIMIT", 50)),
			MaxLimit:     int64(getEnvAsInt("DOCUMENT_MAX_LIMIT", 0)),
			JSONMode:     getEnv("DOCUMENT_JSON_MODE", "plain"),
		},
		Session: SessionConfig{
			TTL:           getEnvAsSeconds("SESSION_TTL_SECONDS", 86400),
			EncryptionKey: getEnv("SESSION_ENCRYPTION_KEY", ""),
		},
		CORS: CORSConfig{
			AllowOrigins: getEnvAsList("CORS_ALLOW_ORIGINS", []string{"*"}),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration for values the service cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid SERVER_PORT: %d", c.Server.Port)
	}
	if c.Documents.DefaultLimit <= 0 {
		return fmt.Errorf("DOCUMENT_DEFAULT_LIMIT must be positive, got %d", c.Documents.DefaultLimit)
	}
	if c.Documents.MaxLimit < 0 {
		return fmt.Errorf("DOCUMENT_MAX_LIMIT must not be negative, got %d", c.Documents.MaxLimit)
	}
	switch c.Documents.JSONMode {
	case "plain", "relaxed", "canonical":
	default:
		return fmt.Errorf("unsupported DOCUMENT_JSON_MODE: %s", c.Documents.JSONMode)
	}
	switch c.Cache.Type {
	case "none", "redis":
	default:
		return fmt.Errorf("unsupported CACHE_TYPE: %s", c.Cache.Type)
	}
	return nil
}

// getEnv gets an environment variable with a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer with a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsSeconds reads a whole number of seconds as a duration.
func getEnvAsSeconds(key string, defaultSeconds int) time.Duration {
	return time.Duration(getEnvAsInt(key, defaultSeconds)) * time.Second
}

// getEnvAsList splits a comma separated variable, dropping empty entries.
func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
