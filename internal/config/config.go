package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	CORS      CORSConfig
	Dashboard DashboardConfig
	Token     TokenConfig
	Kafka     KafkaConfig
	Log       LogConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds the location of the local history database
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// DashboardConfig holds settings for talking to the migration API
type DashboardConfig struct {
	APIBase            string
	RefreshInterval    time.Duration
	UploadRefreshDelay time.Duration
	RequestTimeout     time.Duration
}

// TokenConfig holds the fernet key used to encrypt the remembered access token.
// An empty key disables the token vault.
type TokenConfig struct {
	Key string
}

// KafkaConfig holds action event publishing settings. No brokers means no publishing.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables and .env / env.local files
func Load() (*Config, error) {
	// Missing files are fine; existing variables are never overridden.
	_ = godotenv.Load()
	_ = godotenv.Load("env.local")

	refresh, err := getDuration("MIGDASH_REFRESH_INTERVAL", 30*time.Second)
	if err != nil {
		return nil, err
	}
	uploadDelay, err := getDuration("MIGDASH_UPLOAD_REFRESH_DELAY", 2*time.Second)
	if err != nil {
		return nil, err
	}
	timeout, err := getDuration("MIGDASH_REQUEST_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, err
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5002"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/migdash.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getList("MIGDASH_CORS_ORIGINS", []string{
				"http://localhost:3000",
				"http://localhost",
			}),
		},
		Dashboard: DashboardConfig{
			APIBase:            getEnv("MIGDASH_API_BASE", "http://localhost:8000"),
			RefreshInterval:    refresh,
			UploadRefreshDelay: uploadDelay,
			RequestTimeout:     timeout,
		},
		Token: TokenConfig{
			Key: os.Getenv("MIGDASH_TOKEN_KEY"),
		},
		Kafka: KafkaConfig{
			Brokers: getList("MIGDASH_KAFKA_BROKERS", nil),
			Topic:   getEnv("MIGDASH_KAFKA_TOPIC", "migdash-activity"),
		},
		Log: LogConfig{
			Level:  getEnv("MIGDASH_LOG_LEVEL", "info"),
			Format: getEnv("MIGDASH_LOG_FORMAT", "text"),
		},
	}

	if config.Dashboard.RefreshInterval <= 0 {
		return nil, fmt.Errorf("MIGDASH_REFRESH_INTERVAL must be positive, got %s", config.Dashboard.RefreshInterval)
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getDuration parses a Go duration such as "30s" or "1m".
func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

// getList splits a comma separated variable, dropping empty entries.
func getList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
