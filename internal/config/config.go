package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	CORS       CORSConfig
	MarketData MarketDataConfig
	Snapshot   SnapshotConfig
	Security   SecurityConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// MarketDataConfig controls the price cache.
type MarketDataConfig struct {
	CacheTTL time.Duration
}

// SnapshotConfig controls the optional scheduled snapshot job.
// An empty CronSpec disables the scheduler.
type SnapshotConfig struct {
	CronSpec string
}

// SecurityConfig holds API-key and encryption settings.
// MasterKey is a base64 fernet key used to encrypt stored credentials.
type SecurityConfig struct {
	APIKey    string
	MasterKey string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	cacheTTLMinutes, err := strconv.Atoi(getEnv("MARKET_CACHE_TTL_MINUTES", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid MARKET_CACHE_TTL_MINUTES: %w", err)
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/dcamoon.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost",
			},
		},
		MarketData: MarketDataConfig{
			CacheTTL: time.Duration(cacheTTLMinutes) * time.Minute,
		},
		Snapshot: SnapshotConfig{
			CronSpec: getEnv("SNAPSHOT_CRON", ""),
		},
		Security: SecurityConfig{
			APIKey:    os.Getenv("INTERNAL_API_KEY"),
			MasterKey: os.Getenv("DCAMOON_MASTER_KEY"),
		},
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
