package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// MinJWTSecretLength is the shortest ADMIN_JWT_SECRET accepted with password login
const MinJWTSecretLength = 32

// Storage drivers
const (
	StorageFile     = "file"
	StoragePostgres = "postgres"
)

// Config holds all configuration for the application
// Following 12-factor app principles, all config is loaded from environment variables
// (optionally seeded from a .env file in the working directory)
type Config struct {
	Server   ServerConfig
	Auth     AuthConfig
	Storage  StorageConfig
	Payment  PaymentConfig
	Events   EventsConfig
	LogLevel string
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
	AllowedOrigins  []string
}

type AuthConfig struct {
	APIKeys           []string // Valid API keys for the admin endpoints
	AdminPasswordHash string   // bcrypt hash; empty disables password login
	JWTSecret         string
	SessionTTLMinutes int
}

type StorageConfig struct {
	Driver      string
	DataDir     string
	MenuFile    string
	OrdersFile  string
	DatabaseURL string
}

// PaymentConfig describes the UPI payee that customers pay for UPI orders
type PaymentConfig struct {
	UPIVPA       string
	UPIPayeeName string
	UPIAID       string
}

type EventsConfig struct {
	QueueURL  string
	AWSRegion string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// A missing .env file is fine; real environment variables always win.
	_ = godotenv.Load()

	dataDir := getEnv("DATA_DIR", "data")

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "3001"),
			Host:            getEnv("HOST", "0.0.0.0"),
			ReadTimeout:     getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout:    getEnvAsInt("WRITE_TIMEOUT", 15),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 30),
			AllowedOrigins:  getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Auth: AuthConfig{
			APIKeys:           getEnvAsSlice("API_KEYS", []string{"kitchen"}),
			AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
			JWTSecret:         getEnv("ADMIN_JWT_SECRET", ""),
			SessionTTLMinutes: getEnvAsInt("ADMIN_SESSION_TTL", 720),
		},
		Storage: StorageConfig{
			Driver:      strings.ToLower(getEnv("STORAGE_DRIVER", StorageFile)),
			DataDir:     dataDir,
			MenuFile:    getEnv("MENU_FILE", filepath.Join(dataDir, "menu.json")),
			OrdersFile:  getEnv("ORDERS_FILE", filepath.Join(dataDir, "orders.json")),
			DatabaseURL: getEnv("DATABASE_URL", ""),
		},
		Payment: PaymentConfig{
			UPIVPA:       getEnv("UPI_VPA", ""),
			UPIPayeeName: getEnv("UPI_PAYEE_NAME", "Dosha Kada"),
			UPIAID:       getEnv("UPI_AID", ""),
		},
		Events: EventsConfig{
			QueueURL:  getEnv("ORDER_EVENTS_QUEUE_URL", ""),
			AWSRegion: getEnv("AWS_REGION", ""),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("PORT must be a number: %s", c.Server.Port)
	}

	if len(c.Auth.APIKeys) == 0 {
		return fmt.Errorf("at least one API key must be configured")
	}

	if c.Auth.AdminPasswordHash != "" && len(c.Auth.JWTSecret) < MinJWTSecretLength {
		return fmt.Errorf("ADMIN_JWT_SECRET must be at least %d bytes when ADMIN_PASSWORD_HASH is set", MinJWTSecretLength)
	}

	switch c.Storage.Driver {
	case StorageFile:
		if c.Storage.OrdersFile == "" {
			return fmt.Errorf("ORDERS_FILE is required for the file storage driver")
		}
	case StoragePostgres:
		if c.Storage.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres storage driver")
		}
	default:
		return fmt.Errorf("invalid storage driver: %s (must be file or postgres)", c.Storage.Driver)
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	parts := strings.Split(valueStr, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			values = append(values, p)
		}
	}
	return values
}
