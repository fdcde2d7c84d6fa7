package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends accepted by STORAGE_BACKEND
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendR2     = "r2"
	BackendSQLite = "sqlite"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port            string        `json:"port"`
	Env             string        `json:"env"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
	HTTPTimeout     time.Duration `json:"http_timeout"`

	// Gazette
	Namespace          string        `json:"namespace"`
	NotificationTTL    time.Duration `json:"notification_ttl"`
	SessionIdleTimeout time.Duration `json:"session_idle_timeout"`

	// Storage
	StorageBackend string `json:"storage_backend"`
	StoragePath    string `json:"storage_path"`
	SQLitePath     string `json:"sqlite_path"`

	// Redis configuration
	RedisURL    string `json:"redis_url"`
	RedisPrefix string `json:"redis_prefix"`

	// CloudFlare R2 Configuration
	R2Endpoint  string `json:"r2_endpoint"`
	R2AccessKey string `json:"r2_access_key"`
	R2SecretKey string `json:"r2_secret_key"`
	R2Bucket    string `json:"r2_bucket"`
	R2AccountID string `json:"r2_account_id"`

	// AI Configuration
	AIApiKey  string `json:"ai_api_key"`
	AIModel   string `json:"ai_model"`
	AITimeout int    `json:"ai_timeout"`

	// Logging
	LogLevel string `json:"log_level"`
	LogFile  string `json:"log_file"`
}

// Load loads configuration from environment variables and validates it
func Load() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	cfg := FromEnv()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	return cfg
}

// FromEnv reads the configuration from the environment without validating it
func FromEnv() *Config {
	return &Config{
		// Server configuration
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("APP_ENV", "development"),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		HTTPTimeout:     getEnvAsDuration("HTTP_TIMEOUT", 30*time.Second),

		// Gazette
		Namespace:          getEnv("GAZETTE_NAMESPACE", "agency_gazettes"),
		NotificationTTL:    getEnvAsDuration("NOTIFICATION_TTL", 8*time.Second),
		SessionIdleTimeout: getEnvAsDuration("SESSION_IDLE_TIMEOUT", 12*time.Hour),

		// Storage
		StorageBackend: getEnv("STORAGE_BACKEND", BackendFile),
		StoragePath:    getEnv("STORAGE_PATH", "./data"),
		SQLitePath:     getEnv("SQLITE_PATH", "./data/gazette.db"),

		// Redis configuration
		RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379/0"),
		RedisPrefix: getEnv("REDIS_PREFIX", "gazette:"),

		// CloudFlare R2 Configuration
		R2Endpoint:  getEnv("R2_ENDPOINT", ""),
		R2AccessKey: getEnv("R2_ACCESS_KEY", ""),
		R2SecretKey: getEnv("R2_SECRET_ACCESS_KEY", ""),
		R2Bucket:    getEnv("R2_BUCKET", "gazette"),
		R2AccountID: getEnv("CLOUDFLARE_ACCOUNT_ID", ""),

		// AI Configuration
		AIApiKey:  getEnv("AI_API_KEY", ""),
		AIModel:   getEnv("AI_MODEL", "gemini-3-flash-preview"),
		AITimeout: getEnvAsInt("AI_TIMEOUT", 60),

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.StorageBackend {
	case BackendFile, BackendMemory, BackendRedis, BackendSQLite:
	case BackendR2:
		if c.R2Bucket == "" || c.R2AccessKey == "" || c.R2SecretKey == "" {
			return fmt.Errorf("r2 backend requires R2_BUCKET, R2_ACCESS_KEY and R2_SECRET_ACCESS_KEY")
		}
		if c.R2Endpoint == "" && c.R2AccountID == "" {
			return fmt.Errorf("r2 backend requires R2_ENDPOINT or CLOUDFLARE_ACCOUNT_ID")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}

	if c.Namespace == "" {
		return fmt.Errorf("GAZETTE_NAMESPACE must not be empty")
	}
	if c.NotificationTTL <= 0 {
		return fmt.Errorf("NOTIFICATION_TTL must be positive, got %v", c.NotificationTTL)
	}
	return nil
}

// R2URL returns the S3-compatible endpoint of the configured R2 account
func (c *Config) R2URL() string {
	if c.R2Endpoint != "" {
		return c.R2Endpoint
	}
	return fmt.Sprintf("https://%s.r2.cloudflarestorage.com", c.R2AccountID)
}

// AITimeoutDuration returns AI_TIMEOUT as a duration
func (c *Config) AITimeoutDuration() time.Duration {
	return time.Duration(c.AITimeout) * time.Second
}

// Helper functions for environment variable handling
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(name string, defaultVal int) int {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %d", name, err, defaultVal)
		return defaultVal
	}
	return value
}

func getEnvAsDuration(name string, defaultVal time.Duration) time.Duration {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %v", name, err, defaultVal)
		return defaultVal
	}
	return value
}
