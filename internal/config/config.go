package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the whole application configuration.
// Populated from environment variables.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	ZaloPay  ZaloPayConfig
	Job      JobConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MinConns int
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret             string
	AccessTokenExpiry  int // minutes
	RefreshTokenExpiry int // hours
}

// =====================================================
// ZALOPAY CONFIGURATION
// =====================================================

type ZaloPayConfig struct {
	AppID       int    // Merchant app id
	Key1        string // Secret key for outbound request HMAC-SHA256
	Key2        string // Secret key for callback verification
	APIURL      string // ZaloPay API base URL
	CallbackURL string // Backend webhook URL
	RedirectURL string // Frontend redirect URL after payment
}

// JobConfig tunes the background worker
type JobConfig struct {
	PollPendingLimit  int // max pending gateway payments queried per poll run
	PollPendingAfter  int // minutes a gateway payment must be pending before polling
	WorkerConcurrency int
}

// Load reads config from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "WeddingHub API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "weddinghub"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 25),
			MinConns: getEnvInt("DB_MIN_CONNS", 5),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:             getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
			AccessTokenExpiry:  getEnvInt("JWT_ACCESS_EXPIRY", 15),
			RefreshTokenExpiry: getEnvInt("JWT_REFRESH_EXPIRY", 72),
		},
		ZaloPay: ZaloPayConfig{
			AppID:       getEnvInt("ZALOPAY_APP_ID", 0),
			Key1:        getEnv("ZALOPAY_KEY1", ""),
			Key2:        getEnv("ZALOPAY_KEY2", ""),
			APIURL:      getEnv("ZALOPAY_API_URL", "https://sb-openapi.zalopay.vn"),
			CallbackURL: getEnv("ZALOPAY_CALLBACK_URL", "http://localhost:8080/api/v1/webhooks/zalopay"),
			RedirectURL: getEnv("ZALOPAY_REDIRECT_URL", "http://localhost:3000/payment/result"),
		},
		Job: JobConfig{
			PollPendingLimit:  getEnvInt("JOB_POLL_PENDING_LIMIT", 50),
			PollPendingAfter:  getEnvInt("JOB_POLL_PENDING_AFTER", 5),
			WorkerConcurrency: getEnvInt("JOB_WORKER_CONCURRENCY", 10),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that critical config is present
func (c *Config) Validate() error {
	if c.App.Environment == "production" {
		if c.JWT.Secret == "your-secret-key-change-in-production" {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
		if c.ZaloPay.AppID == 0 || c.ZaloPay.Key1 == "" || c.ZaloPay.Key2 == "" {
			fmt.Println("WARNING: ZaloPay credentials not set - gateway payment will not work")
		}
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
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
