package config

import (
	"time"

	"weddinghub-backend/internal/infrastructure/database"
)

// LoadDatabaseConfig builds the pgx pool configuration from environment
func LoadDatabaseConfig() (*database.DBConfig, error) {
	return &database.DBConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnvInt("DB_PORT", 5432),
		Username: getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		DBName:   getEnv("DB_NAME", "weddinghub"),

		MaxConns:          int32(getEnvInt("DB_MAX_CONNS", 25)),
		MinConns:          int32(getEnvInt("DB_MIN_CONNS", 5)),
		MaxConnLifetime:   time.Duration(getEnvInt("DB_MAX_CONN_LIFETIME_MIN", 60)) * time.Minute,
		MaxConnIdleTime:   time.Duration(getEnvInt("DB_MAX_CONN_IDLE_MIN", 10)) * time.Minute,
		HealthCheckPeriod: time.Duration(getEnvInt("DB_HEALTH_CHECK_SEC", 60)) * time.Second,

		MaxRetries:     getEnvInt("DB_MAX_RETRIES", 3),
		RetryDelay:     time.Duration(getEnvInt("DB_RETRY_DELAY_SEC", 1)) * time.Second,
		ConnectTimeout: time.Duration(getEnvInt("DB_CONNECT_TIMEOUT_SEC", 10)) * time.Second,
	}, nil
}
