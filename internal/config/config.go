// Package config loads application configuration from the environment.
// An optional .env file is honored for local development.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	App    AppConfig
	DB     DBConfig
	Redis  RedisConfig
	Export ExportConfig
}

// AppConfig holds HTTP server related options.
type AppConfig struct {
	Port        string
	Env         string // development | production
	LogLevel    string
	ReadTimeout time.Duration
}

// DBConfig holds PostgreSQL connection options.
type DBConfig struct {
	DSN      string
	MaxConns int32
	MinConns int32
}

// RedisConfig holds report cache options. Addr empty disables caching.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// ExportConfig holds scheduled export options for the worker.
type ExportConfig struct {
	Dir          string
	CronSchedule string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("load env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env is fine; the process environment wins either way.
		_ = godotenv.Load()
	}

	cfg := &Config{
		App: AppConfig{
			Port:        getEnv("APP_PORT", "8080"),
			Env:         getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			ReadTimeout: getEnvDuration("APP_READ_TIMEOUT", 15*time.Second),
		},
		DB: DBConfig{
			DSN:      os.Getenv("DATABASE_URL"),
			MaxConns: int32(getEnvInt("DB_MAX_CONNS", 25)),
			MinConns: int32(getEnvInt("DB_MIN_CONNS", 5)),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvInt("REDIS_DB", 0),
			TTL:      getEnvDuration("REPORT_CACHE_TTL", 5*time.Minute),
		},
		Export: ExportConfig{
			Dir:          getEnv("EXPORT_DIR", "exports"),
			CronSchedule: getEnv("EXPORT_CRON", "0 6 * * 1"),
		},
	}

	if cfg.DB.DSN == "" {
		return nil, errors.New("DATABASE_URL is required")
	}

	return cfg, nil
}

// IsDevelopment reports whether the app runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
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
