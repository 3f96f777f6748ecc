package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/spec-kit/daily-report-service/internal/auth"
)

// ErrMissingJWTSecret is returned when JWT_SECRET is not configured.
var ErrMissingJWTSecret = errors.New("JWT_SECRET is not defined in environment variables")

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN                   string
	MaxConns              int32
	MinConns              int32
	RunMigrations         bool
	MigrationsDir         string
	ConnMaxIdleSec        int32
	ConnMaxLifeSec        int32
	ConnectTimeoutSeconds int
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr           string
	Password       string
	DB             int
	TimeoutSeconds int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level       string
	Development bool
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret            string
	AccessTokenLifetime  string
	RefreshTokenLifetime string
	Issuer               string
	CookieSecure         bool
	LoginMaxAttempts     int
	LoginWindowSeconds   int
	PasswordHistoryDepth int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "daily-report-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:                   os.Getenv("POSTGRES_DSN"),
			MaxConns:              int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:              int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:         getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			MigrationsDir:         getEnv("POSTGRES_MIGRATIONS_DIR", "migrations"),
			ConnMaxIdleSec:        int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec:        int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
			ConnectTimeoutSeconds: getEnvAsInt("POSTGRES_CONNECT_TIMEOUT_SECONDS", 5),
		},
		Redis: RedisConfig{
			Addr:           getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password:       os.Getenv("REDIS_PASSWORD"),
			DB:             redisDB,
			TimeoutSeconds: getEnvAsInt("REDIS_TIMEOUT_SECONDS", 2),
		},
		Logger: LoggerConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Development: getEnvAsBool("LOG_DEVELOPMENT", false),
		},
		Auth: AuthConfig{
			JWTSecret:            os.Getenv("JWT_SECRET"),
			AccessTokenLifetime:  getEnv("JWT_EXPIRES_IN", "24h"),
			RefreshTokenLifetime: getEnv("JWT_REFRESH_EXPIRES_IN", "7d"),
			Issuer:               getEnv("JWT_ISSUER", "daily-report-service"),
			CookieSecure:         getEnvAsBool("AUTH_COOKIE_SECURE", false),
			LoginMaxAttempts:     getEnvAsInt("AUTH_LOGIN_MAX_ATTEMPTS", 5),
			LoginWindowSeconds:   getEnvAsInt("AUTH_LOGIN_WINDOW_SECONDS", 900),
			PasswordHistoryDepth: getEnvAsInt("AUTH_PASSWORD_HISTORY_DEPTH", 5),
		},
	}

	if cfg.Auth.JWTSecret == "" {
		return nil, ErrMissingJWTSecret
	}
	if _, err := auth.ParseLifetime(cfg.Auth.AccessTokenLifetime); err != nil {
		return nil, fmt.Errorf("JWT_EXPIRES_IN: %w", err)
	}
	if _, err := auth.ParseLifetime(cfg.Auth.RefreshTokenLifetime); err != nil {
		return nil, fmt.Errorf("JWT_REFRESH_EXPIRES_IN: %w", err)
	}
	if cfg.Auth.LoginWindowSeconds <= 0 {
		return nil, fmt.Errorf("AUTH_LOGIN_WINDOW_SECONDS must be positive, got %d", cfg.Auth.LoginWindowSeconds)
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// ConnectTimeout bounds connecting and pinging. Zero means no bound.
func (p PostgresConfig) ConnectTimeout() time.Duration {
	if p.ConnectTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(p.ConnectTimeoutSeconds) * time.Second
}

// Timeout bounds every Redis command. Zero keeps the client defaults.
func (r RedisConfig) Timeout() time.Duration {
	if r.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(r.TimeoutSeconds) * time.Second
}

// LoginWindow returns the login attempt counting window.
func (a AuthConfig) LoginWindow() time.Duration {
	return time.Duration(a.LoginWindowSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
