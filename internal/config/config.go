package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Logger       LoggerConfig
	Advisory     AdvisoryConfig
	Redis        RedisConfig
	Tracing      TracingConfig
	Store        StoreConfig
	Forms        FormsConfig
	Notification NotificationConfig
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

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AdvisoryConfig configures the diagnosis text model.
type AdvisoryConfig struct {
	APIKey          string
	Model           string
	TimeoutSeconds  int
	CacheTTLMinutes int
	CacheSize       int
}

// RedisConfig holds Redis connection values. An empty Addr disables Redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// TracingConfig configures OpenTelemetry export.
type TracingConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
}

// StoreConfig controls the initial contents of the in-memory store.
type StoreConfig struct {
	SeedFile string
}

// FormsConfig controls open form housekeeping.
type FormsConfig struct {
	IdleTimeoutMinutes   int
	SweepIntervalSeconds int
}

// NotificationConfig holds stub notification endpoints.
type NotificationConfig struct {
	EmailFrom  string
	WebhookURL string
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
			Name:                  getEnv("APP_NAME", "service-orders"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Advisory: AdvisoryConfig{
			APIKey:          getEnv("GEMINI_API_KEY", os.Getenv("API_KEY")),
			Model:           getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			TimeoutSeconds:  getEnvAsInt("ADVISORY_TIMEOUT_SECONDS", 30),
			CacheTTLMinutes: getEnvAsInt("ADVISORY_CACHE_TTL_MINUTES", 60),
			CacheSize:       getEnvAsInt("ADVISORY_CACHE_SIZE", 256),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Tracing: TracingConfig{
			Enabled:     getEnvAsBool("OTEL_ENABLED", false),
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "service-orders"),
		},
		Store: StoreConfig{
			SeedFile: os.Getenv("STORE_SEED_FILE"),
		},
		Forms: FormsConfig{
			IdleTimeoutMinutes:   getEnvAsInt("FORM_IDLE_TIMEOUT_MINUTES", 120),
			SweepIntervalSeconds: getEnvAsInt("FORM_SWEEP_INTERVAL_SECONDS", 300),
		},
		Notification: NotificationConfig{
			EmailFrom:  getEnv("NOTIFY_EMAIL_FROM", "noreply@example.com"),
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
		},
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

// Timeout returns the per-call deadline for the text model.
func (a AdvisoryConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// CacheTTL returns how long successful diagnoses are reused.
func (a AdvisoryConfig) CacheTTL() time.Duration {
	return time.Duration(a.CacheTTLMinutes) * time.Minute
}

// IdleTimeout returns how long an untouched form stays open.
func (f FormsConfig) IdleTimeout() time.Duration {
	return time.Duration(f.IdleTimeoutMinutes) * time.Minute
}

// SweepInterval returns how often idle forms are collected.
func (f FormsConfig) SweepInterval() time.Duration {
	return time.Duration(f.SweepIntervalSeconds) * time.Second
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
