package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App     AppConfig
	Zendesk ZendeskConfig
	Redis   RedisConfig
	History HistoryConfig
	Logger  LoggerConfig
	Auth    AuthConfig
	Export  ExportConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	APIPrefix             string
	CORSAllowOrigins      string
	RequestTimeoutSeconds int
}

// ZendeskConfig holds the remote ticketing credentials.
type ZendeskConfig struct {
	Subdomain      string
	Email          string
	APIToken       string
	BaseURL        string
	TimeoutSeconds int
}

// RedisConfig holds Redis connection values. An empty Addr disables Redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// HistoryConfig bounds the recent-search list.
type HistoryConfig struct {
	MaxEntries int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines API authentication parameters. An empty secret disables auth.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
}

// ExportConfig controls the batch exporter.
type ExportConfig struct {
	OutDir string
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
			Name:                  getEnv("APP_NAME", "ticket-search"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8000"),
			Version:               getEnv("APP_VERSION", "dev"),
			APIPrefix:             getEnv("API_V1_STR", "/api/v1"),
			CORSAllowOrigins:      getEnv("CORS_ALLOW_ORIGINS", "*"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Zendesk: ZendeskConfig{
			Subdomain:      strings.TrimSpace(os.Getenv("ZENDESK_SUBDOMAIN")),
			Email:          strings.TrimSpace(os.Getenv("ZENDESK_EMAIL")),
			APIToken:       strings.TrimSpace(os.Getenv("ZENDESK_API_TOKEN")),
			BaseURL:        os.Getenv("ZENDESK_BASE_URL"),
			TimeoutSeconds: getEnvAsInt("ZENDESK_TIMEOUT_SECONDS", 30),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		History: HistoryConfig{
			MaxEntries: getEnvAsInt("HISTORY_MAX_ENTRIES", 10),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             os.Getenv("AUTH_JWT_SECRET"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
		},
		Export: ExportConfig{
			OutDir: getEnv("EXPORT_OUT_DIR", "."),
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

// Validate reports missing credentials.
func (z ZendeskConfig) Validate() error {
	var missing []string
	if z.Subdomain == "" {
		missing = append(missing, "ZENDESK_SUBDOMAIN")
	}
	if z.Email == "" {
		missing = append(missing, "ZENDESK_EMAIL")
	}
	if z.APIToken == "" {
		missing = append(missing, "ZENDESK_API_TOKEN")
	}
	if len(missing) > 0 {
		return errors.New("missing zendesk credentials: " + strings.Join(missing, ", "))
	}
	return nil
}

// APIBaseURL returns the REST base, honoring an explicit override.
func (z ZendeskConfig) APIBaseURL() string {
	if z.BaseURL != "" {
		return strings.TrimRight(z.BaseURL, "/")
	}
	return fmt.Sprintf("https://%s.zendesk.com/api/v2", z.Subdomain)
}

// Timeout returns the per-request timeout for remote calls.
func (z ZendeskConfig) Timeout() time.Duration {
	if z.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(z.TimeoutSeconds) * time.Second
}

// Enabled reports whether a Redis address was configured.
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
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
