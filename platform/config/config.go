// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// EmailConfig provides settings for email sending.
type EmailConfig interface {
	GetEmailEnabled() bool
	GetEmailProvider() string
	GetBrevoAPIKey() string
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
}

// SchedulerConfig provides settings for the asynq scheduler/worker.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
	GetSegmentationCron() string
}

// SegmentationConfig provides lead segmentation thresholds and batch tuning.
type SegmentationConfig interface {
	GetSegmentHotMinScore() int
	GetSegmentWarmMinScore() int
	GetSegmentPersistWorkers() int
	GetScoreLegacyCounters() bool
}

// GuestStoreConfig provides settings for the guest points store.
type GuestStoreConfig interface {
	GetRedisURL() string
	GetGuestPointsTTL() time.Duration
}

// =============================================================================
// Config
// =============================================================================

// Config is the concrete application configuration. Modules receive it
// through the narrow interfaces above.
type Config struct {
	Env                   string
	HTTPAddr              string
	DatabaseURL           string
	JWTAccessSecret       string
	CORSAllowAll          bool
	CORSOrigins           []string
	CORSAllowCreds        bool
	AppBaseURL            string
	EmailEnabled          bool
	EmailProvider         string
	BrevoAPIKey           string
	SMTPHost              string
	SMTPPort              int
	SMTPUsername          string
	SMTPPassword          string
	EmailFromName         string
	EmailFromAddress      string
	RedisURL              string
	RedisTLSInsecure      bool
	AsynqQueueName        string
	AsynqConcurrency      int
	SegmentationCron      string
	SegmentHotMinScore    int
	SegmentWarmMinScore   int
	SegmentPersistWorkers int
	ScoreLegacyCounters   bool
	GuestPointsTTL        time.Duration
}

// Load reads configuration from the environment (and .env if present).
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173"))
	corsAllowAll := boolEnv("CORS_ALLOW_ALL", false)
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	emailProvider := strings.ToLower(getEnv("EMAIL_PROVIDER", "smtp"))
	emailEnabled := boolEnv("EMAIL_ENABLED", true)

	cfg := &Config{
		Env:                   getEnv("APP_ENV", "development"),
		HTTPAddr:              getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		JWTAccessSecret:       getEnv("JWT_ACCESS_SECRET", ""),
		CORSAllowAll:          corsAllowAll,
		CORSOrigins:           corsOrigins,
		CORSAllowCreds:        boolEnv("CORS_ALLOW_CREDENTIALS", true),
		AppBaseURL:            getEnv("APP_BASE_URL", "http://localhost:5173"),
		EmailEnabled:          emailEnabled,
		EmailProvider:         emailProvider,
		BrevoAPIKey:           getEnv("BREVO_API_KEY", ""),
		SMTPHost:              getEnv("SMTP_HOST", ""),
		SMTPPort:              intEnv("SMTP_PORT", 587),
		SMTPUsername:          getEnv("SMTP_USERNAME", ""),
		SMTPPassword:          getEnv("SMTP_PASSWORD", ""),
		EmailFromName:         getEnv("EMAIL_FROM_NAME", "Rewards"),
		EmailFromAddress:      getEnv("EMAIL_FROM_ADDRESS", ""),
		RedisURL:              getEnv("REDIS_URL", ""),
		RedisTLSInsecure:      boolEnv("REDIS_TLS_INSECURE", false),
		AsynqQueueName:        getEnv("ASYNQ_QUEUE", "default"),
		AsynqConcurrency:      intEnv("ASYNQ_CONCURRENCY", 10),
		SegmentationCron:      getEnv("SEGMENTATION_CRON", "0 3 * * *"),
		SegmentHotMinScore:    intEnv("SEGMENT_HOT_MIN_SCORE", 30),
		SegmentWarmMinScore:   intEnv("SEGMENT_WARM_MIN_SCORE", 15),
		SegmentPersistWorkers: intEnv("SEGMENT_PERSIST_WORKERS", 8),
		ScoreLegacyCounters:   boolEnv("SCORE_LEGACY_COUNTERS", true),
		GuestPointsTTL:        durationEnv("GUEST_POINTS_TTL", 90*24*time.Hour),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTAccessSecret == "" {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.EmailEnabled {
		switch cfg.EmailProvider {
		case "brevo":
			if cfg.BrevoAPIKey == "" {
				return nil, fmt.Errorf("BREVO_API_KEY is required when EMAIL_PROVIDER is brevo")
			}
		case "smtp":
			if cfg.SMTPHost == "" {
				return nil, fmt.Errorf("SMTP_HOST is required when EMAIL_PROVIDER is smtp")
			}
		case "noop":
		default:
			return nil, fmt.Errorf("unknown EMAIL_PROVIDER %q", cfg.EmailProvider)
		}
		if cfg.EmailProvider != "noop" && cfg.EmailFromAddress == "" {
			return nil, fmt.Errorf("EMAIL_FROM_ADDRESS is required when email is enabled")
		}
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	if cfg.SegmentHotMinScore <= cfg.SegmentWarmMinScore {
		return nil, fmt.Errorf("SEGMENT_HOT_MIN_SCORE must be greater than SEGMENT_WARM_MIN_SCORE")
	}

	return cfg, nil
}

// Interface implementations.

func (c *Config) GetDatabaseURL() string          { return c.DatabaseURL }
func (c *Config) GetJWTAccessSecret() string      { return c.JWTAccessSecret }
func (c *Config) GetHTTPAddr() string             { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool           { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string        { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool         { return c.CORSAllowCreds }
func (c *Config) GetEmailEnabled() bool           { return c.EmailEnabled }
func (c *Config) GetEmailProvider() string        { return c.EmailProvider }
func (c *Config) GetBrevoAPIKey() string          { return c.BrevoAPIKey }
func (c *Config) GetSMTPHost() string             { return c.SMTPHost }
func (c *Config) GetSMTPPort() int                { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string         { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string         { return c.SMTPPassword }
func (c *Config) GetEmailFromName() string        { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string     { return c.EmailFromAddress }
func (c *Config) GetRedisURL() string             { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool       { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string       { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int        { return c.AsynqConcurrency }
func (c *Config) GetSegmentationCron() string     { return c.SegmentationCron }
func (c *Config) GetSegmentHotMinScore() int      { return c.SegmentHotMinScore }
func (c *Config) GetSegmentWarmMinScore() int     { return c.SegmentWarmMinScore }
func (c *Config) GetSegmentPersistWorkers() int   { return c.SegmentPersistWorkers }
func (c *Config) GetScoreLegacyCounters() bool    { return c.ScoreLegacyCounters }
func (c *Config) GetGuestPointsTTL() time.Duration { return c.GuestPointsTTL }

// Helpers.

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func boolEnv(key string, fallback bool) bool {
	val, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(val) == "" {
		return fallback
	}
	return strings.EqualFold(val, "true")
}

func intEnv(key string, fallback int) int {
	val, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil {
		return fallback
	}
	return n
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	val, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(val))
	if err != nil {
		return fallback
	}
	return d
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
