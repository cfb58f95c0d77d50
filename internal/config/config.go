package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates runtime configuration for the feedback gateway.
type Config struct {
	Server    ServerConfig
	MinIO     MinIOConfig
	Redis     RedisConfig
	Limits    LimitsConfig
	Admin     AdminConfig
	Turnstile TurnstileConfig
	Notify    NotifyConfig
	Metrics   MetricsConfig
}

// ServerConfig parameterizes the HTTP server.
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Address returns the listen address in host:port form.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// MinIOConfig carries object-store connection and bucket information.
type MinIOConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	UseSSL          bool
	Region          string
}

// RedisConfig holds the rate-counter store connection string.
type RedisConfig struct {
	URL string
}

// LimitsConfig groups abuse-protection thresholds.
type LimitsConfig struct {
	MaxReportSize    int64
	IPDailyLimit     int
	GlobalDailyLimit int
	CounterTTL       time.Duration
}

// AdminConfig holds the administrative shared secret.
type AdminConfig struct {
	APIKey string
}

// TurnstileConfig holds the verification oracle secret.
type TurnstileConfig struct {
	SecretKey string
}

// NotifyConfig groups email notification settings. Either field may be
// empty, which disables notification entirely.
type NotifyConfig struct {
	ResendAPIKey string
	Recipient    string
}

// MetricsConfig groups observability settings.
type MetricsConfig struct {
	PrometheusPath string
}

// Load reads configuration values from environment variables, applying defaults.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host:         getString("FEEDBACK_API_HOST", "0.0.0.0"),
			Port:         getInt("FEEDBACK_API_PORT", 8080),
			ReadTimeout:  getDuration("FEEDBACK_API_READ_TIMEOUT", 60*time.Second),
			WriteTimeout: getDuration("FEEDBACK_API_WRITE_TIMEOUT", 60*time.Second),
			IdleTimeout:  getDuration("FEEDBACK_API_IDLE_TIMEOUT", 120*time.Second),
		},
		MinIO: MinIOConfig{
			Endpoint:        getString("MINIO_ENDPOINT", "localhost:9000"),
			AccessKeyID:     getString("MINIO_ROOT_USER", "feedback"),
			SecretAccessKey: getString("MINIO_ROOT_PASSWORD", "change-me-strong-password"),
			Bucket:          getString("MINIO_BUCKET", "feedback"),
			UseSSL:          getBool("MINIO_USE_SSL", false),
			Region:          getString("MINIO_REGION", ""),
		},
		Redis: RedisConfig{
			URL: getString("REDIS_URL", "redis://localhost:6379/0"),
		},
		Limits: LimitsConfig{
			MaxReportSize:    getInt64("FEEDBACK_MAX_REPORT_SIZE", 30*1024*1024),
			IPDailyLimit:     getInt("FEEDBACK_IP_DAILY_LIMIT", 10),
			GlobalDailyLimit: getInt("FEEDBACK_GLOBAL_DAILY_LIMIT", 1000),
			CounterTTL:       getDuration("FEEDBACK_COUNTER_TTL", 48*time.Hour),
		},
		Admin: AdminConfig{
			APIKey: getString("ADMIN_API_KEY", ""),
		},
		Turnstile: TurnstileConfig{
			SecretKey: getString("TURNSTILE_SECRET_KEY", ""),
		},
		Notify: NotifyConfig{
			ResendAPIKey: getString("RESEND_API_KEY", ""),
			Recipient:    getString("NOTIFY_EMAIL", ""),
		},
		Metrics: MetricsConfig{
			PrometheusPath: getString("FEEDBACK_METRICS_PATH", "/metrics"),
		},
	}

	if cfg.Admin.APIKey == "" {
		return Config{}, fmt.Errorf("ADMIN_API_KEY must be set")
	}
	if cfg.Turnstile.SecretKey == "" {
		return Config{}, fmt.Errorf("TURNSTILE_SECRET_KEY must be set")
	}

	return cfg, nil
}

func getString(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getInt64(key string, fallback int64) int64 {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseInt(val, 10, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		val = strings.ToLower(strings.TrimSpace(val))
		switch val {
		case "1", "true", "t", "yes", "y":
			return true
		case "0", "false", "f", "no", "n":
			return false
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return fallback
}
