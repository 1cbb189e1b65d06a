package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Validation   ValidationConfig
	Lifecycle    LifecycleConfig
	Notification NotificationConfig
}

// AppConfig identifies the running program.
type AppConfig struct {
	Name    string
	Env     string
	Version string
}

// RedisConfig holds Redis connection values. An empty Addr keeps customers
// and tickets in process memory.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level    string
	Encoding string
}

// ValidationConfig tunes the ticket admission rules.
type ValidationConfig struct {
	MinDescriptionLength         int
	CriticalMinDescriptionLength int
}

// LifecycleConfig tunes ticket status transitions.
type LifecycleConfig struct {
	// StrictTransitions turns operations that are illegal for the current
	// status into errors instead of no-ops.
	StrictTransitions bool
}

// NotificationConfig selects delivery channels and recipients.
type NotificationConfig struct {
	OpsAddress  string
	Channels    []string
	ChatChannel string
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
			Name:    getEnv("APP_NAME", "support-desk"),
			Env:     getEnv("APP_ENV", "development"),
			Version: getEnv("APP_VERSION", "dev"),
		},
		Redis: RedisConfig{
			Addr:      os.Getenv("REDIS_ADDR"),
			Password:  os.Getenv("REDIS_PASSWORD"),
			DB:        redisDB,
			KeyPrefix: getEnv("REDIS_KEY_PREFIX", "supportdesk"),
		},
		Logger: LoggerConfig{
			Level:    getEnv("LOG_LEVEL", "info"),
			Encoding: getEnv("LOG_ENCODING", "console"),
		},
		Validation: ValidationConfig{
			MinDescriptionLength:         getEnvAsInt("VALIDATION_MIN_DESCRIPTION_LENGTH", 10),
			CriticalMinDescriptionLength: getEnvAsInt("VALIDATION_CRITICAL_MIN_DESCRIPTION_LENGTH", 20),
		},
		Lifecycle: LifecycleConfig{
			StrictTransitions: getEnvAsBool("LIFECYCLE_STRICT_TRANSITIONS", false),
		},
		Notification: NotificationConfig{
			OpsAddress:  getEnv("NOTIFY_OPS_ADDRESS", "support@example.com"),
			Channels:    getEnvAsList("NOTIFY_CHANNELS", []string{"email", "sms", "push", "chat"}),
			ChatChannel: os.Getenv("NOTIFY_CHAT_CHANNEL"),
		},
	}

	if cfg.Validation.MinDescriptionLength < 0 {
		return nil, fmt.Errorf("invalid VALIDATION_MIN_DESCRIPTION_LENGTH: %d", cfg.Validation.MinDescriptionLength)
	}
	if cfg.Validation.CriticalMinDescriptionLength < 0 {
		return nil, fmt.Errorf("invalid VALIDATION_CRITICAL_MIN_DESCRIPTION_LENGTH: %d", cfg.Validation.CriticalMinDescriptionLength)
	}

	return cfg, nil
}

// UsesRedis reports whether repositories should be backed by Redis.
func (r RedisConfig) UsesRedis() bool {
	return strings.TrimSpace(r.Addr) != ""
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

func getEnvAsList(key string, fallback []string) []string {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
