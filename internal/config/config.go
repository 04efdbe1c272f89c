package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port               string
	Env                string
	LogLevel           string
	CORSAllowedOrigins []string

	// Upstream SereneNow booking API.
	APIBaseURL string
	APIKey     string
	APITimeout time.Duration

	// Scheduling defaults.
	DefaultTimezone      string
	BookingHorizonMonths int
	PublicFlow           bool

	// Stepper behavior when an earlier step is edited after later steps
	// completed: "preserve" or "invalidate".
	StepEditPolicy string

	// Slot cache / booking session storage.
	RedisAddr        string
	RedisPassword    string
	RedisTLS         bool
	SlotCacheTTL     time.Duration
	SessionTTL       time.Duration
	DisableSlotCache bool
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", nil),

		APIBaseURL: getEnv("SERENE_API_BASE_URL", "https://api.serenenow.in"),
		APIKey:     getEnv("SERENE_API_KEY", ""),
		APITimeout: getEnvAsDuration("SERENE_API_TIMEOUT", 15*time.Second),

		DefaultTimezone:      getEnv("DEFAULT_TIMEZONE", "Asia/Kolkata"),
		BookingHorizonMonths: getEnvAsInt("BOOKING_HORIZON_MONTHS", 6),
		PublicFlow:           getEnvAsBool("PUBLIC_BOOKING_FLOW", true),

		StepEditPolicy: strings.ToLower(strings.TrimSpace(getEnv("STEP_EDIT_POLICY", "preserve"))),

		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		RedisTLS:         getEnvAsBool("REDIS_TLS", false),
		SlotCacheTTL:     getEnvAsDuration("SLOT_CACHE_TTL", 2*time.Minute),
		SessionTTL:       getEnvAsDuration("BOOKING_SESSION_TTL", 30*time.Minute),
		DisableSlotCache: getEnvAsBool("DISABLE_SLOT_CACHE", false),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
