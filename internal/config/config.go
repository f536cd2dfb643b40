package config

import (
	"os"
	"strings"
	"time"
)

type Config struct {
	Port           string
	AllowedOrigins []string

	CacheEnabled bool
	RedisHost    string
	RedisPort    string
	RedisTTL     time.Duration

	DBPath string

	MyGOBaseURL  string
	MyGOLogin    string
	MyGOPassword string
	MyGOTimeout  time.Duration

	ClicToPayBaseURL  string
	ClicToPayUser     string
	ClicToPayPassword string
	WebhookSecret     string
	PaymentReturnURL  string
}

// Load resolves configuration from the environment with explicit defaults.
// Defaults are fixed here at load time; nothing mutates them afterwards.
func Load() Config {
	return Config{
		Port: getEnv("PORT", "8080"),
		AllowedOrigins: getEnvList("ALLOWED_ORIGINS", []string{
			"http://localhost:3000",
			"https://booking.example.tn",
		}),

		CacheEnabled: getEnvBool("CACHE_ENABLED", true),
		RedisHost:    getEnv("REDIS_HOST", "localhost"),
		RedisPort:    getEnv("REDIS_PORT", "6379"),
		RedisTTL:     getEnvDuration("REDIS_TTL", 5*time.Minute),

		DBPath: getEnv("DB_PATH", "hotelbooking.db"),

		MyGOBaseURL:  getEnv("MYGO_BASE_URL", ""),
		MyGOLogin:    getEnv("MYGO_LOGIN", ""),
		MyGOPassword: getEnv("MYGO_PASSWORD", ""),
		MyGOTimeout:  getEnvDuration("MYGO_TIMEOUT", 10*time.Second),

		ClicToPayBaseURL:  getEnv("CLICTOPAY_BASE_URL", "https://test.clictopay.com/payment/rest"),
		ClicToPayUser:     getEnv("CLICTOPAY_USER", ""),
		ClicToPayPassword: getEnv("CLICTOPAY_PASSWORD", ""),
		WebhookSecret:     getEnv("CLICTOPAY_WEBHOOK_SECRET", ""),
		PaymentReturnURL:  getEnv("PAYMENT_RETURN_URL", "http://localhost:3000/payment/return"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
