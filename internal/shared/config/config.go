package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration.
type Config struct {
	Port              string
	Env               string
	APIBaseURL        string
	PublicHost        string
	CORSAllowOrigin   []string
	SentryDSN         string
	SentryEnvironment string
	TracesSampleRate  float64
	ErrorSampleRate   float64
	APITimeout        time.Duration
	PollInterval      time.Duration
	PollMaxAttempts   int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dsn := os.Getenv("SENTRY_DSN")

	if env == "production" && dsn == "" {
		log.Printf("SENTRY_DSN is empty in production, monitoring is disabled")
	}

	return Config{
		Port:              getEnv("PORT", "8080"),
		Env:               env,
		APIBaseURL:        strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:8000"), "/"),
		PublicHost:        getEnv("PUBLIC_HOST", "localhost"),
		CORSAllowOrigin:   splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		SentryDSN:         dsn,
		SentryEnvironment: getEnv("SENTRY_ENVIRONMENT", env),
		TracesSampleRate:  getEnvFloat("SENTRY_TRACES_SAMPLE_RATE", 0.2),
		ErrorSampleRate:   getEnvFloat("SENTRY_ERROR_SAMPLE_RATE", 1.0),
		APITimeout:        time.Duration(getEnvInt("API_TIMEOUT_SECONDS", 30)) * time.Second,
		PollInterval:      time.Duration(getEnvInt("ANALYSIS_POLL_INTERVAL_MS", 2000)) * time.Millisecond,
		PollMaxAttempts:   getEnvInt("ANALYSIS_POLL_MAX_ATTEMPTS", 150),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func getEnvFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil || parsed < 0 || parsed > 1 {
		return def
	}
	return parsed
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}
