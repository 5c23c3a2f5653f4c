package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string
	RedisURL    string

	StoragePath    string
	StorageBaseURL string

	PlannerAPIKey  string
	PlannerModel   string
	PlannerBaseURL string

	RenderAPIKey  string
	RenderBaseURL string
	VideoAPIKey   string
	VideoBaseURL  string

	PollInterval        time.Duration
	PollTimeout         time.Duration
	ProviderConcurrency int

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int
	AllowedOrigins   []string
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:      getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),

		StoragePath:    getEnv("STORAGE_PATH", "./storage"),
		StorageBaseURL: getEnv("STORAGE_BASE_URL", "http://localhost:8080/static"),

		PlannerAPIKey:  os.Getenv("PLANNER_API_KEY"),
		PlannerModel:   getEnv("PLANNER_MODEL", "gemini-2.5-flash"),
		PlannerBaseURL: getEnv("PLANNER_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),

		RenderAPIKey:  os.Getenv("RENDER_API_KEY"),
		RenderBaseURL: getEnv("RENDER_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		VideoAPIKey:   os.Getenv("VIDEO_API_KEY"),
		VideoBaseURL:  getEnv("VIDEO_BASE_URL", "https://api.video-render.example.com/v1"),

		PollInterval:        time.Second * time.Duration(getEnvInt("VIDEO_POLL_INTERVAL_SECONDS", 5)),
		PollTimeout:         time.Second * time.Duration(getEnvInt("VIDEO_POLL_TIMEOUT_SECONDS", 240)),
		ProviderConcurrency: getEnvInt("PROVIDER_MAX_CONCURRENCY", 4),

		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 60)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
		AllowedOrigins:   splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
