package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env             string
	HTTPAddr        string
	DatabaseURL     string
	SessionSecret   string
	AdminEmail      string
	AdminPassword   string
	RequestTimeout  time.Duration
	LoginRatePerMin int
	TemplateGlob    string
	Debug           bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	env := getEnv("ENV", "dev")

	addr := getEnv("HTTP_ADDR", "")
	if addr == "" {
		addr = ":" + getEnv("PORT", "5000")
	}

	cfg := &Config{
		Env:             env,
		HTTPAddr:        addr,
		DatabaseURL:     getEnv("DATABASE_URL", "logitransport.db"),
		SessionSecret:   getEnv("SESSION_SECRET", "dev-secret"),
		AdminEmail:      strings.ToLower(getEnv("ADMIN_EMAIL", "admin@example.com")),
		AdminPassword:   getEnv("ADMIN_PASSWORD", "Admin123!"),
		RequestTimeout:  getDurationEnv("REQUEST_TIMEOUT", 5*time.Second),
		LoginRatePerMin: getIntEnv("LOGIN_RATE_LIMIT_PER_MIN", 30),
		TemplateGlob:    getEnv("TEMPLATE_GLOB", "web/templates/*.html"),
		Debug:           getBoolEnv("DEBUG", env != "prod"),
	}

	if cfg.Env == "prod" && cfg.SessionSecret == "dev-secret" {
		return nil, fmt.Errorf("SESSION_SECRET is required in prod")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getBoolEnv(key string, fallback bool) bool {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(val)
	if err != nil {
		return fallback
	}
	return parsed
}
