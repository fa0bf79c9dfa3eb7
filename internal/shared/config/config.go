package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"groundwater-backend/internal/shared/telemetry"
)

// Catalog sources.
const (
	CatalogEmbedded = "embedded"
	CatalogLocal    = "local"
	CatalogS3       = "s3"
)

// Config holds application configuration.
type Config struct {
	Port             string
	CORSAllowOrigin  []string
	Env              string
	LogLevel         string
	DatabaseURL      string
	SeedDemoUsers    bool
	CatalogSource    string
	CatalogKey       string
	LocalStoreDir    string
	AWSRegion        string
	S3Bucket         string
	S3Prefix         string
	SSEKMSKeyID      string
	MaxMessageLength int
	ShutdownTimeout  time.Duration
	RateLimit        RateLimitConfig
}

// RateLimitConfig holds sliding-window quotas.
type RateLimitConfig struct {
	ChatWindow   time.Duration
	GuestQuota   int
	UserQuota    int
	AnalystQuota int
	AdminQuota   int
	LoginWindow  time.Duration
	LoginQuota   int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		telemetry.Warn("config.database_url_missing", map[string]any{"env": env})
	}

	return Config{
		Port:             getEnv("PORT", "8080"),
		CORSAllowOrigin:  splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		Env:              env,
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		DatabaseURL:      dbURL,
		SeedDemoUsers:    getEnvBool("SEED_DEMO_USERS", env != "production"),
		CatalogSource:    normalizeCatalogSource(getEnv("CATALOG_SOURCE", CatalogEmbedded)),
		CatalogKey:       getEnv("CATALOG_KEY", "catalog/regions.yaml"),
		LocalStoreDir:    getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:        getEnv("AWS_REGION", ""),
		S3Bucket:         getEnv("S3_BUCKET", ""),
		S3Prefix:         getEnv("S3_PREFIX", ""),
		SSEKMSKeyID:      getEnv("SSE_KMS_KEY_ID", ""),
		MaxMessageLength: getEnvInt("MAX_MESSAGE_LENGTH", 1000),
		ShutdownTimeout:  getEnvDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
		RateLimit: RateLimitConfig{
			ChatWindow:   getEnvDuration("RATE_LIMIT_WINDOW", time.Hour),
			GuestQuota:   getEnvInt("RATE_LIMIT_GUEST", 30),
			UserQuota:    getEnvInt("RATE_LIMIT_USER", 100),
			AnalystQuota: getEnvInt("RATE_LIMIT_ANALYST", 500),
			AdminQuota:   getEnvInt("RATE_LIMIT_ADMIN", 1000),
			LoginWindow:  getEnvDuration("LOGIN_RATE_WINDOW", 15*time.Minute),
			LoginQuota:   getEnvInt("LOGIN_RATE_LIMIT", 5),
		},
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
	val, err := strconv.Atoi(raw)
	if err != nil || val < 0 {
		telemetry.Warn("config.invalid_int", map[string]any{"key": key, "value": raw, "default": def})
		return def
	}
	return val
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := time.ParseDuration(raw)
	if err != nil || val <= 0 {
		telemetry.Warn("config.invalid_duration", map[string]any{"key": key, "value": raw, "default": def})
		return def
	}
	return val
}

func getEnvBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseBool(raw)
	if err != nil {
		telemetry.Warn("config.invalid_bool", map[string]any{"key": key, "value": raw, "default": def})
		return def
	}
	return val
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

func normalizeCatalogSource(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return CatalogS3
	case "local", "file":
		return CatalogLocal
	default:
		return CatalogEmbedded
	}
}
