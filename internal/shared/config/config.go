package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"resume-studio/internal/shared/telemetry"
)

const (
	defaultModel         = "gemini-2.5-pro"
	defaultMaxImageBytes = 10 << 20
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string

	GeminiAPIKey string
	LLMModel     string
	LLMTimeout   time.Duration

	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	SSEKMSKeyID     string

	SessionTTL      time.Duration
	JanitorInterval time.Duration
	MaxImageBytes   int64
	MaxImportBytes  int64

	GenerateRatePerMinute int
	GenerateBurst         int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	apiKey := firstEnv("GEMINI_API_KEY", "GOOGLE_API_KEY", "API_KEY")
	if apiKey == "" {
		telemetry.Warn("config.gemini_key_missing", map[string]any{
			"env":  env,
			"hint": "set GEMINI_API_KEY; generation will fail until then",
		})
	}

	ttl := time.Duration(getInt("SESSION_TTL_MINUTES", 60)) * time.Minute
	return Config{
		Port:            getEnv("PORT", "8080"),
		Env:             env,
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),

		GeminiAPIKey: apiKey,
		LLMModel:     getEnv("LLM_MODEL", defaultModel),
		LLMTimeout:   time.Duration(getInt("LLM_TIMEOUT_SECONDS", 120)) * time.Second,

		ObjectStoreType: normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:   getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:       getEnv("AWS_REGION", ""),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Prefix:        getEnv("S3_PREFIX", ""),
		SSEKMSKeyID:     getEnv("SSE_KMS_KEY_ID", ""),

		SessionTTL:      ttl,
		JanitorInterval: janitorInterval(ttl),
		MaxImageBytes:   int64(getInt("MAX_IMAGE_BYTES", defaultMaxImageBytes)),
		MaxImportBytes:  int64(getInt("MAX_IMPORT_BYTES", 5<<20)),

		GenerateRatePerMinute: getInt("GENERATE_RATE_PER_MINUTE", 6),
		GenerateBurst:         getInt("GENERATE_BURST", 3),
	}
}

func getEnv(key, def string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return def
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if val := getEnv(key, ""); val != "" {
			return val
		}
	}
	return ""
}

// getInt falls back to def for missing, malformed or non-positive values.
func getInt(key string, def int) int {
	raw := getEnv(key, "")
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		telemetry.Warn("config.invalid_int", map[string]any{"key": key, "value": raw, "default": def})
		return def
	}
	return n
}

func janitorInterval(ttl time.Duration) time.Duration {
	interval := ttl / 4
	if interval < time.Minute {
		return time.Minute
	}
	return interval
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
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}
