package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// AppConfig aggregates runtime configuration. Everything comes from the
// environment so deployments never need a rebuild.
type AppConfig struct {
	HTTPAddr string
	GinMode  string

	// Database: "mysql" with a DSN in production, "sqlite" for local runs.
	DBDriver string
	DBDSN    string

	// Optional Redis-backed order numbering. Empty addr keeps the
	// database-counter allocator.
	RedisAddr string
	RedisDB   int

	// Where unresolvable QR scans land.
	FallbackURL string
	// Absolute origin printed into QR codes, e.g. https://bar.example.com.
	PublicBaseURL string

	// Provisioned table range (short links /t/1 .. /t/N).
	TableCount int

	// Web push (VAPID). Push delivery is skipped when the keys are unset.
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	VAPIDSubject    string
	PushTimeout     time.Duration

	// Submission rate limiting (requests per second per IP).
	SubmitRateLimit int
}

// Load reads and validates configuration, falling back to defaults.
func Load() (AppConfig, error) {
	cfg := AppConfig{
		HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
		GinMode:         getEnv("GIN_MODE", ""),
		DBDriver:        getEnv("DB_DRIVER", "sqlite"),
		DBDSN:           getEnv("DB_DSN", "barmenu.db"),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		FallbackURL:     getEnv("FALLBACK_URL", "/menu"),
		PublicBaseURL:   getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
		VAPIDPublicKey:  getEnv("VAPID_PUBLIC_KEY", ""),
		VAPIDPrivateKey: getEnv("VAPID_PRIVATE_KEY", ""),
		VAPIDSubject:    getEnv("VAPID_SUBJECT", "mailto:admin@localhost"),
		PushTimeout:     5 * time.Second,
		TableCount:      30,
		SubmitRateLimit: 10,
	}

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return AppConfig{}, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	cfg.RedisDB = redisDB

	tableCount, err := getEnvInt("TABLE_COUNT", cfg.TableCount)
	if err != nil {
		return AppConfig{}, fmt.Errorf("invalid TABLE_COUNT: %w", err)
	}
	if tableCount <= 0 {
		return AppConfig{}, fmt.Errorf("TABLE_COUNT must be > 0")
	}
	cfg.TableCount = tableCount

	pushTimeoutSec, err := getEnvInt("PUSH_TIMEOUT_SEC", int(cfg.PushTimeout.Seconds()))
	if err != nil {
		return AppConfig{}, fmt.Errorf("invalid PUSH_TIMEOUT_SEC: %w", err)
	}
	if pushTimeoutSec <= 0 {
		return AppConfig{}, fmt.Errorf("PUSH_TIMEOUT_SEC must be > 0")
	}
	cfg.PushTimeout = time.Duration(pushTimeoutSec) * time.Second

	rateLimit, err := getEnvInt("SUBMIT_RATE_LIMIT", cfg.SubmitRateLimit)
	if err != nil {
		return AppConfig{}, fmt.Errorf("invalid SUBMIT_RATE_LIMIT: %w", err)
	}
	if rateLimit <= 0 {
		return AppConfig{}, fmt.Errorf("SUBMIT_RATE_LIMIT must be > 0")
	}
	cfg.SubmitRateLimit = rateLimit

	if cfg.DBDriver != "mysql" && cfg.DBDriver != "sqlite" {
		return AppConfig{}, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	cfg.PublicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func getEnvInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}
