package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"product_dashboard/internal/logger"

	"github.com/joho/godotenv"
)

const DefaultSeedURL = "https://s3.amazonaws.com/roxiler.com/product_transaction.json"

const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type Config struct {
	AppPort    string
	AppVersion string

	StoreBackend string
	DatabaseURL  string
	DBMaxConns   int32

	SeedURL       string
	SeedTimeout   time.Duration
	SeedOnStartup bool
	SeedCron      string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisTLS      bool
	CacheTTL      time.Duration

	APIRateLimit  int
	APIRateWindow time.Duration

	AllowedOrigins []string

	LogLevel string
	LogJSON  bool
}

// Load reads the config from env (and .env when present). Missing required
// values are fatal; malformed optional values fall back to defaults.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		AppPort:    getEnv("APP_PORT", "8080"),
		AppVersion: getEnv("APP_VERSION", "dev"),

		StoreBackend: strings.ToLower(getEnv("STORE_BACKEND", BackendPostgres)),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DBMaxConns:   int32(getEnvInt("DB_MAX_CONNS", 10)),

		SeedURL:       getEnv("SEED_URL", DefaultSeedURL),
		SeedTimeout:   getEnvDuration("SEED_TIMEOUT", 30*time.Second),
		SeedOnStartup: os.Getenv("SEED_ON_STARTUP") == "true",
		SeedCron:      os.Getenv("SEED_CRON"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		RedisTLS:      os.Getenv("REDIS_TLS") == "true",
		CacheTTL:      getEnvDuration("CACHE_TTL", 5*time.Minute),

		APIRateLimit:  getEnvInt("API_RATE_LIMIT", 120),
		APIRateWindow: time.Duration(getEnvInt("API_RATE_WINDOW_SECONDS", 60)) * time.Second,

		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "*")),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogJSON:  os.Getenv("LOG_JSON") == "true",
	}

	switch cfg.StoreBackend {
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			logger.Fatal("DATABASE_URL is not set")
		}
	case BackendMemory:
	default:
		logger.Fatal("unknown STORE_BACKEND", "value", cfg.StoreBackend)
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
		logger.Warn("invalid integer env value, using default", "key", key, "value", v, "default", def)
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
		logger.Warn("invalid duration env value, using default", "key", key, "value", v, "default", def.String())
	}
	return def
}

// splitList parses a comma separated env value
func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
