package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/balagrajendran/purchase-management-sub001/internal/logger"
)

// Config holds application configuration values.
type Config struct {
	HTTPPort string

	DatabaseDriver string
	DatabaseDSN    string

	Secret            string
	AdminUsername     string
	AdminPasswordHash string

	CORSOrigins    []string
	RateLimitRPS   int
	RateLimitBurst int

	SettingsStrict bool

	LogLevel  string
	LogFormat string
	LogOutput string
}

// Load reads configuration from environment variables with reasonable defaults.
func Load() Config {
	cfg := Config{
		HTTPPort:          getEnv("HTTP_PORT", "8080"),
		DatabaseDriver:    strings.ToLower(getEnv("DATABASE_DRIVER", "sqlite")),
		DatabaseDSN:       os.Getenv("DATABASE_DSN"),
		Secret:            getEnv("SECRET", "dev_secret"),
		AdminUsername:     getEnv("ADMIN_USERNAME", "admin"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		CORSOrigins:       splitList(getEnv("CORS_ORIGINS", "*")),
		RateLimitRPS:      getInt("RATE_LIMIT_RPS", 0),
		RateLimitBurst:    getInt("RATE_LIMIT_BURST", 20),
		SettingsStrict:    getBool("SETTINGS_STRICT", false),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "console"),
		LogOutput:         getEnv("LOG_OUTPUT", "stdout"),
	}

	switch cfg.DatabaseDriver {
	case "sqlite", "pgx":
	case "postgres", "postgresql":
		cfg.DatabaseDriver = "pgx"
	default:
		log.Warn().Str("driver", cfg.DatabaseDriver).Msg("unknown DATABASE_DRIVER, defaulting to sqlite")
		cfg.DatabaseDriver = "sqlite"
	}

	if cfg.DatabaseDSN == "" {
		if cfg.DatabaseDriver == "pgx" {
			host := getEnv("DB_HOST", "localhost")
			user := getEnv("DB_USER", "postgres")
			dbPort := getEnv("DB_PORT", "5432")
			name := getEnv("DB_NAME", "backoffice")
			password := os.Getenv("DB_PASSWORD")
			cfg.DatabaseDSN = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, dbPort, name)
		} else {
			cfg.DatabaseDSN = "backoffice.db"
		}
	}

	// Validate that port is numeric.
	if _, err := strconv.Atoi(cfg.HTTPPort); err != nil {
		log.Warn().Str("value", cfg.HTTPPort).Msg("invalid HTTP_PORT, defaulting to 8080")
		cfg.HTTPPort = "8080"
	}

	return cfg
}

// AuthEnabled reports whether the API requires bearer tokens.
func (c Config) AuthEnabled() bool {
	return c.AdminPasswordHash != ""
}

// LoggerConfig returns the logging configuration derived from c.
func (c Config) LoggerConfig() logger.LogConfig {
	lc := logger.DefaultConfig()
	lc.Level = c.LogLevel
	lc.Format = c.LogFormat
	lc.Output = c.LogOutput
	return lc
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		log.Warn().Str("key", key).Str("value", raw).Msg("invalid integer, using default")
		return defaultValue
	}
	return n
}

func getBool(key string, defaultValue bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		log.Warn().Str("key", key).Str("value", raw).Msg("invalid boolean, using default")
		return defaultValue
	}
	return b
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
