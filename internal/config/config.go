package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all environment-driven settings
type Config struct {
	DBDriver string
	DBDSN    string

	ServerPort string
	JWTSecret  string

	// Path to the registration allow-list JSON file
	AllowlistFile string

	LogLevel    string
	LogDir      string
	LogRotation int // max size in MB before rotation

	// Buffer audit writes and flush on an interval instead of writing
	// one row per operation
	AuditBatch         bool
	AuditFlushInterval time.Duration
}

// Load reads configuration from the environment, with .env as a fallback
func Load() *Config {
	_ = godotenv.Load("configs/.env")

	cfg := &Config{
		DBDriver:      getEnv("DB_DRIVER", "postgres"),
		DBDSN:         os.Getenv("DB_DSN"),
		ServerPort:    getEnv("PORT", "8080"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		AllowlistFile: getEnv("ALLOWLIST_FILE", "user_data.json"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogDir:        os.Getenv("LOG_DIR"),
		LogRotation:   100,
		AuditBatch:    getEnv("AUDIT_BATCH", "false") == "true",
	}

	if v, err := strconv.Atoi(getEnv("LOG_ROTATION", "100")); err == nil && v > 0 {
		cfg.LogRotation = v
	}

	interval, err := time.ParseDuration(getEnv("AUDIT_FLUSH_INTERVAL", "5s"))
	if err != nil {
		interval = 5 * time.Second
	}
	cfg.AuditFlushInterval = interval

	if cfg.DBDSN == "" {
		host := getEnv("DB_HOST", "localhost")
		port := getEnv("DB_PORT", "5432")
		user := getEnv("DB_USER", "postgres")
		password := getEnv("DB_PASSWORD", "postgres")
		name := getEnv("DB_NAME", "postgres")
		sslMode := getEnv("DB_SSLMODE", "disable")
		cfg.DBDSN = "postgres://" + user + ":" + password + "@" + host + ":" + port + "/" + name + "?sslmode=" + sslMode
	}

	if cfg.JWTSecret == "" {
		if os.Getenv("GIN_MODE") == "release" {
			log.Fatal("FATAL: JWT_SECRET environment variable is required in production mode")
		}
		cfg.JWTSecret = "default_super_secret_key" // development fallback only
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
