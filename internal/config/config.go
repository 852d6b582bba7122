package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Config struct {
	Port          string
	AllowedOrigin string
	DatabaseURL   string // Postgres DSN; takes precedence when set
	SQLitePath    string
	MaxUploadSize int64 // bytes
	TempUploadDir string
}

// Load reads configuration from the environment with local-dev defaults.
func Load() Config {
	return Config{
		Port:          getEnv("PORT", "8080"),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "http://localhost:3000"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		SQLitePath:    getEnv("SQLITE_PATH", "./data/kpi.db"),
		MaxUploadSize: getEnvInt64("MAX_UPLOAD_SIZE", 10<<20),
		TempUploadDir: getEnv("UPLOAD_TEMP_DIR", "./tmp/uploads"),
	}
}

// InitDB opens the shared store handle: Postgres when DATABASE_URL is set,
// otherwise a SQLite file at SQLitePath.
func InitDB(cfg Config) (*gorm.DB, error) {
	if cfg.DatabaseURL != "" {
		return gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	}

	if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return gorm.Open(sqlite.Open(cfg.SQLitePath), &gorm.Config{})
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		log.Printf("Invalid %s=%q, using default %d", key, v, fallback)
		return fallback
	}
	return n
}
