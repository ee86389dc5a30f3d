// Package config loads service configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the service settings.
type Config struct {
	Port             string
	DBPath           string
	CORSOrigins      []string
	UploadRatePerMin int
	MaxUploadBytes   int64
	Debug            bool
}

// Load reads the environment. A missing .env file is fine; system
// environment variables always win.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		DBPath:           getEnv("DB_PATH", "./cardstash.db"),
		CORSOrigins:      []string{"http://localhost:5173", "http://localhost:3000"},
		UploadRatePerMin: getEnvInt("UPLOAD_RATE_PER_MIN", 30),
		MaxUploadBytes:   int64(getEnvInt("MAX_UPLOAD_MB", 10)) << 20,
		Debug:            getEnv("DEBUG", "") == "true",
	}
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		cfg.CORSOrigins = strings.Split(origins, ",")
	}
	if cfg.UploadRatePerMin < 1 {
		cfg.UploadRatePerMin = 1
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
