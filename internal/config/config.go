package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// GeminiAPIKey is optional: without it the service runs in offline mode
	// and every search takes the deterministic fallback path.
	GeminiAPIKey string

	// DatabaseURL selects the SQLite backend when set; otherwise records are
	// kept as JSON files under DataDir.
	DatabaseURL string
	DataDir     string

	HTTPPort  string
	LogLevel  string
	JWTSecret string

	SearchTimeout  time.Duration
	SearchRetries  int
	BlockedDomains []string
	PriceProbe     bool
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		DataDir:       getEnv("DATA_DIR", "data"),
		HTTPPort:      getEnv("HTTP_PORT", "8080"),
		LogLevel:      getEnv("LOG_LEVEL", "INFO"),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		SearchTimeout: time.Duration(getEnvAsInt("SEARCH_TIMEOUT_SECONDS", 20)) * time.Second,
		SearchRetries: getEnvAsInt("SEARCH_RETRIES", 2),
		PriceProbe:    getEnv("PRICE_PROBE", "") == "true",
	}

	if blocked := getEnv("BLOCKED_DOMAINS", ""); blocked != "" {
		for _, domain := range strings.Split(blocked, ",") {
			if domain = strings.TrimSpace(domain); domain != "" {
				cfg.BlockedDomains = append(cfg.BlockedDomains, domain)
			}
		}
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}
	if cfg.SearchTimeout <= 0 {
		return nil, fmt.Errorf("SEARCH_TIMEOUT_SECONDS must be positive")
	}

	return cfg, nil
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
