package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	ServerPort string
	LogLevel   string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	DataFile string // flat-file store used when Postgres is unavailable

	Headless         bool
	UserAgent        string
	PageLoadTimeout  time.Duration
	OperationTimeout time.Duration

	MaxResultsCap   int
	EnrichRateLimit float64 // website fetches per second during enrichment
	EnrichTimeout   time.Duration
	QueryGuardTTL   time.Duration
}

// Load loads configuration from a .env file (when present) and environment
// variables.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "user"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "password"),
		PostgresDB:       getEnv("POSTGRES_DB", "leadgen"),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		RedisDB:          getEnvAsInt("REDIS_DB", 0),
		DataFile:         getEnv("DATA_FILE", "businesses_database.json"),
		Headless:         getEnvAsBool("HEADLESS", true),
		UserAgent:        getEnv("USER_AGENT", defaultUserAgent),
		PageLoadTimeout:  getEnvAsDuration("PAGE_LOAD_TIMEOUT_SECONDS", 60) * time.Second,
		OperationTimeout: getEnvAsDuration("OPERATION_TIMEOUT_SECONDS", 15) * time.Second,
		MaxResultsCap:    getEnvAsInt("MAX_RESULTS_CAP", 20),
		EnrichRateLimit:  getEnvAsFloat("ENRICH_RATE_LIMIT", 1.0),
		EnrichTimeout:    getEnvAsDuration("ENRICH_TIMEOUT_SECONDS", 10) * time.Second,
		QueryGuardTTL:    getEnvAsDuration("QUERY_GUARD_TTL_SECONDS", 300) * time.Second,
	}
}

const defaultUserAgent = `Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36`

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback int) time.Duration {
	return time.Duration(getEnvAsInt(key, fallback))
}
