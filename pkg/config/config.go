package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: todas as variáveis de ambiente são lidas aqui
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Data provider (Laboratório de Finanças)
	LabFin LabFinConfig

	// Strategy YAML (indicadores, feriados, tamanho da carteira)
	StrategyFile string

	// Database (optional portfolio history)
	Database DatabaseConfig

	// Redis (optional screening cache + session store)
	Redis RedisConfig

	// Sessions
	SessionTTL time.Duration

	// Scheduler
	SchedulerEnabled bool

	// Logging
	LogLevel  string
	LogFormat string
	LogFile   string // empty = stdout only
}

// LabFinConfig holds the data provider configuration
type LabFinConfig struct {
	BaseURL   string
	Token     string
	Timeout   time.Duration
	RateLimit int // requests per second, 0 = unlimited
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// Enabled reports whether a database URL was configured
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// Load reads configuration from environment variables
// ⭐ SSOT: só esta função chama os.Getenv()
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8501"),
		Env:  getEnv("ENV", "development"),

		LabFin: LabFinConfig{
			BaseURL:   getEnv("LABFIN_BASE_URL", "https://laboratoriodefinancas.com/api/v1"),
			Token:     getEnv("LABFIN_TOKEN", getEnv("TOKEN", "")),
			Timeout:   getEnvAsDuration("LABFIN_TIMEOUT", "60s"),
			RateLimit: getEnvAsInt("LABFIN_RATE_LIMIT", 5),
		},

		StrategyFile: getEnv("STRATEGY_FILE", ""),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 1),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		SessionTTL:       getEnvAsDuration("SESSION_TTL", "12h"),
		SchedulerEnabled: getEnvAsBool("SCHEDULER_ENABLED", false),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
		LogFile:   getEnv("LOG_FILE", ""),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	// O token é obrigatório: sem ele nenhuma chamada ao provedor funciona
	if c.LabFin.Token == "" {
		return fmt.Errorf("LABFIN_TOKEN is required")
	}

	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.LabFin.RateLimit < 0 {
		return fmt.Errorf("LABFIN_RATE_LIMIT must not be negative")
	}

	return nil
}

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
		"backend/.env",
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
