package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int
	LogLevel    string
	LogFormat   string
	Environment string
	DBUser      string
	DBPassword  string
	DBHost      string
	DBPort      string
	DBName      string
	APIKey      string // API key for authentication

	// Wagering settings
	FeeRate         float64 // Platform fee fraction of the pool, e.g. 0.05
	SettleChunkSize int     // Records settled per transaction
	DeadLetterPath  string  // JSONL file for events that exhausted retries
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:       getEnv("LOG_LEVEL", DefaultLogLevel),
		LogFormat:      getEnv("LOG_FORMAT", DefaultLogFormat),
		Environment:    getEnv("ENVIRONMENT", DefaultEnvironment),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPassword:     getEnv("DB_PASSWORD", "postgres"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBName:         getEnv("DB_NAME", DefaultDBName),
		APIKey:         getEnv("API_KEY", ""),
		DeadLetterPath: getEnv("DEAD_LETTER_PATH", DefaultDeadLetterPath),
	}

	port, err := getEnvInt("PORT", DefaultPort)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port

	feeRate, err := getEnvFloat("FEE_RATE", DefaultFeeRate)
	if err != nil {
		return nil, fmt.Errorf("invalid FEE_RATE value: %w", err)
	}
	if feeRate < 0 || feeRate >= 1 {
		return nil, fmt.Errorf("FEE_RATE must be in [0, 1), got %v", feeRate)
	}
	cfg.FeeRate = feeRate

	chunkSize, err := getEnvInt("SETTLE_CHUNK_SIZE", DefaultSettleChunkSize)
	if err != nil {
		return nil, fmt.Errorf("invalid SETTLE_CHUNK_SIZE value: %w", err)
	}
	if chunkSize < 1 {
		return nil, fmt.Errorf("SETTLE_CHUNK_SIZE must be positive, got %d", chunkSize)
	}
	cfg.SettleChunkSize = chunkSize

	// Validate API key is set
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API_KEY environment variable must be set for security")
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	return strconv.Atoi(value)
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	return strconv.ParseFloat(value, 64)
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
