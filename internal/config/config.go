package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	API     APIConfig
	Server  ServerConfig
	Storage StorageConfig
}

// APIConfig holds settings for the placeholder API client
type APIConfig struct {
	BaseURL          string        `validate:"required,url"`
	Timeout          time.Duration `validate:"gte=0"`
	FetchConcurrency int           `validate:"gte=1"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port int `validate:"gte=1,lte=65535"`
}

// StorageConfig holds refresh-log storage configuration
type StorageConfig struct {
	Type        string `validate:"oneof=memory dynamodb mongodb postgresql badger"`
	Region      string // For AWS DynamoDB
	TableName   string `validate:"required"`
	Endpoint    string // Custom endpoint for local testing
	MongoDBURI  string
	PostgresURI string
	BadgerPath  string
}

// Load loads configuration from environment variables with defaults.
// A .env file in the working directory is read first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}

	cfg := &Config{
		API: APIConfig{
			BaseURL:          getEnv("API_BASE_URL", "https://jsonplaceholder.typicode.com"),
			Timeout:          getEnvDuration("API_TIMEOUT", 30*time.Second),
			FetchConcurrency: getEnvInt("FETCH_CONCURRENCY", 4),
		},
		Server: ServerConfig{
			Port: getEnvInt("SERVER_PORT", 8080),
		},
		Storage: StorageConfig{
			Type:        getEnv("STORAGE_TYPE", "memory"),
			Region:      getEnv("AWS_REGION", "us-west-2"),
			TableName:   getEnv("TABLE_NAME", "refresh_log"),
			Endpoint:    getEnv("DYNAMODB_ENDPOINT", ""), // For local DynamoDB
			MongoDBURI:  getEnv("MONGODB_URI", ""),
			PostgresURI: getEnv("POSTGRES_URI", ""),
			BadgerPath:  getEnv("BADGER_PATH", "data/refresh_log"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the struct tags of every section
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
