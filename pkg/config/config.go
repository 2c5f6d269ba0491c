// pkg/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	// Database connections
	Source *PostgresConfig // RDS holding users and orders tables
	Target *PostgresConfig // destination warehouse

	// Remote sources
	API           *StoreAPIConfig
	S3            *S3Config
	PDFURL        string
	DateEventsURL string

	// Logging
	LogLevel  string
	LogFormat string
}

// StoreAPIConfig holds the store API endpoints and the API-key header pair.
type StoreAPIConfig struct {
	CountEndpoint string // returns the total store count
	StoreEndpoint string // per-store endpoint, store number appended
	HeaderKey     string
	HeaderValue   string
}

// S3Config holds the object-storage location of the products CSV.
type S3Config struct {
	Region  string
	Address string // s3://bucket/key
}

// LoadConfig loads configuration from environment variables, optionally
// backfilled from a YAML credentials file named by DB_CREDS_FILE.
func LoadConfig() (*Config, error) {
	creds, err := loadCredsFile(os.Getenv("DB_CREDS_FILE"))
	if err != nil {
		return nil, fmt.Errorf("failed to load credentials file: %w", err)
	}

	lookup := func(key, defaultValue string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		if v, ok := creds[key]; ok && v != "" {
			return v
		}
		return defaultValue
	}

	cfg := &Config{
		PDFURL:        lookup("PDF_URL", ""),
		DateEventsURL: lookup("DATE_EVENTS_URL", ""),
		LogLevel:      lookup("LOG_LEVEL", "info"),
		LogFormat:     lookup("LOG_FORMAT", "json"),
	}

	sourceCfg, err := loadPostgresConfig("SOURCE", lookup)
	if err != nil {
		return nil, fmt.Errorf("failed to load source database configuration: %w", err)
	}
	cfg.Source = sourceCfg

	targetCfg, err := loadPostgresConfig("TARGET", lookup)
	if err != nil {
		return nil, fmt.Errorf("failed to load target database configuration: %w", err)
	}
	cfg.Target = targetCfg

	cfg.API = &StoreAPIConfig{
		CountEndpoint: lookup("STORE_COUNT_ENDPOINT", ""),
		StoreEndpoint: lookup("STORE_ENDPOINT", ""),
		HeaderKey:     lookup("STORE_API_HEADER_KEY", "x-api-key"),
		HeaderValue:   lookup("STORE_API_HEADER_VALUE", ""),
	}

	cfg.S3 = &S3Config{
		Region:  lookup("AWS_REGION", "eu-west-1"),
		Address: lookup("PRODUCTS_S3_ADDRESS", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures all required configuration is present and valid.
func (c *Config) Validate() error {
	if c.Source == nil {
		return errors.New("source database configuration is required")
	}
	if c.Target == nil {
		return errors.New("target database configuration is required")
	}
	if c.API == nil || c.API.CountEndpoint == "" || c.API.StoreEndpoint == "" {
		return errors.New("store API endpoints are required")
	}
	if c.S3 == nil || c.S3.Address == "" {
		return errors.New("products S3 address is required")
	}
	if c.PDFURL == "" {
		return errors.New("card details PDF URL is required")
	}
	if c.DateEventsURL == "" {
		return errors.New("date events URL is required")
	}
	return nil
}

// loadCredsFile parses an optional YAML file of string key/value pairs.
// An empty path yields an empty map.
func loadCredsFile(path string) (map[string]string, error) {
	if path == "" {
		return map[string]string{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	creds := make(map[string]string)
	if err := yaml.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return creds, nil
}

// Helper functions for environment variables

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
