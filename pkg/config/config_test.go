// pkg/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setRequiredEnv populates the minimum environment LoadConfig needs.
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SOURCE_PG_USER", "source_user")
	t.Setenv("SOURCE_PG_PASSWORD", "source_pass")
	t.Setenv("SOURCE_PG_DATABASE", "source_db")
	t.Setenv("TARGET_PG_USER", "target_user")
	t.Setenv("TARGET_PG_PASSWORD", "target_pass")
	t.Setenv("TARGET_PG_DATABASE", "target_db")
	t.Setenv("STORE_COUNT_ENDPOINT", "https://api.example.com/number_stores")
	t.Setenv("STORE_ENDPOINT", "https://api.example.com/store_details/")
	t.Setenv("PRODUCTS_S3_ADDRESS", "s3://data-bucket/products.csv")
	t.Setenv("PDF_URL", "https://cdn.example.com/card_details.pdf")
	t.Setenv("DATE_EVENTS_URL", "https://cdn.example.com/date_details.json")
}

func TestLoadConfigFromEnv(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SOURCE_PG_HOST", "rds.example.com")
	t.Setenv("SOURCE_PG_PORT", "5433")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "rds.example.com", cfg.Source.Host)
	assert.Equal(t, 5433, cfg.Source.Port)
	assert.Equal(t, "source_user", cfg.Source.User)
	assert.Equal(t, "localhost", cfg.Target.Host)
	assert.Equal(t, 5432, cfg.Target.Port)
	assert.Equal(t, "x-api-key", cfg.API.HeaderKey)
	assert.Equal(t, "eu-west-1", cfg.S3.Region)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadConfigMissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PDF_URL", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PDF URL")
}

func TestLoadConfigCredsFileBackfill(t *testing.T) {
	setRequiredEnv(t)

	credsPath := filepath.Join(t.TempDir(), "db_creds.yaml")
	creds := "SOURCE_PG_HOST: creds.example.com\nSOURCE_PG_PASSWORD: from_file\n"
	require.NoError(t, os.WriteFile(credsPath, []byte(creds), 0o600))
	t.Setenv("DB_CREDS_FILE", credsPath)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	// The file backfills values the environment does not set, but the
	// environment wins when both are present.
	assert.Equal(t, "creds.example.com", cfg.Source.Host)
	assert.Equal(t, "source_pass", cfg.Source.Password)
}

func TestLoadConfigBadCredsFile(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DB_CREDS_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := LoadConfig()
	require.Error(t, err)
}

func TestPostgresConnectionString(t *testing.T) {
	cfg := &PostgresConfig{
		Host:     "db.example.com",
		Port:     5432,
		User:     "ingress",
		Password: "secret",
		Database: "warehouse",
		SSLMode:  "disable",
	}

	connStr := cfg.ConnectionString()
	assert.Contains(t, connStr, "host=db.example.com")
	assert.Contains(t, connStr, "port=5432")
	assert.Contains(t, connStr, "dbname=warehouse")
	assert.Contains(t, connStr, "sslmode=disable")
}
