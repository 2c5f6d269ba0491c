// pkg/config/database.go
package config

import (
	"fmt"
	"time"
)

// PostgresConfig holds PostgreSQL connection parameters.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string

	// Connection pool settings
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration

	// Statement timeout
	StatementTimeout time.Duration
}

// loadPostgresConfig loads a PostgreSQL configuration under an environment
// prefix (SOURCE_ or TARGET_), falling back to the credentials file through
// the lookup function.
func loadPostgresConfig(prefix string, lookup func(key, defaultValue string) string) (*PostgresConfig, error) {
	user := lookup(prefix+"_PG_USER", "")
	if user == "" {
		return nil, fmt.Errorf("%s_PG_USER is required", prefix)
	}

	password := lookup(prefix+"_PG_PASSWORD", "")
	if password == "" {
		return nil, fmt.Errorf("%s_PG_PASSWORD is required", prefix)
	}

	database := lookup(prefix+"_PG_DATABASE", "")
	if database == "" {
		return nil, fmt.Errorf("%s_PG_DATABASE is required", prefix)
	}

	port := 5432
	if p := lookup(prefix+"_PG_PORT", ""); p != "" {
		if _, err := fmt.Sscanf(p, "%d", &port); err != nil {
			return nil, fmt.Errorf("invalid %s_PG_PORT %q", prefix, p)
		}
	}

	cfg := &PostgresConfig{
		Host:     lookup(prefix+"_PG_HOST", "localhost"),
		Port:     port,
		User:     user,
		Password: password,
		Database: database,
		SSLMode:  lookup(prefix+"_PG_SSLMODE", "disable"),

		MaxOpenConns:     getEnvAsInt(prefix+"_PG_MAX_OPEN_CONNS", 25),
		MaxIdleConns:     getEnvAsInt(prefix+"_PG_MAX_IDLE_CONNS", 10),
		ConnMaxLifetime:  time.Duration(getEnvAsInt(prefix+"_PG_CONN_MAX_LIFETIME_SECONDS", 1800)) * time.Second,
		ConnMaxIdleTime:  time.Duration(getEnvAsInt(prefix+"_PG_CONN_MAX_IDLE_TIME_SECONDS", 600)) * time.Second,
		StatementTimeout: time.Duration(getEnvAsInt(prefix+"_PG_STATEMENT_TIMEOUT_SECONDS", 300)) * time.Second,
	}

	return cfg, nil
}

// ConnectionString returns a formatted PostgreSQL connection string.
func (c *PostgresConfig) ConnectionString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host,
		c.Port,
		c.User,
		c.Password,
		c.Database,
		c.SSLMode,
	)
}
