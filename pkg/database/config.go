package database

import (
	"fmt"
	"os"
	"time"
)

// Config holds database connection settings.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// FromServiceConfig builds a database.Config from the service's Postgres
// settings, reading the password from the environment variable the
// configuration names (PostgresConfig.PasswordEnv), with production-ready
// pool defaults.
func FromServiceConfig(host string, port int, database, user, passwordEnv, sslMode string) (Config, error) {
	cfg := Config{
		Host:            host,
		Port:            port,
		User:            user,
		Password:        os.Getenv(passwordEnv),
		Database:        database,
		SSLMode:         sslMode,
		MaxOpenConns:    25,
		MaxIdleConns:    10,
		ConnMaxLifetime: 1 * time.Hour,
		ConnMaxIdleTime: 15 * time.Minute,
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks if the configuration is usable.
func (c Config) Validate() error {
	if c.Password == "" {
		return fmt.Errorf("database password is required (check password_env)")
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		return fmt.Errorf("MaxIdleConns (%d) cannot exceed MaxOpenConns (%d)", c.MaxIdleConns, c.MaxOpenConns)
	}
	if c.MaxOpenConns < 1 {
		return fmt.Errorf("MaxOpenConns must be at least 1")
	}
	if c.MaxIdleConns < 0 {
		return fmt.Errorf("MaxIdleConns cannot be negative")
	}
	return nil
}
