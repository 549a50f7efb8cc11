package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromServiceConfig_ReadsPasswordFromEnv(t *testing.T) {
	t.Setenv("TEST_DB_PASSWORD", "secret")

	cfg, err := FromServiceConfig("localhost", 5432, "resolver", "resolver", "TEST_DB_PASSWORD", "disable")
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.Password)
	assert.Equal(t, 25, cfg.MaxOpenConns)
	assert.Equal(t, 10, cfg.MaxIdleConns)
	assert.Equal(t, 1*time.Hour, cfg.ConnMaxLifetime)
}

func TestFromServiceConfig_MissingPasswordFails(t *testing.T) {
	_, err := FromServiceConfig("localhost", 5432, "resolver", "resolver", "TEST_DB_PASSWORD_UNSET", "disable")
	require.Error(t, err)
}

func TestConfig_Validate_RejectsIdleExceedingOpen(t *testing.T) {
	cfg := Config{Password: "x", MaxOpenConns: 5, MaxIdleConns: 10}
	assert.Error(t, cfg.Validate())
}

func TestConfig_Validate_RejectsZeroMaxOpen(t *testing.T) {
	cfg := Config{Password: "x", MaxOpenConns: 0}
	assert.Error(t, cfg.Validate())
}
