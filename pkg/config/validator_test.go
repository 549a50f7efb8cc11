package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	b := GetBuiltinConfig()
	return &Config{
		HTTP:      b.HTTP,
		Postgres:  b.Postgres,
		Redis:     b.Redis,
		CRM:       b.CRM,
		Resolver:  b.Resolver,
		Memory:    b.Memory,
		Feedback:  b.Feedback,
		Embedder:  b.Embedder,
		Slack:     &SlackConfig{},
		Retention: b.Retention,
	}
}

func TestValidateAll_BuiltinDefaultsPass(t *testing.T) {
	require.NoError(t, NewValidator(validConfig()).ValidateAll())
}

func TestValidateAll_RejectsEmptyBindAddress(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.BindAddress = ""
	assert.Error(t, NewValidator(cfg).ValidateAll())
}

func TestValidateAll_RejectsBadFallbackThreshold(t *testing.T) {
	cfg := validConfig()
	cfg.Resolver.FallbackThreshold = 1.5
	assert.Error(t, NewValidator(cfg).ValidateAll())
}

func TestValidateAll_RejectsZeroPendingCacheTTL(t *testing.T) {
	cfg := validConfig()
	cfg.Feedback.PendingCacheTTL = 0
	assert.Error(t, NewValidator(cfg).ValidateAll())
}

func TestValidateAll_RejectsEnabledSlackWithoutChannel(t *testing.T) {
	cfg := validConfig()
	cfg.Slack = &SlackConfig{Enabled: true}
	assert.Error(t, NewValidator(cfg).ValidateAll())
}

func TestValidateAll_AllowsEnabledSlackWithChannel(t *testing.T) {
	cfg := validConfig()
	cfg.Slack = &SlackConfig{Enabled: true, Channel: "#reviews"}
	assert.NoError(t, NewValidator(cfg).ValidateAll())
}

func TestValidateAll_RejectsUnknownModelMismatchPolicy(t *testing.T) {
	cfg := validConfig()
	cfg.Memory.ModelMismatchPolicy = "ignore"
	assert.Error(t, NewValidator(cfg).ValidateAll())
}

func TestValidateAll_RejectsNegativeEvictionCap(t *testing.T) {
	cfg := validConfig()
	cfg.Memory.EvictionCap = -1
	assert.Error(t, NewValidator(cfg).ValidateAll())
}
