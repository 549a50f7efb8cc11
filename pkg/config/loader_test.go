package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeServiceYAML(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "service.yaml"), []byte(content), 0o644))
	return dir
}

func TestInitialize_DefaultsWhenSectionsOmitted(t *testing.T) {
	dir := writeServiceYAML(t, "http:\n  bind_address: \":9090\"\n")

	cfg, err := Initialize(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTP.BindAddress)
	assert.Equal(t, 5432, cfg.Postgres.Port)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address)
	assert.Equal(t, 0.20, cfg.CRM.GoalAlignmentBoost)
	assert.Equal(t, 0.6, cfg.Resolver.FallbackThreshold)
	assert.Equal(t, "fail_fast", cfg.Memory.ModelMismatchPolicy)
	assert.Equal(t, "hashing-embedder-v1", cfg.Embedder.ModelID)
}

func TestInitialize_UserOverridesCRMWeight(t *testing.T) {
	dir := writeServiceYAML(t, "crm:\n  goal_alignment_boost: 0.5\n")

	cfg, err := Initialize(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 0.5, cfg.CRM.GoalAlignmentBoost)
	// Untouched weights keep their built-in default.
	assert.Equal(t, 0.15, cfg.CRM.AssociationHistoryBoost)
}

func TestInitialize_ExpandsEnvVars(t *testing.T) {
	t.Setenv("RESOLVER_REDIS_ADDR", "redis.internal:6379")
	dir := writeServiceYAML(t, "redis:\n  address: \"${RESOLVER_REDIS_ADDR}\"\n")

	cfg, err := Initialize(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, "redis.internal:6379", cfg.Redis.Address)
}

func TestInitialize_MissingFile(t *testing.T) {
	_, err := Initialize(context.Background(), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load configuration")
}

func TestInitialize_InvalidModelMismatchPolicyFailsValidation(t *testing.T) {
	dir := writeServiceYAML(t, "memory:\n  model_mismatch_policy: \"bogus\"\n")

	_, err := Initialize(context.Background(), dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration validation failed")
}

func TestInitialize_InvalidPortFailsValidation(t *testing.T) {
	dir := writeServiceYAML(t, "postgres:\n  port: 70000\n")

	_, err := Initialize(context.Background(), dir)
	require.Error(t, err)
}
