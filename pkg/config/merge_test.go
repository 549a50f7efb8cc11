package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeOverBuiltin_EmptyUserConfigKeepsDefaults(t *testing.T) {
	builtin := GetBuiltinConfig()
	cfg, err := mergeOverBuiltin(builtin, &ServiceYAMLConfig{})
	require.NoError(t, err)

	assert.Equal(t, builtin.HTTP, cfg.HTTP)
	assert.Equal(t, builtin.CRM, cfg.CRM)
	assert.Equal(t, builtin.Resolver, cfg.Resolver)
}

func TestMergeOverBuiltin_PartialSectionOverridesOnlySetFields(t *testing.T) {
	builtin := GetBuiltinConfig()
	cfg, err := mergeOverBuiltin(builtin, &ServiceYAMLConfig{
		Resolver: &ResolverConfig{FallbackThreshold: 0.75},
	})
	require.NoError(t, err)

	assert.Equal(t, 0.75, cfg.Resolver.FallbackThreshold)
	assert.Equal(t, builtin.Resolver.StageOneK, cfg.Resolver.StageOneK)
}

func TestMergeOverBuiltin_NilSlackSectionKeepsDisabledDefault(t *testing.T) {
	builtin := GetBuiltinConfig()
	cfg, err := mergeOverBuiltin(builtin, &ServiceYAMLConfig{})
	require.NoError(t, err)

	require.NotNil(t, cfg.Slack)
	assert.False(t, cfg.Slack.Enabled)
}
