package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandEnv_SubstitutesKnownVariable(t *testing.T) {
	t.Setenv("RESOLVER_TEST_VAR", "hello")
	out := ExpandEnv([]byte("value: ${RESOLVER_TEST_VAR}"))
	assert.Equal(t, "value: hello", string(out))
}

func TestExpandEnv_MissingVariableExpandsToEmpty(t *testing.T) {
	out := ExpandEnv([]byte("value: ${RESOLVER_DEFINITELY_UNSET}"))
	assert.Equal(t, "value: ", string(out))
}
