package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetBuiltinConfig_IsSingletonAndValid(t *testing.T) {
	a := GetBuiltinConfig()
	b := GetBuiltinConfig()
	assert.Same(t, a, b)

	assert.NotEmpty(t, a.HTTP.BindAddress)
	assert.NotEmpty(t, a.Embedder.ModelID)
	assert.Equal(t, "fail_fast", a.Memory.ModelMismatchPolicy)
}
