package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadError_WrapsUnderlyingError(t *testing.T) {
	cause := errors.New("boom")
	err := NewLoadError("service.yaml", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "service.yaml")
	assert.Contains(t, err.Error(), "boom")
}
