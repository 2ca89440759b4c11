package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCSV(t *testing.T) {
	t.Parallel()

	assert.Nil(t, CSV(""))
	assert.Equal(t, []string{"a"}, CSV("a"))
	assert.Equal(t, []string{"a", "b"}, CSV("a, b"))
	assert.Equal(t, []string{"a", "b"}, CSV("a,,b,"))
}

func TestEnvDefault(t *testing.T) {
	t.Setenv("STOREFRONT_TEST_KEY", "set")

	assert.Equal(t, "set", EnvDefault("STOREFRONT_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", EnvDefault("STOREFRONT_TEST_MISSING", "fallback"))
}

func TestEnvIntDefault(t *testing.T) {
	t.Setenv("STOREFRONT_TEST_INT", "42")
	t.Setenv("STOREFRONT_TEST_BAD_INT", "forty-two")

	assert.Equal(t, 42, EnvIntDefault("STOREFRONT_TEST_INT", 7))
	assert.Equal(t, 7, EnvIntDefault("STOREFRONT_TEST_BAD_INT", 7))
	assert.Equal(t, 7, EnvIntDefault("STOREFRONT_TEST_INT_MISSING", 7))
}
