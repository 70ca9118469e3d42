package utils

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	t.Run("with nil values", func(t *testing.T) {
		config := NewConfig(nil)
		require.NotNil(t, config)
		assert.Len(t, config.Keys(), 0)
	})

	t.Run("with values", func(t *testing.T) {
		values := map[string]string{
			"key1": "value1",
			"key2": "value2",
		}
		config := NewConfig(values)

		assert.Equal(t, "value1", config.Get("key1"))
		assert.Equal(t, "value2", config.Get("key2"))

		// Verify it's a copy, not a reference
		values["key1"] = "modified"
		assert.NotEqual(t, "modified", config.Get("key1"))
	})
}

func TestNewConfigFromEnv(t *testing.T) {
	// Create a temporary .env file for testing
	envContent := "TEST_KEY1=test_value1\nTEST_KEY2=test_value2\n"
	tmpFile, err := os.CreateTemp("", "test_env_*.env")
	require.NoError(t, err)
	defer os.Remove(tmpFile.Name())

	_, err = tmpFile.WriteString(envContent)
	require.NoError(t, err)
	tmpFile.Close()

	config := NewConfigFromEnv(tmpFile.Name())

	require.NotNil(t, config)
	assert.Equal(t, "test_value1", config.Get("TEST_KEY1"))
	assert.Equal(t, "test_value2", config.Get("TEST_KEY2"))
}

func TestConfigGetWithDefault(t *testing.T) {
	config := NewConfig(map[string]string{
		"existing": "value",
		"empty":    "",
	})

	t.Run("existing key", func(t *testing.T) {
		assert.Equal(t, "value", config.GetWithDefault("existing", "fallback"))
	})

	t.Run("missing key", func(t *testing.T) {
		assert.Equal(t, "fallback", config.GetWithDefault("missing", "fallback"))
	})

	t.Run("empty value falls back", func(t *testing.T) {
		assert.Equal(t, "fallback", config.GetWithDefault("empty", "fallback"))
	})
}

func TestConfigGetInt(t *testing.T) {
	config := NewConfig(map[string]string{
		"number":  "42",
		"invalid": "not-a-number",
	})

	assert.Equal(t, 42, config.GetInt("number"))
	assert.Equal(t, 0, config.GetInt("invalid"))
	assert.Equal(t, 0, config.GetInt("missing"))

	assert.Equal(t, 42, config.GetIntWithDefault("number", 7))
	assert.Equal(t, 7, config.GetIntWithDefault("missing", 7))
}

func TestConfigGetBool(t *testing.T) {
	config := NewConfig(map[string]string{
		"true":    "true",
		"on":      "on",
		"off":     "whatever",
		"numeric": "1",
	})

	assert.True(t, config.GetBool("true"))
	assert.True(t, config.GetBool("on"))
	assert.True(t, config.GetBool("numeric"))
	assert.False(t, config.GetBool("off"))
	assert.False(t, config.GetBool("missing"))
}

func TestConfigHas(t *testing.T) {
	config := NewConfig(map[string]string{"key": ""})

	assert.True(t, config.Has("key"))
	assert.False(t, config.Has("missing"))
}
