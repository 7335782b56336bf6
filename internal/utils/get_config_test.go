package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetConfig_EnvironmentOverridesYAML(t *testing.T) {
	config = Config{AppPort: "8080", GeminiModel: "gemini-1.5-flash"}
	t.Cleanup(func() { config = Config{} })

	t.Setenv("APP_PORT", "9090")

	assert.Equal(t, "9090", GetConfig("APP_PORT"))
	assert.Equal(t, "gemini-1.5-flash", GetConfig("GEMINI_MODEL"))
	assert.Equal(t, "", GetConfig("UNKNOWN_KEY"))
}

func TestGetConfigDefault(t *testing.T) {
	config = Config{}
	assert.Equal(t, "sqlite", GetConfigDefault("DB_DRIVER", "sqlite"))

	config.DBDriver = "postgres"
	t.Cleanup(func() { config = Config{} })
	assert.Equal(t, "postgres", GetConfigDefault("DB_DRIVER", "sqlite"))
}
