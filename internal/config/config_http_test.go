package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromEnv_HTTPDefaults(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	t.Setenv("UI_STATIC_DIR", "")

	cfg, err := NewFromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.HTTP.Addr)
	assert.Equal(t, []string{"*"}, cfg.HTTP.AllowedOrigins)
	assert.False(t, cfg.HTTP.UIEnabled())
}

func TestNewFromEnv_UIStaticDir(t *testing.T) {
	t.Setenv("UI_STATIC_DIR", "/srv/dreamsense/web")

	cfg, err := NewFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "/srv/dreamsense/web", cfg.HTTP.UIStaticDir)
	assert.True(t, cfg.HTTP.UIEnabled())
}

func TestNewFromEnv_AllowedOrigins(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:5173, ,https://dreams.example")

	cfg, err := NewFromEnv()
	require.NoError(t, err)

	assert.Equal(t, []string{"http://localhost:5173", "https://dreams.example"}, cfg.HTTP.AllowedOrigins)
}
