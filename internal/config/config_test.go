package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jrsteele09/go-flight-admin/internal/config"
	"github.com/stretchr/testify/require"
)

func TestGetEnv_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("API_TIMEOUT", "")
	cfg := config.New()

	require.Equal(t, ":3000", cfg.GetPort())
	require.Equal(t, 15*time.Second, cfg.GetAPITimeout())
	require.False(t, cfg.GetFakeBackend())
}

func TestGetEnv_EnvironmentWins(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("API_TIMEOUT", "2s")
	t.Setenv("FAKE_BACKEND", "true")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")
	cfg := config.New()

	require.Equal(t, ":9090", cfg.GetPort())
	require.Equal(t, 2*time.Second, cfg.GetAPITimeout())
	require.True(t, cfg.GetFakeBackend())
	require.True(t, cfg.GetAllowedOrigins().IsAllowedOrigin("https://b.example"))
	require.Equal(t, "https://a.example, https://b.example", cfg.GetAllowedOrigins().String())
}

func TestGetEnv_MalformedFallsBack(t *testing.T) {
	t.Setenv("API_TIMEOUT", "soon")
	t.Setenv("FAKE_BACKEND", "maybe")
	cfg := config.New()

	require.Equal(t, 15*time.Second, cfg.GetAPITimeout())
	require.False(t, cfg.GetFakeBackend())
}

func TestLoadFile_Overlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api_base_url: https://reservas.example.com/api/v1
session_idle_timeout: 48h
secure_cookies: true
`), 0o600))
	require.NoError(t, config.LoadFile(path))
	t.Cleanup(func() {
		empty := filepath.Join(t.TempDir(), "empty.yaml")
		require.NoError(t, os.WriteFile(empty, []byte("{}"), 0o600))
		require.NoError(t, config.LoadFile(empty))
	})

	t.Setenv("API_BASE_URL", "")
	t.Setenv("SESSION_IDLE_TIMEOUT", "")
	t.Setenv("SECURE_COOKIES", "")
	cfg := config.New()
	require.Equal(t, "https://reservas.example.com/api/v1", cfg.GetAPIBaseURL())
	require.Equal(t, 48*time.Hour, cfg.GetSessionIdleTimeout())
	require.True(t, cfg.GetSecureCookies())

	t.Setenv("API_BASE_URL", "http://override/api/v1")
	require.Equal(t, "http://override/api/v1", cfg.GetAPIBaseURL())
}

func TestLoadFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_base_url: [unclosed"), 0o600))
	require.Error(t, config.LoadFile(path))
	require.Error(t, config.LoadFile(filepath.Join(t.TempDir(), "missing.yaml")))
}
