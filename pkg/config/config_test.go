package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "http://localhost:9090/ui/", cfg.LessonAPI.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.LessonAPI.Timeout)
	assert.Equal(t, SessionStoreMemory, cfg.Session.Store)
	assert.Equal(t, []string{"en", "fr"}, cfg.Locale.Supported)
	assert.Equal(t, "gui/home", cfg.UI.HomeRoute)
	assert.Equal(t, 500, cfg.UI.DialogWidth)
	assert.Equal(t, []string{"http://localhost:9090"}, cfg.CORS.AllowedOrigins)
}

func TestLoadFromEnvironment(t *testing.T) {
	chdirTemp(t)
	t.Setenv("LESSON_API_URL", "https://lessons.example.com/ui/")
	t.Setenv("LESSON_API_TIMEOUT", "not-a-duration")
	t.Setenv("SESSION_STORE", "REDIS")
	t.Setenv("SUPPORTED_LOCALES", " fr , ,en")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://lessons.example.com/ui/", cfg.LessonAPI.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.LessonAPI.Timeout)
	assert.Equal(t, SessionStoreRedis, cfg.Session.Store)
	assert.Equal(t, []string{"fr", "en"}, cfg.Locale.Supported)
	assert.Equal(t, []string{"https://lessons.example.com"}, cfg.CORS.AllowedOrigins)
}

func TestExplicitAllowedOrigins(t *testing.T) {
	chdirTemp(t)
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
