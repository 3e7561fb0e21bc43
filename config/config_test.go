package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	t.Setenv("LITURGICAL_CONFIG", path)
}

func TestLoadFromFile(t *testing.T) {
	writeConfig(t, `
port: "8080"
scriptura_url: http://verses.local
bible_version: web
vcom: "-1.48"
delegate_parsing: true
`)
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "http://verses.local", cfg.ScripturaURL)
	assert.Equal(t, "web", cfg.BibleVersion)
	assert.Equal(t, "-1.48", cfg.VCOM)
	assert.True(t, cfg.DelegateParsing)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("LITURGICAL_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "kjv", cfg.BibleVersion)
	assert.Equal(t, "https://api.scriptura-api.com", cfg.ScripturaURL)
	assert.Equal(t, "epdraw", cfg.EpdrawPath)
}

func TestEnvOverridesFile(t *testing.T) {
	writeConfig(t, `
port: "8080"
bible_version: web
`)
	t.Setenv("PORT", "9999")
	t.Setenv("BIBLE_VERSION", "kjv")
	t.Setenv("DELEGATE_PARSING", "true")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, "kjv", cfg.BibleVersion)
	assert.True(t, cfg.DelegateParsing)
}

func TestRateLimitSettings(t *testing.T) {
	t.Setenv("LITURGICAL_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.RateLimitMaxRequests)
	assert.Equal(t, 900000, cfg.RateLimitWindowMS)
	assert.Equal(t, 5, cfg.AdminRateLimitMax)

	t.Setenv("RATE_LIMIT_MAX_REQUESTS", "7")
	t.Setenv("ADMIN_RATE_LIMIT_WINDOW_MS", "60000")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.RateLimitMaxRequests)
	assert.Equal(t, 60000, cfg.AdminRateLimitWindowMS)
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.Validate())

	cfg.JWTSecret = "short"
	assert.Error(t, cfg.Validate())

	cfg.JWTSecret = "0123456789abcdef0123456789abcdef"
	assert.NoError(t, cfg.Validate())
}
