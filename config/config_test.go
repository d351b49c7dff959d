package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 30*24*time.Hour, cfg.JWT.TTL)
	assert.Equal(t, "memory", cfg.Session.Backend)
	assert.Equal(t, 1000, cfg.RateLimit.Requests)
	assert.Equal(t, 5*time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, "Asia/Taipei", cfg.Locale.TimeZone)
	assert.Equal(t, "dev-secret", cfg.JWT.Secret)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := chdirTemp(t)
	yaml := "server:\n  port: 8081\njwt:\n  secret: from-file\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("MICROBLOG_SESSION_BACKEND=redis\n"), 0o600))
	t.Setenv("MICROBLOG_JWT_SECRET", "from-env")
	t.Cleanup(func() { _ = os.Unsetenv("MICROBLOG_SESSION_BACKEND") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, "redis", cfg.Session.Backend)
	assert.Equal(t, ":8081", cfg.Addr())
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			Server:   ServerConfig{Mode: "release"},
			Database: DatabaseConfig{Driver: "postgres"},
			Session:  SessionConfig{Backend: "redis"},
			JWT:      JWTConfig{Secret: "s", TTL: time.Hour},
			Locale:   LocaleConfig{TimeZone: "UTC"},
		}
	}

	c := base()
	assert.NoError(t, c.Validate())

	c = base()
	c.Database.Driver = "mysql"
	assert.Error(t, c.Validate())

	c = base()
	c.Session.Backend = "cookie"
	assert.Error(t, c.Validate())

	c = base()
	c.JWT.Secret = ""
	assert.Error(t, c.Validate())

	c = base()
	c.RateLimit = RateLimitConfig{Enabled: true}
	assert.Error(t, c.Validate())

	c = base()
	c.Locale.TimeZone = "Mars/Olympus"
	assert.Error(t, c.Validate())
}
