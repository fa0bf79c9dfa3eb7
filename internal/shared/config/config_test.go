package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	for _, key := range []string{"ENV", "PORT", "CATALOG_SOURCE", "RATE_LIMIT_WINDOW", "RATE_LIMIT_USER", "SEED_DEMO_USERS", "MAX_MESSAGE_LENGTH"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, CatalogEmbedded, cfg.CatalogSource)
	assert.Equal(t, 1000, cfg.MaxMessageLength)
	assert.True(t, cfg.SeedDemoUsers)
	assert.Equal(t, time.Hour, cfg.RateLimit.ChatWindow)
	assert.Equal(t, 100, cfg.RateLimit.UserQuota)
	assert.Equal(t, 500, cfg.RateLimit.AnalystQuota)
	assert.Equal(t, 1000, cfg.RateLimit.AdminQuota)
	assert.Equal(t, 5, cfg.RateLimit.LoginQuota)
	assert.Equal(t, 15*time.Minute, cfg.RateLimit.LoginWindow)
}

func TestLoadOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("ENV", "prod")
	t.Setenv("CATALOG_SOURCE", "S3")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("RATE_LIMIT_WINDOW", "10m")
	t.Setenv("RATE_LIMIT_GUEST", "3")
	t.Setenv("SEED_DEMO_USERS", "")

	cfg := Load()
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, CatalogS3, cfg.CatalogSource)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowOrigin)
	assert.Equal(t, 10*time.Minute, cfg.RateLimit.ChatWindow)
	assert.Equal(t, 3, cfg.RateLimit.GuestQuota)
	assert.False(t, cfg.SeedDemoUsers)
}

func TestInvalidValuesFallBack(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("RATE_LIMIT_USER", "lots")
	t.Setenv("LOGIN_RATE_WINDOW", "-1m")
	t.Setenv("SEED_DEMO_USERS", "maybe")
	t.Setenv("ENV", "dev")

	cfg := Load()
	assert.Equal(t, 100, cfg.RateLimit.UserQuota)
	assert.Equal(t, 15*time.Minute, cfg.RateLimit.LoginWindow)
	assert.True(t, cfg.SeedDemoUsers)
}

func TestLoadEnvFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("# comment\nGWQ_TEST_KEY=\"hello\"\nBROKEN LINE\n"), 0o644))
	t.Setenv("GWQ_TEST_KEY", "")

	loadEnvFiles(path, filepath.Join(dir, "missing.env"))
	assert.Equal(t, "hello", os.Getenv("GWQ_TEST_KEY"))
}

func TestParseEnvLine(t *testing.T) {
	tests := []struct {
		line string
		key  string
		val  string
		ok   bool
	}{
		{"PORT=9090", "PORT", "9090", true},
		{"export ENV=prod", "ENV", "prod", true},
		{"JWT_SECRET='s3cr=t'", "JWT_SECRET", "s3cr=t", true},
		{"  # PORT=1", "", "", false},
		{"NOVALUE", "", "", false},
		{"BAD KEY=1", "", "", false},
	}
	for _, tt := range tests {
		key, val, ok := parseEnvLine(tt.line)
		assert.Equal(t, tt.ok, ok, tt.line)
		assert.Equal(t, tt.key, key, tt.line)
		assert.Equal(t, tt.val, val, tt.line)
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (stand-in for testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
