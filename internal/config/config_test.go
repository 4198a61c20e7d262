package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("PORT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.ServerPort)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, "uploads", cfg.UploadDir)
	assert.Equal(t, 10, cfg.MaxUploadMB)
	assert.Equal(t, 30*time.Second, cfg.FeedCacheTTL)
	assert.Equal(t, 0, cfg.CommentListLimit)
	assert.False(t, cfg.AdminRequireRole)
	assert.False(t, cfg.CommentsRequirePost)
	assert.Empty(t, cfg.NATSURL)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_SECRET", "a-very-long-secret-value-for-tests-0123456789")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_DSN", "file::memory:")
	t.Setenv("FEED_CACHE_TTL", "2m")
	t.Setenv("COMMENT_LIST_LIMIT", "50")
	t.Setenv("ADMIN_REQUIRE_ROLE", "true")
	t.Setenv("ADMIN_USERNAMES", " root, alice ,,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 2*time.Minute, cfg.FeedCacheTTL)
	assert.Equal(t, 50, cfg.CommentListLimit)
	assert.True(t, cfg.AdminRequireRole)
	assert.Equal(t, []string{"root", "alice"}, cfg.AdminUsernameList())
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{ServerPort: "5000", JWTSecret: "secret", DBDriver: "mysql", MaxUploadMB: 10}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing port", mutate: func(c *Config) { c.ServerPort = "" }, wantErr: "PORT is required"},
		{name: "missing secret", mutate: func(c *Config) { c.JWTSecret = "" }, wantErr: "JWT_SECRET is required"},
		{name: "unknown driver", mutate: func(c *Config) { c.DBDriver = "mongo" }, wantErr: "unsupported DB_DRIVER"},
		{name: "zero upload size", mutate: func(c *Config) { c.MaxUploadMB = 0 }, wantErr: "MAX_UPLOAD_MB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestSlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, (&Config{LogLevel: "DEBUG"}).SlogLevel())
	assert.Equal(t, slog.LevelWarn, (&Config{LogLevel: "warning"}).SlogLevel())
	assert.Equal(t, slog.LevelInfo, (&Config{LogLevel: ""}).SlogLevel())
	assert.Equal(t, int64(3*1024*1024), (&Config{MaxUploadMB: 3}).MaxUploadBytes())
}
