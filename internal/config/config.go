package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultJWTSecret = "change-me"

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort  string `mapstructure:"PORT"`
	JWTSecret   string `mapstructure:"JWT_SECRET"`
	DBDriver    string `mapstructure:"DB_DRIVER"`
	DBDSN       string `mapstructure:"DB_DSN"`
	RedisAddr   string `mapstructure:"REDIS_ADDR"`
	RedisPass   string `mapstructure:"REDIS_PASSWORD"`
	RedisDB     int    `mapstructure:"REDIS_DB"`
	NATSURL     string `mapstructure:"NATS_URL"`
	SwaggerHost string `mapstructure:"SWAGGER_HOST"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`

	UploadDir   string `mapstructure:"UPLOAD_DIR"`
	MaxUploadMB int    `mapstructure:"MAX_UPLOAD_MB"`

	FeedCacheTTL        time.Duration `mapstructure:"FEED_CACHE_TTL"`
	CommentListLimit    int           `mapstructure:"COMMENT_LIST_LIMIT"`
	CommentsRequirePost bool          `mapstructure:"COMMENTS_REQUIRE_POST"`

	AdminRequireRole bool   `mapstructure:"ADMIN_REQUIRE_ROLE"`
	AdminUsernames   string `mapstructure:"ADMIN_USERNAMES"`
}

// Load builds Config from a .env file (if any) and the environment, with sensible defaults.
func Load() (*Config, error) {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "5000")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("DB_DRIVER", "mysql")
	v.SetDefault("DB_DSN", "user:password@tcp(localhost:3306)/social_media_platform?charset=utf8mb4&parseTime=True&loc=UTC")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("NATS_URL", "")
	v.SetDefault("SWAGGER_HOST", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("MAX_UPLOAD_MB", 10)
	v.SetDefault("FEED_CACHE_TTL", "30s")
	v.SetDefault("COMMENT_LIST_LIMIT", 0)
	v.SetDefault("COMMENTS_REQUIRE_POST", false)
	v.SetDefault("ADMIN_REQUIRE_ROLE", false)
	v.SetDefault("ADMIN_USERNAMES", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	if c.ServerPort == "" {
		return errors.New("PORT is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	switch c.DBDriver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.MaxUploadMB <= 0 {
		return errors.New("MAX_UPLOAD_MB must be positive")
	}
	if c.FeedCacheTTL < 0 {
		return errors.New("FEED_CACHE_TTL must not be negative")
	}
	if c.JWTSecret == defaultJWTSecret || len(c.JWTSecret) < 32 {
		slog.Warn("JWT_SECRET is the default or shorter than 32 characters")
	}
	return nil
}

// AdminUsernameList returns the usernames granted the admin role at registration.
func (c *Config) AdminUsernameList() []string {
	var names []string
	for _, name := range strings.Split(c.AdminUsernames, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// MaxUploadBytes is MaxUploadMB in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) * 1024 * 1024
}

// SlogLevel maps LogLevel onto a slog.Level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
