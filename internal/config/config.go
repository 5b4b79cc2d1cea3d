package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		BookCache
		Provider
		Tasks
		Auth
		Feed
		CacheRepair
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path     string
		LogLevel string // silent, error, warn, info
	}
	BookCache struct {
		Dir string // Badger directory for resolved book metadata
	}
	Provider struct {
		Kind              string // "proxy" or "openlibrary"
		BaseURL           string
		Timeout           time.Duration
		RequestsPerSecond float64
		Burst             int
		UserAgent         string
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	Auth struct {
		SessionLifetime time.Duration
		BcryptCost      int
		SecureCookies   bool // Set to false for local dev without HTTPS

		MaxLoginAttempts int
		RateLimitWindow  time.Duration
		LockoutDuration  time.Duration
	}
	Feed struct {
		PageSize int
	}
	CacheRepair struct {
		Enabled  bool
		Schedule string // Cron format: "0 */6 * * *" = every 6 hours
	}
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_log_level", "warn")
	v.SetDefault("book_cache_dir", DefaultBookCachePath)

	// Metadata provider defaults
	v.SetDefault("provider_kind", ProviderProxy)
	v.SetDefault("provider_base_url", "http://127.0.0.1:8080")
	v.SetDefault("provider_timeout", "10s")
	v.SetDefault("provider_requests_per_second", 1.0)
	v.SetDefault("provider_burst", 1)
	v.SetDefault("provider_user_agent", "BookFriends/1.0")

	// Auth defaults
	v.SetDefault("auth_session_lifetime", "24h")
	v.SetDefault("auth_bcrypt_cost", 12)
	v.SetDefault("auth_secure_cookies", true)
	v.SetDefault("auth_max_login_attempts", 5)
	v.SetDefault("auth_rate_limit_window", "15m")
	v.SetDefault("auth_lockout_duration", "30m")

	v.SetDefault("feed_page_size", 10)

	v.SetDefault("cache_repair_enabled", false)
	v.SetDefault("cache_repair_schedule", "0 */6 * * *")

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
}

// NewConfig builds the configuration from environment variables and defaults.
func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)
	return fromViper(v)
}

// LoadConfig reads an optional config file (any format viper understands)
// and lets environment variables override it.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return NewConfig(), nil
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path:     v.GetString("DATABASE_PATH"),
			LogLevel: v.GetString("DATABASE_LOG_LEVEL"),
		},
		BookCache: BookCache{
			Dir: v.GetString("BOOK_CACHE_DIR"),
		},
		Provider: Provider{
			Kind:              v.GetString("PROVIDER_KIND"),
			BaseURL:           v.GetString("PROVIDER_BASE_URL"),
			Timeout:           v.GetDuration("PROVIDER_TIMEOUT"),
			RequestsPerSecond: v.GetFloat64("PROVIDER_REQUESTS_PER_SECOND"),
			Burst:             v.GetInt("PROVIDER_BURST"),
			UserAgent:         v.GetString("PROVIDER_USER_AGENT"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		Auth: Auth{
			SessionLifetime:  v.GetDuration("AUTH_SESSION_LIFETIME"),
			BcryptCost:       v.GetInt("AUTH_BCRYPT_COST"),
			SecureCookies:    v.GetBool("AUTH_SECURE_COOKIES"),
			MaxLoginAttempts: v.GetInt("AUTH_MAX_LOGIN_ATTEMPTS"),
			RateLimitWindow:  v.GetDuration("AUTH_RATE_LIMIT_WINDOW"),
			LockoutDuration:  v.GetDuration("AUTH_LOCKOUT_DURATION"),
		},
		Feed: Feed{
			PageSize: v.GetInt("FEED_PAGE_SIZE"),
		},
		CacheRepair: CacheRepair{
			Enabled:  v.GetBool("CACHE_REPAIR_ENABLED"),
			Schedule: v.GetString("CACHE_REPAIR_SCHEDULE"),
		},
	}
}
