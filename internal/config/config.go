package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// RateLimitRule is one limit/window pair. Window is expressed in
// milliseconds in config files to match the API envelope.
type RateLimitRule struct {
	Limit    int `mapstructure:"limit"`
	WindowMs int `mapstructure:"window_ms"`
}

// Window returns the rule's window as a duration.
func (r RateLimitRule) Window() time.Duration {
	return time.Duration(r.WindowMs) * time.Millisecond
}

// SecurityConfig is the process-wide security policy. Loaded once at startup
// and passed by explicit injection into each pipeline stage; stages never
// mutate it. The in-memory rate limiter this config drives is only correct
// for a single-instance deployment.
type SecurityConfig struct {
	RateLimitEnabled      bool `mapstructure:"rate_limit_enabled"`
	CSRFEnabled           bool `mapstructure:"csrf_enabled"`
	SecurityHeadersEnabled bool `mapstructure:"security_headers_enabled"`
	AuthValidationEnabled bool `mapstructure:"auth_validation_enabled"`

	ProtectedPaths []string `mapstructure:"protected_paths"`
	PublicPaths    []string `mapstructure:"public_paths"`
	StaticPaths    []string `mapstructure:"static_paths"`

	DefaultRateLimit RateLimitRule            `mapstructure:"default_rate_limit"`
	PathRateLimits   map[string]RateLimitRule `mapstructure:"path_rate_limits"`

	MaxRateLimitBuckets int `mapstructure:"max_rate_limit_buckets"` // LRU cap for bucket store; 0 = default
}

type Config struct {
	Port               int      `mapstructure:"port"`
	Production         bool     `mapstructure:"production"` // Secure cookies, strict CORS
	DatabasePath       string   `mapstructure:"database_path"`
	LogLevel           string   `mapstructure:"log_level"`
	AllowedOrigins     []string `mapstructure:"allowed_origins"`
	RequestTimeoutSec  int      `mapstructure:"request_timeout_sec"`  // HTTP read/write; 0 = use server default
	ShutdownTimeoutSec int      `mapstructure:"shutdown_timeout_sec"` // Graceful shutdown wait
	MaxBodyBytes       int64    `mapstructure:"max_body_bytes"`       // Max request body for standard API requests
	UploadMaxBodyBytes int64    `mapstructure:"upload_max_body_bytes"`

	AuthJWTSecret string `mapstructure:"auth_jwt_secret"`

	PredictionAPIURL         string  `mapstructure:"prediction_api_url"`
	PredictionAPIKey         string  `mapstructure:"prediction_api_key"`
	PredictionRatePerSec     float64 `mapstructure:"prediction_rate_per_sec"` // Outbound completion-API throttle; 0 = no limit
	PredictionRateBurst      int     `mapstructure:"prediction_rate_burst"`
	PredictionTimeoutSec     int     `mapstructure:"prediction_timeout_sec"`

	Security SecurityConfig `mapstructure:"security"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("/etc/finsmart/")
	viper.AddConfigPath("$HOME/.finsmart")
	viper.AddConfigPath(".")

	// Defaults
	viper.SetDefault("port", 8080)
	viper.SetDefault("production", false)
	viper.SetDefault("database_path", "./finsmart.db")
	viper.SetDefault("log_level", "info")
	viper.SetDefault("allowed_origins", []string{"*"})
	viper.SetDefault("request_timeout_sec", 30)
	viper.SetDefault("shutdown_timeout_sec", 15)
	viper.SetDefault("max_body_bytes", 512*1024)           // 512KB standard
	viper.SetDefault("upload_max_body_bytes", 5*1024*1024) // 5MB for uploads
	viper.SetDefault("auth_jwt_secret", "")
	viper.SetDefault("prediction_api_url", "")
	viper.SetDefault("prediction_api_key", "")
	viper.SetDefault("prediction_rate_per_sec", 2)
	viper.SetDefault("prediction_rate_burst", 5)
	viper.SetDefault("prediction_timeout_sec", 30)

	viper.SetDefault("security.rate_limit_enabled", true)
	viper.SetDefault("security.csrf_enabled", true)
	viper.SetDefault("security.security_headers_enabled", true)
	viper.SetDefault("security.auth_validation_enabled", true)
	viper.SetDefault("security.protected_paths", []string{"/api/predictions", "/api/portfolio", "/api/payments", "/api/backups", "/api/exports", "/api/users"})
	viper.SetDefault("security.public_paths", []string{"/api/auth", "/api/news/public", "/health", "/metrics"})
	viper.SetDefault("security.static_paths", []string{"/static", "/favicon.ico", "/health", "/metrics"})
	viper.SetDefault("security.default_rate_limit.limit", 100)
	viper.SetDefault("security.default_rate_limit.window_ms", int((15 * time.Minute).Milliseconds()))
	viper.SetDefault("security.path_rate_limits", map[string]interface{}{
		"/api/auth":      map[string]interface{}{"limit": 5, "window_ms": int((15 * time.Minute).Milliseconds())},
		"/api/predictions": map[string]interface{}{"limit": 10, "window_ms": int(time.Minute.Milliseconds())},
		"/api/sentiment": map[string]interface{}{"limit": 20, "window_ms": int(time.Minute.Milliseconds())},
		"/api/upload":    map[string]interface{}{"limit": 5, "window_ms": int(time.Hour.Milliseconds())},
	})
	viper.SetDefault("security.max_rate_limit_buckets", 100_000)

	// Environment variables
	viper.SetEnvPrefix("FINSMART")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found; using defaults and env vars
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// DefaultSecurity returns the built-in security policy. Tests construct
// pipelines from independent copies of this instead of sharing process state.
func DefaultSecurity() SecurityConfig {
	return SecurityConfig{
		RateLimitEnabled:       true,
		CSRFEnabled:            true,
		SecurityHeadersEnabled: true,
		AuthValidationEnabled:  true,
		ProtectedPaths:         []string{"/api/predictions", "/api/portfolio", "/api/payments", "/api/backups", "/api/exports", "/api/users"},
		PublicPaths:            []string{"/api/auth", "/api/news/public", "/health", "/metrics"},
		StaticPaths:            []string{"/static", "/favicon.ico", "/health", "/metrics"},
		DefaultRateLimit:       RateLimitRule{Limit: 100, WindowMs: int((15 * time.Minute).Milliseconds())},
		PathRateLimits: map[string]RateLimitRule{
			"/api/auth":        {Limit: 5, WindowMs: int((15 * time.Minute).Milliseconds())},
			"/api/predictions": {Limit: 10, WindowMs: int(time.Minute.Milliseconds())},
			"/api/sentiment":   {Limit: 20, WindowMs: int(time.Minute.Milliseconds())},
			"/api/upload":      {Limit: 5, WindowMs: int(time.Hour.Milliseconds())},
		},
		MaxRateLimitBuckets: 100_000,
	}
}
