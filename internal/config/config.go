package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	minSecretLength = 16
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port            string
	Env             string // development, test or production
	AppPath         string // "/" or "/prefix", never a trailing slash
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	TrustedOrigins  []string // CORS allowed origins
	// TrustProxy takes the client IP from X-Forwarded-For and friends.
	// Only enable it behind a proxy that overwrites those headers.
	TrustProxy bool
}

type DatabaseConfig struct {
	URL         string
	AutoMigrate bool
}

type RedisConfig struct {
	// URL is optional. Without it the rate limiter stays in-process.
	URL string
}

type AuthConfig struct {
	Secret      []byte
	TokenTTL    time.Duration
	TokenFormat string // jwt or paseto
}

type RateLimitConfig struct {
	Max    int
	Window time.Duration
}

// Load reads configuration from a .env file (if present) and the process environment.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from the given lookup function and validates it.
// All problems are reported together.
func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	env := envReader{lookup: lookup}

	cfg := &Config{
		Server: ServerConfig{
			Port:            env.get("PORT", "3000"),
			Env:             env.get("APP_ENV", EnvDevelopment),
			AppPath:         NormalizeAppPath(env.get("APP_PATH", "/")),
			ReadTimeout:     env.getSeconds("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    env.getSeconds("SERVER_WRITE_TIMEOUT", 10*time.Second),
			ShutdownTimeout: env.getSeconds("SERVER_SHUTDOWN_TIMEOUT", 15*time.Second),
			TrustedOrigins:  env.getSlice("TRUSTED_ORIGINS", nil),
			TrustProxy:      env.getBool("TRUST_PROXY", false),
		},
		Database: DatabaseConfig{
			URL:         env.get("DATABASE_URL", ""),
			AutoMigrate: env.getBool("DB_AUTO_MIGRATE", true),
		},
		Redis: RedisConfig{
			URL: env.get("REDIS_URL", ""),
		},
		Auth: AuthConfig{
			Secret:      []byte(env.get("JWT_SECRET", "")),
			TokenTTL:    env.getExpiresIn("JWT_EXPIRES_IN", "15m"),
			TokenFormat: strings.ToLower(env.get("TOKEN_FORMAT", "jwt")),
		},
		RateLimit: RateLimitConfig{
			Max:    env.getInt("RATE_LIMIT_MAX", 10),
			Window: env.getDuration("RATE_LIMIT_WINDOW", time.Minute),
		},
	}

	errs := env.errs
	switch cfg.Server.Env {
	case EnvDevelopment, EnvTest, EnvProduction:
	default:
		errs = append(errs, fmt.Errorf("APP_ENV must be one of development, test, production, got %q", cfg.Server.Env))
	}
	if port, err := strconv.Atoi(cfg.Server.Port); err != nil || port <= 0 {
		errs = append(errs, fmt.Errorf("PORT must be a positive integer, got %q", cfg.Server.Port))
	}
	if cfg.Database.URL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if len(cfg.Auth.Secret) < minSecretLength {
		errs = append(errs, fmt.Errorf("JWT_SECRET should be at least %d characters", minSecretLength))
	}
	if cfg.Auth.TokenFormat != "jwt" && cfg.Auth.TokenFormat != "paseto" {
		errs = append(errs, fmt.Errorf("TOKEN_FORMAT must be jwt or paseto, got %q", cfg.Auth.TokenFormat))
	}
	if cfg.RateLimit.Max <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_MAX must be positive"))
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid environment variables: %w", errors.Join(errs...))
	}

	return cfg, nil
}

// NormalizeAppPath turns messy path prefixes into "/" or "/something":
// "" -> "/", "api" -> "/api", "/api/" -> "/api".
func NormalizeAppPath(input string) string {
	raw := strings.TrimSpace(input)
	if raw == "" || raw == "/" {
		return "/"
	}

	if !strings.HasPrefix(raw, "/") {
		raw = "/" + raw
	}

	trimmed := strings.TrimRight(raw, "/")
	if trimmed == "" {
		return "/"
	}
	return trimmed
}

// ParseExpiresIn accepts Go durations ("15m", "1h30m"), days ("7d") and bare
// integers, which are read as seconds.
func ParseExpiresIn(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, errors.New("empty duration")
	}

	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds <= 0 {
			return 0, fmt.Errorf("duration must be positive: %q", value)
		}
		return time.Duration(seconds) * time.Second, nil
	}

	if days, ok := strings.CutSuffix(value, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("invalid day duration: %q", value)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", value, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive: %q", value)
	}
	return d, nil
}

// IsDevelopment returns true if the environment is set to development
func (c *ServerConfig) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// IsTest returns true when running under APP_ENV=test
func (c *ServerConfig) IsTest() bool {
	return c.Env == EnvTest
}

// Prefix returns the route prefix to mount under; empty for root.
func (c *ServerConfig) Prefix() string {
	if c.AppPath == "/" {
		return ""
	}
	return c.AppPath
}

type envReader struct {
	lookup func(string) (string, bool)
	errs   []error
}

func (e *envReader) get(key, defaultValue string) string {
	if value, ok := e.lookup(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return defaultValue
}

func (e *envReader) getInt(key string, defaultValue int) int {
	value := e.get(key, "")
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s must be an integer, got %q", key, value))
		return defaultValue
	}

	return intValue
}

func (e *envReader) getBool(key string, defaultValue bool) bool {
	value := e.get(key, "")
	if value == "" {
		return defaultValue
	}

	b, err := strconv.ParseBool(value)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s must be a boolean, got %q", key, value))
		return defaultValue
	}
	return b
}

// getSeconds reads an integer number of seconds
func (e *envReader) getSeconds(key string, defaultValue time.Duration) time.Duration {
	value := e.get(key, "")
	if value == "" {
		return defaultValue
	}

	seconds, err := strconv.Atoi(value)
	if err != nil || seconds <= 0 {
		e.errs = append(e.errs, fmt.Errorf("%s must be a positive number of seconds, got %q", key, value))
		return defaultValue
	}

	return time.Duration(seconds) * time.Second
}

func (e *envReader) getDuration(key string, defaultValue time.Duration) time.Duration {
	value := e.get(key, "")
	if value == "" {
		return defaultValue
	}

	d, err := ParseExpiresIn(value)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}
	return d
}

func (e *envReader) getExpiresIn(key, defaultValue string) time.Duration {
	d, err := ParseExpiresIn(e.get(key, defaultValue))
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %w", key, err))
		return 0
	}
	return d
}

func (e *envReader) getSlice(key string, defaultValue []string) []string {
	value := e.get(key, "")
	if value == "" {
		return defaultValue
	}

	// Split by comma and trim whitespace
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	if len(result) == 0 {
		return defaultValue
	}

	return result
}
