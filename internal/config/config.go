// Package config loads application configuration from the environment and an optional .env file.
package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort  string `mapstructure:"SERVER_PORT"`
	MySQLDSN    string `mapstructure:"MYSQL_DSN"`
	RedisAddr   string `mapstructure:"REDIS_ADDR"`
	RedisDB     int    `mapstructure:"REDIS_DB"`
	RedisPass   string `mapstructure:"REDIS_PASSWORD"`
	SwaggerHost string `mapstructure:"SWAGGER_HOST"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`
	AutoMigrate bool   `mapstructure:"AUTO_MIGRATE"`

	// SessionSecret signs session tokens. NEXTAUTH_SECRET is accepted as a fallback name.
	SessionSecret string `mapstructure:"SESSION_SECRET"`
	// SessionMaxAge is the session token lifetime (e.g. "720h").
	SessionMaxAge string `mapstructure:"SESSION_MAX_AGE"`
	// SessionCookieName is the cookie carrying the signed session token.
	SessionCookieName string `mapstructure:"SESSION_COOKIE_NAME"`
	// SessionCookieSecure marks the session cookie Secure; enable behind TLS.
	SessionCookieSecure bool `mapstructure:"SESSION_COOKIE_SECURE"`
	// SignInPath is where unauthenticated browser requests are redirected.
	SignInPath string `mapstructure:"SIGN_IN_PATH"`
	// BcryptCost is the cost used when hashing seeded passwords (4-31).
	BcryptCost int `mapstructure:"BCRYPT_COST"`

	// SeedUsersURL optionally points cmd/seed at a JSON list of users.
	SeedUsersURL string `mapstructure:"SEED_USERS_URL"`
}

// Load reads .env (if present), then builds and validates Config from the environment.
// Env vars override .env.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // missing .env is fine

	v.AutomaticEnv()
	_ = v.BindEnv("SESSION_SECRET", "SESSION_SECRET", "NEXTAUTH_SECRET")

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("MYSQL_DSN", "user:password@tcp(localhost:3306)/jupiter?charset=utf8mb4&parseTime=True&loc=Local")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("SWAGGER_HOST", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("AUTO_MIGRATE", true)
	v.SetDefault("SESSION_MAX_AGE", "720h")
	v.SetDefault("SESSION_COOKIE_NAME", "jupiter.session-token")
	v.SetDefault("SESSION_COOKIE_SECURE", false)
	v.SetDefault("SIGN_IN_PATH", "/login")
	v.SetDefault("BCRYPT_COST", 10)
	v.SetDefault("SEED_USERS_URL", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.SessionSecret == "" {
		return nil, errors.New("config: SESSION_SECRET (or NEXTAUTH_SECRET) must be set")
	}
	if cfg.ServerPort == "" {
		return nil, errors.New("config: SERVER_PORT must be set")
	}
	if cfg.SignInPath == "" || cfg.SignInPath[0] != '/' {
		return nil, errors.New("config: SIGN_IN_PATH must be an absolute path")
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return nil, errors.New("config: BCRYPT_COST must be between 4 and 31")
	}

	return &cfg, nil
}

// SessionTTL parses SessionMaxAge. Returns 30 days if unset or invalid.
func (c *Config) SessionTTL() time.Duration {
	d, err := time.ParseDuration(c.SessionMaxAge)
	if err != nil || d <= 0 {
		return 30 * 24 * time.Hour
	}
	return d
}
