package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is stripped from environment variables; the first underscore after it
// separates the section from the key, e.g. APP_AUTH_JWT_SECRET -> auth.jwt_secret.
const EnvPrefix = "APP_"

// Config holds all application configuration.
type Config struct {
	Database DatabaseConfig `koanf:"database"`
	GRPC     GRPCConfig     `koanf:"grpc"`
	Metrics  MetricsConfig  `koanf:"metrics"`
	Auth     AuthConfig     `koanf:"auth"`
	Redis    RedisConfig    `koanf:"redis"`
	Session  SessionConfig  `koanf:"session"`
	Log      LogConfig      `koanf:"log"`
}

// DatabaseConfig contains database-related settings.
type DatabaseConfig struct {
	DSN          string `koanf:"dsn" validate:"required"` // SQLite path or postgres:// URL
	QueryTimeout int    `koanf:"query_timeout" validate:"min=1"`
}

// GRPCConfig contains gRPC server settings.
type GRPCConfig struct {
	Address string `koanf:"address" validate:"required"` // e.g. ":50051"
}

// MetricsConfig contains the ops HTTP listener (/metrics, /healthz).
type MetricsConfig struct {
	Address string `koanf:"address"` // empty disables the listener
}

// AuthConfig contains authentication settings.
type AuthConfig struct {
	JWTSecret  string `koanf:"jwt_secret" validate:"required"`
	TokenTTL   int    `koanf:"token_ttl" validate:"min=1"` // seconds
	BcryptCost int    `koanf:"bcrypt_cost"`

	// Bootstrap admin, created or promoted at startup when both are set.
	AdminEmail    string `koanf:"admin_email" validate:"omitempty,email"`
	AdminPassword string `koanf:"admin_password"`
}

// RedisConfig points the session store at Redis; empty Address keeps sessions in memory.
type RedisConfig struct {
	Address  string `koanf:"address"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

// SessionConfig contains session lifetime settings.
type SessionConfig struct {
	TTL int `koanf:"ttl" validate:"min=1"` // seconds
}

// LogConfig contains zerolog settings.
type LogConfig struct {
	Level  string `koanf:"level" validate:"omitempty,oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"omitempty,oneof=json console"`
}

func defaults() *Config {
	return &Config{
		Database: DatabaseConfig{DSN: "app.db", QueryTimeout: 3},
		GRPC:     GRPCConfig{Address: ":50051"},
		Metrics:  MetricsConfig{Address: ":9090"},
		Auth:     AuthConfig{TokenTTL: 3600},
		Session:  SessionConfig{TTL: 14 * 24 * 3600},
		Log:      LogConfig{Level: "info", Format: "console"},
	}
}

// Load loads configuration from APP_* environment variables (and a .env file, if present)
// over the defaults. APP_AUTH_JWT_SECRET is required.
func Load() (*Config, error) {
	return load(defaults())
}

// LoadWithDefaults is like Load but uses a safe default for the JWT secret in development.
// WARNING: Only use in development! Use Load() in production.
func LoadWithDefaults() (*Config, error) {
	cfg := defaults()
	cfg.Auth.JWTSecret = "dev-secret-change-me"
	return load(cfg)
}

func load(cfg *Config) (*Config, error) {
	k := koanf.New(".")
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".", 1)
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// QueryTimeout returns the per-statement timeout.
func (c *Config) QueryTimeout() time.Duration {
	return time.Duration(c.Database.QueryTimeout) * time.Second
}

// TokenTTL returns the JWT lifetime.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenTTL) * time.Second
}

// SessionTTL returns the session lifetime.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Session.TTL) * time.Second
}

// String returns a string representation of the config (sensitive values are masked).
func (c *Config) String() string {
	redis := "memory"
	if c.Redis.Address != "" {
		redis = c.Redis.Address
	}
	return fmt.Sprintf("Config{DB: %s, gRPC: %s, metrics: %s, sessions: %s, Auth: *** (masked) ***}",
		maskDSN(c.Database.DSN), c.GRPC.Address, c.Metrics.Address, redis)
}

// maskDSN hides the password of a postgres URL.
func maskDSN(dsn string) string {
	at := strings.LastIndex(dsn, "@")
	scheme := strings.Index(dsn, "://")
	if at < 0 || scheme < 0 || at < scheme {
		return dsn
	}
	creds := dsn[scheme+3 : at]
	if i := strings.Index(creds, ":"); i >= 0 {
		return dsn[:scheme+3] + creds[:i] + ":***" + dsn[at:]
	}
	return dsn
}
