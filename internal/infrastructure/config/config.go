package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	JWT     JWTConfig
	Session SessionConfig
	Mongo   MongoConfig
	Redis   RedisConfig

	// FrontendURL, when set, is the single origin allowed by CORS in
	// production. Empty means the development origins are used.
	FrontendURL string `env:"FRONTEND_URL"`
}

type JWTConfig struct {
	// Secret signs access tokens. Mandatory; validated at startup.
	Secret string `env:"JWT_SECRET"`
	// RefreshSecret signs refresh tokens and falls back to Secret when
	// unset.
	RefreshSecret string        `env:"JWT_REFRESH_SECRET"`
	AccessTTL     time.Duration `env:"JWT_ACCESS_TTL,  default=15m"`
	RefreshTTL    time.Duration `env:"JWT_REFRESH_TTL, default=168h"`
}

type SessionConfig struct {
	TTL time.Duration `env:"SESSION_TTL, default=24h"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=blog_api"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// Validate enforces the startup invariants. A missing signing secret or a
// refresh lifetime shorter than the access lifetime must stop the process
// before it binds, never surface as a 500 on first login.
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("config: JWT_SECRET must not be empty")
	}
	if c.JWT.AccessTTL <= 0 {
		return errors.New("config: JWT_ACCESS_TTL must be positive")
	}
	if c.JWT.RefreshTTL < c.JWT.AccessTTL {
		return fmt.Errorf("config: JWT_REFRESH_TTL (%s) must be >= JWT_ACCESS_TTL (%s)",
			c.JWT.RefreshTTL, c.JWT.AccessTTL)
	}
	if c.Session.TTL <= 0 {
		return errors.New("config: SESSION_TTL must be positive")
	}
	return nil
}

// Production reports whether the service runs in production mode, which
// redacts error details and disables stack traces in responses.
func (c *Config) Production() bool {
	return c.Env == "production"
}
