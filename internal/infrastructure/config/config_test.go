package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func loadFrom(t *testing.T, env map[string]string) *Config {
	t.Helper()
	var cfg Config
	err := envconfig.ProcessWith(context.Background(), &envconfig.Config{
		Target:   &cfg,
		Lookuper: envconfig.MapLookuper(env),
	})
	if err != nil {
		t.Fatalf("process config: %v", err)
	}
	return &cfg
}

func TestConfig_Defaults(t *testing.T) {
	cfg := loadFrom(t, map[string]string{"JWT_SECRET": "s3cret"})

	if cfg.Port != "8080" || cfg.Env != "development" || cfg.LogLevel != "info" {
		t.Fatalf("unexpected base defaults: %+v", cfg)
	}
	if cfg.JWT.AccessTTL != 15*time.Minute {
		t.Fatalf("expected 15m access ttl, got %s", cfg.JWT.AccessTTL)
	}
	if cfg.JWT.RefreshTTL != 168*time.Hour {
		t.Fatalf("expected 168h refresh ttl, got %s", cfg.JWT.RefreshTTL)
	}
	if cfg.Session.TTL != 24*time.Hour {
		t.Fatalf("expected 24h session ttl, got %s", cfg.Session.TTL)
	}
	if cfg.Mongo.Database != "blog_api" {
		t.Fatalf("expected blog_api database, got %s", cfg.Mongo.Database)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestConfig_Overrides(t *testing.T) {
	cfg := loadFrom(t, map[string]string{
		"JWT_SECRET":      "s3cret",
		"JWT_ACCESS_TTL":  "5m",
		"JWT_REFRESH_TTL": "48h",
		"ENV":             "production",
		"MONGO_DB":        "blog_test",
	})

	if cfg.JWT.AccessTTL != 5*time.Minute || cfg.JWT.RefreshTTL != 48*time.Hour {
		t.Fatalf("ttl overrides not applied: %+v", cfg.JWT)
	}
	if !cfg.Production() {
		t.Fatalf("ENV=production must report production mode")
	}
	if cfg.Mongo.Database != "blog_test" {
		t.Fatalf("database override not applied: %s", cfg.Mongo.Database)
	}
}

func TestConfig_ValidateMissingSecret(t *testing.T) {
	cfg := loadFrom(t, map[string]string{})
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation failure without JWT_SECRET")
	}
}

func TestConfig_RefreshTTLFloor(t *testing.T) {
	cfg := loadFrom(t, map[string]string{
		"JWT_SECRET":      "s3cret",
		"JWT_ACCESS_TTL":  "24h",
		"JWT_REFRESH_TTL": "1h",
	})
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation failure when refresh ttl < access ttl")
	}

	// Equal lifetimes are the floor, not a failure.
	cfg = loadFrom(t, map[string]string{
		"JWT_SECRET":      "s3cret",
		"JWT_ACCESS_TTL":  "1h",
		"JWT_REFRESH_TTL": "1h",
	})
	if err := cfg.Validate(); err != nil {
		t.Fatalf("equal ttls must validate: %v", err)
	}
}

func TestConfig_ValidateSessionTTL(t *testing.T) {
	cfg := loadFrom(t, map[string]string{
		"JWT_SECRET":  "s3cret",
		"SESSION_TTL": "-1h",
	})
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation failure for non-positive session ttl")
	}
}
