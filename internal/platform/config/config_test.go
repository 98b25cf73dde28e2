package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Addr != ":8080" {
		t.Fatalf("expected default addr :8080, got %s", cfg.Addr)
	}
	if cfg.TokenTTL != 12*time.Hour {
		t.Fatalf("expected default token ttl 12h, got %v", cfg.TokenTTL)
	}
	if !cfg.RunMigrations {
		t.Fatal("expected migrations enabled by default")
	}
}

func TestValidateRequiresDatabaseURL(t *testing.T) {
	cfg := Load()
	cfg.DatabaseURL = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing DATABASE_URL")
	}
}

func TestValidateProductionRequiresSecret(t *testing.T) {
	cfg := Load()
	cfg.DatabaseURL = "postgres://localhost/hrms"
	cfg.Environment = "production"
	cfg.JWTSecret = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing JWT_SECRET in production")
	}

	cfg.JWTSecret = "secret"
	cfg.RunSeed = true
	cfg.SeedAdminPassword = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for default seed password in production")
	}
}
