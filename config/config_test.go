package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "JWT_SECRET", "JWT_EXPIRES_IN", "OTP_TTL", "BCRYPT_SALT_ROUNDS", "GOOGLE_OAUTH_ENABLED"} {
		t.Setenv(k, "")
	}
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Errorf("SessionTTL = %v", cfg.SessionTTL)
	}
	if cfg.OTPTTL != 10*time.Minute {
		t.Errorf("OTPTTL = %v", cfg.OTPTTL)
	}
	if cfg.BcryptCost != 10 {
		t.Errorf("BcryptCost = %d", cfg.BcryptCost)
	}
	if !cfg.GoogleEnabled {
		t.Error("GoogleEnabled should default to true")
	}
	if cfg.JWTSecret != "" {
		t.Error("JWTSecret must have no default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_EXPIRES_IN", "2h")
	t.Setenv("OTP_TTL", "5m")
	t.Setenv("GOOGLE_OAUTH_ENABLED", "false")
	t.Setenv("BCRYPT_SALT_ROUNDS", "12")
	t.Setenv("DB_MAX_CONNS", "not-a-number")

	cfg := Load()
	if cfg.SessionTTL != 2*time.Hour {
		t.Errorf("SessionTTL = %v", cfg.SessionTTL)
	}
	if cfg.OTPTTL != 5*time.Minute {
		t.Errorf("OTPTTL = %v", cfg.OTPTTL)
	}
	if cfg.GoogleEnabled {
		t.Error("GoogleEnabled should be false")
	}
	if cfg.BcryptCost != 12 {
		t.Errorf("BcryptCost = %d", cfg.BcryptCost)
	}
	if cfg.DBMaxConns != 10 {
		t.Errorf("bad int should fall back to default, got %d", cfg.DBMaxConns)
	}
}

func TestPostgresDSN(t *testing.T) {
	c := &Config{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "5432", DBName: "d", DBSSLMode: "disable"}
	want := "postgres://u:p@h:5432/d?sslmode=disable"
	if got := c.PostgresDSN(); got != want {
		t.Fatalf("dsn %q, want %q", got, want)
	}
}

func TestCORSOrigins(t *testing.T) {
	c := &Config{CORSAllowedOrigins: " http://a.com , http://b.com ,, "}
	got := c.CORSOrigins()
	if len(got) != 2 || got[0] != "http://a.com" || got[1] != "http://b.com" {
		t.Fatalf("origins %v", got)
	}
}

func TestGoogleOAuthConfigured(t *testing.T) {
	c := &Config{GoogleClientID: "id", GoogleClientSecret: "secret", GoogleRedirectURI: "http://cb"}
	if !c.GoogleOAuthConfigured() {
		t.Fatal("want configured")
	}
	c.GoogleClientSecret = ""
	if c.GoogleOAuthConfigured() {
		t.Fatal("missing secret should not count as configured")
	}
}
