package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"DATA_DIR", "DATA_STRICT", "JWT_SECRET", "JWT_ACCESS_TOKEN_DURATION", "PORT"} {
		if v, ok := os.LookupEnv(key); ok {
			t.Setenv(key, v) // register restore
			os.Unsetenv(key)
		}
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Store.DataDir != "data" || cfg.Store.Strict {
		t.Fatalf("unexpected store defaults: %+v", cfg.Store)
	}
	if cfg.Auth.JWTSecret != "test-secret" {
		t.Fatalf("unexpected secret: %q", cfg.Auth.JWTSecret)
	}
	if cfg.Auth.AccessTokenDuration != 60*time.Minute {
		t.Fatalf("unexpected token duration: %v", cfg.Auth.AccessTokenDuration)
	}
	if cfg.Server.Port != "8080" {
		t.Fatalf("unexpected port: %q", cfg.Server.Port)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DATA_DIR", "/var/lib/madang")
	t.Setenv("DATA_STRICT", "true")
	t.Setenv("JWT_ACCESS_TOKEN_DURATION", "15m")
	t.Setenv("PORT", "9090")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Store.DataDir != "/var/lib/madang" || !cfg.Store.Strict {
		t.Fatalf("unexpected store config: %+v", cfg.Store)
	}
	if cfg.Auth.AccessTokenDuration != 15*time.Minute {
		t.Fatalf("unexpected token duration: %v", cfg.Auth.AccessTokenDuration)
	}
	if cfg.Server.Port != "9090" {
		t.Fatalf("unexpected port: %q", cfg.Server.Port)
	}
}

func TestLoadConfigCollectsErrors(t *testing.T) {
	clearEnv(t)
	// JWT_SECRET missing, and two optional variables malformed: all three
	// problems must be reported in one pass.
	t.Setenv("DATA_STRICT", "not-a-bool")
	t.Setenv("JWT_ACCESS_TOKEN_DURATION", "soon")

	_, err := LoadConfig()
	if err == nil {
		t.Fatal("expected aggregated error")
	}
	msg := err.Error()
	for _, want := range []string{"JWT_SECRET", "DATA_STRICT", "JWT_ACCESS_TOKEN_DURATION"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("error does not mention %s: %s", want, msg)
		}
	}
}
