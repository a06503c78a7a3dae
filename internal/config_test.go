package internal

import (
	"strings"
	"testing"
	"time"

	"github.com/starford/wunjo/internal/credential"
	"github.com/starford/wunjo/internal/probe"
	"github.com/starford/wunjo/internal/session"
)

func TestAuthConfig_DefaultsApplied(t *testing.T) {
	cfg := AuthConfig{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty auth config should pass: %v", err)
	}
	if cfg.DefaultPassword != credential.DefaultPassword {
		t.Errorf("default_password = %q, want built-in default", cfg.DefaultPassword)
	}
	if cfg.TokenTTL != session.DefaultTTL {
		t.Errorf("token_ttl = %s, want %s", cfg.TokenTTL, session.DefaultTTL)
	}
}

func TestAuthConfig_NegativeTTL(t *testing.T) {
	cfg := AuthConfig{TokenTTL: -time.Minute}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("negative ttl should fail")
	}
	if !strings.Contains(err.Error(), "token_ttl") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestProbeConfig_DefaultTimeout(t *testing.T) {
	cfg := ProbeConfig{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty probe config should pass: %v", err)
	}
	if cfg.Timeout != probe.DefaultTimeout {
		t.Errorf("timeout = %s, want %s", cfg.Timeout, probe.DefaultTimeout)
	}
}

func TestHTTPConfig_PortBounds(t *testing.T) {
	cfg := HTTPConfig{Port: 0}
	if err := cfg.Validate(); err == nil {
		t.Error("port 0 should fail validation")
	}
	cfg.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Error("port 70000 should fail validation")
	}
	cfg.Port = 3000
	if err := cfg.Validate(); err != nil {
		t.Errorf("port 3000 should pass: %v", err)
	}
	if got := cfg.Address(); got != ":3000" {
		t.Errorf("Address() = %q", got)
	}
}

func TestFullConfig_RequiredPaths(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	cfg.Data.Path = ""
	if err := cfg.Validate(); err == nil {
		t.Error("empty data path should fail")
	}

	cfg = NewDefaultConfig()
	cfg.SQLite.Path = ""
	if err := cfg.Validate(); err == nil {
		t.Error("empty sqlite path should fail")
	}

	cfg = NewDefaultConfig()
	cfg.Wallpapers.Path = ""
	if err := cfg.Validate(); err == nil {
		t.Error("empty wallpapers path should fail")
	}
}
