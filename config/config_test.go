package config

import (
	"testing"
	"time"
)

func TestLoadReadsTokenValidity(t *testing.T) {
	t.Setenv("TOKEN_VALIDITY", "45m")
	cfg := Load()
	if cfg.TokenValidity != 45*time.Minute {
		t.Fatalf("TokenValidity = %s, want 45m", cfg.TokenValidity)
	}
}

func TestLoadDurationDefaults(t *testing.T) {
	t.Setenv("SESSION_TTL", "soon")
	cfg := Load()
	if cfg.SessionTTL != 90*time.Second {
		t.Fatalf("SessionTTL = %s, want the 90s default for a bad value", cfg.SessionTTL)
	}
	if cfg.TokenValidity != 8*time.Hour {
		t.Fatalf("TokenValidity = %s, want the 8h default", cfg.TokenValidity)
	}
}
