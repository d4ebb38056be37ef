package authtoken

import (
	"errors"
	"testing"
	"time"
)

func TestLoadConfigFromEnv_MissingSecretKey(t *testing.T) {
	t.Setenv("MR_AUTH_SECRET_KEY", "")
	if _, err := LoadConfigFromEnv(); !errors.Is(err, ErrConfig) {
		t.Fatalf("expected ErrConfig on missing secret, got %v", err)
	}
}

func TestLoadConfigFromEnv_ShortSecretKey(t *testing.T) {
	t.Setenv("MR_AUTH_SECRET_KEY", "too-short")
	if _, err := LoadConfigFromEnv(); !errors.Is(err, ErrConfig) {
		t.Fatalf("expected ErrConfig on short secret, got %v", err)
	}
}

func TestLoadConfigFromEnv_InvalidAlgorithm(t *testing.T) {
	t.Setenv("MR_AUTH_SECRET_KEY", "0123456789abcdef0123456789abcdef")
	t.Setenv("MR_AUTH_JWT_ALG", "RS256")
	if _, err := LoadConfigFromEnv(); !errors.Is(err, ErrConfig) {
		t.Fatalf("expected ErrConfig for non-HMAC algorithm, got %v", err)
	}
}

func TestLoadConfigFromEnv_InvalidTTL(t *testing.T) {
	t.Setenv("MR_AUTH_SECRET_KEY", "0123456789abcdef0123456789abcdef")

	for _, v := range []string{"0", "-5", "soon"} {
		t.Setenv("MR_AUTH_ACCESS_TTL_MINUTES", v)
		if _, err := LoadConfigFromEnv(); !errors.Is(err, ErrConfig) {
			t.Fatalf("ttl %q: expected ErrConfig, got %v", v, err)
		}
	}
}

func TestLoadConfigFromEnv_Valid(t *testing.T) {
	t.Setenv("MR_AUTH_SECRET_KEY", "0123456789abcdef0123456789abcdef")
	t.Setenv("MR_AUTH_JWT_ALG", "HS384")
	t.Setenv("MR_AUTH_ACCESS_TTL_MINUTES", "45")

	cfg, err := LoadConfigFromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Algorithm != "HS384" {
		t.Fatalf("algorithm mismatch: %q", cfg.Algorithm)
	}
	if cfg.AccessTokenTTL != 45*time.Minute {
		t.Fatalf("ttl mismatch: %v", cfg.AccessTokenTTL)
	}
	if len(cfg.SigningSecret) != 32 {
		t.Fatalf("secret length mismatch: %d", len(cfg.SigningSecret))
	}
}
