package authapi

import (
	"net/http"
	"testing"
)

func TestLoadConfigFromEnv_Defaults(t *testing.T) {
	t.Setenv("MR_ENV", "")
	t.Setenv("MR_AUTH_TRUST_PROXY", "")
	t.Setenv("MR_AUTH_MAX_BODY_BYTES", "")
	t.Setenv("MR_AUTH_COOKIE_SECURE", "")
	t.Setenv("MR_DB_SCHEMA", "")

	cfg := LoadConfigFromEnv()

	if cfg.AccessCookieName != "access_token" {
		t.Fatalf("unexpected cookie name: %q", cfg.AccessCookieName)
	}
	if cfg.CookiePath != "/" {
		t.Fatalf("unexpected cookie path: %q", cfg.CookiePath)
	}
	if cfg.CookieSecure {
		t.Fatalf("expected Secure=false outside prod")
	}
	if cfg.CookieSameSite != http.SameSiteLaxMode {
		t.Fatalf("expected SameSite=Lax, got %v", cfg.CookieSameSite)
	}
	if cfg.TrustProxy {
		t.Fatalf("expected TrustProxy=false by default")
	}
	if cfg.MaxBodyBytes != 1<<20 {
		t.Fatalf("expected 1 MiB body cap, got %d", cfg.MaxBodyBytes)
	}
	if cfg.DBSchema != "mindremember" {
		t.Fatalf("unexpected schema: %q", cfg.DBSchema)
	}
}

func TestLoadConfigFromEnv_ProdSecureDefault(t *testing.T) {
	t.Setenv("MR_ENV", "prod")
	t.Setenv("MR_AUTH_COOKIE_SECURE", "")

	if cfg := LoadConfigFromEnv(); !cfg.CookieSecure {
		t.Fatalf("expected Secure cookie default in prod")
	}

	// Explicit override wins over the MR_ENV default.
	t.Setenv("MR_AUTH_COOKIE_SECURE", "false")
	if cfg := LoadConfigFromEnv(); cfg.CookieSecure {
		t.Fatalf("expected MR_AUTH_COOKIE_SECURE=false to win")
	}
}

func TestLoadConfigFromEnv_Overrides(t *testing.T) {
	t.Setenv("MR_AUTH_TRUST_PROXY", "true")
	t.Setenv("MR_AUTH_MAX_BODY_BYTES", "2048")
	t.Setenv("MR_DB_SCHEMA", "mr_test")

	cfg := LoadConfigFromEnv()

	if !cfg.TrustProxy {
		t.Fatalf("expected TrustProxy=true")
	}
	if cfg.MaxBodyBytes != 2048 {
		t.Fatalf("expected MaxBodyBytes=2048, got %d", cfg.MaxBodyBytes)
	}
	if cfg.DBSchema != "mr_test" {
		t.Fatalf("expected schema override, got %q", cfg.DBSchema)
	}
}

func TestLoadConfigFromEnv_BadValuesKeepDefaults(t *testing.T) {
	t.Setenv("MR_AUTH_TRUST_PROXY", "maybe")
	t.Setenv("MR_AUTH_MAX_BODY_BYTES", "-7")

	cfg := LoadConfigFromEnv()

	if cfg.TrustProxy {
		t.Fatalf("expected invalid bool to keep default")
	}
	if cfg.MaxBodyBytes != 1<<20 {
		t.Fatalf("expected invalid size to keep default, got %d", cfg.MaxBodyBytes)
	}
}
