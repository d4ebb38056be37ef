package authapi

import (
	"net/http"
	"os"
	"strconv"
	"strings"
)

// Config controls auth API behavior and cookie defaults.
type Config struct {
	TrustProxy   bool
	MaxBodyBytes int64

	// DBSchema qualifies the stores and the audit table.
	DBSchema string

	// AccessCookieName is the cookie carrying the access token. Clients
	// depend on the literal name "access_token".
	AccessCookieName string
	CookiePath       string
	CookieDomain     string
	CookieSecure     bool
	CookieSameSite   http.SameSite
}

// LoadConfigFromEnv loads auth config from environment variables with safe defaults.
//
// The cookie Secure flag defaults from MR_ENV (secure in prod) and can be
// forced either way with MR_AUTH_COOKIE_SECURE.
func LoadConfigFromEnv() Config {
	cfg := Config{
		TrustProxy:       envBool("MR_AUTH_TRUST_PROXY", false),
		MaxBodyBytes:     envInt64("MR_AUTH_MAX_BODY_BYTES", 1<<20), // 1 MiB
		DBSchema:         envString("MR_DB_SCHEMA", "mindremember"),
		AccessCookieName: "access_token",
		CookiePath:       "/",
		CookieSameSite:   http.SameSiteLaxMode,
	}

	secureDefault := strings.EqualFold(envString("MR_ENV", "dev"), "prod")
	cfg.CookieSecure = envBool("MR_AUTH_COOKIE_SECURE", secureDefault)

	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 1 << 20
	}

	return cfg
}

func envString(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func envBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envInt64(key string, def int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
