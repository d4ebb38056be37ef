package authtoken

import (
	"os"
	"strconv"
	"time"

	"github.com/Gratix0/FastapiMindRememberAPI/cmd/security/token"
)

// Config defines runtime configuration for access tokens.
//
// It is intentionally explicit and environment-driven so deployments can tune
// the signing algorithm and token lifetime without code changes.
type Config struct {
	// Algorithm names the JWT signing method. Only the HMAC family is
	// accepted (HS256, HS384, HS512); the verifier pins this exact method.
	Algorithm string

	// AccessTokenTTL defines the lifetime of issued tokens.
	// A zero TTL produces tokens that are already expired when validated.
	AccessTokenTTL time.Duration

	// SigningSecret is the process-wide HMAC key.
	SigningSecret []byte
}

// DefaultConfig returns defaults matching the historical deployment:
// HS256 with a 30-minute token lifetime. The secret has no default.
func DefaultConfig() Config {
	return Config{
		Algorithm:      "HS256",
		AccessTokenTTL: 30 * time.Minute,
	}
}

// LoadConfigFromEnv loads token configuration from environment variables.
//
// Required:
//   - MR_AUTH_SECRET_KEY (>= 32 bytes)
//
// Optional:
//   - MR_AUTH_JWT_ALG (HS256/HS384/HS512)
//   - MR_AUTH_ACCESS_TTL_MINUTES (positive integer)
//
// Returns ErrConfig if configuration is invalid.
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv("MR_AUTH_JWT_ALG"); v != "" {
		switch v {
		case "HS256", "HS384", "HS512":
			cfg.Algorithm = v
		default:
			return Config{}, ErrConfig
		}
	}

	if v := os.Getenv("MR_AUTH_ACCESS_TTL_MINUTES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, ErrConfig
		}
		cfg.AccessTokenTTL = time.Duration(n) * time.Minute
	}

	secret, err := token.SigningKeyFromEnv(token.MinSecretBytes)
	if err != nil {
		return Config{}, ErrConfig
	}
	cfg.SigningSecret = secret

	return cfg, nil
}
