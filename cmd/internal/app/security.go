package app

import (
	"errors"

	"github.com/Gratix0/FastapiMindRememberAPI/cmd/security/token"
)

// ValidateSecurityConfig enforces the auth signing policy at startup.
//
// Fail-fast is intentional: a missing or weak MR_AUTH_SECRET_KEY should stop
// the process at boot, not surface as 500s on the first login. DB-less runs
// serve no auth endpoints, so nothing is required there.
func ValidateSecurityConfig(cfg Config) error {
	if cfg.DatabaseURL == "" {
		return nil
	}

	// Bytes, not runes: the key is used as raw HMAC key material.
	if _, err := token.SigningKeyFromEnv(token.MinSecretBytes); err != nil {
		switch {
		case errors.Is(err, token.ErrSecretKeyMissing):
			return errors.New("security policy: MR_AUTH_SECRET_KEY is not set")
		case errors.Is(err, token.ErrSecretKeyTooShort):
			return errors.New("security policy: MR_AUTH_SECRET_KEY is too short (min 32 bytes)")
		default:
			return err
		}
	}

	return nil
}
