package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"strings"
)

const (
	// SecretEnvKey is the env var name for the token signing secret.
	// #nosec G101 -- not a credential; it's an environment variable name.
	SecretEnvKey = "MR_AUTH_SECRET_KEY"

	// MinSecretBytes is the minimum accepted signing secret length.
	// HMAC-SHA256 keys below the hash block size lose security margin.
	MinSecretBytes = 32
)

// HashSHA256Hex returns a SHA-256 hex digest of s.
func HashSHA256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// HashHMACSHA256Hex returns an HMAC-SHA256 hex digest of s using key.
func HashHMACSHA256Hex(s string, key []byte) string {
	m := hmac.New(sha256.New, key)
	_, _ = m.Write([]byte(s))
	return hex.EncodeToString(m.Sum(nil))
}

// SigningKeyFromEnv returns the configured signing secret bytes (trimmed),
// enforcing a minimum byte length.
// If the env var is missing/blank -> ErrSecretKeyMissing.
// If too short -> ErrSecretKeyTooShort.
func SigningKeyFromEnv(minBytes int) ([]byte, error) {
	raw := strings.TrimSpace(os.Getenv(SecretEnvKey))
	if raw == "" {
		return nil, ErrSecretKeyMissing
	}
	b := []byte(raw)
	if minBytes > 0 && len(b) < minBytes {
		return nil, ErrSecretKeyTooShort
	}
	return b, nil
}

// FingerprintHex hashes an issued token for audit storage.
// Behavior:
// - If MR_AUTH_SECRET_KEY is set (non-empty), uses HMAC-SHA256(token, key).
// - Otherwise falls back to SHA-256(token) so dev setups still get rows.
func FingerprintHex(tok string) string {
	key := strings.TrimSpace(os.Getenv(SecretEnvKey))
	if key == "" {
		return HashSHA256Hex(tok)
	}
	return HashHMACSHA256Hex(tok, []byte(key))
}
