package identity

import "strings"

// NormalizeLogin canonicalizes a login for storage and lookup.
// Note: logins are case-sensitive, so only surrounding whitespace is stripped.
// Additional rules (unicode confusables) can be added later behind a versioned policy.
func NormalizeLogin(s string) string {
	return strings.TrimSpace(s)
}
