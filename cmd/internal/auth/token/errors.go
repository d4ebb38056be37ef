package authtoken

import "errors"

var (
	// ErrTokenMalformed is returned when a token is structurally invalid
	// (wrong segment count, broken encoding, missing required claims).
	ErrTokenMalformed = errors.New("token malformed")

	// ErrTokenSignatureInvalid is returned when the signature does not verify
	// under the process signing secret, including wrong-algorithm tokens.
	ErrTokenSignatureInvalid = errors.New("token signature invalid")

	// ErrTokenExpired is returned when a structurally valid, correctly signed
	// token is past its expiry.
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenSubjectMissing is returned when the subject claim is absent or
	// blank. Such a token identifies nobody.
	ErrTokenSubjectMissing = errors.New("token subject missing")

	// ErrConfig is returned for invalid configuration.
	ErrConfig = errors.New("invalid config")
)
