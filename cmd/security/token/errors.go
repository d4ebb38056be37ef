package token

import "errors"

// Public, stable errors for callers.
var (
	ErrSecretKeyMissing  = errors.New("token signing secret missing")
	ErrSecretKeyTooShort = errors.New("token signing secret too short")
)
