package password

import "errors"

// Stable errors for callers to match with errors.Is. The first three come
// from Config.Validate; ErrInvalidHash marks a stored hash that cannot be
// parsed as argon2id PHC.
var (
	ErrPasswordTooShort = errors.New("password too short")
	ErrPasswordTooLong  = errors.New("password too long")
	ErrWeakPassword     = errors.New("weak password")
	ErrInvalidHash      = errors.New("invalid password hash")
)
