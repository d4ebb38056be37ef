package password

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Validate checks password policy. It does not mutate input.
func (c Config) Validate(password string) error {
	// Count characters (runes), not bytes, to be user-friendly.
	n := utf8.RuneCountInString(password)

	if n < c.Policy.MinLength {
		return ErrPasswordTooShort
	}
	if n > c.Policy.MaxLength {
		return ErrPasswordTooLong
	}

	if c.Policy.RejectTrivial && looksTrivial(password) {
		return ErrWeakPassword
	}

	return nil
}

// looksTrivial is intentionally minimal. It is not a strength estimator;
// it only catches inputs nobody should be allowed to keep.
func looksTrivial(pw string) bool {
	s := strings.TrimSpace(pw)
	if s == "" {
		return true
	}

	// All one repeated character.
	first, _ := utf8.DecodeRuneInString(s)
	allSame := true
	for _, r := range s {
		if r != first {
			allSame = false
			break
		}
	}
	if allSame {
		return true
	}

	// Short all-digit inputs (PIN-like).
	onlyDigits := true
	for _, r := range s {
		if !unicode.IsDigit(r) {
			onlyDigits = false
			break
		}
	}
	if onlyDigits && utf8.RuneCountInString(s) < 10 {
		return true
	}

	switch strings.ToLower(s) {
	case "password", "password123", "qwerty", "qwerty123", "letmein":
		return true
	}

	return false
}
