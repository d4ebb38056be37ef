// Package identity implements MindRemember's user identity foundation.
//
// It contains the user store boundary and its PostgreSQL implementation
// used by the HTTP auth layer for registration and login lookups.
//
// This package is intentionally dependency-light and security-first.
package identity
