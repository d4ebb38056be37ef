// Package token provides signing-secret loading and token digest primitives.
//
// It is the single source of truth for two things:
//   - Loading the process-wide token signing secret from the environment with
//     a minimum-length policy (the secret signs every access token, so a short
//     key weakens all of them at once).
//   - Producing stable 64-char hex fingerprints of issued tokens for audit
//     storage. Raw tokens must never be written to the database.
//
// Environment:
// - MR_AUTH_SECRET_KEY: the signing secret; also keys HMAC fingerprints.
package token
