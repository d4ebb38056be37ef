// Package password provides password hashing and verification for MindRemember.
//
// It implements Argon2id with a PHC-style encoded string format and includes:
// - Configurable Argon2id cost parameters (via environment variables)
// - A length/triviality policy applied before hashing
// - Strict hash decoding with anti-DoS bounds during verification
//
// Security notes:
// - Stored hash strings are treated as untrusted input during Verify.
// - Verification refuses hashes whose parameters exceed sane bounds, so a
//   poisoned row cannot make the server burn arbitrary memory or CPU.
package password
