package identity

import "context"

// User is MindRemember's canonical security principal.
// IMPORTANT: PasswordHash is the encoded Argon2id verifier; the plain password is never stored.
type User struct {
	ID           int64
	Login        string
	PasswordHash string
}

// CreateUserInput describes a user registration request.
// PasswordHash must already be encoded by the caller (see cmd/security/password);
// the store never receives plain passwords.
type CreateUserInput struct {
	Login        string
	PasswordHash string
}

// CreateUserResult returns the created user.
type CreateUserResult struct {
	User User
}

// Store is the identity persistence boundary.
type Store interface {
	CreateUser(ctx context.Context, in CreateUserInput) (CreateUserResult, error)

	// GetUserByLogin returns the user for an exact login match.
	// Returns an error matching IsNotFound when the login is unknown.
	GetUserByLogin(ctx context.Context, login string) (User, error)
}
