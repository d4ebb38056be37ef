package authtoken

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims is the minimal identity envelope embedded in an access token:
// the subject login plus the absolute expiry. Nothing else is carried.
type AccessClaims struct {
	Subject   string
	ExpiresAt time.Time
}

// AccessTokenManager issues and verifies signed access tokens.
type AccessTokenManager interface {
	Issue(subject string, now time.Time) (token string, exp time.Time, err error)
	Verify(token string, now time.Time) (AccessClaims, error)
}

type jwtHMACManager struct {
	method jwt.SigningMethod
	ttl    time.Duration
	secret []byte
}

// NewJWTManager builds an AccessTokenManager signing JWTs with an HMAC method.
//
// The method is fixed at construction; verification rejects tokens signed with
// any other algorithm, so a downgraded or asymmetric token can never pass.
func NewJWTManager(cfg Config) (AccessTokenManager, error) {
	switch cfg.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		return nil, ErrConfig
	}
	if len(cfg.SigningSecret) == 0 {
		return nil, ErrConfig
	}

	return &jwtHMACManager{
		method: jwt.GetSigningMethod(cfg.Algorithm),
		ttl:    cfg.AccessTokenTTL,
		secret: cfg.SigningSecret,
	}, nil
}

func (m *jwtHMACManager) Issue(subject string, now time.Time) (string, time.Time, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return "", time.Time{}, ErrTokenSubjectMissing
	}

	exp := now.Add(m.ttl)

	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(exp),
	}

	signed, err := jwt.NewWithClaims(m.method, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func (m *jwtHMACManager) Verify(token string, now time.Time) (AccessClaims, error) {
	// A fresh parser per call keeps the validation clock explicit and avoids
	// shared parser state.
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{m.method.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
	)

	var claims jwt.RegisteredClaims
	_, err := parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	})
	if err != nil {
		// Signature problems take precedence over claim problems: the parser
		// verifies the signature before validating claims, so a tampered
		// token never leaks whether it would also have been expired.
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return AccessClaims{}, ErrTokenMalformed
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return AccessClaims{}, ErrTokenSignatureInvalid
		case errors.Is(err, jwt.ErrTokenExpired):
			return AccessClaims{}, ErrTokenExpired
		default:
			return AccessClaims{}, ErrTokenMalformed
		}
	}

	subject := strings.TrimSpace(claims.Subject)
	if subject == "" {
		return AccessClaims{}, ErrTokenSubjectMissing
	}

	out := AccessClaims{Subject: subject}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
