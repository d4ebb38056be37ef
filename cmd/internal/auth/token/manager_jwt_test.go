package authtoken

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func testManager(t *testing.T, ttl time.Duration) AccessTokenManager {
	t.Helper()

	cfg := DefaultConfig()
	cfg.AccessTokenTTL = ttl
	cfg.SigningSecret = []byte("0123456789abcdef0123456789abcdef")

	mgr, err := NewJWTManager(cfg)
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}
	return mgr
}

// tamperSignature replaces a character in the middle of the signature segment
// so the decoded digest is guaranteed to change.
func tamperSignature(t *testing.T, token string) string {
	t.Helper()

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %q", token)
	}
	sig := []byte(parts[2])
	i := len(sig) / 2
	if sig[i] == 'A' {
		sig[i] = 'B'
	} else {
		sig[i] = 'A'
	}
	parts[2] = string(sig)
	return strings.Join(parts, ".")
}

func TestIssueAndVerify(t *testing.T) {
	mgr := testManager(t, 15*time.Minute)
	now := time.Now().UTC()

	tok, exp, err := mgr.Issue("alice", now)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if got, want := exp, now.Add(15*time.Minute); !got.Equal(want) {
		t.Fatalf("exp = %v, want %v", got, want)
	}

	claims, err := mgr.Verify(tok, now.Add(time.Second))
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Subject != "alice" {
		t.Fatalf("subject = %q, want alice", claims.Subject)
	}
	if claims.ExpiresAt.Unix() != exp.Unix() {
		t.Fatalf("claims exp = %v, want %v", claims.ExpiresAt, exp)
	}
}

func TestIssue_EmptySubject(t *testing.T) {
	mgr := testManager(t, time.Minute)

	if _, _, err := mgr.Issue("  ", time.Now().UTC()); !errors.Is(err, ErrTokenSubjectMissing) {
		t.Fatalf("expected ErrTokenSubjectMissing, got %v", err)
	}
}

func TestVerify_ZeroTTLExpiresImmediately(t *testing.T) {
	mgr := testManager(t, 0)
	now := time.Now().UTC()

	tok, _, err := mgr.Issue("alice", now)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := mgr.Verify(tok, now); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestVerify_Expired(t *testing.T) {
	mgr := testManager(t, time.Minute)
	now := time.Now().UTC()

	tok, _, err := mgr.Issue("alice", now)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := mgr.Verify(tok, now.Add(2*time.Minute)); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestVerify_TamperedSignature(t *testing.T) {
	mgr := testManager(t, time.Minute)
	now := time.Now().UTC()

	tok, _, err := mgr.Issue("alice", now)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	bad := tamperSignature(t, tok)
	if _, err := mgr.Verify(bad, now); !errors.Is(err, ErrTokenSignatureInvalid) {
		t.Fatalf("expected ErrTokenSignatureInvalid, got %v", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	now := time.Now().UTC()

	issuer := testManager(t, time.Minute)
	tok, _, err := issuer.Issue("alice", now)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	cfg := DefaultConfig()
	cfg.SigningSecret = []byte("ffffffffffffffffffffffffffffffff")
	verifier, err := NewJWTManager(cfg)
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}

	if _, err := verifier.Verify(tok, now); !errors.Is(err, ErrTokenSignatureInvalid) {
		t.Fatalf("expected ErrTokenSignatureInvalid, got %v", err)
	}
}

func TestVerify_WrongAlgorithmRejected(t *testing.T) {
	now := time.Now().UTC()
	secret := []byte("0123456789abcdef0123456789abcdef")

	cfg := DefaultConfig()
	cfg.Algorithm = "HS512"
	cfg.SigningSecret = secret
	issuer, err := NewJWTManager(cfg)
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}
	tok, _, err := issuer.Issue("alice", now)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// Same secret, but the verifier pins HS256.
	verifier := testManager(t, time.Minute)
	if _, err := verifier.Verify(tok, now); !errors.Is(err, ErrTokenSignatureInvalid) {
		t.Fatalf("expected ErrTokenSignatureInvalid, got %v", err)
	}
}

func TestVerify_Malformed(t *testing.T) {
	mgr := testManager(t, time.Minute)
	now := time.Now().UTC()

	for _, tok := range []string{
		"",
		"garbage",
		"a.b",
		"!!!.???.###",
	} {
		if _, err := mgr.Verify(tok, now); !errors.Is(err, ErrTokenMalformed) {
			t.Fatalf("token %q: expected ErrTokenMalformed, got %v", tok, err)
		}
	}
}

func TestVerify_MissingSubject(t *testing.T) {
	secret := []byte("0123456789abcdef0123456789abcdef")
	now := time.Now().UTC()

	claims := jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	mgr := testManager(t, time.Minute)
	if _, err := mgr.Verify(tok, now); !errors.Is(err, ErrTokenSubjectMissing) {
		t.Fatalf("expected ErrTokenSubjectMissing, got %v", err)
	}
}

func TestVerify_MissingExpiry(t *testing.T) {
	secret := []byte("0123456789abcdef0123456789abcdef")
	now := time.Now().UTC()

	claims := jwt.RegisteredClaims{Subject: "alice"}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	mgr := testManager(t, time.Minute)
	if _, err := mgr.Verify(tok, now); !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed, got %v", err)
	}
}
