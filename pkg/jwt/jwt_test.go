package jwt

import (
	"strings"
	"testing"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret-key-for-unit-testing-2026"

func TestSignAndParse(t *testing.T) {
	m := NewManager(testSecret)

	token, err := m.Sign("sess-1", "admin", 7, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	claims, err := m.Parse(token)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if claims.ID != "sess-1" {
		t.Errorf("expected ID=sess-1, got %s", claims.ID)
	}
	if claims.Role != "admin" {
		t.Errorf("expected Role=admin, got %s", claims.Role)
	}
	if claims.SubjectID != 7 {
		t.Errorf("expected SubjectID=7, got %d", claims.SubjectID)
	}
	if claims.Issuer != issuer {
		t.Errorf("expected Issuer=%s, got %s", issuer, claims.Issuer)
	}
}

func TestParse_Expired(t *testing.T) {
	m := NewManager(testSecret)

	token, err := m.Sign("sess-1", "participant", 1, time.Now().Add(-time.Minute))
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	if _, err := m.Parse(token); err != ErrTokenExpired {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

func TestParse_WrongSecret(t *testing.T) {
	token, _ := NewManager(testSecret).Sign("sess-1", "baa", 1, time.Now().Add(time.Hour))

	other := NewManager("another-secret-key-for-testing")
	if _, err := other.Parse(token); err != ErrTokenInvalid {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestParse_Tampered(t *testing.T) {
	m := NewManager(testSecret)
	token, _ := m.Sign("sess-1", "admin", 1, time.Now().Add(time.Hour))

	parts := strings.Split(token, ".")
	parts[2] = strings.Repeat("A", len(parts[2]))
	if _, err := m.Parse(strings.Join(parts, ".")); err != ErrTokenInvalid {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestParse_Garbage(t *testing.T) {
	m := NewManager(testSecret)
	for _, input := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := m.Parse(input); err != ErrTokenInvalid {
			t.Errorf("Parse(%q): expected ErrTokenInvalid, got %v", input, err)
		}
	}
}

func TestParse_RejectsNoneAlgorithm(t *testing.T) {
	claims := Claims{
		Role: "admin",
		RegisteredClaims: jwtv5.RegisteredClaims{
			ID:        "sess-1",
			ExpiresAt: jwtv5.NewNumericDate(time.Now().Add(time.Hour)),
			Issuer:    issuer,
		},
	}
	token, err := jwtv5.NewWithClaims(jwtv5.SigningMethodNone, claims).SignedString(jwtv5.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("failed to build unsigned token: %v", err)
	}

	if _, err := NewManager(testSecret).Parse(token); err != ErrTokenInvalid {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestParse_MissingSessionID(t *testing.T) {
	m := NewManager(testSecret)
	token, _ := m.Sign("", "admin", 1, time.Now().Add(time.Hour))

	if _, err := m.Parse(token); err != ErrTokenInvalid {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}
