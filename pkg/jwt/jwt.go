package jwt

import (
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenExpired = errors.New("session cookie expired")
	ErrTokenInvalid = errors.New("session cookie invalid")
)

const issuer = "ccrt-portal"

// Claims carried by the session cookie. The session id is the JWT ID; role
// and subject are informational, the session store stays authoritative.
type Claims struct {
	Role      string `json:"role"`
	SubjectID uint   `json:"sub_id"`
	jwtv5.RegisteredClaims
}

// Manager signs and verifies session cookies.
type Manager struct {
	secret []byte
}

// NewManager creates a Manager for the given HMAC secret.
func NewManager(secret string) *Manager {
	return &Manager{secret: []byte(secret)}
}

// Sign issues a cookie value for the session.
func (m *Manager) Sign(sessionID, role string, subjectID uint, expiresAt time.Time) (string, error) {
	claims := Claims{
		Role:      role,
		SubjectID: subjectID,
		RegisteredClaims: jwtv5.RegisteredClaims{
			ID:        sessionID,
			IssuedAt:  jwtv5.NewNumericDate(time.Now()),
			ExpiresAt: jwtv5.NewNumericDate(expiresAt),
			Issuer:    issuer,
		},
	}

	token := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse verifies the signature and expiry of a cookie value.
func (m *Manager) Parse(tokenString string) (*Claims, error) {
	token, err := jwtv5.ParseWithClaims(tokenString, &Claims{}, func(t *jwtv5.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtv5.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return m.secret, nil
	}, jwtv5.WithIssuer(issuer))

	if err != nil {
		if errors.Is(err, jwtv5.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.ID == "" {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
