// Package auth issues and verifies the signed session tokens and holds the
// bcrypt password helpers. The server keeps no session state: the token in
// the cookie is the entire session.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// DefaultTTL is the session lifetime baked into issued tokens.
const DefaultTTL = 24 * time.Hour

var (
	// ErrTokenExpired marks a structurally valid token past its expiry.
	ErrTokenExpired = errors.New("auth: token expired")
	// ErrTokenMalformed marks a token with a bad signature or structure.
	ErrTokenMalformed = errors.New("auth: token malformed")
)

// Claims holds the typed JWT payload: the user's id and display name.
type Claims struct {
	UserID string `json:"id"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

// Service signs and verifies session tokens. The secret is injected once
// at construction and never read from anywhere else.
type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// New builds a token service. A non-positive ttl falls back to DefaultTTL.
func New(secret string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue creates a signed token asserting {id, name}, expiring ttl from now.
func (s *Service) Issue(userID, name string) (string, error) {
	now := s.now()
	claims := Claims{
		UserID: userID,
		Name:   name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify parses and validates a token string. Expiry is reported as
// ErrTokenExpired, any other parse or signature failure as ErrTokenMalformed.
func (s *Service) Verify(t string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(t, &Claims{},
		func(*jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenMalformed
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenMalformed
	}

	return claims, nil
}

// HashPassword returns a bcrypt hash of the plain-text password.
func HashPassword(plain string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword compares a bcrypt hash against the plain-text candidate.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
