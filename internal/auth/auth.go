// Package auth issues and verifies the session tokens handed out by the
// simulated chat server on login. It is passed explicitly to whoever needs
// it; there is no ambient auth provider.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/five82/storekit/internal/clock"
)

var (
	// ErrInvalidToken is returned for malformed or wrongly signed tokens.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned for tokens past their expiry.
	ErrExpiredToken = errors.New("token expired")
)

const (
	minSecretLength = 32
	clockSkew       = 30 * time.Second
	issuerName      = "storekit"
)

// Claims describes a verified session token.
type Claims struct {
	User      string
	ID        string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type sessionClaims struct {
	User string `json:"usr"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies HMAC-SHA256 session tokens.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	clock  clock.Clock
}

// NewIssuer builds an Issuer. secret must be at least 32 bytes.
func NewIssuer(secret string, ttl time.Duration, clk clock.Clock) (*Issuer, error) {
	if len(secret) < minSecretLength {
		return nil, fmt.Errorf("auth secret must be at least %d characters", minSecretLength)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token lifetime must be positive")
	}
	if clk == nil {
		clk = clock.Real()
	}
	return &Issuer{secret: []byte(secret), ttl: ttl, clock: clk}, nil
}

// Issue returns a signed token for user.
func (i *Issuer) Issue(user string) (string, error) {
	user = strings.TrimSpace(user)
	if user == "" {
		return "", fmt.Errorf("user is empty")
	}
	now := i.clock.Now()
	claims := sessionClaims{
		User: user,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuerName,
			Subject:   user,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and lifetime of token.
func (i *Issuer) Verify(token string) (Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &sessionClaims{},
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return i.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithIssuer(issuerName),
		jwt.WithLeeway(clockSkew),
		jwt.WithTimeFunc(i.clock.Now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrExpiredToken
		}
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok || !parsed.Valid {
		return Claims{}, ErrInvalidToken
	}
	return Claims{
		User:      claims.User,
		ID:        claims.ID,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
