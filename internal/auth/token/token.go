// Package token issues and verifies stateless signed session tokens,
// decoupled from the cookie transport so it can be tested without HTTP.
package token

import (
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/golang-jwt/jwt/v5"
	"github.com/techdrop/catalog/internal/auth/domain"
	"github.com/techdrop/catalog/internal/clock"
)

// TTL is the session lifetime. Tokens are valid until expiry with no
// server-side revocation; logout only deletes the client cookie.
const TTL = 7 * 24 * time.Hour

type Issuer interface {
	Issue(identity domain.Identity) (raw string, expiresAt time.Time, err error)
	Verify(raw string) (*domain.Identity, error)
}

type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type issuer struct {
	secret []byte
	clock  clock.Clock
}

func NewIssuer(secret string, clk clock.Clock) (Issuer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("token signing secret is required")
	}
	return &issuer{secret: []byte(secret), clock: clk}, nil
}

func (i *issuer) Issue(identity domain.Identity) (string, time.Time, error) {
	now := i.clock.Now()
	expiresAt := now.Add(TTL)

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role: identity.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})

	raw, err := t.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return raw, expiresAt, nil
}

func (i *issuer) Verify(raw string) (*domain.Identity, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.clock.Now),
	)

	var parsed claims
	_, err := parser.ParseWithClaims(strings.TrimSpace(raw), &parsed, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrInvalidToken
	}

	id, err := snowflake.ParseString(parsed.Subject)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	return &domain.Identity{ID: id, Role: parsed.Role}, nil
}
