// Package tokenx issues and verifies the opaque bearer credentials bound
// to user accounts. A token is an HS256-signed JWT carrying the account id
// and issuance time; accounts store the issued string verbatim, so a token
// can also be matched by plain equality lookup for revocation.
package tokenx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMissingSecret reports a service constructed without a signing
	// secret. Unsigned tokens must never be issued, so this is fatal at
	// startup rather than a per-request failure.
	ErrMissingSecret = errors.New("tokenx: signing secret is not set")

	// ErrInvalidToken reports a token that fails signature or claims
	// verification.
	ErrInvalidToken = errors.New("tokenx: invalid token")
)

// Service signs and verifies bearer tokens with a server-held secret.
type Service struct {
	secret []byte
}

// New returns a token service. The secret must be non-empty.
func New(secret string) (*Service, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return &Service{secret: []byte(secret)}, nil
}

type claims struct {
	jwt.RegisteredClaims
}

// Issue produces a signed credential binding an identity id and the
// issuance time. The result is ASCII-safe for transport in an
// Authorization header.
func (s *Service) Issue(identityID string) (string, error) {
	return s.IssueAt(identityID, time.Now().UTC())
}

// IssueAt is Issue with an explicit issuance time, useful in tests.
func (s *Service) IssueAt(identityID string, now time.Time) (string, error) {
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  identityID,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
}

// Verify checks the token signature and returns the identity id it was
// issued for.
func (s *Service) Verify(token string) (string, error) {
	t, err := jwt.ParseWithClaims(token, &claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		return "", ErrInvalidToken
	}

	c, ok := t.Claims.(*claims)
	if !ok || !t.Valid || c.Subject == "" {
		return "", ErrInvalidToken
	}
	return c.Subject, nil
}
