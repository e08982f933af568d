// Package auth authenticates requests and gates them on account roles.
// Two credential schemes are accepted: HTTP Basic with email and
// password, and Bearer with the account's server-issued token.
package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/siscomando/api/internal/api/domain"
	"github.com/siscomando/api/internal/api/store"
	"github.com/siscomando/api/pkg/cryptox"
	"github.com/siscomando/api/pkg/tokenx"
)

var (
	// ErrInvalidCredentials covers every authentication failure a caller
	// may not distinguish: unknown account, wrong password, bad token and
	// insufficient role alike.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")

	// ErrNoRoles marks an account that authenticated correctly but carries
	// an empty role set.
	ErrNoRoles = errors.New("auth: account has no roles")
)

// Authenticator validates request credentials against stored accounts.
type Authenticator struct {
	users  store.Users
	tokens *tokenx.Service
}

func New(users store.Users, tokens *tokenx.Service) *Authenticator {
	return &Authenticator{users: users, tokens: tokens}
}

// CheckCredentials resolves the Authorization header to an account and
// verifies it holds at least one of the allowed roles. An empty
// allowedRoles set means any authenticated account passes the role gate.
//
// A role mismatch returns ErrInvalidCredentials, indistinguishable from
// an unknown account, so probing cannot reveal which accounts exist.
func (a *Authenticator) CheckCredentials(ctx context.Context, header string, allowedRoles []string) (domain.User, error) {
	scheme, credentials, ok := strings.Cut(header, " ")
	if !ok || credentials == "" {
		return domain.User{}, ErrInvalidCredentials
	}

	var (
		user domain.User
		err  error
	)
	switch {
	case strings.EqualFold(scheme, "Basic"):
		user, err = a.checkBasic(ctx, credentials)
	case strings.EqualFold(scheme, "Bearer"):
		user, err = a.checkBearer(ctx, credentials)
	default:
		return domain.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return domain.User{}, err
	}

	if len(user.Roles) == 0 {
		return domain.User{}, ErrNoRoles
	}
	if !roleAllowed(user.Roles, allowedRoles) {
		return domain.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (a *Authenticator) checkBasic(ctx context.Context, credentials string) (domain.User, error) {
	decoded, err := base64.StdEncoding.DecodeString(credentials)
	if err != nil {
		return domain.User{}, ErrInvalidCredentials
	}
	email, password, ok := strings.Cut(string(decoded), ":")
	if !ok {
		return domain.User{}, ErrInvalidCredentials
	}

	user, err := a.users.GetUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return domain.User{}, err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		return domain.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// checkBearer verifies the token signature first, then requires the exact
// token to still be on file. Signature alone is not enough: a token that
// was rotated away must stop working even though it still verifies.
func (a *Authenticator) checkBearer(ctx context.Context, token string) (domain.User, error) {
	subject, err := a.tokens.Verify(token)
	if err != nil {
		return domain.User{}, ErrInvalidCredentials
	}

	user, err := a.users.GetUserByToken(ctx, token)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return domain.User{}, err
	}

	if user.ID != subject {
		return domain.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func roleAllowed(roles, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, have := range roles {
		for _, want := range allowed {
			if have == want {
				return true
			}
		}
	}
	return false
}
