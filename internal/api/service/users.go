package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/siscomando/api/internal/api/domain"
	"github.com/siscomando/api/internal/api/hooks"
	"github.com/siscomando/api/internal/api/store"
	"github.com/siscomando/api/pkg/idx"
)

var (
	// ErrInvalidRequest marks client input that fails document validation.
	ErrInvalidRequest = errors.New("invalid_request")
)

// UserService owns the account collection: listing, creation with the
// derivation hooks, self-service profile edits and the singleton "me"
// view.
type UserService struct {
	Store  store.Store
	Create hooks.UserCreate
}

// NewUser captures the client-settable fields of an account document.
// Everything else (username, token, fingerprint, owner) is derived.
type NewUser struct {
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Roles    []string `json:"roles"`
}

func (r NewUser) validate() error {
	if r.Email == "" || !strings.Contains(r.Email, "@") {
		return fmt.Errorf("%w: a valid email is required", ErrInvalidRequest)
	}
	if r.Password == "" {
		return fmt.Errorf("%w: password is required", ErrInvalidRequest)
	}
	for _, role := range r.Roles {
		if !domain.KnownRole(role) {
			return fmt.Errorf("%w: unknown role %q", ErrInvalidRequest, role)
		}
	}
	return nil
}

// List returns a page of accounts. The "search" query parameter narrows
// by username substring, with a leading "@" tolerated.
func (s *UserService) List(ctx context.Context, query url.Values, page store.Page) ([]domain.User, int, error) {
	var f store.UserFilter
	hooks.UserSearchFilter(query, &f)
	return s.Store.Users().ListUsers(ctx, f, page)
}

func (s *UserService) Get(ctx context.Context, id string) (domain.User, error) {
	return s.Store.Users().GetUserByID(ctx, id)
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	return s.Store.Users().GetUserByUsername(ctx, username)
}

// CreateUsers validates and inserts a batch of accounts. The whole batch
// is atomic: one invalid or conflicting document rejects them all. Each
// inserted account is stamped as its own owner before the transaction
// commits.
func (s *UserService) CreateUsers(ctx context.Context, reqs []NewUser) ([]domain.User, error) {
	if len(reqs) == 0 {
		return nil, fmt.Errorf("%w: at least one document is required", ErrInvalidRequest)
	}

	now := time.Now().UTC()
	users := make([]*domain.User, 0, len(reqs))
	for _, req := range reqs {
		if err := req.validate(); err != nil {
			return nil, err
		}
		users = append(users, &domain.User{
			ID: idx.New().String(),
			// The create hook replaces the plaintext with the argon2id
			// encoding before anything reaches the store.
			PasswordHash: req.Password,
			Email:        req.Email,
			Roles:        req.Roles,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}

	if err := s.Create.Apply(ctx, users); err != nil {
		return nil, fmt.Errorf("apply user create hooks: %w", err)
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		for _, u := range users {
			if err := tx.Users().CreateUser(ctx, *u); err != nil {
				return err
			}
		}
		owner := hooks.UserOwner{Users: tx.Users()}
		return owner.ApplyInserted(ctx, users)
	})
	if err != nil {
		return nil, err
	}

	created := make([]domain.User, 0, len(users))
	for _, u := range users {
		created = append(created, *u)
	}
	return created, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, patch store.ProfilePatch) (domain.User, error) {
	if err := s.Store.Users().UpdateProfile(ctx, userID, patch); err != nil {
		return domain.User{}, err
	}
	return s.Store.Users().GetUserByID(ctx, userID)
}

func (s *UserService) Delete(ctx context.Context, userID string) error {
	return s.Store.Users().DeleteUser(ctx, userID)
}

func (s *UserService) DeleteAll(ctx context.Context) error {
	return s.Store.Users().DeleteAllUsers(ctx)
}

// Me resolves the caller's own account through the owner field.
func (s *UserService) Me(ctx context.Context, callerID string) (domain.User, error) {
	return s.Store.Users().GetUserByOwner(ctx, callerID)
}
