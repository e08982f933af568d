package hooks

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"

	"github.com/siscomando/api/internal/api/domain"
	"github.com/siscomando/api/internal/api/render"
	"github.com/siscomando/api/internal/api/store"
	"github.com/siscomando/api/pkg/cryptox"
	"github.com/siscomando/api/pkg/tokenx"
)

// UserCreate derives the server-managed user fields before insert:
// username from the email local part, a signed bearer token, the email
// fingerprint and the password hash.
//
// On entry each user's PasswordHash field holds the submitted plaintext
// password; the hook replaces it with the argon2id encoding, so plaintext
// never reaches the store.
type UserCreate struct {
	Tokens *tokenx.Service
}

func (h UserCreate) Apply(ctx context.Context, users []*domain.User) error {
	for _, u := range users {
		u.Username = UsernameFromEmail(u.Email)

		token, err := h.Tokens.Issue(u.ID)
		if err != nil {
			return fmt.Errorf("issue token: %w", err)
		}
		u.Token = token

		sum := md5.Sum([]byte(u.Email))
		u.MD5Email = hex.EncodeToString(sum[:])

		hash, err := cryptox.HashPassword(u.PasswordHash)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = hash
	}
	return nil
}

// UsernameFromEmail derives the display handle: the lower-cased local
// part of the email with dots removed.
func UsernameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return strings.ToLower(strings.ReplaceAll(local, ".", ""))
}

// UserOwner stamps each freshly inserted user as its own owner. The owner
// field is what the singleton "me" view keys on.
type UserOwner struct {
	Users store.Users
}

func (h UserOwner) ApplyInserted(ctx context.Context, users []*domain.User) error {
	for _, u := range users {
		if err := h.Users.SetOwner(ctx, u.ID, u.ID); err != nil {
			return fmt.Errorf("stamp owner for %s: %w", u.ID, err)
		}
		u.Owner = u.ID
	}
	return nil
}

// UserSearchFilter maps the "search" query parameter onto the user list
// filter. A leading "@" is stripped so "@handle" and "handle" search the
// same way.
func UserSearchFilter(query url.Values, f *store.UserFilter) {
	s := query.Get("search")
	f.Username = strings.TrimPrefix(s, "@")
}

// CollapseSingleton flattens a one-item list envelope into the bare item
// document. The "me" view uses this so callers receive their account as a
// single object rather than a list of one.
func CollapseSingleton(envelope render.Doc) (render.Doc, error) {
	items, ok := envelope["_items"].([]render.Doc)
	if !ok || len(items) != 1 {
		return nil, ErrNotSingleton
	}
	return items[0], nil
}
