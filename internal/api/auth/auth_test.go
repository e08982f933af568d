package auth

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/siscomando/api/internal/api/domain"
	"github.com/siscomando/api/internal/api/store"
	"github.com/siscomando/api/internal/api/store/drivers/sqlite"
	"github.com/siscomando/api/pkg/cryptox"
	"github.com/siscomando/api/pkg/httpx"
	"github.com/siscomando/api/pkg/idx"
	"github.com/siscomando/api/pkg/tokenx"
)

func TestMain(m *testing.M) {
	pepperPath := filepath.Join(os.TempDir(), "siscomando-auth-test-pepper")
	cryptox.SetPepperPath(pepperPath)

	os.Remove(pepperPath)
	defer os.Remove(pepperPath)

	os.Exit(m.Run())
}

type fixture struct {
	auth   *Authenticator
	users  store.Users
	tokens *tokenx.Service
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.ApplyMigrations())

	tokens, err := tokenx.New("auth-test-secret")
	require.NoError(t, err)

	return fixture{
		auth:   New(st.Users(), tokens),
		users:  st.Users(),
		tokens: tokens,
	}
}

func (f fixture) seedUser(t *testing.T, email, password string, roles ...string) domain.User {
	t.Helper()

	hash, err := cryptox.HashPassword(password)
	require.NoError(t, err)

	id := idx.New().String()
	token, err := f.tokens.Issue(id)
	require.NoError(t, err)

	now := time.Now().UTC()
	user := domain.User{
		ID:           id,
		Email:        email,
		PasswordHash: hash,
		Username:     email,
		Roles:        roles,
		Token:        token,
		Owner:        id,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, f.users.CreateUser(context.Background(), user))
	return user
}

func basicHeader(email, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(email+":"+password))
}

func TestCheckCredentialsBasic(t *testing.T) {
	f := newFixture(t)
	user := f.seedUser(t, "ada@example.com", "correct horse", domain.RoleUsers)
	ctx := context.Background()

	t.Run("valid credentials", func(t *testing.T) {
		got, err := f.auth.CheckCredentials(ctx, basicHeader("ada@example.com", "correct horse"), nil)
		require.NoError(t, err)
		require.Equal(t, user.ID, got.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := f.auth.CheckCredentials(ctx, basicHeader("ada@example.com", "wrong"), nil)
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := f.auth.CheckCredentials(ctx, basicHeader("ghost@example.com", "correct horse"), nil)
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("malformed header", func(t *testing.T) {
		for _, header := range []string{"", "Basic", "Basic !!!", "Digest abc"} {
			_, err := f.auth.CheckCredentials(ctx, header, nil)
			require.ErrorIs(t, err, ErrInvalidCredentials, "header %q", header)
		}
	})
}

func TestCheckCredentialsBearer(t *testing.T) {
	f := newFixture(t)
	user := f.seedUser(t, "ada@example.com", "pw", domain.RoleUsers)
	ctx := context.Background()

	t.Run("valid token", func(t *testing.T) {
		got, err := f.auth.CheckCredentials(ctx, "Bearer "+user.Token, nil)
		require.NoError(t, err)
		require.Equal(t, user.ID, got.ID)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := f.auth.CheckCredentials(ctx, "Bearer not-a-token", nil)
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("well signed but not on file", func(t *testing.T) {
		// Valid signature for an account that does not exist: rotated or
		// deleted accounts must be rejected despite the good signature.
		orphan, err := f.tokens.Issue(idx.New().String())
		require.NoError(t, err)

		_, err = f.auth.CheckCredentials(ctx, "Bearer "+orphan, nil)
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestCheckCredentialsRoles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	admin := f.seedUser(t, "admin@example.com", "pw", domain.RoleUsers, domain.RoleAdmins)
	f.seedUser(t, "plain@example.com", "pw", domain.RoleUsers)
	f.seedUser(t, "noroles@example.com", "pw")

	t.Run("role intersection passes", func(t *testing.T) {
		got, err := f.auth.CheckCredentials(ctx, basicHeader("admin@example.com", "pw"), []string{domain.RoleAdmins})
		require.NoError(t, err)
		require.Equal(t, admin.ID, got.ID)
	})

	t.Run("role mismatch looks like bad credentials", func(t *testing.T) {
		_, err := f.auth.CheckCredentials(ctx, basicHeader("plain@example.com", "pw"), []string{domain.RoleSuperusers})
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("empty role set is its own failure", func(t *testing.T) {
		_, err := f.auth.CheckCredentials(ctx, basicHeader("noroles@example.com", "pw"), nil)
		require.ErrorIs(t, err, ErrNoRoles)
	})
}

func TestRequireMiddleware(t *testing.T) {
	f := newFixture(t)
	user := f.seedUser(t, "ada@example.com", "pw", domain.RoleUsers)

	var gotUserID string
	var gotRoles []string
	handler := f.auth.Require(domain.RoleUsers)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = httpx.UserIDFromCtx(r.Context())
		gotRoles = httpx.RolesFromCtx(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("binds identity to the context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v2/comments", nil)
		req.Header.Set("Authorization", "Bearer "+user.Token)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Equal(t, user.ID, gotUserID)
		require.Equal(t, []string{domain.RoleUsers}, gotRoles)
	})

	t.Run("rejects missing credentials with a challenge", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v2/comments", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), "Basic")
	})
}
