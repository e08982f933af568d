package auth

import (
	"errors"
	"net/http"

	"github.com/siscomando/api/pkg/httpx"
	"github.com/siscomando/api/pkg/slogx"
)

// Require returns a middleware that authenticates the request and
// verifies the account holds at least one of the allowed roles. The
// authenticated identity is bound into the request context for handlers
// to stamp owner, author and voter fields from.
func (a *Authenticator) Require(allowedRoles ...string) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := a.CheckCredentials(r.Context(), r.Header.Get("Authorization"), allowedRoles)
			if err != nil {
				unauthorized(w, r, err)
				return
			}

			ctx := httpx.ContextWithIdentity(r.Context(), user.ID, user.Roles)
			ctx = slogx.With(ctx, "user_id", user.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, r *http.Request, err error) {
	desc := "invalid credentials"
	if errors.Is(err, ErrNoRoles) {
		desc = "account has no roles assigned"
	}
	if !errors.Is(err, ErrInvalidCredentials) && !errors.Is(err, ErrNoRoles) {
		slogx.FromContext(r.Context()).Error("authentication check failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "authentication check failed")
		return
	}

	w.Header().Set("WWW-Authenticate", `Basic realm="siscomando"`)
	httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", desc)
}
