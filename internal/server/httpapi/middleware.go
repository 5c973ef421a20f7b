package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/roomchat/internal/server/auth"
	"github.com/dmitrijs2005/roomchat/internal/server/models"
)

type ctxKey string

const identityKey ctxKey = "identity"

// requireAuth checks the Authorization header for a bearer token and stores
// the verified identity in the request context.
func (a *API) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "missing or malformed authorization header")
			return
		}

		identity, err := a.verifier.Verify(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, identity)
		next(w, r.WithContext(ctx))
	}
}

// requireAdmin is requireAuth plus a role check.
func (a *API) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return a.requireAuth(func(w http.ResponseWriter, r *http.Request) {
		if identityFrom(r.Context()).Role != models.RoleAdmin {
			writeError(w, http.StatusForbidden, "admin privileges required")
			return
		}
		next(w, r)
	})
}

// identityFrom returns the identity stored by requireAuth. It must only be
// called from handlers wrapped by the auth middleware.
func identityFrom(ctx context.Context) *auth.Identity {
	return ctx.Value(identityKey).(*auth.Identity)
}
