package middleware

import (
	"net/http"
	"strings"

	"github.com/dukerupert/homebase/internal/auth"
	"github.com/dukerupert/homebase/internal/errutil"
	"github.com/dukerupert/homebase/internal/respond"
)

// TokenVerifier verifies a bearer token.
type TokenVerifier interface {
	Verify(token string) (auth.Identity, error)
}

// BearerToken returns the token of an "Authorization: Bearer <token>"
// header, or "" when there is none.
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// RequireAuth verifies the bearer token and stores the caller's Identity
// in the request context. It does not check roles.
func RequireAuth(tokens TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				respond.Error(w, http.StatusUnauthorized, errutil.Title(errutil.CodeUnauthorized), "No token provided")
				return
			}

			id, err := tokens.Verify(token)
			if err != nil {
				respond.Error(w, http.StatusUnauthorized, errutil.Title(errutil.CodeUnauthorized), "Invalid or expired token")
				return
			}

			ctx := auth.WithIdentity(r.Context(), id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
