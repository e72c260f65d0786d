package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/taskforge/taskforge-api/internal/model"
	"github.com/taskforge/taskforge-api/internal/service"
)

type contextKey string

const identityKey contextKey = "identity"

// Authenticate returns middleware that opportunistically resolves a Bearer
// token into an identity on the request context. It never rejects a request:
// missing, malformed, expired, or revoked tokens simply leave the request
// anonymous, and each protected route decides via RequireUser. Paths matching
// a skip prefix bypass resolution entirely.
func Authenticate(auth *service.AuthService, skipPrefixes []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, prefix := range skipPrefixes {
				if strings.HasPrefix(r.URL.Path, prefix) {
					next.ServeHTTP(w, r)
					return
				}
			}

			token, found := bearerToken(r)
			if !found {
				next.ServeHTTP(w, r)
				return
			}

			if _, ok := IdentityFromContext(r.Context()); ok {
				next.ServeHTTP(w, r)
				return
			}

			identity, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUser is the authorization guard for protected routes: 401 unless an
// identity was attached by Authenticate. Guarding here, per route group,
// means drift in the resolver's skip list can never expose a protected route.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := IdentityFromContext(r.Context()); !ok {
			writeJSONError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// IdentityFromContext extracts the authenticated identity from the request context.
func IdentityFromContext(ctx context.Context) (*model.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(*model.Identity)
	return identity, ok
}

// WithIdentity returns a context carrying the given identity. Test helper and
// escape hatch for internal callers.
func WithIdentity(ctx context.Context, identity *model.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// bearerToken extracts the token from an "Authorization: Bearer ..." header.
func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	token, found := strings.CutPrefix(authHeader, "Bearer ")
	if !found || token == "" {
		return "", false
	}
	return token, true
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
