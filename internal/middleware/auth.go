package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/R6Joan/Festa-Roser/internal/models"
)

type contextKey string

const (
	// IdentityContextKey carries the resolved identity, or nothing for
	// anonymous requests
	IdentityContextKey contextKey = "identity"

	// SessionCookieName is the cookie holding the session token
	SessionCookieName = "session_token"
)

// IdentityResolver maps a session token to an identity, or nil for none
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (*models.Identity, error)
}

// GetIdentityFromContext retrieves the resolved identity from request
// context; nil means the request is anonymous.
func GetIdentityFromContext(ctx context.Context) *models.Identity {
	if identity, ok := ctx.Value(IdentityContextKey).(*models.Identity); ok {
		return identity
	}
	return nil
}

// Identify creates middleware that resolves the session cookie to an
// identity and stores it on the request context. Requests without a valid
// session pass through anonymously; individual handlers decide whether
// authentication is required.
func Identify(resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			identity, err := resolver.Resolve(r.Context(), cookie.Value)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(map[string]string{"error": "Internal server error."})
				return
			}

			if identity == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), IdentityContextKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
