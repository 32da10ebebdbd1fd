package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/pr-poehali-dev/cs2-gaming-public/internal/api/apierr"
	"github.com/pr-poehali-dev/cs2-gaming-public/internal/model"
	"github.com/pr-poehali-dev/cs2-gaming-public/internal/services/session"
)

type contextKey string

const identityContextKey contextKey = "identity"

// AuthHeader is the custom header carrying the bearer token
const AuthHeader = "X-Authorization"

// bearerPrefix is stripped from the header value
const bearerPrefix = "Bearer "

// Auth creates authentication middleware. Every request through it is
// verified against the session store before any handler runs.
func Auth(sessions *session.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			identity, err := sessions.Verify(r.Context(), token)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), identityContextKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ExtractToken extracts the bearer token from the request
func ExtractToken(r *http.Request) string {
	header := r.Header.Get(AuthHeader)
	return strings.TrimPrefix(header, bearerPrefix)
}

// GetIdentity returns the authenticated identity from the request context
func GetIdentity(ctx context.Context) *model.Identity {
	identity, _ := ctx.Value(identityContextKey).(*model.Identity)
	return identity
}

// MustGetIdentity returns the authenticated identity or panics
func MustGetIdentity(ctx context.Context) *model.Identity {
	identity := GetIdentity(ctx)
	if identity == nil {
		panic("no identity in context - auth middleware not applied?")
	}
	return identity
}
