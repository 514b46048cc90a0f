package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/oakline/partnertrack/internal/models"
	"github.com/oakline/partnertrack/internal/rbac"
)

type contextKey struct{}

var userContextKey contextKey

// Middleware authenticates a bearer token and stores the claims on the
// request context.
func Middleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				http.Error(w, `{"error":"missing bearer token"}`, http.StatusUnauthorized)
				return
			}
			claims, err := ValidateToken(secret, token)
			if err != nil {
				http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), userContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

// GetUser returns the authenticated claims, or nil.
func GetUser(ctx context.Context) *Claims {
	claims, _ := ctx.Value(userContextKey).(*Claims)
	return claims
}

// ActorFromContext converts the authenticated claims into the shape the
// access checks consume. Returns nil when unauthenticated or the stored role
// is not in the current role set.
func ActorFromContext(ctx context.Context) *rbac.Actor {
	claims := GetUser(ctx)
	if claims == nil || !models.ValidRole(claims.Role) {
		return nil
	}
	return &rbac.Actor{Email: claims.Email, Role: claims.Role}
}
