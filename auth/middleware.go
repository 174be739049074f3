package auth

// This file defines the identity-resolving middleware: the single mandatory
// gate for every authenticated operation. It validates the bearer token and
// then resolves the subject to an actual user record from the store,
// rejecting tokens whose user no longer exists or has been soft-deleted.
// Handlers read the resolved user from the request context for ownership
// checks.

import (
	"context"
	"net/http"
	"strings"

	"github.com/user/madang-go/apperror"
	"github.com/user/madang-go/config"
	"github.com/user/madang-go/store"
)

// contextKey is a custom type for context keys to avoid collisions with keys
// set by other packages.
type contextKey string

// userContextKey is the key under which the resolved acting user is stored.
const userContextKey contextKey = "auth_user"

// Middleware returns the identity-resolving middleware. It verifies the
// Authorization header, validates the JWT, loads the subject user from the
// users collection, and injects the full user record into the request
// context. Every failure maps to 401.
func Middleware(cfg *config.AuthConfig, st *store.Store) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				WriteError(w, r, apperror.NewAuthError("Authorization header is missing", nil))
				return
			}

			// The Authorization header must be "Bearer {token}".
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				WriteError(w, r, apperror.NewAuthError("Authorization header format must be Bearer {token}", nil))
				return
			}

			claims, err := ParseToken(parts[1], cfg.JWTSecret)
			if err != nil {
				WriteError(w, r, err)
				return
			}

			user, err := resolveUser(st, claims.UserID)
			if err != nil {
				WriteError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// resolveUser looks the token subject up in the users collection. A subject
// that is missing or soft-deleted yields an AuthError: the token may be
// cryptographically valid, but it no longer acts for anyone.
func resolveUser(st *store.Store, userID string) (*User, error) {
	var users []User
	if err := st.Load(usersCollection, &users); err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].UserID == userID {
			if !users[i].Active() {
				return nil, apperror.NewAuthError("account has been deleted", nil)
			}
			return &users[i], nil
		}
	}
	return nil, apperror.NewAuthError("user for token no longer exists", nil)
}

// CurrentUser retrieves the acting user placed in the context by Middleware.
// The second return value is false when the request did not pass through the
// middleware.
func CurrentUser(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(userContextKey).(*User)
	return user, ok
}

// NewContextWithUser returns a child context carrying the acting user.
// Exposed for handler tests that bypass the HTTP middleware.
func NewContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}
