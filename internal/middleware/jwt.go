package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/assetflow/assetflow/internal/models"
)

type key string

const actorKey key = "actor"

// GetActor returns the authenticated user stored by JWTMiddleware.
func GetActor(ctx context.Context) (models.User, bool) {
	u, ok := ctx.Value(actorKey).(models.User)
	return u, ok
}

// WithActor returns a context carrying the given user. Exposed for handler
// tests that bypass the middleware chain.
func WithActor(ctx context.Context, u models.User) context.Context {
	return context.WithValue(ctx, actorKey, u)
}

// JWTMiddleware validates the Bearer token and stores the actor (id,
// username, email, role) from the claims on the request context. The policy
// layer decides per-operation what that actor may do; this middleware only
// establishes identity.
func JWTMiddleware(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "missing authorization header", http.StatusUnauthorized)
				return
			}

			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
				return secret, nil
			}, jwt.WithValidMethods([]string{"HS256"}))
			if err != nil || !token.Valid {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				http.Error(w, "invalid token claims", http.StatusUnauthorized)
				return
			}
			userID, ok := claims["user_id"].(float64)
			if !ok {
				http.Error(w, "invalid token claims", http.StatusUnauthorized)
				return
			}
			actor := models.User{ID: int(userID)}
			if v, ok := claims["username"].(string); ok {
				actor.Username = v
			}
			if v, ok := claims["email"].(string); ok {
				actor.Email = v
			}
			if v, ok := claims["role"].(string); ok {
				actor.Role = v
			}

			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}
