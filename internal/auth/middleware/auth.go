package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/signalpanel/auth-service/internal/auth/service"
	"github.com/signalpanel/auth-service/internal/models"
)

type contextKey string

const (
	accountKey contextKey = "account"
	roleKey    contextKey = "role"
)

// AuthMiddleware validates the bearer token and stores the verified
// account and role in the request context.
//
// The claims embedded in the token are trusted as-is; the middleware
// never reads the user store. A role change only takes effect once the
// user logs in again and receives a fresh token.
func AuthMiddleware(tokenGenerator *service.TokenGenerator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				respondError(w, http.StatusUnauthorized, models.ErrMissingCredentials.Error())
				return
			}

			account, role, err := tokenGenerator.ValidateToken(token)
			if err != nil {
				respondError(w, http.StatusUnauthorized, models.ErrInvalidToken.Error())
				return
			}

			ctx := context.WithValue(r.Context(), accountKey, account)
			ctx = context.WithValue(ctx, roleKey, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header. A missing header or any other scheme yields false.
func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", false
	}

	return parts[1], true
}

// GetAccount retrieves the authenticated account from context
func GetAccount(ctx context.Context) (string, bool) {
	account, ok := ctx.Value(accountKey).(string)
	return account, ok
}

// GetRole retrieves the authenticated role from context
func GetRole(ctx context.Context) (models.Role, bool) {
	role, ok := ctx.Value(roleKey).(models.Role)
	return role, ok
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"error":"` + message + `"}`))
}
