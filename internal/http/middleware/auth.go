package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/juscash/djetracker/internal/auth"
	"github.com/juscash/djetracker/internal/http/api"
)

type contextKey string

const userIDKey contextKey = "userID"

// Verifier validates a bearer token and returns its claims.
type Verifier interface {
	Verify(token string) (*auth.Claims, error)
}

// Auth rejects requests without a valid bearer token and stores the caller's
// user id in the request context.
func Auth(tokens Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				api.Fail(w, http.StatusUnauthorized, "Token de acesso requerido")
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				api.Fail(w, http.StatusUnauthorized, "Token de acesso requerido")
				return
			}

			claims, err := tokens.Verify(token)
			if err != nil {
				api.Fail(w, http.StatusUnauthorized, "Token inválido")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID returns the authenticated user's id from the context, if any.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}
