// internal/middleware/auth.go
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/agrostack/fieldops/internal/auth"
	"github.com/google/uuid"
)

type userContextKey string

// ActingUserKey holds the authenticated user's id in the request context.
const ActingUserKey userContextKey = "fieldops_acting_user"

// AuthMiddleware validates the bearer token and stores the acting user's id
// in the request context. Handlers thread it explicitly into every service
// call; there is no ambient "current user" anywhere below this point.
func AuthMiddleware(tokenManager *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respondWithError(w, http.StatusUnauthorized, "No authorization header")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				respondWithError(w, http.StatusUnauthorized, "Invalid authorization header")
				return
			}

			claims, err := tokenManager.Validate(parts[1])
			if err != nil {
				respondWithError(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			userID, err := uuid.Parse(claims.UserID)
			if err != nil {
				respondWithError(w, http.StatusUnauthorized, "Invalid token subject")
				return
			}

			ctx := context.WithValue(r.Context(), ActingUserKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ActingUser extracts the authenticated user id stored by AuthMiddleware.
func ActingUser(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(ActingUserKey).(uuid.UUID)
	return id, ok
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}
