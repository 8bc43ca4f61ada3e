package api

import (
	"context"
	"net/http"
	"serwer-kont/internal/auth"
	"strings"
)

type contextKey string

const userContextKey = contextKey("user")

// AuthMiddleware accepts the access token from the accessToken cookie or,
// failing that, an Authorization: Bearer header.
func (s *Server) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var tokenString string

		if cookie, err := r.Cookie("accessToken"); err == nil {
			tokenString = cookie.Value
		} else {
			authHeader := r.Header.Get("Authorization")
			headerParts := strings.Split(authHeader, " ")
			if len(headerParts) == 2 && headerParts[0] == "Bearer" {
				tokenString = headerParts[1]
			}
		}

		if tokenString == "" {
			writeError(w, http.StatusUnauthorized, "Access token required")
			return
		}

		claims, err := auth.VerifyAccessToken(tokenString, s.config.JWT.AccessSecret)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid or expired access token")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, claims)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetUserFromContext(ctx context.Context) *auth.AccessClaims {
	if claims, ok := ctx.Value(userContextKey).(*auth.AccessClaims); ok {
		return claims
	}
	return nil
}
