package auth

import (
	"log"
	"net/http"
)

// Middleware validates the bearer token and forwards the participant identity
// to the wrapped handler via headers.
func Middleware(tokens *Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				// Query parameter fallback for clients that cannot set headers
				if token := r.URL.Query().Get("token"); token != "" {
					authHeader = "Bearer " + token
				}
			}

			tokenString, err := ExtractTokenFromHeader(authHeader)
			if err != nil {
				http.Error(w, "Unauthorized: Missing token", http.StatusUnauthorized)
				return
			}

			claims, err := tokens.ValidateToken(tokenString)
			if err != nil {
				log.Printf("token validation error: %v", err)
				http.Error(w, "Unauthorized: Invalid token", http.StatusUnauthorized)
				return
			}

			r.Header.Set("X-Player-ID", claims.PlayerID)
			r.Header.Set("X-Room-Code", claims.RoomCode)

			next.ServeHTTP(w, r)
		})
	}
}
