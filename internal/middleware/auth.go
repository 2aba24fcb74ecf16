package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/doshakada/ordering-api/internal/config"
)

// TokenVerifier checks an admin session token
type TokenVerifier interface {
	Verify(token string) error
}

// AdminAuth guards the kitchen endpoints. A request is let through with
// either a configured key in the "api_key" header, or a session token as
// "Authorization: Bearer <token>" or "?token=<token>". The query form exists
// because browsers cannot set headers on websocket upgrades.
func AdminAuth(cfg config.AuthConfig, sessions TokenVerifier) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiKey := r.Header.Get("api_key")
			token := bearerToken(r)

			if apiKey == "" && token == "" {
				writeError(w, http.StatusUnauthorized, "Unauthorized: API key or session token required")
				return
			}

			if apiKey != "" && validAPIKey(cfg.APIKeys, apiKey) {
				next.ServeHTTP(w, r)
				return
			}
			if token != "" && sessions != nil && sessions.Verify(token) == nil {
				next.ServeHTTP(w, r)
				return
			}

			writeError(w, http.StatusForbidden, "Forbidden: invalid credentials")
		})
	}
}

func validAPIKey(keys []string, apiKey string) bool {
	for _, validKey := range keys {
		if subtle.ConstantTimeCompare([]byte(apiKey), []byte(validKey)) == 1 {
			return true
		}
	}
	return false
}

func bearerToken(r *http.Request) string {
	authz := r.Header.Get("Authorization")
	if authz != "" {
		parts := strings.SplitN(authz, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	return r.URL.Query().Get("token")
}

// writeError mirrors the handlers' {"error": ...} body
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
