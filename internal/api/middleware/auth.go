package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
)

// SecretHeader carries the shared ingest secret.
const SecretHeader = "X-Bot-Secret"

// RequireBotSecret rejects any request whose X-Bot-Secret header does not
// match the configured secret. The comparison is constant-time, and an empty
// configured secret rejects everything rather than accepting everything.
// The check runs before any body parsing, so a rejected request never touches
// relay state.
func RequireBotSecret(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get(SecretHeader)
			if secret == "" || subtle.ConstantTimeCompare([]byte(header), []byte(secret)) != 1 {
				jsonError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func jsonError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{"success": false, "error": message})
}
