package middleware

import (
	"crypto/hmac"
	"encoding/json"
	"net/http"
)

// AdminHeader carries the shared admin secret on protected routes.
const AdminHeader = "X-Admin-Pass"

// Authorizer decides whether a presented admin credential is valid. The
// ledger never sees credentials; swapping in a stronger scheme only means
// supplying a different Authorizer.
type Authorizer func(credential string) bool

// SharedSecret returns an Authorizer that compares the credential against
// the configured secret in constant time. An empty secret authorizes
// nothing, so a misconfigured deployment fails closed.
func SharedSecret(secret string) Authorizer {
	return func(credential string) bool {
		if secret == "" || credential == "" {
			return false
		}
		return hmac.Equal([]byte(credential), []byte(secret))
	}
}

// AdminAuth guards admin routes with the given Authorizer, answering 401
// with the wire error body the admin client expects.
func AdminAuth(authorize Authorizer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !authorize(r.Header.Get(AdminHeader)) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "no autorizado"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
