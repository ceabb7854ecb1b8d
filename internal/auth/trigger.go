package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// TriggerAuthenticator guards the privileged processing trigger endpoint
// with a static bearer token shared with the scheduler that fires it.
type TriggerAuthenticator struct {
	token string
}

func NewTriggerAuthenticator(token string) *TriggerAuthenticator {
	return &TriggerAuthenticator{token: token}
}

func (a *TriggerAuthenticator) Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.token == "" {
			http.Error(w, "trigger endpoint disabled", http.StatusUnauthorized)
			return
		}

		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			http.Error(w, "No token provided", http.StatusUnauthorized)
			return
		}

		presented := strings.TrimPrefix(header, "Bearer ")
		if subtle.ConstantTimeCompare([]byte(presented), []byte(a.token)) != 1 {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}
