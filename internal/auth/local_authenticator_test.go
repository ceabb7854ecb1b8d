package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/tenderdesk/rfp-analyzer/internal/auth"
)

const signingKey = "test-signing-key"

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(signingKey))
	require.NoError(t, err)
	return token
}

func TestLocalAuthenticatorRequiresKey(t *testing.T) {
	_, err := auth.NewLocalAuthenticator("")
	require.Error(t, err)
}

func TestLocalAuthenticatorAcceptsSignedToken(t *testing.T) {
	a, err := auth.NewLocalAuthenticator(signingKey)
	require.NoError(t, err)

	user, err := a.Authenticate(signedToken(t, jwt.MapClaims{"sub": "maria", "org_id": "org-1"}))
	require.NoError(t, err)
	require.Equal(t, "maria", user.Username)
	require.Equal(t, "org-1", user.Organization)
}

func TestLocalAuthenticatorRejectsWrongKey(t *testing.T) {
	a, err := auth.NewLocalAuthenticator(signingKey)
	require.NoError(t, err)

	other, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "maria", "org_id": "org-1"}).
		SignedString([]byte("other-key"))
	require.NoError(t, err)

	_, err = a.Authenticate(other)
	require.Error(t, err)
}

func TestLocalAuthenticatorRejectsMissingClaims(t *testing.T) {
	a, err := auth.NewLocalAuthenticator(signingKey)
	require.NoError(t, err)

	_, err = a.Authenticate(signedToken(t, jwt.MapClaims{"sub": "maria"}))
	require.Error(t, err)

	_, err = a.Authenticate(signedToken(t, jwt.MapClaims{"org_id": "org-1"}))
	require.Error(t, err)
}

func TestLocalAuthenticatorMiddleware(t *testing.T) {
	a, err := auth.NewLocalAuthenticator(signingKey)
	require.NoError(t, err)

	handler := a.Authenticator(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := auth.MustHaveUser(r.Context())
		require.Equal(t, "maria", user.Username)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, jwt.MapClaims{"sub": "maria", "org_id": "org-1"}))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestTriggerAuthenticator(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("disabled without a token", func(t *testing.T) {
		handler := auth.NewTriggerAuthenticator("").Authenticator(next)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs/process", nil)
		req.Header.Set("Authorization", "Bearer anything")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects a wrong token", func(t *testing.T) {
		handler := auth.NewTriggerAuthenticator("secret").Authenticator(next)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs/process", nil)
		req.Header.Set("Authorization", "Bearer wrong")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("accepts the shared token", func(t *testing.T) {
		handler := auth.NewTriggerAuthenticator("secret").Authenticator(next)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs/process", nil)
		req.Header.Set("Authorization", "Bearer secret")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	})
}
