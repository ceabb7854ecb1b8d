package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// LocalAuthenticator validates HS256 tokens signed with a shared private
// key. It backs on-prem deployments that have no SSO in front of them.
type LocalAuthenticator struct {
	key []byte
}

func NewLocalAuthenticator(privateKey string) (*LocalAuthenticator, error) {
	if privateKey == "" {
		return nil, errors.New("local authentication requires a private key")
	}
	return &LocalAuthenticator{key: []byte(privateKey)}, nil
}

func (a *LocalAuthenticator) Authenticate(token string) (User, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	t, err := parser.Parse(token, func(t *jwt.Token) (any, error) {
		return a.key, nil
	})
	if err != nil {
		zap.S().Named("auth").Errorf("failed to parse token: %s", err)
		return User{}, fmt.Errorf("failed to authenticate token: %w", err)
	}

	if !t.Valid {
		return User{}, errors.New("failed to parse or validate token")
	}

	return a.parseToken(t)
}

func (a *LocalAuthenticator) parseToken(userToken *jwt.Token) (User, error) {
	claims, ok := userToken.Claims.(jwt.MapClaims)
	if !ok {
		return User{}, errors.New("failed to parse jwt token claims")
	}

	username, ok := claims["sub"].(string)
	if !ok {
		return User{}, errors.New("token has no sub claim")
	}
	orgID, ok := claims["org_id"].(string)
	if !ok {
		return User{}, errors.New("token has no org_id claim")
	}

	return User{
		Username:     username,
		Organization: orgID,
		Token:        userToken,
	}, nil
}

func (a *LocalAuthenticator) Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accessToken := r.Header.Get("Authorization")
		if !strings.HasPrefix(accessToken, "Bearer ") {
			http.Error(w, "No token provided", http.StatusUnauthorized)
			return
		}

		user, err := a.Authenticate(strings.TrimPrefix(accessToken, "Bearer "))
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		ctx := NewTokenContext(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
