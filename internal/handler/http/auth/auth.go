// Package auth verifies the identity of API callers. Production deployments
// verify signed bearer tokens; local development can run against a mock
// verifier that trusts a plain header.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type ctxKey string

const ctxEmail ctxKey = "email"

// ErrUnauthorized is returned when a request carries no usable identity.
var ErrUnauthorized = errors.New("unauthorized")

// EmailFromContext returns the verified caller email, or "" if the request
// was not authenticated.
func EmailFromContext(ctx context.Context) string {
	if email, ok := ctx.Value(ctxEmail).(string); ok {
		return email
	}
	return ""
}

// Verifier extracts and validates the caller identity from a request.
type Verifier interface {
	Verify(r *http.Request) (email string, err error)
}

// NewVerifierFromEnv selects a verifier based on the environment.
// With JWT_SECRET set, bearer tokens are verified; otherwise identity comes
// from the X-Mock-Email header, which is only suitable for local development.
func NewVerifierFromEnv(logger *slog.Logger) Verifier {
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		return &JWTVerifier{Secret: []byte(secret)}
	}
	logger.Warn("JWT_SECRET not set, using mock authentication (X-Mock-Email header)")
	return &MockVerifier{}
}

// JWTVerifier validates HS256 bearer tokens carrying an email claim.
type JWTVerifier struct {
	Secret []byte
}

// Verify parses the Authorization header and returns the email claim.
func (v *JWTVerifier) Verify(r *http.Request) (string, error) {
	const prefix = "Bearer "
	authz := r.Header.Get("Authorization")
	if !strings.HasPrefix(authz, prefix) {
		return "", errors.New("missing bearer token")
	}
	tokenString := strings.TrimPrefix(authz, prefix)

	tok, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return v.Secret, nil
	})
	if err != nil || !tok.Valid {
		return "", errors.New("invalid token")
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid claims")
	}
	if exp, ok := claims["exp"].(float64); ok && int64(exp) < time.Now().Unix() {
		return "", errors.New("token expired")
	}
	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return "", errors.New("invalid email claim")
	}
	return email, nil
}

// MockVerifier trusts the X-Mock-Email header. Development only.
type MockVerifier struct{}

// Verify returns the X-Mock-Email header value.
func (v *MockVerifier) Verify(r *http.Request) (string, error) {
	email := strings.TrimSpace(r.Header.Get("X-Mock-Email"))
	if email == "" {
		return "", errors.New("missing X-Mock-Email header")
	}
	return email, nil
}

// RequireUser wraps a handler and rejects requests without a verifiable
// identity. The verified email is added to the request context.
func RequireUser(v Verifier, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		email, err := v.Verify(r)
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), ctxEmail, email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
