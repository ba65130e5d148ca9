package auth

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrNoToken means no bearer token has been stored or supplied.
	ErrNoToken = errors.New("authentication token not found, please log in")
	// ErrTokenExpired means the stored token's exp claim is in the past.
	ErrTokenExpired = errors.New("authentication token expired, please log in again")
)

// TokenSource supplies the bearer credential for backend calls. The
// authentication subsystem owns the credential; implementations only read
// it and never mutate authentication state.
type TokenSource interface {
	Token() (string, error)
}

// StaticTokenSource returns a fixed token. An empty value behaves as
// unauthenticated.
type StaticTokenSource string

func (s StaticTokenSource) Token() (string, error) {
	if s == "" {
		return "", ErrNoToken
	}
	return string(s), nil
}

// EnvTokenSource reads the token from the named environment variable.
type EnvTokenSource string

func (e EnvTokenSource) Token() (string, error) {
	token := strings.TrimSpace(os.Getenv(string(e)))
	if token == "" {
		return "", ErrNoToken
	}
	if expired(token) {
		return "", ErrTokenExpired
	}
	return token, nil
}

// FileTokenSource reads the access token saved by `podedit login`.
type FileTokenSource struct {
	Path string
}

func (f FileTokenSource) Token() (string, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoToken
		}
		return "", err
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", ErrNoToken
	}
	if expired(token) {
		return "", ErrTokenExpired
	}
	return token, nil
}

// Save stores the token with owner-only permissions.
func (f FileTokenSource) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(f.Path, []byte(strings.TrimSpace(token)+"\n"), 0o600)
}

// expired checks the token's exp claim without verifying the signature;
// verification is the backend's job. Tokens that are not JWTs or carry no
// exp claim pass through and the backend decides.
func expired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Time.Before(time.Now())
}
