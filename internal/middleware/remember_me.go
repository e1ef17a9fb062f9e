package middleware

import (
	"errors"
	"fmt"
	"time"

	"github.com/gazer/client-registry/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidRememberMe = errors.New("invalid remember-me token")

// RememberMe issues persistent-login tokens. Each token is signed with the server
// secret and the user's password digest, so a password change revokes it.
type RememberMe struct {
	secret   []byte
	validity time.Duration
	now      func() time.Time
}

func NewRememberMe(secret string, validity time.Duration) *RememberMe {
	return &RememberMe{
		secret:   []byte(secret),
		validity: validity,
		now:      time.Now,
	}
}

// Validity is the lifetime of issued tokens.
func (r *RememberMe) Validity() time.Duration {
	return r.validity
}

// Issue returns a token for user and its expiry time.
func (r *RememberMe) Issue(user *models.User) (string, time.Time, error) {
	now := r.now()
	expires := now.Add(r.validity)
	claims := jwt.RegisteredClaims{
		Subject:   user.Email,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(r.keyFor(user))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign remember-me token: %w", err)
	}
	return signed, expires, nil
}

// Subject extracts the email a token claims to belong to, without verifying it.
func (r *RememberMe) Subject(token string) (string, error) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return "", ErrInvalidRememberMe
	}
	if claims.Subject == "" {
		return "", ErrInvalidRememberMe
	}
	return claims.Subject, nil
}

// Verify checks signature, expiry and subject of token against user.
func (r *RememberMe) Verify(token string, user *models.User) error {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return r.keyFor(user), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(r.now),
		jwt.WithSubject(user.Email),
	)
	if err != nil {
		return ErrInvalidRememberMe
	}
	return nil
}

func (r *RememberMe) keyFor(user *models.User) []byte {
	key := make([]byte, 0, len(r.secret)+1+len(user.Password))
	key = append(key, r.secret...)
	key = append(key, ':')
	return append(key, user.Password...)
}
