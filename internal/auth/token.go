package auth

import (
	"errors"
	"time"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Claims is the identity carried by an access token
type Claims struct {
	Subject   string    `json:"sub"`
	Username  string    `json:"username"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}

// Clock returns the current time; tokens read it for iat/exp.
type Clock func() time.Time

// NewTokenService picks the implementation for the configured token format.
func NewTokenService(format string, secret []byte, ttl time.Duration) (TokenService, error) {
	switch format {
	case "", "jwt":
		return NewJWTService(secret, ttl, time.Now)
	case "paseto":
		return NewPasetoService(secret, ttl, time.Now)
	default:
		return nil, errors.New("unsupported token format: " + format)
	}
}
