package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const minSecretLen = 16

type jwtClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// JWTService signs HS256 JSON Web Tokens with a shared secret
type JWTService struct {
	secret []byte
	ttl    time.Duration
	now    Clock
}

func NewJWTService(secret []byte, ttl time.Duration, now Clock) (*JWTService, error) {
	if len(secret) < minSecretLen {
		return nil, fmt.Errorf("jwt secret must be at least %d bytes, got %d", minSecretLen, len(secret))
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %s", ttl)
	}
	if now == nil {
		now = time.Now
	}

	return &JWTService{secret: secret, ttl: ttl, now: now}, nil
}

// Issue creates a signed token for the given user
func (s *JWTService) Issue(subject, username string) (string, error) {
	now := s.now()

	claims := jwtClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the claims
func (s *JWTService) Verify(tokenStr string) (*Claims, error) {
	claims := &jwtClaims{}

	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid || claims.Subject == "" || claims.IssuedAt == nil {
		return nil, ErrInvalidToken
	}

	return &Claims{
		Subject:   claims.Subject,
		Username:  claims.Username,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
