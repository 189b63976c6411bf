package auth

import (
	"crypto/sha256"
	"fmt"
	"io"
	"time"

	"aidanwoods.dev/go-paseto"
	"golang.org/x/crypto/hkdf"
)

var pasetoKeyInfo = []byte("taskapi paseto v4.local access token")

// PasetoService handles PASETO token creation and validation
// Uses v4.local (symmetric encryption with XChaCha20-Poly1305)
type PasetoService struct {
	symmetricKey paseto.V4SymmetricKey
	ttl          time.Duration
	now          Clock
}

// NewPasetoService derives the 32-byte v4.local key from secret with HKDF-SHA256.
func NewPasetoService(secret []byte, ttl time.Duration, now Clock) (*PasetoService, error) {
	if len(secret) < minSecretLen {
		return nil, fmt.Errorf("paseto secret must be at least %d bytes, got %d", minSecretLen, len(secret))
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %s", ttl)
	}
	if now == nil {
		now = time.Now
	}

	keyBytes := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, pasetoKeyInfo), keyBytes); err != nil {
		return nil, fmt.Errorf("failed to derive symmetric key: %w", err)
	}

	key, err := paseto.V4SymmetricKeyFromBytes(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to create symmetric key: %w", err)
	}

	return &PasetoService{symmetricKey: key, ttl: ttl, now: now}, nil
}

// Issue generates a new PASETO v4.local token for the given user
func (s *PasetoService) Issue(subject, username string) (string, error) {
	now := s.now()

	token := paseto.NewToken()
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(now.Add(s.ttl))
	token.SetSubject(subject)
	token.SetString("username", username)

	return token.V4Encrypt(s.symmetricKey, nil), nil
}

// Verify decrypts a PASETO v4.local token and checks its expiry
func (s *PasetoService) Verify(tokenStr string) (*Claims, error) {
	// Expiry is checked below against the service clock.
	parser := paseto.NewParserWithoutExpiryCheck()

	token, err := parser.ParseV4Local(s.symmetricKey, tokenStr, nil)
	if err != nil {
		return nil, ErrInvalidToken
	}

	expiresAt, err := token.GetExpiration()
	if err != nil {
		return nil, ErrInvalidToken
	}
	if !s.now().Before(expiresAt) {
		return nil, ErrExpiredToken
	}

	subject, err := token.GetSubject()
	if err != nil || subject == "" {
		return nil, ErrInvalidToken
	}

	username, err := token.GetString("username")
	if err != nil {
		return nil, ErrInvalidToken
	}

	issuedAt, err := token.GetIssuedAt()
	if err != nil {
		return nil, ErrInvalidToken
	}

	return &Claims{
		Subject:   subject,
		Username:  username,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}, nil
}
