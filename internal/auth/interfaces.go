package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/redmonkez12/taskapi/internal/user"
)

// TokenService issues and verifies stateless access tokens.
// Implementations: JWTService (HS256) and PasetoService (PASETO v4.local).
type TokenService interface {
	Issue(subject, username string) (string, error)
	Verify(token string) (*Claims, error)
}

// PasswordHasher is a one-way salted password hash.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(encodedHash, password string) (bool, error)
}

// UserStore is the slice of the user repository the auth flows need.
type UserStore interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	Create(ctx context.Context, email, username, passwordHash string) (*user.User, error)
}
