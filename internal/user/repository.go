package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/uptrace/bun"

	"github.com/redmonkez12/taskapi/internal/database"
)

var (
	ErrNotFound          = errors.New("user not found")
	ErrDuplicateEmail    = errors.New("email already exists")
	ErrDuplicateUsername = errors.New("username already exists")
)

const (
	emailConstraint    = "users_email_key"
	usernameConstraint = "users_username_key"
)

// Repository handles user data persistence
type Repository struct {
	db bun.IDB
}

func NewRepository(db bun.IDB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user. The unique constraints on email and username are
// the source of truth; a violation comes back as ErrDuplicateEmail or
// ErrDuplicateUsername even when an earlier existence check passed.
func (r *Repository) Create(ctx context.Context, email, username, passwordHash string) (*User, error) {
	dbUser := &database.User{
		ID:           uuid.New(),
		Email:        email,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}

	_, err := r.db.NewInsert().
		Model(dbUser).
		Exec(ctx)
	if err != nil {
		if dupErr := classifyUniqueViolation(err); dupErr != nil {
			return nil, dupErr
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return mapDBUserToModel(dbUser), nil
}

// ExistsByEmail reports whether a user with this (normalized) email exists
func (r *Repository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	exists, err := r.db.NewSelect().
		Model((*database.User)(nil)).
		Where("email = ?", email).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return exists, nil
}

// ExistsByUsername reports whether a user with this (normalized) username exists
func (r *Repository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	exists, err := r.db.NewSelect().
		Model((*database.User)(nil)).
		Where("username = ?", username).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	return exists, nil
}

// GetByEmail retrieves the credentials needed for login
func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	dbUser := new(database.User)
	err := r.db.NewSelect().
		Model(dbUser).
		Column("id", "username", "email", "password_hash", "created_at").
		Where("email = ?", email).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return mapDBUserToModel(dbUser), nil
}

// GetByID retrieves a user by ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	dbUser := new(database.User)
	err := r.db.NewSelect().
		Model(dbUser).
		Where("id = ?", id).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return mapDBUserToModel(dbUser), nil
}

// Count returns the number of stored users
func (r *Repository) Count(ctx context.Context) (int, error) {
	n, err := r.db.NewSelect().Model((*database.User)(nil)).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

// classifyUniqueViolation maps PostgreSQL (23505) and SQLite unique
// violations to the matching duplicate error, or returns nil.
func classifyUniqueViolation(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code != "23505" {
			return nil
		}
		switch pqErr.Constraint {
		case emailConstraint:
			return ErrDuplicateEmail
		case usernameConstraint:
			return ErrDuplicateUsername
		}
		return nil
	}

	msg := err.Error()
	if !strings.Contains(msg, "UNIQUE constraint failed") {
		return nil
	}
	switch {
	case strings.Contains(msg, "users.email"):
		return ErrDuplicateEmail
	case strings.Contains(msg, "users.username"):
		return ErrDuplicateUsername
	}
	return nil
}

// mapDBUserToModel converts database model to domain model
func mapDBUserToModel(dbu *database.User) *User {
	return &User{
		ID:           dbu.ID,
		Email:        dbu.Email,
		Username:     dbu.Username,
		PasswordHash: dbu.PasswordHash,
		CreatedAt:    dbu.CreatedAt,
	}
}
