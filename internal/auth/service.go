package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/redmonkez12/taskapi/internal/logging"
	"github.com/redmonkez12/taskapi/internal/user"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrAccountGone        = errors.New("account no longer exists")
)

// UsernameTakenError carries alternative usernames for a taken one
type UsernameTakenError struct {
	Username    string
	Suggestions []string
}

func (e *UsernameTakenError) Error() string {
	return fmt.Sprintf("username %q is already taken", e.Username)
}

func (e *UsernameTakenError) Unwrap() error {
	return ErrUsernameTaken
}

// AuthResult is a freshly issued token and the user it belongs to
type AuthResult struct {
	Token string
	User  *user.User
}

// Service handles authentication business logic
type Service struct {
	users  UserStore
	hasher PasswordHasher
	tokens TokenService
	logger *logging.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewService(users UserStore, hasher PasswordHasher, tokens TokenService, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Service{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		logger: logger,
	}
}

// NormalizeIdentifier lower-cases and trims an email or username
func NormalizeIdentifier(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Register creates a new account and signs the user in. The request must
// already be validated. Uniqueness is checked before hashing so doomed
// requests stay cheap; the store's constraints have the final word.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	email := NormalizeIdentifier(req.Email)
	username := NormalizeIdentifier(req.Username)

	emailTaken, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if emailTaken {
		return nil, ErrEmailTaken
	}

	usernameTaken, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if usernameTaken {
		return nil, usernameTakenError(username, email)
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	newUser, err := s.users.Create(ctx, email, username, passwordHash)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrDuplicateEmail):
			return nil, ErrEmailTaken
		case errors.Is(err, user.ErrDuplicateUsername):
			return nil, usernameTakenError(username, email)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.Issue(newUser.ID.String(), newUser.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &AuthResult{Token: token, User: newUser}, nil
}

// Login checks credentials and issues a token. Unknown email and wrong
// password both return ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	email := NormalizeIdentifier(req.Email)

	existingUser, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			// Spend the same hashing time as a real check.
			s.burnVerify(req.Password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	ok, err := s.hasher.Verify(existingUser.PasswordHash, req.Password)
	if err != nil {
		s.logger.Warn("stored password hash is unreadable", "user_id", existingUser.ID, "error", err.Error())
		return nil, ErrInvalidCredentials
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(existingUser.ID.String(), existingUser.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &AuthResult{Token: token, User: existingUser}, nil
}

// Me loads the account behind a verified token. A token that outlived its
// account yields ErrAccountGone.
func (s *Service) Me(ctx context.Context, identity Identity) (*user.User, error) {
	u, err := s.users.GetByID(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrAccountGone
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

func (s *Service) burnVerify(password string) {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash("dummy-password-for-timing")
		if err != nil {
			s.logger.Warn("failed to prepare dummy hash", "error", err.Error())
			return
		}
		s.dummyHash = hash
	})
	if s.dummyHash != "" {
		_, _ = s.hasher.Verify(s.dummyHash, password)
	}
}

func usernameTakenError(username, email string) *UsernameTakenError {
	base := username
	if base == "" {
		base = UsernameFromEmail(email)
	}
	return &UsernameTakenError{Username: username, Suggestions: Suggestions(base)}
}
