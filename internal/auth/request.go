package auth

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate checks the request shape; nothing is normalized yet.
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(1, 255), is.Email),
		validation.Field(&r.Username,
			validation.Required,
			validation.Length(MinUsernameLen, MaxUsernameLen),
			validation.Match(usernamePattern).Error("use letters, numbers, underscore"),
		),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 200)),
	)
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(1, 255), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 200)),
	)
}
