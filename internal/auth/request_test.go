package auth

import (
	"strings"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterRequest_Validate(t *testing.T) {
	valid := RegisterRequest{Email: "a@x.com", Username: "alice", Password: "password123"}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name  string
		req   RegisterRequest
		field string
	}{
		{"missing email", RegisterRequest{Username: "alice", Password: "password123"}, "email"},
		{"bad email", RegisterRequest{Email: "not-an-email", Username: "alice", Password: "password123"}, "email"},
		{"short username", RegisterRequest{Email: "a@x.com", Username: "al", Password: "password123"}, "username"},
		{"long username", RegisterRequest{Email: "a@x.com", Username: strings.Repeat("a", 25), Password: "password123"}, "username"},
		{"username charset", RegisterRequest{Email: "a@x.com", Username: "al ice!", Password: "password123"}, "username"},
		{"short password", RegisterRequest{Email: "a@x.com", Username: "alice", Password: "short"}, "password"},
		{"long password", RegisterRequest{Email: "a@x.com", Username: "alice", Password: strings.Repeat("p", 201)}, "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			require.Error(t, err)

			var errs validation.Errors
			require.ErrorAs(t, err, &errs)
			assert.Contains(t, errs, tt.field)
		})
	}
}

func TestLoginRequest_Validate(t *testing.T) {
	require.NoError(t, LoginRequest{Email: "a@x.com", Password: "whatever1"}.Validate())

	err := LoginRequest{Email: "a@x.com", Password: "short"}.Validate()
	var errs validation.Errors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs, "password")

	err = LoginRequest{Password: "password123"}.Validate()
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs, "email")

	err = LoginRequest{Email: "a@", Password: "password123"}.Validate()
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs, "email")
}

func TestRegisterRequest_EmailIsFormatOnly(t *testing.T) {
	// The domain does not resolve; only the address shape is checked.
	req := RegisterRequest{Email: "someone@mail.example.invalid", Username: "someone", Password: "password123"}
	assert.NoError(t, req.Validate())
}
