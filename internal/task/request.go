package task

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
)

// ErrEmptyPatch is the form-level error for an update that sets nothing.
var ErrEmptyPatch = errors.New("At least one field must be provided")

// CreateTaskRequest represents the create task request body
type CreateTaskRequest struct {
	Title string `json:"title"`
}

// Normalize trims the title
func (r *CreateTaskRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
}

func (r CreateTaskRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 255)),
	)
}

// UpdateTaskRequest represents the partial update body; absent fields stay as they are.
type UpdateTaskRequest struct {
	Title *string `json:"title"`
	Done  *bool   `json:"done"`
}

// Normalize trims the title when one is given
func (r *UpdateTaskRequest) Normalize() {
	if r.Title != nil {
		title := strings.TrimSpace(*r.Title)
		r.Title = &title
	}
}

func (r UpdateTaskRequest) Validate() error {
	if r.Title == nil && r.Done == nil {
		return ErrEmptyPatch
	}
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty, validation.Length(1, 255)),
	)
}

// Patch converts the request into a repository patch
func (r UpdateTaskRequest) Patch() Patch {
	return Patch{Title: r.Title, Done: r.Done}
}
