package task

import (
	"time"

	"github.com/google/uuid"
)

// Task is a to-do item owned by exactly one user
type Task struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"-"`
	Title     string    `json:"title"`
	Done      bool      `json:"done"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Patch holds the fields of a partial update; nil means unchanged.
type Patch struct {
	Title *string
	Done  *bool
}

// IsEmpty reports whether the patch changes nothing
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Done == nil
}
