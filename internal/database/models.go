package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the users table row
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           uuid.UUID `bun:"id,pk,type:uuid"`
	Email        string    `bun:"email,notnull,unique"`
	Username     string    `bun:"username,notnull,unique"`
	PasswordHash string    `bun:"password_hash,notnull"`
	CreatedAt    time.Time `bun:"created_at,notnull"`
}

// Task is the tasks table row
type Task struct {
	bun.BaseModel `bun:"table:tasks,alias:t"`

	ID        uuid.UUID `bun:"id,pk,type:uuid"`
	UserID    uuid.UUID `bun:"user_id,notnull,type:uuid"`
	Title     string    `bun:"title,notnull"`
	Done      bool      `bun:"done,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}
