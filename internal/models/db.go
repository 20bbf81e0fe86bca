package models

import (
	"strings"
	"time"
)

// User represents a registered user in the database.
type User struct {
	ID             int64     `db:"id"`
	Email          string    `db:"email"`
	HashedPassword string    `db:"hashed_password"`
	FirstName      *string   `db:"first_name"` // Nullable columns use pointers
	LastName       *string   `db:"last_name"`
	Major          *string   `db:"major"`
	Minor          *string   `db:"minor"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// DisplayName returns "First Last" when a name is on file, otherwise the email.
func (u *User) DisplayName() string {
	return DisplayName(u.FirstName, u.LastName, u.Email)
}

// DisplayName builds a display name from nullable name columns, falling back to email.
func DisplayName(first, last *string, email string) string {
	parts := make([]string, 0, 2)
	if first != nil && strings.TrimSpace(*first) != "" {
		parts = append(parts, strings.TrimSpace(*first))
	}
	if last != nil && strings.TrimSpace(*last) != "" {
		parts = append(parts, strings.TrimSpace(*last))
	}
	if len(parts) == 0 {
		return email
	}
	return strings.Join(parts, " ")
}
