package model

import "time"

// Roles assignable to a user. Moderators get elevated read/update access to
// all courses and lessons but never destroy rights.
const (
	RoleUser      = "user"
	RoleModerator = "moderator"
)

// User represents an account identified by email.
type User struct {
	ID           int64      `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FirstName    string     `db:"first_name" json:"first_name"`
	LastName     string     `db:"last_name" json:"last_name"`
	PhoneNumber  string     `db:"phone_number" json:"phone_number"`
	Town         string     `db:"town" json:"town"`
	AvatarURL    string     `db:"avatar_url" json:"avatar_url"`
	Role         string     `db:"role" json:"role"`
	IsActive     bool       `db:"is_active" json:"is_active"`
	LastLogin    *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// UserUpdate carries the updatable profile fields; nil means "leave as is".
type UserUpdate struct {
	Email       *string
	FirstName   *string
	LastName    *string
	PhoneNumber *string
	Town        *string
	AvatarURL   *string
}
