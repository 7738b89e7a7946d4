package models

import "time"

// User defines a staff account based on the 'users' table
type User struct {
	ID        int64    `json:"id" db:"id"`
	Email     string   `json:"email" db:"email"`
	Password  string   `json:"-" db:"password"` // bcrypt hash, never serialized
	FirstName string   `json:"firstName" db:"first_name"`
	LastName  string   `json:"lastName" db:"last_name"`
	RoleType  RoleType `json:"roleType" db:"role_type"`
	IsActive  bool     `json:"isActive" db:"is_active"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// RefreshToken defines a persisted refresh token based on the
// 'refresh_tokens' table
type RefreshToken struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	Token     string    `json:"token" db:"token"`
	ExpiresAt time.Time `json:"expiresAt" db:"expires_at"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
