package entities

import (
	"time"
)

type User struct {
	ID           string     `gorm:"primaryKey;size:36" json:"id"` // UUID
	Email        string     `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"` // $argon2id$... or legacy $2...
	FullName     string     `gorm:"size:255" json:"full_name,omitempty"`
	IsActive     bool       `gorm:"default:true" json:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// UserForAuth is the minimal projection loaded during login.
// Keeps the password hash out of the full User struct that handlers return.
type UserForAuth struct {
	ID           string
	Email        string
	PasswordHash string
}
