package entities

import (
	"time"
)

// Session is a server-side session row. Only the SHA-256 digest of the
// client-held token is stored; the plaintext token never touches the database.
type Session struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"` // UUID
	UserID    string    `gorm:"index;size:36;not null" json:"user_id"`
	TokenHash string    `gorm:"uniqueIndex;size:64;not null" json:"-"` // hex SHA-256
	ExpiresAt time.Time `gorm:"index" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Session) TableName() string {
	return "sessions"
}
