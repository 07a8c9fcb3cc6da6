package entities

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"uniqueIndex;size:100" json:"username"`
	Email    string `gorm:"uniqueIndex;size:255" json:"email"`

	// DisplayName and AvatarURL are shown on public shared-book pages.
	DisplayName string `gorm:"size:200" json:"display_name,omitempty"`
	AvatarURL   string `gorm:"size:2048" json:"avatar_url,omitempty"`

	PasswordHash string `gorm:"size:100" json:"-"`

	// TokenHash is the SHA-256 of the user's API token, if one was issued.
	TokenHash     string     `gorm:"index;size:64" json:"-"`
	TokenIssuedAt *time.Time `json:"-"`

	LastLoginAt *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// PublicName returns the name to show to other readers on shared pages.
func (u *User) PublicName() string {
	if u == nil {
		return "Anonymous Reader"
	}
	if u.DisplayName != "" {
		return u.DisplayName
	}
	if u.Username != "" {
		return u.Username
	}
	return "Anonymous Reader"
}
