package entities

import (
	"time"
)

// User is an account of the reading app. The collection subsystem only
// ever asks whether a user exists.
type User struct {
	ID           string    `gorm:"primaryKey;size:32" json:"id"`
	PhoneNumber  string    `gorm:"uniqueIndex;size:32" json:"phone_number"`
	PasswordHash string    `gorm:"size:255" json:"-"`
	NickName     string    `gorm:"size:100" json:"nick_name"`
	AvatarURL    string    `gorm:"size:2048" json:"avatar_url,omitempty"`
	Signature    string    `gorm:"size:512" json:"signature,omitempty"`
	Gender       string    `gorm:"size:16" json:"gender,omitempty"`
	Location     string    `gorm:"size:256" json:"location,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
