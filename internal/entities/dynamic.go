package entities

import "time"

// Dynamic is a short status update a user publishes, optionally about a book.
type Dynamic struct {
	ID        string    `gorm:"primaryKey;size:32" json:"id"`
	UserID    string    `gorm:"index;size:32;not null" json:"user_id"`
	ISBN      string    `gorm:"size:20" json:"isbn,omitempty"`
	Content   string    `gorm:"type:text" json:"content"`
	LikeCount int       `gorm:"not null;default:0" json:"like_count"`
	IsActive  bool      `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Dynamic) TableName() string {
	return "user_dynamics"
}
