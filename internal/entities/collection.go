package entities

import "time"

// CollectionEntry records that a user stored a book. There is at most one
// row per (user, isbn); removal flips IsActive instead of deleting.
type CollectionEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"uniqueIndex:idx_user_books_user_isbn;size:32;not null" json:"user_id"`
	ISBN      string    `gorm:"uniqueIndex:idx_user_books_user_isbn;size:20;not null;index" json:"isbn"`
	Tags      []string  `gorm:"serializer:json;type:text" json:"tags"`
	IsActive  bool      `gorm:"not null;default:true;index" json:"is_active"`
	StoredAt  time.Time `gorm:"index" json:"stored_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CollectionEntry) TableName() string {
	return "user_books"
}
