// Package users provides database operations for user accounts.
//
// # Usage
//
//	repo := users.NewRepository(db)
//	exists, err := repo.Exists(ctx, userID)
package users

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/bookfriends/server/internal/entities"
	"github.com/bookfriends/server/internal/id"
)

var ErrNotFound = errors.New("user not found")

// Profile holds the user-editable profile fields. Empty fields are left unchanged.
type Profile struct {
	NickName  string
	AvatarURL string
	Signature string
	Gender    string
	Location  string
}

// Repository handles all user database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Exists reports whether a user with the given ID is present.
func (r *Repository) Exists(ctx context.Context, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.User{}).Where("id = ?", userID).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("count user %s: %w", userID, err)
	}
	return count > 0, nil
}

// Create inserts a user, assigning a new ID when none is set.
func (r *Repository) Create(ctx context.Context, user *entities.User) error {
	if user.ID == "" {
		userID, err := id.Generate(id.PrefixUser)
		if err != nil {
			return err
		}
		user.ID = userID
	}
	return r.db.WithContext(ctx).Create(user).Error
}

// GetByID retrieves a user by ID.
func (r *Repository) GetByID(ctx context.Context, userID string) (*entities.User, error) {
	var user entities.User
	err := r.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByPhoneNumber retrieves a user by phone number.
func (r *Repository) GetByPhoneNumber(ctx context.Context, phone string) (*entities.User, error) {
	var user entities.User
	err := r.db.WithContext(ctx).Where("phone_number = ?", phone).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile applies the non-empty profile fields and returns the updated user.
func (r *Repository) UpdateProfile(ctx context.Context, userID string, p Profile) (*entities.User, error) {
	updates := map[string]any{}
	if p.NickName != "" {
		updates["nick_name"] = p.NickName
	}
	if p.AvatarURL != "" {
		updates["avatar_url"] = p.AvatarURL
	}
	if p.Signature != "" {
		updates["signature"] = p.Signature
	}
	if p.Gender != "" {
		updates["gender"] = p.Gender
	}
	if p.Location != "" {
		updates["location"] = p.Location
	}

	if len(updates) > 0 {
		result := r.db.WithContext(ctx).Model(&entities.User{}).Where("id = ?", userID).Updates(updates)
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}

	return r.GetByID(ctx, userID)
}

// UpdatePasswordHash replaces the stored password hash.
func (r *Repository) UpdatePasswordHash(ctx context.Context, userID, hash string) error {
	result := r.db.WithContext(ctx).Model(&entities.User{}).Where("id = ?", userID).Update("password_hash", hash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of registered users.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.User{}).Count(&count).Error
	return count, err
}
