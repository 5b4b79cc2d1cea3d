// Package dynamics provides database operations for user status updates.
package dynamics

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/bookfriends/server/internal/entities"
	"github.com/bookfriends/server/internal/id"
)

var ErrNotFound = errors.New("dynamic not found")

// Repository handles dynamic database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new dynamics repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts an active dynamic, assigning an ID when none is set.
func (r *Repository) Create(ctx context.Context, dynamic *entities.Dynamic) error {
	if dynamic.ID == "" {
		dynamicID, err := id.Generate(id.PrefixDynamic)
		if err != nil {
			return err
		}
		dynamic.ID = dynamicID
	}
	dynamic.IsActive = true
	return r.db.WithContext(ctx).Create(dynamic).Error
}

// GetActive retrieves an active dynamic by ID.
func (r *Repository) GetActive(ctx context.Context, dynamicID string) (*entities.Dynamic, error) {
	var dynamic entities.Dynamic
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", dynamicID, true).
		First(&dynamic).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &dynamic, nil
}

// IncrementLikeCount atomically adds one like to an active dynamic.
func (r *Repository) IncrementLikeCount(ctx context.Context, dynamicID string) error {
	result := r.db.WithContext(ctx).Model(&entities.Dynamic{}).
		Where("id = ? AND is_active = ?", dynamicID, true).
		UpdateColumn("like_count", gorm.Expr("like_count + ?", 1))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Deactivate hides a dynamic owned by userID.
func (r *Repository) Deactivate(ctx context.Context, dynamicID, userID string) error {
	result := r.db.WithContext(ctx).Model(&entities.Dynamic{}).
		Where("id = ? AND user_id = ? AND is_active = ?", dynamicID, userID, true).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByUser returns a page of the user's active dynamics, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID string, offset, limit int) ([]entities.Dynamic, error) {
	var dynamics []entities.Dynamic
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&dynamics).Error
	return dynamics, err
}

// ListAll returns a page of all active dynamics, newest first.
func (r *Repository) ListAll(ctx context.Context, offset, limit int) ([]entities.Dynamic, error) {
	var dynamics []entities.Dynamic
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&dynamics).Error
	return dynamics, err
}
