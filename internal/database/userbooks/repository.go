// Package userbooks stores which users have which books in their collection.
//
// Rows are keyed by (user_id, isbn) and are never hard-deleted: removing a
// book from a collection clears the is_active flag, and storing it again
// reactivates the same row.
package userbooks

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bookfriends/server/internal/entities"
)

// ErrNotFound is returned when no active entry exists for a (user, isbn) pair.
var ErrNotFound = errors.New("collection entry not found")

// Repository handles user-collection database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new user-collection repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// UpsertActive stores an active entry for (userID, isbn) in a single
// statement. An existing row, active or not, is reactivated and its tags
// replaced, so concurrent calls never produce duplicates.
func (r *Repository) UpsertActive(ctx context.Context, userID, isbn string, tags []string) error {
	if tags == nil {
		tags = []string{}
	}
	now := time.Now()
	entry := entities.CollectionEntry{
		UserID:   userID,
		ISBN:     isbn,
		Tags:     tags,
		IsActive: true,
		StoredAt: now,
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "isbn"}},
		DoUpdates: clause.AssignmentColumns([]string{"tags", "is_active", "stored_at", "updated_at"}),
	}).Create(&entry).Error
}

// GetActive returns the active entry for (userID, isbn).
func (r *Repository) GetActive(ctx context.Context, userID, isbn string) (*entities.CollectionEntry, error) {
	var entry entities.CollectionEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND isbn = ? AND is_active = ?", userID, isbn, true).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// SoftDelete deactivates the active entry for (userID, isbn).
// Returns ErrNotFound when there was nothing active to deactivate.
func (r *Repository) SoftDelete(ctx context.Context, userID, isbn string) error {
	result := r.db.WithContext(ctx).Model(&entities.CollectionEntry{}).
		Where("user_id = ? AND isbn = ? AND is_active = ?", userID, isbn, true).
		Updates(map[string]any{"is_active": false, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListActiveByUser returns the user's active entries, most recently stored first.
func (r *Repository) ListActiveByUser(ctx context.Context, userID string) ([]entities.CollectionEntry, error) {
	var entries []entities.CollectionEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("stored_at DESC, id DESC").
		Find(&entries).Error
	return entries, err
}

// ListActiveISBNs returns every distinct ISBN held in at least one active collection.
func (r *Repository) ListActiveISBNs(ctx context.Context) ([]string, error) {
	var isbns []string
	err := r.db.WithContext(ctx).Model(&entities.CollectionEntry{}).
		Where("is_active = ?", true).
		Distinct("isbn").
		Order("isbn").
		Pluck("isbn", &isbns).Error
	return isbns, err
}

// CountActiveByUser returns the size of the user's collection.
func (r *Repository) CountActiveByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.CollectionEntry{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Count(&count).Error
	return count, err
}
