// Package dynamics publishes and pages through users' status updates.
package dynamics

import (
	"context"
	"errors"
	"fmt"
	"strings"

	dynamicsrepo "github.com/bookfriends/server/internal/database/dynamics"
	"github.com/bookfriends/server/internal/entities"
	"github.com/bookfriends/server/internal/metadata"
)

const defaultPageSize = 10

var (
	ErrParameter    = errors.New("userId and content are required")
	ErrInvalidPage  = errors.New("page index starts at 1")
	ErrNotFound     = errors.New("dynamic not found")
	ErrUserNotFound = errors.New("user not found")
)

// Store persists dynamics.
type Store interface {
	Create(ctx context.Context, dynamic *entities.Dynamic) error
	GetActive(ctx context.Context, dynamicID string) (*entities.Dynamic, error)
	IncrementLikeCount(ctx context.Context, dynamicID string) error
	Deactivate(ctx context.Context, dynamicID, userID string) error
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]entities.Dynamic, error)
	ListAll(ctx context.Context, offset, limit int) ([]entities.Dynamic, error)
}

type IdentityStore interface {
	Exists(ctx context.Context, userID string) (bool, error)
}

type Service struct {
	store    Store
	users    IdentityStore
	pageSize int
}

func NewService(store Store, users IdentityStore, pageSize int) *Service {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &Service{
		store:    store,
		users:    users,
		pageSize: pageSize,
	}
}

// Publish stores a new dynamic for userID. isbn is optional.
func (s *Service) Publish(ctx context.Context, userID, isbn, content string) (*entities.Dynamic, error) {
	userID = strings.TrimSpace(userID)
	content = strings.TrimSpace(content)
	if userID == "" || content == "" {
		return nil, ErrParameter
	}

	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("check user %s: %w", userID, err)
	}
	if !exists {
		return nil, ErrUserNotFound
	}

	dynamic := &entities.Dynamic{
		UserID:  userID,
		ISBN:    metadata.CleanISBN(isbn),
		Content: content,
	}
	if err := s.store.Create(ctx, dynamic); err != nil {
		return nil, fmt.Errorf("create dynamic: %w", err)
	}
	return dynamic, nil
}

// Like adds one like to an active dynamic.
func (s *Service) Like(ctx context.Context, dynamicID string) error {
	if dynamicID == "" {
		return ErrParameter
	}
	return mapNotFound(s.store.IncrementLikeCount(ctx, dynamicID))
}

func (s *Service) Get(ctx context.Context, dynamicID string) (*entities.Dynamic, error) {
	if dynamicID == "" {
		return nil, ErrParameter
	}
	dynamic, err := s.store.GetActive(ctx, dynamicID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return dynamic, nil
}

// Delete hides a dynamic. Only its author may delete it.
func (s *Service) Delete(ctx context.Context, dynamicID, userID string) error {
	if dynamicID == "" || userID == "" {
		return ErrParameter
	}
	return mapNotFound(s.store.Deactivate(ctx, dynamicID, userID))
}

// ListByUser returns page (1-based) of the user's dynamics, newest first.
func (s *Service) ListByUser(ctx context.Context, userID string, page int) ([]entities.Dynamic, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrParameter
	}
	if page < 1 {
		return nil, ErrInvalidPage
	}
	list, err := s.store.ListByUser(ctx, userID, (page-1)*s.pageSize, s.pageSize)
	return nonNil(list), err
}

// ListAll returns page (1-based) of everyone's dynamics, newest first.
func (s *Service) ListAll(ctx context.Context, page int) ([]entities.Dynamic, error) {
	if page < 1 {
		return nil, ErrInvalidPage
	}
	list, err := s.store.ListAll(ctx, (page-1)*s.pageSize, s.pageSize)
	return nonNil(list), err
}

func (s *Service) PageSize() int {
	return s.pageSize
}

func mapNotFound(err error) error {
	if errors.Is(err, dynamicsrepo.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func nonNil(list []entities.Dynamic) []entities.Dynamic {
	if list == nil {
		return []entities.Dynamic{}
	}
	return list
}
