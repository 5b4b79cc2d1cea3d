package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bookfriends/server/internal/config"
	"github.com/bookfriends/server/internal/database/users"
	"github.com/bookfriends/server/internal/entities"
)

var (
	ErrParameter     = errors.New("phone number, password and nickname are required")
	ErrUserNotFound  = errors.New("user not found")
	ErrUserExists    = errors.New("phone number already registered")
	ErrAccountLocked = errors.New("too many failed login attempts")
)

// UserStore is the account storage used by Service.
type UserStore interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, userID string) (*entities.User, error)
	GetByPhoneNumber(ctx context.Context, phone string) (*entities.User, error)
	UpdateProfile(ctx context.Context, userID string, p users.Profile) (*entities.User, error)
	UpdatePasswordHash(ctx context.Context, userID, hash string) error
}

// Service registers and authenticates accounts.
type Service struct {
	users  UserStore
	config config.Auth
}

func NewService(store UserStore, cfg config.Auth) *Service {
	return &Service{
		users:  store,
		config: cfg,
	}
}

// Register creates an account identified by its phone number.
func (s *Service) Register(ctx context.Context, phone, password, nickName string) (*entities.User, error) {
	phone = strings.TrimSpace(phone)
	nickName = strings.TrimSpace(nickName)
	if phone == "" || password == "" || nickName == "" {
		return nil, ErrParameter
	}

	_, err := s.users.GetByPhoneNumber(ctx, phone)
	if err == nil {
		return nil, ErrUserExists
	}
	if !errors.Is(err, users.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := HashPassword(password, s.config.BcryptCost)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		PhoneNumber:  phone,
		PasswordHash: hash,
		NickName:     nickName,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Authenticate validates credentials and returns the user.
func (s *Service) Authenticate(ctx context.Context, phone, password string) (*entities.User, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" || password == "" {
		return nil, ErrParameter
	}

	user, err := s.users.GetByPhoneNumber(ctx, phone)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := CheckPassword(password, user.PasswordHash); err != nil {
		return nil, err
	}

	return user, nil
}

// GetUser returns the account with the given id.
func (s *Service) GetUser(ctx context.Context, userID string) (*entities.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, users.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

// UpdateProfile changes the non-empty fields of p.
func (s *Service) UpdateProfile(ctx context.Context, userID string, p users.Profile) (*entities.User, error) {
	if userID == "" {
		return nil, ErrParameter
	}
	user, err := s.users.UpdateProfile(ctx, userID, p)
	if errors.Is(err, users.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

// ChangePassword replaces the password after verifying the old one.
func (s *Service) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	if err := CheckPassword(oldPassword, user.PasswordHash); err != nil {
		return err
	}

	hash, err := HashPassword(newPassword, s.config.BcryptCost)
	if err != nil {
		return err
	}

	return s.users.UpdatePasswordHash(ctx, userID, hash)
}
