package users

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrUserNotFound is returned when an actor token resolves to no user.
// For batch processing this is fatal: a batch cannot be attributed to an
// unknown actor.
var ErrUserNotFound = errors.New("user not found")

// Service resolves and administers user accounts.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewService creates a new users service.
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// Resolve maps an actor token (username) to its user record.
func (s *Service) Resolve(ctx context.Context, username string) (User, error) {
	var user User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return User{}, fmt.Errorf("%w: %s", ErrUserNotFound, username)
	}
	if err != nil {
		return User{}, fmt.Errorf("failed to resolve user %s: %w", username, err)
	}
	return user, nil
}

// List returns all users.
func (s *Service) List(ctx context.Context) ([]User, error) {
	var all []User
	if err := s.db.WithContext(ctx).Order("id").Find(&all).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return all, nil
}

// Create inserts a new user.
func (s *Service) Create(ctx context.Context, user *User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}
