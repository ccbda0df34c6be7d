package audit

import (
	"context"
	"fmt"

	"irrigation-manager/feature/users"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service writes and queries the audit trail.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewService creates a new audit service.
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// LogChange appends one audit entry using the given handle. Callers inside a
// transaction pass their tx so the entry commits or rolls back together with
// the change it records; durability of the trail is not separable from the
// change itself.
func (s *Service) LogChange(tx *gorm.DB, actor users.User, action, entityName, field string, oldValue, newValue *string) error {
	entry := Entry{
		UserID:     actor.ID,
		Username:   actor.Username,
		Action:     action,
		EntityName: entityName,
		Field:      field,
		OldValue:   oldValue,
		NewValue:   newValue,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to write audit entry: %w", err)
	}
	return nil
}

// Filter narrows audit queries.
type Filter struct {
	EntityName string
	UserID     uint
	Limit      int
}

// List returns audit entries, newest first.
func (s *Service) List(ctx context.Context, filter Filter) ([]Entry, error) {
	query := s.db.WithContext(ctx).Order("id DESC")
	if filter.EntityName != "" {
		query = query.Where("entity_name = ?", filter.EntityName)
	}
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var entries []Entry
	if err := query.Limit(limit).Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	return entries, nil
}

// CountForEntity returns the number of entries recorded for an entity kind.
func (s *Service) CountForEntity(ctx context.Context, entityName string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&Entry{}).
		Where("entity_name = ?", entityName).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count audit entries: %w", err)
	}
	return count, nil
}
