package irrigation

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Repository is the persistence layer for irrigation records.
// Mutating methods take an explicit *gorm.DB handle so callers can scope
// them to a surrounding transaction.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new record repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByLocalID fetches a record by its idempotency key.
// It returns nil (and no error) when the key is unknown.
func (r *Repository) FindByLocalID(ctx context.Context, localID string) (*Record, error) {
	var record Record
	err := r.db.WithContext(ctx).Where("local_id = ?", localID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up record by local id %s: %w", localID, err)
	}
	return &record, nil
}

// FindByLocalIDs resolves many idempotency keys with a single query.
// The returned map contains only the keys that exist.
func (r *Repository) FindByLocalIDs(tx *gorm.DB, localIDs []string) (map[string]Record, error) {
	result := make(map[string]Record, len(localIDs))
	if len(localIDs) == 0 {
		return result, nil
	}

	var records []Record
	if err := tx.Where("local_id IN ?", localIDs).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to look up records by local ids: %w", err)
	}
	for _, record := range records {
		result[record.LocalID] = record
	}
	return result, nil
}

// Save persists the record, assigning a server id on first save.
func (r *Repository) Save(tx *gorm.DB, record *Record) error {
	if err := tx.Save(record).Error; err != nil {
		return fmt.Errorf("failed to save record: %w", err)
	}
	return nil
}

// ListBySector returns the records of a sector, newest first, or all
// records when sectorID is 0.
func (r *Repository) ListBySector(ctx context.Context, sectorID uint, limit int) ([]Record, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	query := r.db.WithContext(ctx).Order("start_time DESC").Limit(limit)
	if sectorID != 0 {
		query = query.Where("sector_id = ?", sectorID)
	}

	var records []Record
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	return records, nil
}

// Count returns the total number of stored records.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&Record{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return count, nil
}
