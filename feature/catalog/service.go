package catalog

import (
	"context"
	"errors"
	"fmt"

	"irrigation-manager/feature/catalog/models"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrFarmNotFound is returned when a farm id is unknown.
	ErrFarmNotFound = errors.New("farm not found")
	// ErrSectorNotFound is returned when a sector id is unknown.
	ErrSectorNotFound = errors.New("sector not found")
	// ErrEquipmentNotFound is returned when an equipment id is unknown.
	ErrEquipmentNotFound = errors.New("equipment not found")
)

const cacheSize = 1024

// Service provides read and admin access to the farm/sector/equipment catalog.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger

	// Catalog rows change rarely compared to how often sync batches read
	// them, so single-item lookups go through small LRU caches.
	sectorCache    *lru.Cache[uint, models.Sector]
	equipmentCache *lru.Cache[uint, models.Equipment]
}

// NewService creates a new catalog service.
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	sectors, _ := lru.New[uint, models.Sector](cacheSize)
	equipment, _ := lru.New[uint, models.Equipment](cacheSize)
	return &Service{
		db:             db,
		logger:         logger,
		sectorCache:    sectors,
		equipmentCache: equipment,
	}
}

// GetSector fetches a single sector by id.
func (s *Service) GetSector(ctx context.Context, id uint) (models.Sector, error) {
	if sector, ok := s.sectorCache.Get(id); ok {
		return sector, nil
	}

	var sector models.Sector
	err := s.db.WithContext(ctx).First(&sector, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Sector{}, fmt.Errorf("%w: %d", ErrSectorNotFound, id)
	}
	if err != nil {
		return models.Sector{}, fmt.Errorf("failed to load sector %d: %w", id, err)
	}

	s.sectorCache.Add(id, sector)
	return sector, nil
}

// GetSectors resolves many sector ids with a single query for the cache
// misses. The returned map contains only the ids that exist.
func (s *Service) GetSectors(ctx context.Context, ids []uint) (map[uint]models.Sector, error) {
	result := make(map[uint]models.Sector, len(ids))
	var missing []uint
	for _, id := range ids {
		if sector, ok := s.sectorCache.Get(id); ok {
			result[id] = sector
		} else {
			missing = append(missing, id)
		}
	}

	if len(missing) > 0 {
		var sectors []models.Sector
		if err := s.db.WithContext(ctx).Where("id IN ?", missing).Find(&sectors).Error; err != nil {
			return nil, fmt.Errorf("failed to load sectors: %w", err)
		}
		for _, sector := range sectors {
			result[sector.ID] = sector
			s.sectorCache.Add(sector.ID, sector)
		}
	}

	return result, nil
}

// GetEquipment fetches a single equipment item by id.
func (s *Service) GetEquipment(ctx context.Context, id uint) (models.Equipment, error) {
	if eq, ok := s.equipmentCache.Get(id); ok {
		return eq, nil
	}

	var eq models.Equipment
	err := s.db.WithContext(ctx).First(&eq, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Equipment{}, fmt.Errorf("%w: %d", ErrEquipmentNotFound, id)
	}
	if err != nil {
		return models.Equipment{}, fmt.Errorf("failed to load equipment %d: %w", id, err)
	}

	s.equipmentCache.Add(id, eq)
	return eq, nil
}

// GetEquipmentBatch resolves many equipment ids with a single query for the
// cache misses. The returned map contains only the ids that exist.
func (s *Service) GetEquipmentBatch(ctx context.Context, ids []uint) (map[uint]models.Equipment, error) {
	result := make(map[uint]models.Equipment, len(ids))
	var missing []uint
	for _, id := range ids {
		if eq, ok := s.equipmentCache.Get(id); ok {
			result[id] = eq
		} else {
			missing = append(missing, id)
		}
	}

	if len(missing) > 0 {
		var items []models.Equipment
		if err := s.db.WithContext(ctx).Where("id IN ?", missing).Find(&items).Error; err != nil {
			return nil, fmt.Errorf("failed to load equipment: %w", err)
		}
		for _, eq := range items {
			result[eq.ID] = eq
			s.equipmentCache.Add(eq.ID, eq)
		}
	}

	return result, nil
}

// ListFarms returns all farms.
func (s *Service) ListFarms(ctx context.Context) ([]models.Farm, error) {
	var farms []models.Farm
	if err := s.db.WithContext(ctx).Order("id").Find(&farms).Error; err != nil {
		return nil, fmt.Errorf("failed to list farms: %w", err)
	}
	return farms, nil
}

// ListSectors returns the sectors of a farm, or all sectors when farmID is 0.
func (s *Service) ListSectors(ctx context.Context, farmID uint) ([]models.Sector, error) {
	query := s.db.WithContext(ctx).Order("id")
	if farmID != 0 {
		query = query.Where("farm_id = ?", farmID)
	}
	var sectors []models.Sector
	if err := query.Find(&sectors).Error; err != nil {
		return nil, fmt.Errorf("failed to list sectors: %w", err)
	}
	return sectors, nil
}

// ListEquipment returns the equipment of a farm, or all equipment when farmID is 0.
func (s *Service) ListEquipment(ctx context.Context, farmID uint) ([]models.Equipment, error) {
	query := s.db.WithContext(ctx).Order("id")
	if farmID != 0 {
		query = query.Where("farm_id = ?", farmID)
	}
	var items []models.Equipment
	if err := query.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list equipment: %w", err)
	}
	return items, nil
}

// CreateFarm inserts a new farm.
func (s *Service) CreateFarm(ctx context.Context, farm *models.Farm) error {
	if err := s.db.WithContext(ctx).Create(farm).Error; err != nil {
		return fmt.Errorf("failed to create farm: %w", err)
	}
	return nil
}

// CreateSector inserts a new sector after verifying its farm exists.
func (s *Service) CreateSector(ctx context.Context, sector *models.Sector) error {
	if err := s.farmExists(ctx, sector.FarmID); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Create(sector).Error; err != nil {
		return fmt.Errorf("failed to create sector: %w", err)
	}
	s.sectorCache.Add(sector.ID, *sector)
	return nil
}

// CreateEquipment inserts a new equipment item after verifying its farm exists.
func (s *Service) CreateEquipment(ctx context.Context, eq *models.Equipment) error {
	if err := s.farmExists(ctx, eq.FarmID); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Create(eq).Error; err != nil {
		return fmt.Errorf("failed to create equipment: %w", err)
	}
	s.equipmentCache.Add(eq.ID, *eq)
	return nil
}

func (s *Service) farmExists(ctx context.Context, id uint) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Farm{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check farm %d: %w", id, err)
	}
	if count == 0 {
		return fmt.Errorf("%w: %d", ErrFarmNotFound, id)
	}
	return nil
}
