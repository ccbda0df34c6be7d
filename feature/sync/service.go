package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"irrigation-manager/core/outbox"
	"irrigation-manager/core/utils"
	"irrigation-manager/feature/audit"
	catalogmodels "irrigation-manager/feature/catalog/models"
	"irrigation-manager/feature/irrigation"
	"irrigation-manager/feature/users"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Catalog is the read-only lookup surface the reconciler validates against.
type Catalog interface {
	GetSectors(ctx context.Context, ids []uint) (map[uint]catalogmodels.Sector, error)
	GetEquipmentBatch(ctx context.Context, ids []uint) (map[uint]catalogmodels.Equipment, error)
}

// Identity resolves actor tokens to user records.
type Identity interface {
	Resolve(ctx context.Context, username string) (users.User, error)
}

// Service reconciles mobile irrigation batches against server state.
type Service struct {
	db       *gorm.DB
	catalog  Catalog
	identity Identity
	audit    *audit.Service
	records  *irrigation.Repository
	logger   *zap.Logger
	validate *validator.Validate
	topic    string
}

// NewService creates a new sync service.
func NewService(db *gorm.DB, cat Catalog, identity Identity, auditSvc *audit.Service, records *irrigation.Repository, logger *zap.Logger, topic string) *Service {
	return &Service{
		db:       db,
		catalog:  cat,
		identity: identity,
		audit:    auditSvc,
		records:  records,
		logger:   logger,
		validate: validator.New(),
		topic:    topic,
	}
}

// ProcessBatch reconciles every item of the batch against stored records,
// keyed by the client-supplied local id. Items succeed or fail
// independently; the only fatal condition is an unresolvable actor. The
// whole batch, its audit entries, and its outbox event commit in one
// transaction, so an infrastructure failure rolls everything back while
// per-item validation failures commit alongside their siblings.
func (s *Service) ProcessBatch(ctx context.Context, actorToken string, items []BatchItem) (*BatchResult, error) {
	actor, err := s.identity.Resolve(ctx, actorToken)
	if err != nil {
		return nil, err
	}

	result := &BatchResult{
		BatchID:    uuid.NewString(),
		TotalItems: len(items),
		Results:    make([]ResultItem, 0, len(items)),
	}
	if len(items) == 0 {
		return result, nil
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Resolve everything the loop needs with one query per entity
		// kind, so latency stays flat as batches grow.
		sectorIDs, equipmentIDs, localIDs := collectIDs(items)

		sectors, err := s.catalog.GetSectors(ctx, sectorIDs)
		if err != nil {
			return err
		}
		equipment, err := s.catalog.GetEquipmentBatch(ctx, equipmentIDs)
		if err != nil {
			return err
		}
		existing, err := s.records.FindByLocalIDs(tx, localIDs)
		if err != nil {
			return err
		}

		for _, item := range items {
			if err := ctx.Err(); err != nil {
				return err
			}

			res := s.processItem(tx, actor, item, sectors, equipment, existing)
			if res.Success {
				result.SuccessfulItems++
			} else {
				result.FailedItems++
			}
			result.Results = append(result.Results, res)
		}

		return s.enqueueBatchEvent(tx, actor, result)
	})
	if err != nil {
		return nil, fmt.Errorf("batch transaction failed: %w", err)
	}

	s.logger.Info("Sync batch processed",
		zap.String("batch_id", result.BatchID),
		zap.String("actor", actor.Username),
		zap.Int("total", result.TotalItems),
		zap.Int("successful", result.SuccessfulItems),
		zap.Int("failed", result.FailedItems))

	return result, nil
}

// processItem runs the reconciliation steps for one item. Every failure is
// captured in the returned ResultItem; nothing escapes to abort siblings.
func (s *Service) processItem(
	tx *gorm.DB,
	actor users.User,
	item BatchItem,
	sectors map[uint]catalogmodels.Sector,
	equipment map[uint]catalogmodels.Equipment,
	existing map[string]irrigation.Record,
) ResultItem {
	res := ResultItem{LocalID: item.LocalID}

	if err := s.validate.Struct(item); err != nil {
		res.Message = fmt.Sprintf("Invalid item: %v", err)
		return res
	}

	sector, ok := sectors[item.SectorID]
	if !ok {
		res.Message = fmt.Sprintf("Sector not found: %d", item.SectorID)
		return res
	}
	eq, ok := equipment[item.EquipmentID]
	if !ok {
		res.Message = fmt.Sprintf("Equipment not found: %d", item.EquipmentID)
		return res
	}

	if eq.FarmID != sector.FarmID {
		res.Message = fmt.Sprintf("Equipment %d belongs to farm %d but sector %d belongs to farm %d",
			eq.ID, eq.FarmID, sector.ID, sector.FarmID)
		return res
	}

	// Reconcile by idempotency key: update the existing record or build a
	// new one carrying the key.
	record, found := existing[item.LocalID]
	action := audit.ActionCreate
	var oldValue *string
	if found {
		action = audit.ActionUpdate
		prior := fmt.Sprintf("%d", record.ID)
		oldValue = &prior
	} else {
		record = irrigation.Record{LocalID: item.LocalID}
	}

	record.SectorID = sector.ID
	record.EquipmentID = eq.ID
	record.StartTime = item.StartTime
	record.EndTime = item.EndTime
	record.DurationHours = utils.DurationHours(item.StartTime, item.EndTime)
	record.WaterVolume = deriveVolume(item, eq, record.DurationHours)

	// Record and audit entry stand or fall together: a savepoint around the
	// pair keeps a half-written item out of the batch commit, so a failed
	// item never leaves an unaudited record behind.
	err := tx.Transaction(func(itemTx *gorm.DB) error {
		if err := s.records.Save(itemTx, &record); err != nil {
			return fmt.Errorf("Failed to persist record: %w", err)
		}
		newValue := fmt.Sprintf("%d", record.ID)
		if err := s.audit.LogChange(itemTx, actor, action, irrigation.EntityName, "id", oldValue, &newValue); err != nil {
			return fmt.Errorf("Failed to audit record: %w", err)
		}
		return nil
	})
	if err != nil {
		res.Message = err.Error()
		return res
	}

	// Later duplicates of the same key within this batch must update this
	// record instead of colliding with the unique index.
	existing[item.LocalID] = record

	res.ServerID = record.ID
	res.Success = true
	if action == audit.ActionCreate {
		res.Message = "Created"
	} else {
		res.Message = "Updated"
	}
	return res
}

// deriveVolume computes the stored water volume for an item. A
// client-supplied volume wins; otherwise the volume is flow rate times
// duration when both are positive, and nil when it cannot be derived.
func deriveVolume(item BatchItem, eq catalogmodels.Equipment, durationHours float64) *float64 {
	if item.WaterVolume != nil {
		v := utils.Round2(*item.WaterVolume)
		return &v
	}

	flowRate := eq.FlowRate
	if item.FlowRate != nil {
		flowRate = *item.FlowRate
	}
	if flowRate <= 0 || durationHours <= 0 {
		return nil
	}

	v := utils.Round2(flowRate * durationHours)
	return &v
}

func (s *Service) enqueueBatchEvent(tx *gorm.DB, actor users.User, result *BatchResult) error {
	event := BatchEvent{
		BatchID:         result.BatchID,
		Actor:           actor.Username,
		TotalItems:      result.TotalItems,
		SuccessfulItems: result.SuccessfulItems,
		FailedItems:     result.FailedItems,
		ProcessedAt:     time.Now().UTC(),
		Result:          *result,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal batch event: %w", err)
	}

	objectName := fmt.Sprintf("reports/sync/%s.json", result.BatchID)
	if err := outbox.Enqueue(tx, s.topic, objectName, payload); err != nil {
		return fmt.Errorf("failed to enqueue batch event: %w", err)
	}
	return nil
}

// collectIDs gathers the distinct sector ids, equipment ids, and local ids
// of a batch for the bulk lookups.
func collectIDs(items []BatchItem) ([]uint, []uint, []string) {
	sectorSet := make(map[uint]struct{})
	equipmentSet := make(map[uint]struct{})
	localSet := make(map[string]struct{})

	var sectorIDs, equipmentIDs []uint
	var localIDs []string
	for _, item := range items {
		if _, seen := sectorSet[item.SectorID]; !seen && item.SectorID != 0 {
			sectorSet[item.SectorID] = struct{}{}
			sectorIDs = append(sectorIDs, item.SectorID)
		}
		if _, seen := equipmentSet[item.EquipmentID]; !seen && item.EquipmentID != 0 {
			equipmentSet[item.EquipmentID] = struct{}{}
			equipmentIDs = append(equipmentIDs, item.EquipmentID)
		}
		if _, seen := localSet[item.LocalID]; !seen && item.LocalID != "" {
			localSet[item.LocalID] = struct{}{}
			localIDs = append(localIDs, item.LocalID)
		}
	}
	return sectorIDs, equipmentIDs, localIDs
}
