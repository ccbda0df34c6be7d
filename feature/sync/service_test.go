package sync_test

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"irrigation-manager/core/database"
	"irrigation-manager/core/outbox"
	"irrigation-manager/feature/audit"
	"irrigation-manager/feature/catalog"
	catalogmodels "irrigation-manager/feature/catalog/models"
	"irrigation-manager/feature/irrigation"
	"irrigation-manager/feature/sync"
	"irrigation-manager/feature/users"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// testEnv wires a sync service against a throwaway sqlite database with a
// seeded catalog: two farms, a sector and equipment on each, and one operator.
type testEnv struct {
	db      *gorm.DB
	service *sync.Service

	operator  users.User
	sectorA   catalogmodels.Sector
	sectorB   catalogmodels.Sector
	dripperA  catalogmodels.Equipment
	dripperB  catalogmodels.Equipment
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	// A file-backed database keeps every pooled connection on the same
	// data; an anonymous in-memory one is private to a single connection.
	db, err := database.Connect(database.Config{
		Driver: "sqlite",
		Name:   filepath.Join(t.TempDir(), "sync-test.db"),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&catalogmodels.Farm{},
		&catalogmodels.Sector{},
		&catalogmodels.Equipment{},
		&users.User{},
		&irrigation.Record{},
		&audit.Entry{},
		&outbox.Event{},
	)
	assert.NoError(t, err)

	env := &testEnv{db: db}

	farmA := catalogmodels.Farm{Name: "Farm A"}
	farmB := catalogmodels.Farm{Name: "Farm B"}
	assert.NoError(t, db.Create(&farmA).Error)
	assert.NoError(t, db.Create(&farmB).Error)

	env.sectorA = catalogmodels.Sector{FarmID: farmA.ID, Name: "North", AreaHa: 2.0}
	env.sectorB = catalogmodels.Sector{FarmID: farmB.ID, Name: "East", AreaHa: 1.0}
	assert.NoError(t, db.Create(&env.sectorA).Error)
	assert.NoError(t, db.Create(&env.sectorB).Error)

	env.dripperA = catalogmodels.Equipment{FarmID: farmA.ID, Name: "Drip A", Kind: "drip", FlowRate: 5.0}
	env.dripperB = catalogmodels.Equipment{FarmID: farmB.ID, Name: "Drip B", Kind: "drip", FlowRate: 3.0}
	assert.NoError(t, db.Create(&env.dripperA).Error)
	assert.NoError(t, db.Create(&env.dripperB).Error)

	env.operator = users.User{Username: "operator1", FullName: "Field Operator", Role: users.RoleOperator}
	assert.NoError(t, db.Create(&env.operator).Error)

	logger := zap.NewNop()
	catalogSvc := catalog.NewService(db, logger)
	usersSvc := users.NewService(db, logger)
	auditSvc := audit.NewService(db, logger)
	records := irrigation.NewRepository(db)

	env.service = sync.NewService(db, catalogSvc, usersSvc, auditSvc, records, logger, "irrigation/synced")
	return env
}

func (e *testEnv) recordCount(t *testing.T) int64 {
	t.Helper()
	var count int64
	assert.NoError(t, e.db.Model(&irrigation.Record{}).Count(&count).Error)
	return count
}

func (e *testEnv) auditEntries(t *testing.T) []audit.Entry {
	t.Helper()
	var entries []audit.Entry
	assert.NoError(t, e.db.Order("id ASC").Find(&entries).Error)
	return entries
}

func at(hour int) time.Time {
	return time.Date(2026, 8, 20, hour, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T {
	return &v
}

func TestProcessBatchCreatesRecords(t *testing.T) {
	env := newTestEnv(t)
	end := at(10)

	result, err := env.service.ProcessBatch(context.Background(), "operator1", []sync.BatchItem{
		{
			LocalID:     "mob-001",
			SectorID:    env.sectorA.ID,
			EquipmentID: env.dripperA.ID,
			StartTime:   at(8),
			EndTime:     &end,
		},
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, result.TotalItems)
	assert.Equal(t, 1, result.SuccessfulItems)
	assert.Equal(t, 0, result.FailedItems)
	assert.Len(t, result.Results, 1)
	assert.True(t, result.Results[0].Success)
	assert.Equal(t, "mob-001", result.Results[0].LocalID)
	assert.NotZero(t, result.Results[0].ServerID)
	assert.NotEmpty(t, result.BatchID)

	var record irrigation.Record
	assert.NoError(t, env.db.Where("local_id = ?", "mob-001").First(&record).Error)
	assert.Equal(t, 2.0, record.DurationHours)
	// 2 hours at 5 m3/h from the equipment's nominal flow rate.
	assert.NotNil(t, record.WaterVolume)
	assert.Equal(t, 10.0, *record.WaterVolume)
}

func TestProcessBatchIdempotentResync(t *testing.T) {
	env := newTestEnv(t)
	end := at(10)
	items := []sync.BatchItem{
		{
			LocalID:     "mob-dup",
			SectorID:    env.sectorA.ID,
			EquipmentID: env.dripperA.ID,
			StartTime:   at(8),
			EndTime:     &end,
		},
	}

	first, err := env.service.ProcessBatch(context.Background(), "operator1", items)
	assert.NoError(t, err)
	second, err := env.service.ProcessBatch(context.Background(), "operator1", items)
	assert.NoError(t, err)

	assert.Equal(t, 1, first.SuccessfulItems)
	assert.Equal(t, 1, second.SuccessfulItems)
	assert.Equal(t, first.Results[0].ServerID, second.Results[0].ServerID)
	assert.Equal(t, int64(1), env.recordCount(t))

	entries := env.auditEntries(t)
	assert.Len(t, entries, 2)
	assert.Equal(t, audit.ActionCreate, entries[0].Action)
	assert.Equal(t, audit.ActionUpdate, entries[1].Action)
	assert.Equal(t, irrigation.EntityName, entries[0].EntityName)
	assert.Equal(t, env.operator.ID, entries[0].UserID)
}

func TestProcessBatchCrossFarmMismatch(t *testing.T) {
	env := newTestEnv(t)
	end := at(9)

	// Sector on farm A, equipment on farm B.
	result, err := env.service.ProcessBatch(context.Background(), "operator1", []sync.BatchItem{
		{
			LocalID:     "mob-cross",
			SectorID:    env.sectorA.ID,
			EquipmentID: env.dripperB.ID,
			StartTime:   at(8),
			EndTime:     &end,
		},
	})
	assert.NoError(t, err)
	assert.Equal(t, 0, result.SuccessfulItems)
	assert.Equal(t, 1, result.FailedItems)
	assert.False(t, result.Results[0].Success)
	assert.Contains(t, result.Results[0].Message, "farm")

	assert.Equal(t, int64(0), env.recordCount(t))
	assert.Empty(t, env.auditEntries(t))
}

func TestProcessBatchUnknownReferences(t *testing.T) {
	env := newTestEnv(t)
	end := at(9)

	tests := []struct {
		name    string
		item    sync.BatchItem
		message string
	}{
		{
			name: "unknown sector",
			item: sync.BatchItem{
				LocalID:     "mob-s",
				SectorID:    9999,
				EquipmentID: env.dripperA.ID,
				StartTime:   at(8),
				EndTime:     &end,
			},
			message: "Sector not found: 9999",
		},
		{
			name: "unknown equipment",
			item: sync.BatchItem{
				LocalID:     "mob-e",
				SectorID:    env.sectorA.ID,
				EquipmentID: 8888,
				StartTime:   at(8),
				EndTime:     &end,
			},
			message: "Equipment not found: 8888",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := env.service.ProcessBatch(context.Background(), "operator1", []sync.BatchItem{tc.item})
			assert.NoError(t, err)
			assert.Equal(t, 1, result.FailedItems)
			assert.Equal(t, tc.message, result.Results[0].Message)
		})
	}

	assert.Equal(t, int64(0), env.recordCount(t))
}

func TestProcessBatchStillRunning(t *testing.T) {
	env := newTestEnv(t)

	result, err := env.service.ProcessBatch(context.Background(), "operator1", []sync.BatchItem{
		{
			LocalID:     "mob-open",
			SectorID:    env.sectorA.ID,
			EquipmentID: env.dripperA.ID,
			StartTime:   at(8),
		},
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, result.SuccessfulItems)

	var record irrigation.Record
	assert.NoError(t, env.db.Where("local_id = ?", "mob-open").First(&record).Error)
	assert.Equal(t, 0.0, record.DurationHours)
	assert.Nil(t, record.WaterVolume)
	assert.Nil(t, record.EndTime)
}

func TestProcessBatchClientVolumeWins(t *testing.T) {
	env := newTestEnv(t)
	end := at(10)

	result, err := env.service.ProcessBatch(context.Background(), "operator1", []sync.BatchItem{
		{
			LocalID:     "mob-vol",
			SectorID:    env.sectorA.ID,
			EquipmentID: env.dripperA.ID,
			StartTime:   at(8),
			EndTime:     &end,
			WaterVolume: ptr(7.125),
		},
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, result.SuccessfulItems)

	var record irrigation.Record
	assert.NoError(t, env.db.Where("local_id = ?", "mob-vol").First(&record).Error)
	// The client-measured volume is kept over the derived 10.0, rounded.
	assert.NotNil(t, record.WaterVolume)
	assert.Equal(t, 7.13, *record.WaterVolume)
}

func TestProcessBatchItemFlowRateOverride(t *testing.T) {
	env := newTestEnv(t)
	end := at(9)
	halfPast := at(8).Add(30 * time.Minute)

	result, err := env.service.ProcessBatch(context.Background(), "operator1", []sync.BatchItem{
		{
			LocalID:     "mob-flow",
			SectorID:    env.sectorA.ID,
			EquipmentID: env.dripperA.ID,
			StartTime:   halfPast,
			EndTime:     &end,
			FlowRate:    ptr(2.5),
		},
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, result.SuccessfulItems)

	var record irrigation.Record
	assert.NoError(t, env.db.Where("local_id = ?", "mob-flow").First(&record).Error)
	assert.Equal(t, 0.5, record.DurationHours)
	assert.NotNil(t, record.WaterVolume)
	assert.Equal(t, 1.25, *record.WaterVolume)
}

func TestProcessBatchEmpty(t *testing.T) {
	env := newTestEnv(t)

	result, err := env.service.ProcessBatch(context.Background(), "operator1", nil)
	assert.NoError(t, err)
	assert.Equal(t, 0, result.TotalItems)
	assert.Equal(t, 0, result.SuccessfulItems)
	assert.Equal(t, 0, result.FailedItems)
	assert.Empty(t, result.Results)
	assert.NotEmpty(t, result.BatchID)

	// An empty batch produces no outbox traffic.
	var count int64
	assert.NoError(t, env.db.Model(&outbox.Event{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestProcessBatchUnknownActor(t *testing.T) {
	env := newTestEnv(t)
	end := at(10)

	result, err := env.service.ProcessBatch(context.Background(), "ghost", []sync.BatchItem{
		{
			LocalID:     "mob-actor",
			SectorID:    env.sectorA.ID,
			EquipmentID: env.dripperA.ID,
			StartTime:   at(8),
			EndTime:     &end,
		},
	})
	assert.Error(t, err)
	assert.ErrorIs(t, err, users.ErrUserNotFound)
	assert.Nil(t, result)
	assert.Equal(t, int64(0), env.recordCount(t))
}

func TestProcessBatchPartialFailure(t *testing.T) {
	env := newTestEnv(t)
	end := at(10)

	items := []sync.BatchItem{
		{LocalID: "mob-p1", SectorID: env.sectorA.ID, EquipmentID: env.dripperA.ID, StartTime: at(8), EndTime: &end},
		{LocalID: "mob-p2", SectorID: 9999, EquipmentID: env.dripperA.ID, StartTime: at(8), EndTime: &end},
		{LocalID: "mob-p3", SectorID: env.sectorB.ID, EquipmentID: env.dripperB.ID, StartTime: at(8), EndTime: &end},
		{LocalID: "", SectorID: env.sectorA.ID, EquipmentID: env.dripperA.ID, StartTime: at(8), EndTime: &end},
	}

	result, err := env.service.ProcessBatch(context.Background(), "operator1", items)
	assert.NoError(t, err)

	assert.Equal(t, 4, result.TotalItems)
	assert.Equal(t, 2, result.SuccessfulItems)
	assert.Equal(t, 2, result.FailedItems)
	assert.Equal(t, result.TotalItems, result.SuccessfulItems+result.FailedItems)
	assert.Len(t, result.Results, len(items))

	// Results preserve input order.
	for i, item := range items {
		assert.Equal(t, item.LocalID, result.Results[i].LocalID)
	}
	assert.True(t, result.Results[0].Success)
	assert.False(t, result.Results[1].Success)
	assert.True(t, result.Results[2].Success)
	assert.False(t, result.Results[3].Success)

	// Valid siblings of failed items still committed.
	assert.Equal(t, int64(2), env.recordCount(t))
}

func TestProcessBatchDuplicateKeysWithinBatch(t *testing.T) {
	env := newTestEnv(t)
	end := at(10)
	laterEnd := at(11)

	result, err := env.service.ProcessBatch(context.Background(), "operator1", []sync.BatchItem{
		{LocalID: "mob-twice", SectorID: env.sectorA.ID, EquipmentID: env.dripperA.ID, StartTime: at(8), EndTime: &end},
		{LocalID: "mob-twice", SectorID: env.sectorA.ID, EquipmentID: env.dripperA.ID, StartTime: at(8), EndTime: &laterEnd},
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, result.SuccessfulItems)
	assert.Equal(t, result.Results[0].ServerID, result.Results[1].ServerID)
	assert.Equal(t, int64(1), env.recordCount(t))

	// Last write wins within the batch.
	var record irrigation.Record
	assert.NoError(t, env.db.Where("local_id = ?", "mob-twice").First(&record).Error)
	assert.Equal(t, 3.0, record.DurationHours)
}

func TestProcessBatchAuditFailureLeavesNoRecord(t *testing.T) {
	env := newTestEnv(t)
	end := at(10)

	// With the audit table gone the entry cannot be written; the item must
	// fail and its already-saved record must be rolled back with it.
	require.NoError(t, env.db.Migrator().DropTable(&audit.Entry{}))

	result, err := env.service.ProcessBatch(context.Background(), "operator1", []sync.BatchItem{
		{LocalID: "mob-unaudited", SectorID: env.sectorA.ID, EquipmentID: env.dripperA.ID, StartTime: at(8), EndTime: &end},
	})
	assert.NoError(t, err)
	assert.Equal(t, 0, result.SuccessfulItems)
	assert.Equal(t, 1, result.FailedItems)
	assert.False(t, result.Results[0].Success)
	assert.Contains(t, result.Results[0].Message, "audit")

	assert.Equal(t, int64(0), env.recordCount(t))
}

func TestProcessBatchAuditFailureSparesSiblings(t *testing.T) {
	env := newTestEnv(t)
	end := at(10)

	// An update whose audited transition cannot be written rolls back only
	// its own savepoint; valid siblings in the same batch still commit.
	seed, err := env.service.ProcessBatch(context.Background(), "operator1", []sync.BatchItem{
		{LocalID: "mob-keep", SectorID: env.sectorA.ID, EquipmentID: env.dripperA.ID, StartTime: at(8), EndTime: &end},
	})
	require.NoError(t, err)
	require.Equal(t, 1, seed.SuccessfulItems)
	require.NoError(t, env.db.Migrator().DropTable(&audit.Entry{}))

	result, err := env.service.ProcessBatch(context.Background(), "operator1", []sync.BatchItem{
		{LocalID: "mob-fresh", SectorID: env.sectorA.ID, EquipmentID: env.dripperA.ID, StartTime: at(8), EndTime: &end},
	})
	assert.NoError(t, err)
	assert.Equal(t, 0, result.SuccessfulItems)
	assert.Equal(t, 1, result.FailedItems)

	// The seeded record from the earlier batch is untouched; the failed
	// item left nothing.
	assert.Equal(t, int64(1), env.recordCount(t))
	var record irrigation.Record
	assert.NoError(t, env.db.Where("local_id = ?", "mob-keep").First(&record).Error)
	assert.Error(t, env.db.Where("local_id = ?", "mob-fresh").First(&irrigation.Record{}).Error)
}

func TestProcessBatchEnqueuesOutboxEvent(t *testing.T) {
	env := newTestEnv(t)
	end := at(10)

	result, err := env.service.ProcessBatch(context.Background(), "operator1", []sync.BatchItem{
		{LocalID: "mob-out", SectorID: env.sectorA.ID, EquipmentID: env.dripperA.ID, StartTime: at(8), EndTime: &end},
	})
	assert.NoError(t, err)

	var event outbox.Event
	assert.NoError(t, env.db.First(&event).Error)
	assert.Equal(t, "irrigation/synced", event.Topic)
	assert.Equal(t, fmt.Sprintf("reports/sync/%s.json", result.BatchID), event.ObjectName)
	assert.Nil(t, event.DispatchedAt)

	var payload sync.BatchEvent
	assert.NoError(t, json.Unmarshal([]byte(event.Payload), &payload))
	assert.Equal(t, result.BatchID, payload.BatchID)
	assert.Equal(t, "operator1", payload.Actor)
	assert.Equal(t, 1, payload.SuccessfulItems)
	assert.Len(t, payload.Result.Results, 1)
}

func TestProcessBatchRoundsDurationHalfUp(t *testing.T) {
	env := newTestEnv(t)
	// 10 minutes = 0.1666... hours, which rounds half-up to 0.17.
	end := at(8).Add(10 * time.Minute)

	result, err := env.service.ProcessBatch(context.Background(), "operator1", []sync.BatchItem{
		{LocalID: "mob-round", SectorID: env.sectorA.ID, EquipmentID: env.dripperA.ID, StartTime: at(8), EndTime: &end},
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, result.SuccessfulItems)

	var record irrigation.Record
	assert.NoError(t, env.db.Where("local_id = ?", "mob-round").First(&record).Error)
	assert.Equal(t, 0.17, record.DurationHours)
}
