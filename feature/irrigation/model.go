package irrigation

import "time"

// EntityName is the name irrigation records are audited under.
const EntityName = "IrrigationRecord"

// Record is one logged irrigation run on a sector.
type Record struct {
	ID          uint      `gorm:"column:id;primaryKey" json:"id"`
	SectorID    uint      `gorm:"column:sector_id;index" json:"sector_id"`
	EquipmentID uint      `gorm:"column:equipment_id;index" json:"equipment_id"`
	StartTime   time.Time `gorm:"column:start_time" json:"start_time"`
	// EndTime is nil while the irrigation is still running.
	EndTime *time.Time `gorm:"column:end_time" json:"end_time"`
	// DurationHours is derived from start/end, 2 decimals, never negative.
	DurationHours float64 `gorm:"column:duration_hours" json:"duration_hours"`
	// WaterVolume is cubic meters, nil when it cannot be derived.
	WaterVolume *float64 `gorm:"column:water_volume" json:"water_volume"`
	// LocalID is the client-generated idempotency key. The unique index is
	// what makes concurrent syncs of the same key safe; application-level
	// checks alone would race.
	LocalID   string    `gorm:"column:local_id;size:64;uniqueIndex" json:"local_id"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName overrides the table name.
func (Record) TableName() string {
	return "irrigation_records"
}
