package models

import "time"

// Farm represents a managed farm.
type Farm struct {
	ID        uint      `gorm:"column:id;primaryKey" json:"id"`
	Name      string    `gorm:"column:name;size:128" json:"name"`
	Location  string    `gorm:"column:location;size:255" json:"location"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName overrides the table name.
func (Farm) TableName() string {
	return "farms"
}

// Sector is an irrigated subdivision of a farm.
type Sector struct {
	ID     uint   `gorm:"column:id;primaryKey" json:"id"`
	FarmID uint   `gorm:"column:farm_id;index" json:"farm_id"`
	Name   string `gorm:"column:name;size:128" json:"name"`
	// AreaHa is the sector area in hectares.
	AreaHa    float64   `gorm:"column:area_ha" json:"area_ha"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName overrides the table name.
func (Sector) TableName() string {
	return "sectors"
}

// Equipment is an irrigation device installed on a farm.
type Equipment struct {
	ID     uint   `gorm:"column:id;primaryKey" json:"id"`
	FarmID uint   `gorm:"column:farm_id;index" json:"farm_id"`
	Name   string `gorm:"column:name;size:128" json:"name"`
	// Kind distinguishes drip lines, sprinklers, pumps.
	Kind string `gorm:"column:kind;size:64" json:"kind"`
	// FlowRate is the nominal water output in cubic meters per hour.
	FlowRate  float64   `gorm:"column:flow_rate" json:"flow_rate"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName overrides the table name.
func (Equipment) TableName() string {
	return "equipment"
}
