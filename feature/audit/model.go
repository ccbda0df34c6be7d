package audit

import "time"

// Actions recorded in the trail.
const (
	ActionCreate = "CREATE"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)

// Entry is one append-only audit trail record. Old/new values are pointers
// because a creation has no prior value.
type Entry struct {
	ID         uint      `gorm:"column:id;primaryKey" json:"id"`
	UserID     uint      `gorm:"column:user_id;index" json:"user_id"`
	Username   string    `gorm:"column:username;size:64" json:"username"`
	Action     string    `gorm:"column:action;size:16" json:"action"`
	EntityName string    `gorm:"column:entity_name;size:64;index" json:"entity_name"`
	Field      string    `gorm:"column:field;size:64" json:"field"`
	OldValue   *string   `gorm:"column:old_value;size:255" json:"old_value"`
	NewValue   *string   `gorm:"column:new_value;size:255" json:"new_value"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName overrides the table name.
func (Entry) TableName() string {
	return "audit_entries"
}
