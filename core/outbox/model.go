package outbox

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Event is a pending downstream notification, written in the same
// transaction as the state change it describes.
type Event struct {
	ID uint `gorm:"column:id;primaryKey"`
	// EventID is a globally unique id for tracing across consumers.
	EventID string `gorm:"column:event_id;size:36;uniqueIndex"`
	// Topic is the broker topic the payload is published to.
	Topic string `gorm:"column:topic;size:128"`
	// ObjectName is the storage object the payload is archived under.
	// Empty when the event should only be published, not archived.
	ObjectName string `gorm:"column:object_name;size:255"`
	// Payload is the serialized event body (JSON).
	Payload string `gorm:"column:payload;type:text"`
	// Attempts counts delivery attempts so operators can spot stuck events.
	Attempts     int        `gorm:"column:attempts"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	DispatchedAt *time.Time `gorm:"column:dispatched_at;index"`
}

// TableName overrides the table name.
func (Event) TableName() string {
	return "outbox_events"
}

// Enqueue appends an event inside the caller's transaction. The event
// becomes visible to the dispatcher only once that transaction commits,
// which is what keeps delivery out of the reconciliation loop.
func Enqueue(tx *gorm.DB, topic, objectName string, payload []byte) error {
	event := Event{
		EventID:    uuid.NewString(),
		Topic:      topic,
		ObjectName: objectName,
		Payload:    string(payload),
	}
	return tx.Create(&event).Error
}
