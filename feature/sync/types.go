package sync

import "time"

// BatchItem is one client-submitted irrigation record. Disconnected mobile
// clients assign LocalID themselves and may resubmit the same item any
// number of times.
type BatchItem struct {
	// LocalID is the client-generated idempotency key.
	LocalID string `json:"local_id" validate:"required,max=64"`

	// SectorID references the irrigated sector in the catalog.
	SectorID uint `json:"sector_id" validate:"required"`

	// EquipmentID references the equipment used; it must belong to the
	// same farm as the sector.
	EquipmentID uint `json:"equipment_id" validate:"required"`

	// StartTime is when the irrigation started.
	StartTime time.Time `json:"start_time" validate:"required"`

	// EndTime is absent while the irrigation is still running.
	EndTime *time.Time `json:"end_time"`

	// WaterVolume optionally overrides the derived volume (cubic meters).
	WaterVolume *float64 `json:"water_volume" validate:"omitempty,gte=0"`

	// FlowRate optionally overrides the equipment's nominal flow rate
	// (cubic meters per hour) for the volume derivation.
	FlowRate *float64 `json:"flow_rate" validate:"omitempty,gte=0"`
}

// ResultItem reports the outcome for a single batch item.
type ResultItem struct {
	// LocalID echoes the input item's idempotency key.
	LocalID string `json:"local_id"`

	// ServerID is the stored record's id; zero on failure.
	ServerID uint `json:"server_id,omitempty"`

	// Success indicates whether the item was persisted.
	Success bool `json:"success"`

	// Message is a human-readable outcome or error description.
	Message string `json:"message"`
}

// BatchResult is the per-item breakdown for one processed batch.
// Results preserves input order, one entry per input item.
type BatchResult struct {
	BatchID         string       `json:"batch_id"`
	TotalItems      int          `json:"total_items"`
	SuccessfulItems int          `json:"successful_items"`
	FailedItems     int          `json:"failed_items"`
	Results         []ResultItem `json:"results"`
}

// BatchEvent is the post-commit notification published for downstream
// consumers and archived together with the full result.
type BatchEvent struct {
	BatchID         string      `json:"batch_id"`
	Actor           string      `json:"actor"`
	TotalItems      int         `json:"total_items"`
	SuccessfulItems int         `json:"successful_items"`
	FailedItems     int         `json:"failed_items"`
	ProcessedAt     time.Time   `json:"processed_at"`
	Result          BatchResult `json:"result"`
}
