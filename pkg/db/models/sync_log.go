package models

import (
	"time"

	"github.com/google/uuid"
)

// Sync log run types.
const (
	SyncRunTypeFull    = "full_sync"
	SyncRunTypeWebhook = "webhook"
)

// Sync log statuses. Full-sync runs end success/partial/failed; webhook runs
// may also end skipped (override frozen the record) or not_found.
const (
	SyncStatusSuccess  = "success"
	SyncStatusPartial  = "partial"
	SyncStatusFailed   = "failed"
	SyncStatusSkipped  = "skipped"
	SyncStatusNotFound = "not_found"
)

// SyncLog records the outcome of one sync run or webhook event. Rows are
// written once and never updated.
type SyncLog struct {
	ID                uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RunType           string    `gorm:"column:run_type;not null" json:"runType"`
	Status            string    `gorm:"column:status;not null" json:"status"`
	VehiclesAdded     int       `gorm:"column:vehicles_added;not null;default:0" json:"vehiclesAdded"`
	VehiclesUpdated   int       `gorm:"column:vehicles_updated;not null;default:0" json:"vehiclesUpdated"`
	VehiclesRemoved   int       `gorm:"column:vehicles_removed;not null;default:0" json:"vehiclesRemoved"`
	DurationMS        int64     `gorm:"column:duration_ms;not null;default:0" json:"durationMs"`
	ErrorSummary      *string   `gorm:"column:error_summary" json:"errorSummary,omitempty"`
	ProviderVehicleID *string   `gorm:"column:provider_vehicle_id" json:"providerVehicleId,omitempty"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}
