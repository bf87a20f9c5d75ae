package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Vehicle is the authoritative inventory row for the website and admin surface.
//
// ProviderID joins the listings provider's world to ours; it is unique among rows
// where SyncedFromProvider is true and nil for vehicles entered by staff. Rows with
// OverrideActive set are frozen against every automated write path.
type Vehicle struct {
	ID                 uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProviderID         *string        `gorm:"column:provider_id;uniqueIndex:idx_vehicles_provider_id,where:provider_id IS NOT NULL" json:"providerId"`
	Make               string         `gorm:"column:make;not null" json:"make"`
	Model              string         `gorm:"column:model;not null" json:"model"`
	Derivative         *string        `gorm:"column:derivative" json:"derivative,omitempty"`
	Year               int            `gorm:"column:year;not null" json:"year"`
	Price              int            `gorm:"column:price;not null" json:"price"`
	Mileage            int            `gorm:"column:mileage;not null;default:0" json:"mileage"`
	FuelType           string         `gorm:"column:fuel_type;not null" json:"fuelType"`
	Transmission       string         `gorm:"column:transmission;not null" json:"transmission"`
	Colour             string         `gorm:"column:colour;not null" json:"colour"`
	Category           string         `gorm:"column:category;not null" json:"category"`
	Description        string         `gorm:"column:description;not null;default:''" json:"description"`
	CoverImageURL      string         `gorm:"column:cover_image_url;not null;default:''" json:"coverImageUrl"`
	GalleryImageURLs   pq.StringArray `gorm:"column:gallery_image_urls;type:text[];not null;default:ARRAY[]::text[]" json:"galleryImageUrls"`
	SyncedFromProvider bool           `gorm:"column:synced_from_provider;not null;default:false" json:"syncedFromProvider"`
	OverrideActive     bool           `gorm:"column:override_active;not null;default:false" json:"overrideActive"`
	LastSyncedAt       *time.Time     `gorm:"column:last_synced_at" json:"lastSyncedAt,omitempty"`
	IsAvailable        bool           `gorm:"column:is_available;not null;default:true" json:"isAvailable"`
	RawPayload         []byte         `gorm:"column:raw_payload;type:jsonb" json:"-"`
	CreatedAt          time.Time      `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt          time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
