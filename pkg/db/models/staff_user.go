package models

import (
	"time"

	"github.com/google/uuid"
)

// StaffUser is a dashboard operator allowed to trigger syncs and edit vehicles.
type StaffUser struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email     string    `gorm:"column:email;not null;uniqueIndex" json:"email"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true" json:"isActive"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
