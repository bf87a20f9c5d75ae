package staff

import (
	"context"

	"github.com/Mejrifx/fnt-motorgroup-main-sub000/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository looks up staff accounts for the authenticated admin surface.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads one staff account.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.StaffUser, error) {
	var user models.StaffUser
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
