package synclog

import (
	"context"

	"github.com/Mejrifx/fnt-motorgroup-main-sub000/pkg/db/models"
	"gorm.io/gorm"
)

const defaultListLimit = 100

// Repository persists sync run outcomes. Rows are append-only: nothing in the
// codebase updates or deletes a sync log once written.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create appends one run record.
func (r *Repository) Create(ctx context.Context, entry *models.SyncLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// List returns the most recent runs, optionally filtered by run type.
func (r *Repository) List(ctx context.Context, runType string, limit, offset int) ([]models.SyncLog, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.SyncLog{})
	if runType != "" {
		query = query.Where("run_type = ?", runType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}
	if offset < 0 {
		offset = 0
	}

	var entries []models.SyncLog
	if err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
