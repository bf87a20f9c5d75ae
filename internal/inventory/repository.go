package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/Mejrifx/fnt-motorgroup-main-sub000/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListParams filters the public vehicle listing.
type ListParams struct {
	Category string
	Make     string
	MaxPrice int
	Limit    int
	Offset   int
}

const defaultListLimit = 50

// Repository wires together vehicle persistence for the sync engine, the
// public read API and the admin surface.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads one vehicle row.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	if err := r.db.WithContext(ctx).First(&vehicle, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &vehicle, nil
}

// FindByProviderID loads the vehicle joined to a provider record.
func (r *Repository) FindByProviderID(ctx context.Context, providerID string) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	if err := r.db.WithContext(ctx).First(&vehicle, "provider_id = ?", providerID).Error; err != nil {
		return nil, err
	}
	return &vehicle, nil
}

// ListSynced returns every vehicle owned by the provider sync, available or
// not. The reconciliation pass diffs this set against the live feed.
func (r *Repository) ListSynced(ctx context.Context) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	if err := r.db.WithContext(ctx).
		Where("synced_from_provider = ?", true).
		Find(&vehicles).Error; err != nil {
		return nil, err
	}
	return vehicles, nil
}

// Create inserts a new vehicle row.
func (r *Repository) Create(ctx context.Context, vehicle *models.Vehicle) error {
	return r.db.WithContext(ctx).Create(vehicle).Error
}

// Update saves all fields of an existing vehicle row.
func (r *Repository) Update(ctx context.Context, vehicle *models.Vehicle) error {
	return r.db.WithContext(ctx).Save(vehicle).Error
}

// MarkUnavailable flips is_available off for the given rows in one statement.
// Overridden rows are excluded as a second line of defense; callers already
// filter them out.
func (r *Repository) MarkUnavailable(ctx context.Context, ids []uuid.UUID, now time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Model(&models.Vehicle{}).
		Where("id IN ? AND override_active = ?", ids, false).
		Updates(map[string]any{
			"is_available": false,
			"updated_at":   now,
		})
	return result.RowsAffected, result.Error
}

// ListAvailable serves the public website listing: available vehicles only,
// newest first, with optional category, make and price filters.
func (r *Repository) ListAvailable(ctx context.Context, params ListParams) ([]models.Vehicle, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Vehicle{}).
		Where("is_available = ?", true)

	if category := strings.TrimSpace(params.Category); category != "" {
		query = query.Where("category = ?", category)
	}
	if make := strings.TrimSpace(params.Make); make != "" {
		query = query.Where("LOWER(make) = LOWER(?)", make)
	}
	if params.MaxPrice > 0 {
		query = query.Where("price <= ?", params.MaxPrice)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := params.Limit
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	var vehicles []models.Vehicle
	if err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&vehicles).Error; err != nil {
		return nil, 0, err
	}
	return vehicles, total, nil
}

// ListAll serves the admin listing: every vehicle, sold stock included, with
// the same filters as the public listing.
func (r *Repository) ListAll(ctx context.Context, params ListParams) ([]models.Vehicle, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Vehicle{})

	if category := strings.TrimSpace(params.Category); category != "" {
		query = query.Where("category = ?", category)
	}
	if make := strings.TrimSpace(params.Make); make != "" {
		query = query.Where("LOWER(make) = LOWER(?)", make)
	}
	if params.MaxPrice > 0 {
		query = query.Where("price <= ?", params.MaxPrice)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := params.Limit
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	var vehicles []models.Vehicle
	if err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&vehicles).Error; err != nil {
		return nil, 0, err
	}
	return vehicles, total, nil
}

// SetOverride toggles the manual override flag. While set, every automated
// write path skips the row.
func (r *Repository) SetOverride(ctx context.Context, id uuid.UUID, active bool) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&vehicle, "id = ?", id).Error; err != nil {
			return err
		}
		vehicle.OverrideActive = active
		return tx.Save(&vehicle).Error
	})
	if err != nil {
		return nil, err
	}
	return &vehicle, nil
}
