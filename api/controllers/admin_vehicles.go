package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/Mejrifx/fnt-motorgroup-main-sub000/api/responses"
	"github.com/Mejrifx/fnt-motorgroup-main-sub000/api/validators"
	"github.com/Mejrifx/fnt-motorgroup-main-sub000/internal/inventory"
	"github.com/Mejrifx/fnt-motorgroup-main-sub000/pkg/db/models"
	pkgerrors "github.com/Mejrifx/fnt-motorgroup-main-sub000/pkg/errors"
	"github.com/Mejrifx/fnt-motorgroup-main-sub000/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VehicleAdminStore is the staff-facing surface of the inventory repository.
// Unlike the public reader it sees sold stock too.
type VehicleAdminStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Vehicle, error)
	ListAll(ctx context.Context, params inventory.ListParams) ([]models.Vehicle, int64, error)
	Update(ctx context.Context, vehicle *models.Vehicle) error
	SetOverride(ctx context.Context, id uuid.UUID, active bool) (*models.Vehicle, error)
}

// SyncLogReader lists recorded sync runs for the dashboard.
type SyncLogReader interface {
	List(ctx context.Context, runType string, limit, offset int) ([]models.SyncLog, int64, error)
}

type updateVehicleRequest struct {
	Make         *string  `json:"make" validate:"omitempty,min=1"`
	Model        *string  `json:"model" validate:"omitempty,min=1"`
	Derivative   *string  `json:"derivative"`
	Year         *int     `json:"year" validate:"omitempty,min=1900,max=2100"`
	Price        *int     `json:"price" validate:"omitempty,min=1"`
	Mileage      *int     `json:"mileage" validate:"omitempty,min=0"`
	FuelType     *string  `json:"fuelType" validate:"omitempty,min=1"`
	Transmission *string  `json:"transmission" validate:"omitempty,min=1"`
	Colour       *string  `json:"colour" validate:"omitempty,min=1"`
	Category     *string  `json:"category" validate:"omitempty,min=1"`
	Description  *string  `json:"description"`
	IsAvailable  *bool    `json:"isAvailable"`
	CoverImage   *string  `json:"coverImageUrl" validate:"omitempty,url"`
	Gallery      []string `json:"galleryImageUrls" validate:"omitempty,dive,url"`
}

type setOverrideRequest struct {
	Active *bool `json:"active" validate:"required"`
}

// ListVehiclesAdmin serves the dashboard's stock listing, sold stock included.
func ListVehiclesAdmin(store VehicleAdminStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 50, 1, 50)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 100000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		maxPrice, err := validators.ParseQueryInt(r, "maxPrice", 0, 0, 10000000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		vehicles, total, err := store.ListAll(r.Context(), inventory.ListParams{
			Category: r.URL.Query().Get("category"),
			Make:     r.URL.Query().Get("make"),
			MaxPrice: maxPrice,
			Limit:    limit,
			Offset:   offset,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list vehicles"))
			return
		}

		responses.WriteSuccess(w, vehicleListResponse{Vehicles: vehicles, Total: total})
	}
}

// UpdateVehicle applies a staff edit. Editing a synced vehicle flips the
// override flag on so the next sync run does not undo the change.
func UpdateVehicle(store VehicleAdminStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseVehicleID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateVehicleRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		vehicle, err := store.FindByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "vehicle not found"))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vehicle"))
			return
		}

		applyVehicleEdit(vehicle, req)
		if vehicle.SyncedFromProvider {
			vehicle.OverrideActive = true
		}

		if err := store.Update(r.Context(), vehicle); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save vehicle"))
			return
		}

		if logg != nil {
			ctx := logg.WithVehicleID(r.Context(), vehicle.ID.String())
			logg.Info(ctx, "vehicle edited by staff")
		}
		responses.WriteSuccess(w, vehicle)
	}
}

// SetVehicleOverride toggles sync protection without editing fields.
func SetVehicleOverride(store VehicleAdminStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseVehicleID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req setOverrideRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		vehicle, err := store.SetOverride(r.Context(), id, *req.Active)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "vehicle not found"))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set override"))
			return
		}

		responses.WriteSuccess(w, vehicle)
	}
}

type syncLogListResponse struct {
	Runs  []models.SyncLog `json:"runs"`
	Total int64            `json:"total"`
}

// ListSyncLogs serves the dashboard's run history.
func ListSyncLogs(reader SyncLogReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 50, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 100000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		runType := r.URL.Query().Get("runType")
		switch runType {
		case "", models.SyncRunTypeFull, models.SyncRunTypeWebhook:
		default:
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown run type"))
			return
		}

		runs, total, err := reader.List(r.Context(), runType, limit, offset)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sync logs"))
			return
		}

		responses.WriteSuccess(w, syncLogListResponse{Runs: runs, Total: total})
	}
}

func applyVehicleEdit(vehicle *models.Vehicle, req updateVehicleRequest) {
	if req.Make != nil {
		vehicle.Make = *req.Make
	}
	if req.Model != nil {
		vehicle.Model = *req.Model
	}
	if req.Derivative != nil {
		vehicle.Derivative = req.Derivative
	}
	if req.Year != nil {
		vehicle.Year = *req.Year
	}
	if req.Price != nil {
		vehicle.Price = *req.Price
	}
	if req.Mileage != nil {
		vehicle.Mileage = *req.Mileage
	}
	if req.FuelType != nil {
		vehicle.FuelType = *req.FuelType
	}
	if req.Transmission != nil {
		vehicle.Transmission = *req.Transmission
	}
	if req.Colour != nil {
		vehicle.Colour = *req.Colour
	}
	if req.Category != nil {
		vehicle.Category = *req.Category
	}
	if req.Description != nil {
		vehicle.Description = *req.Description
	}
	if req.IsAvailable != nil {
		vehicle.IsAvailable = *req.IsAvailable
	}
	if req.CoverImage != nil {
		vehicle.CoverImageURL = *req.CoverImage
	}
	if req.Gallery != nil {
		vehicle.GalleryImageURLs = req.Gallery
	}
}
