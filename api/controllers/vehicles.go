package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Mejrifx/fnt-motorgroup-main-sub000/api/responses"
	"github.com/Mejrifx/fnt-motorgroup-main-sub000/api/validators"
	"github.com/Mejrifx/fnt-motorgroup-main-sub000/internal/inventory"
	"github.com/Mejrifx/fnt-motorgroup-main-sub000/pkg/db/models"
	pkgerrors "github.com/Mejrifx/fnt-motorgroup-main-sub000/pkg/errors"
	"github.com/Mejrifx/fnt-motorgroup-main-sub000/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VehicleReader is the public read surface of the inventory repository.
type VehicleReader interface {
	ListAvailable(ctx context.Context, params inventory.ListParams) ([]models.Vehicle, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Vehicle, error)
}

type vehicleListResponse struct {
	Vehicles []models.Vehicle `json:"vehicles"`
	Total    int64            `json:"total"`
}

// ListVehicles serves the website's stock listing.
func ListVehicles(reader VehicleReader, logg *logger.Logger) http.HandlerFunc {
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

		vehicles, total, err := reader.ListAvailable(r.Context(), inventory.ListParams{
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

// GetVehicle serves one vehicle detail page. Unavailable vehicles 404 on the
// public surface even though the row still exists.
func GetVehicle(reader VehicleReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseVehicleID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		vehicle, err := reader.FindByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "vehicle not found"))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vehicle"))
			return
		}
		if !vehicle.IsAvailable {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "vehicle not found"))
			return
		}

		responses.WriteSuccess(w, vehicle)
	}
}

func parseVehicleID(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "vehicleID"))
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "vehicle id must be a uuid")
	}
	return id, nil
}
