package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Mejrifx/fnt-motorgroup-main-sub000/internal/inventory"
	"github.com/Mejrifx/fnt-motorgroup-main-sub000/pkg/db/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type stubVehicleReader struct {
	vehicles   []models.Vehicle
	total      int64
	byID       map[uuid.UUID]*models.Vehicle
	lastParams inventory.ListParams
}

func (s *stubVehicleReader) ListAvailable(ctx context.Context, params inventory.ListParams) ([]models.Vehicle, int64, error) {
	s.lastParams = params
	return s.vehicles, s.total, nil
}

func (s *stubVehicleReader) FindByID(ctx context.Context, id uuid.UUID) (*models.Vehicle, error) {
	if v, ok := s.byID[id]; ok {
		return v, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func withVehicleParam(req *http.Request, id string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("vehicleID", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestListVehiclesPassesFilters(t *testing.T) {
	reader := &stubVehicleReader{
		vehicles: []models.Vehicle{{Make: "Ford", Model: "Fiesta"}},
		total:    1,
	}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/vehicles?category=SUV&make=Ford&maxPrice=20000&limit=10&offset=5", nil)
	rec := httptest.NewRecorder()

	ListVehicles(reader, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	p := reader.lastParams
	if p.Category != "SUV" || p.Make != "Ford" || p.MaxPrice != 20000 || p.Limit != 10 || p.Offset != 5 {
		t.Fatalf("filters not forwarded: %+v", p)
	}

	var envelope struct {
		Data vehicleListResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Total != 1 || len(envelope.Data.Vehicles) != 1 {
		t.Fatalf("unexpected payload: %+v", envelope.Data)
	}
}

func TestListVehiclesRejectsBadLimit(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/vehicles?limit=nope", nil)
	rec := httptest.NewRecorder()

	ListVehicles(&stubVehicleReader{}, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid limit, got %d", rec.Code)
	}
}

func TestGetVehicleFound(t *testing.T) {
	id := uuid.New()
	reader := &stubVehicleReader{byID: map[uuid.UUID]*models.Vehicle{
		id: {ID: id, Make: "Audi", Model: "A3", IsAvailable: true},
	}}
	req := withVehicleParam(httptest.NewRequest(http.MethodGet, "/api/v1/vehicles/"+id.String(), nil), id.String())
	rec := httptest.NewRecorder()

	GetVehicle(reader, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestGetVehicleUnavailableIsHidden(t *testing.T) {
	id := uuid.New()
	reader := &stubVehicleReader{byID: map[uuid.UUID]*models.Vehicle{
		id: {ID: id, Make: "Audi", Model: "A3", IsAvailable: false},
	}}
	req := withVehicleParam(httptest.NewRequest(http.MethodGet, "/api/v1/vehicles/"+id.String(), nil), id.String())
	rec := httptest.NewRecorder()

	GetVehicle(reader, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for sold stock on the public surface, got %d", rec.Code)
	}
}

func TestGetVehicleUnknownID(t *testing.T) {
	req := withVehicleParam(httptest.NewRequest(http.MethodGet, "/api/v1/vehicles/"+uuid.NewString(), nil), uuid.NewString())
	rec := httptest.NewRecorder()

	GetVehicle(&stubVehicleReader{}, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestGetVehicleRejectsMalformedID(t *testing.T) {
	req := withVehicleParam(httptest.NewRequest(http.MethodGet, "/api/v1/vehicles/not-a-uuid", nil), "not-a-uuid")
	rec := httptest.NewRecorder()

	GetVehicle(&stubVehicleReader{}, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed id, got %d", rec.Code)
	}
}
