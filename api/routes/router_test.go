package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Mejrifx/fnt-motorgroup-main-sub000/internal/inventory"
	syncengine "github.com/Mejrifx/fnt-motorgroup-main-sub000/internal/sync"
	providerwebhook "github.com/Mejrifx/fnt-motorgroup-main-sub000/internal/webhooks"
	"github.com/Mejrifx/fnt-motorgroup-main-sub000/pkg/config"
	"github.com/Mejrifx/fnt-motorgroup-main-sub000/pkg/db/models"
	"github.com/Mejrifx/fnt-motorgroup-main-sub000/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type routerVehicleReader struct{}

func (routerVehicleReader) ListAvailable(ctx context.Context, params inventory.ListParams) ([]models.Vehicle, int64, error) {
	return nil, 0, nil
}

func (routerVehicleReader) FindByID(ctx context.Context, id uuid.UUID) (*models.Vehicle, error) {
	return nil, gorm.ErrRecordNotFound
}

type routerAdminStore struct{ routerVehicleReader }

func (routerAdminStore) ListAll(ctx context.Context, params inventory.ListParams) ([]models.Vehicle, int64, error) {
	return nil, 0, nil
}

func (routerAdminStore) Update(ctx context.Context, vehicle *models.Vehicle) error { return nil }
func (routerAdminStore) SetOverride(ctx context.Context, id uuid.UUID, active bool) (*models.Vehicle, error) {
	return nil, gorm.ErrRecordNotFound
}

type routerSyncLogReader struct{}

func (routerSyncLogReader) List(ctx context.Context, runType string, limit, offset int) ([]models.SyncLog, int64, error) {
	return nil, 0, nil
}

type routerSyncRunner struct{}

func (routerSyncRunner) RunFullSync(ctx context.Context) (syncengine.Result, error) {
	return syncengine.Result{Status: models.SyncStatusSuccess}, nil
}

type routerStaffResolver struct{}

func (routerStaffResolver) FindByID(ctx context.Context, id uuid.UUID) (*models.StaffUser, error) {
	return nil, gorm.ErrRecordNotFound
}

type routerWebhookService struct{}

func (routerWebhookService) Handle(ctx context.Context, event providerwebhook.Event) (string, error) {
	return models.SyncStatusSuccess, nil
}

type memoryGuardStore struct{ keys map[string]bool }

func (m *memoryGuardStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if m.keys == nil {
		m.keys = map[string]bool{}
	}
	if m.keys[key] {
		return false, nil
	}
	m.keys[key] = true
	return true, nil
}

func (m *memoryGuardStore) Del(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.keys, k)
	}
	return nil
}

func (m *memoryGuardStore) WebhookEventKey(eventID string) string { return "wh:" + eventID }

func testRouter() http.Handler {
	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.JWT = config.JWTConfig{Secret: "s", Issuer: "i", ExpirationMinutes: 15}
	cfg.Webhook.SigningSecret = "wh-secret"

	return NewRouter(Deps{
		Config:        cfg,
		Logger:        logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		Vehicles:      routerVehicleReader{},
		AdminVehicles: routerAdminStore{},
		SyncLogs:      routerSyncLogReader{},
		SyncEngine:    routerSyncRunner{},
		Staff:         routerStaffResolver{},
		WebhookSvc:    routerWebhookService{},
		WebhookGuard:  providerwebhook.NewRedisGuard(&memoryGuardStore{}),
	})
}

func TestRouterPublicVehiclesNeedsNoAuth(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/vehicles", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on the public listing, got %d", rec.Code)
	}
}

func TestRouterWebhookRejectsNonPost(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/webhooks/provider", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 for GET on the webhook, got %d", rec.Code)
	}
}

func TestRouterWebhookAnswersPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/webhooks/provider", nil)
	req.Header.Set("Origin", "https://admin.fntmotorgroup.co.uk")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK && rec.Code != http.StatusNoContent {
		t.Fatalf("expected preflight to succeed, got %d", rec.Code)
	}
}

func TestRouterAdminRoutesRequireAuth(t *testing.T) {
	paths := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/admin/v1/sync"},
		{http.MethodGet, "/api/admin/v1/sync-logs"},
		{http.MethodGet, "/api/admin/v1/vehicles"},
		{http.MethodPatch, "/api/admin/v1/vehicles/" + uuid.NewString()},
		{http.MethodPost, "/api/admin/v1/vehicles/" + uuid.NewString() + "/override"},
	}

	router := testRouter()
	for _, tc := range paths {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401 without a token, got %d", tc.method, tc.path, rec.Code)
		}
	}
}

func TestRouterScheduledSyncNeedsNoAuth(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/sync/scheduled", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from the scheduler trigger, got %d", rec.Code)
	}
}

func TestRouterHealthLive(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from liveness, got %d", rec.Code)
	}
}
