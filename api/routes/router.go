package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Mejrifx/fnt-motorgroup-main-sub000/api/controllers"
	webhookcontrollers "github.com/Mejrifx/fnt-motorgroup-main-sub000/api/controllers/webhooks"
	"github.com/Mejrifx/fnt-motorgroup-main-sub000/api/middleware"
	providerwebhook "github.com/Mejrifx/fnt-motorgroup-main-sub000/internal/webhooks"
	"github.com/Mejrifx/fnt-motorgroup-main-sub000/pkg/config"
	"github.com/Mejrifx/fnt-motorgroup-main-sub000/pkg/logger"
)

// Deps carries everything the HTTP surface needs. A nil Registry leaves
// /metrics unmounted.
type Deps struct {
	Config        *config.Config
	Logger        *logger.Logger
	DBPinger      controllers.Pinger
	CachePinger   controllers.Pinger
	Vehicles      controllers.VehicleReader
	AdminVehicles controllers.VehicleAdminStore
	SyncLogs      controllers.SyncLogReader
	SyncEngine    controllers.SyncRunner
	Staff         middleware.StaffResolver
	WebhookSvc    webhookcontrollers.ProviderWebhookService
	WebhookGuard  *providerwebhook.RedisGuard
	Registry      *prometheus.Registry
}

// NewRouter assembles the full HTTP surface.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DBPinger, deps.CachePinger, logg))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/vehicles", func(r chi.Router) {
			r.Get("/", controllers.ListVehicles(deps.Vehicles, logg))
			r.Get("/{vehicleID}", controllers.GetVehicle(deps.Vehicles, logg))
		})

		r.Route("/webhooks", func(r chi.Router) {
			r.Post("/provider", webhookcontrollers.ProviderWebhook(deps.WebhookSvc, cfg.Webhook.SigningSecret, deps.WebhookGuard, logg))
		})

		// The external scheduler fires this; it carries no credentials.
		r.Route("/sync", func(r chi.Router) {
			r.Post("/scheduled", controllers.TriggerSync(deps.SyncEngine, logg))
			r.Get("/scheduled", controllers.TriggerSync(deps.SyncEngine, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Staff, logg))

		r.Post("/sync", controllers.TriggerSync(deps.SyncEngine, logg))
		r.Get("/sync-logs", controllers.ListSyncLogs(deps.SyncLogs, logg))

		r.Route("/vehicles", func(r chi.Router) {
			r.Get("/", controllers.ListVehiclesAdmin(deps.AdminVehicles, logg))
			r.Route("/{vehicleID}", func(r chi.Router) {
				r.Patch("/", controllers.UpdateVehicle(deps.AdminVehicles, logg))
				r.Post("/override", controllers.SetVehicleOverride(deps.AdminVehicles, logg))
			})
		})
	})

	return r
}
