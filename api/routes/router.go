package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/potionshop-backend/api/controllers"
	"github.com/angelmondragon/potionshop-backend/api/middleware"
	"github.com/angelmondragon/potionshop-backend/internal/admin"
	"github.com/angelmondragon/potionshop-backend/internal/bottling"
	"github.com/angelmondragon/potionshop-backend/internal/capacity"
	"github.com/angelmondragon/potionshop-backend/internal/fulfillment"
	"github.com/angelmondragon/potionshop-backend/internal/inventory"
	"github.com/angelmondragon/potionshop-backend/internal/potions"
	"github.com/angelmondragon/potionshop-backend/internal/procurement"
	"github.com/angelmondragon/potionshop-backend/pkg/config"
	"github.com/angelmondragon/potionshop-backend/pkg/logger"
	pkgredis "github.com/angelmondragon/potionshop-backend/pkg/redis"
)

// Deps carries everything the router mounts. Idempotency and the redis
// readiness check are skipped when Idempotency is nil.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          controllers.Pinger
	Redis       controllers.Pinger
	Idempotency pkgredis.IdempotencyStore
	Gatherer    prometheus.Gatherer

	Potions     potions.Service
	Inventory   inventory.Service
	Procurement procurement.Service
	Bottling    bottling.Service
	Capacity    capacity.Service
	Fulfillment fulfillment.Service
	Admin       admin.Service
}

func NewRouter(d Deps) http.Handler {
	logg := d.Logger
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(d.Config.App.CORSOrigins),
	)

	gatherer := d.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(d.Config))
		r.Get("/ready", controllers.HealthReady(d.Config, logg, d.DB, d.Redis))
	})

	// Delivery routes share the idempotency middleware via With so chi has
	// resolved the route pattern and order_id before it runs.
	idem := middleware.Idempotency(d.Idempotency, logg)

	r.Get("/catalog/", controllers.Catalog(d.Potions, logg))

	r.Route("/inventory", func(r chi.Router) {
		r.Get("/audit", controllers.InventoryAudit(d.Inventory, logg))
		r.Post("/plan", controllers.InventoryPlan(d.Capacity, logg))
		r.With(idem).Post("/deliver/{order_id}", controllers.InventoryDeliver(d.Fulfillment, logg))
	})

	r.Route("/barrels", func(r chi.Router) {
		r.Post("/plan", controllers.BarrelsPlan(d.Procurement, logg))
		r.With(idem).Post("/deliver/{order_id}", controllers.BarrelsDeliver(d.Fulfillment, logg))
	})

	r.Route("/bottler", func(r chi.Router) {
		r.Post("/plan", controllers.BottlerPlan(d.Bottling, logg))
		r.With(idem).Post("/deliver/{order_id}", controllers.BottlerDeliver(d.Fulfillment, logg))
	})

	r.With(idem).Post("/sales/{order_id}", controllers.RecordSale(d.Fulfillment, logg))

	r.Route("/admin", func(r chi.Router) {
		r.With(idem).Post("/reset", controllers.AdminReset(d.Admin, logg))
		r.Post("/potions", controllers.AdminUpsertPotion(d.Potions, logg))
	})

	return r
}
