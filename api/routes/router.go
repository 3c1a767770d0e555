package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sumopedidos/sumo-backend/api/controllers"
	groupordercontrollers "github.com/sumopedidos/sumo-backend/api/controllers/grouporders"
	"github.com/sumopedidos/sumo-backend/api/middleware"
	"github.com/sumopedidos/sumo-backend/internal/grouporders"
	"github.com/sumopedidos/sumo-backend/pkg/config"
	"github.com/sumopedidos/sumo-backend/pkg/logger"
	pkgredis "github.com/sumopedidos/sumo-backend/pkg/redis"
)

// RedisStore is the redis surface the HTTP layer needs: idempotency records,
// rate-limit counters and the readiness ping.
type RedisStore interface {
	pkgredis.IdempotencyStore
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
	Ping(ctx context.Context) error
}

// Deps carries everything NewRouter wires. Redis and Metrics are optional; a
// nil Redis disables idempotency replay and rate limiting.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          controllers.Pinger
	Redis       RedisStore
	Metrics     http.Handler
	GroupOrders grouporders.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	var idempotencyStore pkgredis.IdempotencyStore
	var rateStore middleware.RateLimitStore
	readiness := map[string]controllers.Pinger{}
	if deps.DB != nil {
		readiness["db"] = deps.DB
	}
	if deps.Redis != nil {
		idempotencyStore = deps.Redis
		rateStore = deps.Redis
		readiness["redis"] = deps.Redis
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	r.Route("/api/v1/group-orders/{slug}", func(r chi.Router) {
		r.Get("/", groupordercontrollers.PublicDetail(deps.GroupOrders, logg))
		r.With(middleware.Idempotency(idempotencyStore, middleware.SubmitLineIdempotencyTTL, logg)).Post("/lines", groupordercontrollers.PublicSubmitLine(deps.GroupOrders, logg))
	})

	adminPolicy := middleware.NewRateLimitPolicy(
		"admin",
		cfg.Admin.PinRateLimitWindow,
		cfg.Admin.PinRateLimitIP,
	)

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.RateLimit(adminPolicy, rateStore, logg))
		r.Use(middleware.AdminPIN(cfg.Admin.PinHash, logg))

		r.Route("/group-orders", func(r chi.Router) {
			r.Get("/", groupordercontrollers.AdminList(deps.GroupOrders, logg))
			r.With(middleware.Idempotency(idempotencyStore, middleware.CreateOrderIdempotencyTTL, logg)).Post("/", groupordercontrollers.AdminCreate(deps.GroupOrders, logg))
			r.Get("/{orderId}", groupordercontrollers.AdminDetail(deps.GroupOrders, logg))
			r.Post("/{orderId}/close", groupordercontrollers.AdminClose(deps.GroupOrders, logg))
			r.Post("/{orderId}/deliver", groupordercontrollers.AdminDeliver(deps.GroupOrders, logg))
		})
		r.Route("/order-lines/{lineId}", func(r chi.Router) {
			r.Post("/paid", groupordercontrollers.AdminMarkLinePaid(deps.GroupOrders, logg))
			r.Post("/reminder", groupordercontrollers.AdminSendReminder(deps.GroupOrders, logg))
		})
	})

	return r
}
