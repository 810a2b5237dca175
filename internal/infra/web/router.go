package web

import (
	"net/http"

	"github.com/DioGolang/GoTraffic/internal/infra/pool"
	"github.com/DioGolang/GoTraffic/internal/infra/web/handler"
	webmw "github.com/DioGolang/GoTraffic/internal/infra/web/middleware"
	"github.com/DioGolang/GoTraffic/pkg/logger"
	"github.com/DioGolang/GoTraffic/pkg/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/riandyrn/otelchi"
)

type RouterConfig struct {
	ServiceName string
	Logger      logger.Logger
	Metrics     metrics.Metrics
	Orders      *handler.Order
	Products    *handler.Product
	Health      http.Handler
	MetricsView http.Handler
	// Pool and RateLimiter are optional.
	Pool        *pool.WorkerPool
	RateLimiter *webmw.IPDispatcher
}

// NewRouter mounts the order service HTTP surface. Only POST / goes through the
// worker pool and the rate limiter; probes and scrapes are never queued.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(otelchi.Middleware(cfg.ServiceName, otelchi.WithChiRoutes(r)))
	r.Use(webmw.RequestLogger(cfg.Logger))
	r.Use(webmw.MetricsWrapper(cfg.Metrics))

	if cfg.Health != nil {
		r.Handle("/health", cfg.Health)
	}
	if cfg.MetricsView != nil {
		r.Handle("/metrics", cfg.MetricsView)
	}

	r.Get("/products", cfg.Products.List)
	r.Get("/products/{id}", cfg.Products.Get)

	r.Group(func(r chi.Router) {
		if cfg.RateLimiter != nil {
			r.Use(cfg.RateLimiter.Handler(cfg.Logger))
		}
		if cfg.Pool != nil {
			r.Use(cfg.Pool.Middleware)
		}
		r.Post("/", cfg.Orders.Create)
	})

	return r
}
