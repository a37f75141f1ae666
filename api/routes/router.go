package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/storefront/api/controllers"
	"github.com/angelmondragon/storefront/api/middleware"
	"github.com/angelmondragon/storefront/pkg/auth/session"
	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/metrics"
)

type sessionManager interface {
	session.AccessSessionChecker
	controllers.Sessions
}

// NewRouter mounts the storefront REST surface. A nil registry disables /metrics.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	shop controllers.Shop,
	sessionManager sessionManager,
	registry *prometheus.Registry,
) http.Handler {
	var httpMetrics *metrics.HTTPMetrics
	if registry != nil {
		httpMetrics = metrics.NewHTTPMetrics(registry)
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.DevAPI.CORSOrigins),
		middleware.Metrics(httpMetrics),
	)

	r.Get("/health", controllers.Health(cfg))
	if registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Get("/categories", controllers.Categories(shop))
	r.Get("/products", controllers.Products(shop))
	r.Get("/products/{productId}", controllers.Product(shop, logg))

	r.Post("/login", controllers.Login(shop, sessionManager, cfg.DevAPI, logg))
	r.Delete("/logout", controllers.Logout(sessionManager, cfg.DevAPI, logg))
	r.Post("/users", controllers.Register(shop, sessionManager, cfg.DevAPI, logg))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.DevAPI, sessionManager, logg))
		r.Get("/me", controllers.Me(shop, logg))
		r.Patch("/users/{userId}", controllers.UpdateUser(shop, logg))
		r.Get("/orders", controllers.Orders(shop))
		r.Post("/orders", controllers.CreateOrder(shop, logg))
	})

	return r
}
