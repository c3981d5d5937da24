package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/campuseats/campuseats-backend/api/controllers"
	"github.com/campuseats/campuseats-backend/api/middleware"
	authsvc "github.com/campuseats/campuseats-backend/internal/auth"
	"github.com/campuseats/campuseats-backend/internal/cart"
	"github.com/campuseats/campuseats-backend/internal/catalog"
	checkoutsvc "github.com/campuseats/campuseats-backend/internal/checkout"
	"github.com/campuseats/campuseats-backend/internal/dashboard"
	"github.com/campuseats/campuseats-backend/internal/orders"
	"github.com/campuseats/campuseats-backend/internal/shops"
	"github.com/campuseats/campuseats-backend/pkg/auth/session"
	"github.com/campuseats/campuseats-backend/pkg/config"
	"github.com/campuseats/campuseats-backend/pkg/db"
	"github.com/campuseats/campuseats-backend/pkg/enums"
	"github.com/campuseats/campuseats-backend/pkg/logger"
	"github.com/campuseats/campuseats-backend/pkg/metrics"
	"github.com/campuseats/campuseats-backend/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             db.Pinger
	Redis          *redis.Client
	SessionManager sessionManager
	Registry       *prometheus.Registry

	AuthService      authsvc.Service
	ShopsService     shops.Service
	CatalogService   catalog.Service
	CartService      cart.Service
	CheckoutService  checkoutsvc.Service
	OrdersService    orders.Service
	DashboardService dashboard.Service
}

func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	httpMetrics := metrics.NewHTTPMetrics(d.Registry)

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
		middleware.Metrics(httpMetrics),
		middleware.Logging(logg),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readinessDeps(d)))
	})

	if d.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		register := middleware.AuthRateLimit(registerPolicy, d.Redis, logg)
		r.With(register).Post("/register/student", controllers.AuthRegister(d.AuthService, enums.UserRoleStudent, logg))
		r.With(register).Post("/register/vendor", controllers.AuthRegister(d.AuthService, enums.UserRoleVendor, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, d.Redis, logg)).Post("/login", controllers.AuthLogin(d.AuthService, logg))
		r.Post("/refresh", controllers.AuthRefresh(d.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(d.AuthService, cfg.JWT, logg))
	})

	// Public catalog surface: anyone can browse approved shops and menus.
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/shops", controllers.ShopsList(d.ShopsService, logg))
		r.Get("/shops/{shopID}", controllers.ShopGet(d.ShopsService, logg))
		r.Get("/shops/{shopID}/menu", controllers.ShopMenu(d.CatalogService, logg))
		r.Get("/menu", controllers.MenuBrowse(d.CatalogService, logg))
		r.Get("/menu/{itemID}", controllers.MenuItemGet(d.CatalogService, logg))
		r.Get("/categories", controllers.CategoriesList(d.CatalogService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, d.SessionManager, logg))
			r.Use(middleware.Idempotency(d.Redis, logg))

			r.Route("/me", func(r chi.Router) {
				r.Get("/", controllers.ProfileGet(d.AuthService, logg))
				r.Put("/", controllers.ProfileUpdate(d.AuthService, logg))
				r.Put("/password", controllers.ProfileChangePassword(d.AuthService, logg))
				r.Delete("/", controllers.ProfileDelete(d.AuthService, logg))
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(enums.UserRoleStudent, logg))

				r.Route("/cart", func(r chi.Router) {
					r.Get("/", controllers.CartView(d.CartService, logg))
					r.Post("/items", controllers.CartAddItem(d.CartService, logg))
					r.Put("/items/{itemID}", controllers.CartSetQuantity(d.CartService, logg))
					r.Delete("/items/{itemID}", controllers.CartRemoveItem(d.CartService, logg))
					r.Delete("/", controllers.CartClear(d.CartService, logg))
				})

				r.Post("/shops/{shopID}/checkout", controllers.CheckoutCreate(d.CheckoutService, logg))

				r.Route("/orders", func(r chi.Router) {
					r.Get("/", controllers.OrdersList(d.OrdersService, logg))
					r.Get("/{orderID}", controllers.OrderGet(d.OrdersService, logg))
					r.Post("/{orderID}/cancel", controllers.OrderCancel(d.OrdersService, logg))
				})

				r.Get("/dashboard", controllers.DashboardStudent(d.DashboardService, logg))
			})
		})
	})

	r.Route("/api/v1/vendor", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, d.SessionManager, logg))
		r.Use(middleware.RequireRole(enums.UserRoleVendor, logg))
		r.Use(middleware.Idempotency(d.Redis, logg))

		r.Route("/shop", func(r chi.Router) {
			r.Post("/", controllers.VendorShopApply(d.ShopsService, logg))
			r.Get("/", controllers.VendorShopGet(d.ShopsService, logg))
			r.Put("/", controllers.VendorShopUpdate(d.ShopsService, logg))
		})

		r.Route("/menu", func(r chi.Router) {
			r.Get("/", controllers.VendorMenuList(d.CatalogService, logg))
			r.Post("/", controllers.VendorMenuCreate(d.CatalogService, logg))
			r.Put("/{itemID}", controllers.VendorMenuUpdate(d.CatalogService, logg))
			r.Delete("/{itemID}", controllers.VendorMenuDelete(d.CatalogService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.VendorOrdersList(d.OrdersService, logg))
			r.Get("/{orderID}", controllers.VendorOrderGet(d.OrdersService, logg))
			r.Put("/{orderID}/status", controllers.VendorOrderUpdateStatus(d.OrdersService, logg))
		})

		r.Get("/dashboard", controllers.DashboardVendor(d.DashboardService, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, d.SessionManager, logg))
		r.Use(middleware.RequireRole(enums.UserRoleAdmin, logg))
		r.Use(middleware.Idempotency(d.Redis, logg))

		r.Route("/shops", func(r chi.Router) {
			r.Get("/", controllers.AdminShopsList(d.ShopsService, logg))
			r.Put("/{shopID}/review", controllers.AdminShopReview(d.ShopsService, logg))
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.AdminCategoriesList(d.CatalogService, logg))
			r.Post("/", controllers.AdminCategoryCreate(d.CatalogService, logg))
			r.Put("/{categoryID}", controllers.AdminCategoryUpdate(d.CatalogService, logg))
			r.Delete("/{categoryID}", controllers.AdminCategoryDelete(d.CatalogService, logg))
		})

		r.Get("/dashboard", controllers.DashboardAdmin(d.DashboardService, logg))
	})

	return r
}

func readinessDeps(d Deps) map[string]controllers.Pinger {
	deps := map[string]controllers.Pinger{}
	if d.DB != nil {
		deps["database"] = d.DB
	}
	if d.Redis != nil {
		deps["redis"] = d.Redis
	}
	return deps
}
