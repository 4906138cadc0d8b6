package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelvillar/pawmart-backend/api/controllers"
	"github.com/angelvillar/pawmart-backend/api/middleware"
	authsvc "github.com/angelvillar/pawmart-backend/internal/auth"
	cartsvc "github.com/angelvillar/pawmart-backend/internal/cart"
	mediasvc "github.com/angelvillar/pawmart-backend/internal/media"
	ordersvc "github.com/angelvillar/pawmart-backend/internal/orders"
	productsvc "github.com/angelvillar/pawmart-backend/internal/products"
	profilesvc "github.com/angelvillar/pawmart-backend/internal/profiles"
	settingsvc "github.com/angelvillar/pawmart-backend/internal/settings"
	"github.com/angelvillar/pawmart-backend/pkg/auth/session"
	"github.com/angelvillar/pawmart-backend/pkg/config"
	"github.com/angelvillar/pawmart-backend/pkg/enums"
	"github.com/angelvillar/pawmart-backend/pkg/logger"
	"github.com/angelvillar/pawmart-backend/pkg/metrics"
)

// Deps bundles everything the router mounts.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	Metrics     *metrics.HTTPMetrics
	MetricsHTTP http.Handler

	Session session.AccessSessionChecker

	ReadyChecks map[string]controllers.Pinger

	Auth     authsvc.Service
	Products productsvc.Service
	Cart     cartsvc.Service
	Orders   ordersvc.Service
	Profiles profilesvc.Service
	Settings settingsvc.Service
	Media    mediasvc.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
		middleware.Metrics(deps.Metrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.ReadyChecks))
	})

	metricsHandler := deps.MetricsHTTP
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	r.Method(http.MethodGet, "/metrics", metricsHandler)

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", controllers.Register(deps.Auth, logg))
		r.Post("/login", controllers.Login(deps.Auth, logg))
		r.Post("/refresh", controllers.Refresh(deps.Auth, logg))
		r.With(middleware.Auth(cfg.JWT, deps.Session, logg)).Post("/logout", controllers.Logout(deps.Auth, logg))
	})

	// Public storefront surface.
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", controllers.ListProducts(deps.Products, logg))
		r.Get("/products/{productId}", controllers.GetProduct(deps.Products, logg))
		r.Get("/contact", controllers.GetContactInfo(deps.Settings, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Session, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.GetCart(deps.Cart, logg))
				r.Put("/items", controllers.SetCartItem(deps.Cart, logg))
				r.Delete("/items/{productId}", controllers.RemoveCartItem(deps.Cart, logg))
				r.Delete("/", controllers.ClearCart(deps.Cart, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Post("/", controllers.SubmitOrder(deps.Orders, logg))
				r.Get("/", controllers.ListMyOrders(deps.Orders, logg))
				r.Get("/{orderId}", controllers.GetMyOrder(deps.Orders, logg))
			})

			r.Route("/profile", func(r chi.Router) {
				r.Get("/", controllers.GetProfile(deps.Profiles, logg))
				r.Put("/email", controllers.UpdateProfileEmail(deps.Profiles, logg))
			})
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Session, logg))
		r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))

		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.CreateProduct(deps.Products, logg))
			r.Patch("/{productId}", controllers.UpdateProduct(deps.Products, logg))
			r.Delete("/{productId}", controllers.DeleteProduct(deps.Products, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminListOrders(deps.Orders, logg))
			r.Post("/{orderId}/decision", controllers.AdminDecideOrder(deps.Orders, logg))
		})

		r.Post("/media/images", controllers.UploadProductImage(deps.Media, cfg.Media.MaxUploadBytes, logg))

		r.Put("/contact", controllers.AdminUpdateContactInfo(deps.Settings, logg))
		r.Route("/settings", func(r chi.Router) {
			r.Get("/", controllers.AdminGetSettings(deps.Settings, logg))
			r.Put("/", controllers.AdminUpdateSettings(deps.Settings, logg))
		})

		r.Post("/admins", controllers.AdminCreateAdmin(deps.Auth, logg))
	})

	return r
}
