package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tradzyhq/tradzy-backend/api/controllers"
	"github.com/tradzyhq/tradzy-backend/api/middleware"
	adminsvc "github.com/tradzyhq/tradzy-backend/internal/admin"
	authsvc "github.com/tradzyhq/tradzy-backend/internal/auth"
	cartsvc "github.com/tradzyhq/tradzy-backend/internal/cart"
	ordersvc "github.com/tradzyhq/tradzy-backend/internal/orders"
	productsvc "github.com/tradzyhq/tradzy-backend/internal/products"
	wholesalersvc "github.com/tradzyhq/tradzy-backend/internal/wholesaler"
	wishlistsvc "github.com/tradzyhq/tradzy-backend/internal/wishlist"
	"github.com/tradzyhq/tradzy-backend/pkg/auth/session"
	"github.com/tradzyhq/tradzy-backend/pkg/config"
	"github.com/tradzyhq/tradzy-backend/pkg/enums"
	"github.com/tradzyhq/tradzy-backend/pkg/logger"
	"github.com/tradzyhq/tradzy-backend/pkg/metrics"
)

// Params collects everything the router wires together.
type Params struct {
	Config   *config.Config
	Logger   *logger.Logger
	Sessions session.AccessSessionChecker
	Users    middleware.RoleLookup
	Registry *prometheus.Registry
	Metrics  *metrics.HTTPMetrics

	Health map[string]controllers.Pinger

	Auth       authsvc.Service
	Products   productsvc.Service
	Cart       cartsvc.Service
	Wishlist   wishlistsvc.Service
	Orders     ordersvc.Service
	Admin      adminsvc.Service
	Wholesaler wholesalersvc.Service
}

func NewRouter(p Params) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
		middleware.Metrics(p.Metrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.Health))
	})

	if p.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", controllers.AuthRegister(p.Auth, logg))
		r.Post("/login", controllers.AuthLogin(p.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(p.Auth, cfg.JWT, logg))
		r.Get("/check-auth", controllers.AuthCheck(p.Auth, cfg.JWT, logg))
		r.Get("/session", controllers.AuthCheck(p.Auth, cfg.JWT, logg))

		r.With(middleware.Auth(cfg.JWT, p.Sessions, logg)).
			Post("/create", controllers.UserCreate(p.Auth, logg))
	})

	// Public catalog.
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", controllers.ProductList(p.Products, logg))
		r.Get("/{productId}", controllers.ProductDetail(p.Products, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, p.Sessions, logg))
			r.Use(middleware.RequireRole(p.Users, logg, enums.RoleRetailer, enums.RoleWholesaler, enums.RoleAdmin))
			r.Post("/", controllers.ProductCreate(p.Products, logg))
			r.Put("/{productId}", controllers.ProductUpdate(p.Products, logg))
			r.Patch("/{productId}", controllers.ProductUpdate(p.Products, logg))
			r.Delete("/{productId}", controllers.ProductDelete(p.Products, logg))
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.Sessions, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(p.Users, logg, enums.RoleRetailer, enums.RoleWholesaler))
			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartFetch(p.Cart, logg))
				r.Post("/items", controllers.CartAddItem(p.Cart, logg))
				r.Patch("/items/{itemId}", controllers.CartUpdateItem(p.Cart, logg))
				r.Delete("/items/{itemId}", controllers.CartRemoveItem(p.Cart, logg))
			})
			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", controllers.WishlistFetch(p.Wishlist, logg))
				r.Post("/items", controllers.WishlistAddItem(p.Wishlist, logg))
				r.Delete("/items/{itemId}", controllers.WishlistRemoveItem(p.Wishlist, logg))
			})
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(middleware.RequireRole(p.Users, logg, enums.RoleRetailer, enums.RoleWholesaler, enums.RoleAdmin))
			r.Get("/", controllers.OrderList(p.Orders, logg))
			r.Get("/{orderId}", controllers.OrderDetail(p.Orders, logg))
			r.Patch("/{orderId}/status", controllers.OrderUpdateStatus(p.Orders, logg))

			r.With(middleware.RequireRole(p.Users, logg, enums.RoleRetailer)).
				Post("/", controllers.OrderCreate(p.Orders, logg))
		})

		r.Route("/wholesaler", func(r chi.Router) {
			r.Use(middleware.RequireRole(p.Users, logg, enums.RoleWholesaler))
			r.Get("/dashboard", controllers.WholesalerDashboard(p.Wholesaler, logg))
			r.Get("/stats", controllers.WholesalerStats(p.Wholesaler, logg))
			r.Get("/products", controllers.WholesalerProducts(p.Wholesaler, logg))
			r.Get("/products/{productId}", controllers.WholesalerProduct(p.Wholesaler, logg))
			r.Get("/orders", controllers.WholesalerOrders(p.Wholesaler, logg))
			r.Get("/sales", controllers.WholesalerSales(p.Wholesaler, logg))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole(p.Users, logg, enums.RoleAdmin))
			r.Get("/stats", controllers.AdminStats(p.Admin, logg))
			r.Get("/users", controllers.AdminListUsers(p.Admin, logg))
			r.Get("/retailers", controllers.AdminListRetailers(p.Admin, logg))
			r.Get("/wholesalers", controllers.AdminListWholesalers(p.Admin, logg))
			r.Post("/users", controllers.UserCreate(p.Auth, logg))
			r.Delete("/users/{userId}", controllers.AdminDeleteUser(p.Admin, logg))
		})
	})

	return r
}
