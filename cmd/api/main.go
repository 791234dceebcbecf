package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/tradzyhq/tradzy-backend/api/controllers"
	"github.com/tradzyhq/tradzy-backend/api/routes"
	"github.com/tradzyhq/tradzy-backend/internal/admin"
	"github.com/tradzyhq/tradzy-backend/internal/auth"
	"github.com/tradzyhq/tradzy-backend/internal/cart"
	"github.com/tradzyhq/tradzy-backend/internal/notifications"
	orders "github.com/tradzyhq/tradzy-backend/internal/orders"
	product "github.com/tradzyhq/tradzy-backend/internal/products"
	user "github.com/tradzyhq/tradzy-backend/internal/users"
	"github.com/tradzyhq/tradzy-backend/internal/wholesaler"
	"github.com/tradzyhq/tradzy-backend/internal/wishlist"
	"github.com/tradzyhq/tradzy-backend/pkg/auth/session"
	"github.com/tradzyhq/tradzy-backend/pkg/config"
	"github.com/tradzyhq/tradzy-backend/pkg/db"
	"github.com/tradzyhq/tradzy-backend/pkg/logger"
	"github.com/tradzyhq/tradzy-backend/pkg/metrics"
	"github.com/tradzyhq/tradzy-backend/pkg/migrate"
	"github.com/tradzyhq/tradzy-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	userRepo := user.NewRepository(dbClient.DB())
	productRepo := product.NewRepository(dbClient.DB())
	cartRepo := cart.NewRepository(dbClient.DB())
	wishlistRepo := wishlist.NewRepository(dbClient.DB())
	orderRepo := orders.NewRepository(dbClient.DB())
	outboxRepo := notifications.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.Params{
		Users:    userRepo,
		Sessions: sessionManager,
		JWT:      cfg.JWT,
		Password: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	productService, err := product.NewService(productRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cartRepo, productRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	wishlistService, err := wishlist.NewService(wishlistRepo, productRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create wishlist service", err)
		os.Exit(1)
	}

	orderService, err := orders.NewService(orders.Params{
		Orders:   orderRepo,
		Carts:    cartRepo,
		Products: productRepo,
		Users:    userRepo,
		Outbox:   outboxRepo,
		DBClient: dbClient,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	adminService, err := admin.NewService(userRepo, productRepo, orderRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create admin service", err)
		os.Exit(1)
	}

	wholesalerService, err := wholesaler.NewService(productRepo, orderRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create wholesaler service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	handler := routes.NewRouter(routes.Params{
		Config:   cfg,
		Logger:   logg,
		Sessions: sessionManager,
		Users:    userRepo,
		Registry: registry,
		Metrics:  httpMetrics,
		Health: map[string]controllers.Pinger{
			"database": dbClient,
			"redis":    redisClient,
		},
		Auth:       authService,
		Products:   productService,
		Cart:       cartService,
		Wishlist:   wishlistService,
		Orders:     orderService,
		Admin:      adminService,
		Wholesaler: wholesalerService,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "error shutting down api server", err)
		}
	}

	logg.Info(ctx, "api server shutting down gracefully")
}
