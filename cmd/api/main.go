package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/campuseats/campuseats-backend/api"
	"github.com/campuseats/campuseats-backend/api/routes"
	authsvc "github.com/campuseats/campuseats-backend/internal/auth"
	"github.com/campuseats/campuseats-backend/internal/cart"
	"github.com/campuseats/campuseats-backend/internal/catalog"
	checkoutsvc "github.com/campuseats/campuseats-backend/internal/checkout"
	"github.com/campuseats/campuseats-backend/internal/dashboard"
	"github.com/campuseats/campuseats-backend/internal/orders"
	"github.com/campuseats/campuseats-backend/internal/shops"
	"github.com/campuseats/campuseats-backend/internal/users"
	"github.com/campuseats/campuseats-backend/pkg/auth/session"
	"github.com/campuseats/campuseats-backend/pkg/config"
	"github.com/campuseats/campuseats-backend/pkg/db"
	"github.com/campuseats/campuseats-backend/pkg/logger"
	"github.com/campuseats/campuseats-backend/pkg/migrate"
	"github.com/campuseats/campuseats-backend/pkg/redis"
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

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, dbClient.Close())
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, redisClient.Close())
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		return err
	}

	conn := dbClient.DB()
	userRepo := users.NewRepository(conn)
	shopRepo := shops.NewRepository(conn)
	categoryRepo := catalog.NewCategoryRepository(conn)
	itemRepo := catalog.NewItemRepository(conn)
	cartRepo := cart.NewRepository(conn)
	checkoutRepo := checkoutsvc.NewRepository(conn)
	orderRepo := orders.NewRepository(conn)
	dashboardRepo := dashboard.NewRepository(conn)

	authService, err := authsvc.NewService(authsvc.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		return err
	}

	shopsService, err := shops.NewService(shopRepo)
	if err != nil {
		return err
	}

	catalogService, err := catalog.NewService(categoryRepo, itemRepo, shopRepo)
	if err != nil {
		return err
	}

	cartService, err := cart.NewService(cartRepo, itemRepo)
	if err != nil {
		return err
	}

	checkoutService, err := checkoutsvc.NewService(dbClient, checkoutRepo, shopRepo, cfg.Checkout.OrderNumberAttempts)
	if err != nil {
		return err
	}

	ordersService, err := orders.NewService(orderRepo, shopRepo)
	if err != nil {
		return err
	}

	dashboardService, err := dashboard.NewService(dashboardRepo, shopRepo)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	handler := routes.NewRouter(routes.Deps{
		Config:           cfg,
		Logger:           logg,
		DB:               dbClient,
		Redis:            redisClient,
		SessionManager:   sessionManager,
		Registry:         registry,
		AuthService:      authService,
		ShopsService:     shopsService,
		CatalogService:   catalogService,
		CartService:      cartService,
		CheckoutService:  checkoutService,
		OrdersService:    ordersService,
		DashboardService: dashboardService,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	runCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(runCtx, "starting api server")

	server := api.NewServer(addr, handler)
	if serveErr := server.Run(ctx); serveErr != nil {
		return serveErr
	}

	logg.Info(runCtx, "api server stopped")
	return nil
}
