package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelvillar/pawmart-backend/api/controllers"
	"github.com/angelvillar/pawmart-backend/api/routes"
	"github.com/angelvillar/pawmart-backend/internal/auth"
	"github.com/angelvillar/pawmart-backend/internal/cart"
	"github.com/angelvillar/pawmart-backend/internal/media"
	"github.com/angelvillar/pawmart-backend/internal/orders"
	"github.com/angelvillar/pawmart-backend/internal/products"
	"github.com/angelvillar/pawmart-backend/internal/profiles"
	"github.com/angelvillar/pawmart-backend/internal/settings"
	"github.com/angelvillar/pawmart-backend/internal/users"
	"github.com/angelvillar/pawmart-backend/pkg/auth/session"
	"github.com/angelvillar/pawmart-backend/pkg/config"
	"github.com/angelvillar/pawmart-backend/pkg/db"
	"github.com/angelvillar/pawmart-backend/pkg/logger"
	"github.com/angelvillar/pawmart-backend/pkg/metrics"
	"github.com/angelvillar/pawmart-backend/pkg/migrate"
	"github.com/angelvillar/pawmart-backend/pkg/redis"
	"github.com/angelvillar/pawmart-backend/pkg/storage/gcs"
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

	usersRepo := users.NewRepository(dbClient.DB())
	profilesRepo := profiles.NewRepository(dbClient.DB())
	productsRepo := products.NewRepository(dbClient.DB())
	ordersRepo := orders.NewRepository(dbClient.DB())
	settingsRepo := settings.NewRepository(dbClient.DB())

	settingsService, err := settings.NewService(settingsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create settings service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UsersRepo:    usersRepo,
		ProfilesRepo: profilesRepo,
		Session:      sessionManager,
		Policy:       settingsService,
		Tx:           dbClient,
		JWTConfig:    cfg.JWT,
		PasswordCfg:  cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	productsService, err := products.NewService(productsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create products service", err)
		os.Exit(1)
	}

	cartStore, err := cart.NewRedisStore(redisClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart store", err)
		os.Exit(1)
	}
	cartService, err := cart.NewService(cartStore, productsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(ordersRepo, productsRepo, profilesRepo, cartStore, redisClient, dbClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	profilesService, err := profiles.NewService(profilesRepo, usersRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create profiles service", err)
		os.Exit(1)
	}

	readyChecks := map[string]controllers.Pinger{
		"database": dbClient,
		"redis":    redisClient,
	}

	var mediaService media.Service
	if cfg.GCS.BucketName != "" {
		gcsClient, err := gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap gcs", err)
			os.Exit(1)
		}
		mediaService, err = media.NewService(gcsClient, cfg.Media.MaxUploadBytes)
		if err != nil {
			logg.Error(context.Background(), "failed to create media service", err)
			os.Exit(1)
		}
		readyChecks["storage"] = gcsClient
	} else {
		logg.Warn(context.Background(), "gcs bucket not configured, product image uploads disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:      cfg,
			Logger:      logg,
			Metrics:     httpMetrics,
			MetricsHTTP: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
			Session:     sessionManager,
			ReadyChecks: readyChecks,
			Auth:        authService,
			Products:    productsService,
			Cart:        cartService,
			Orders:      ordersService,
			Profiles:    profilesService,
			Settings:    settingsService,
			Media:       mediaService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
