package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/feastly-app/feastly-backend/api/routes"
	"github.com/feastly-app/feastly-backend/internal/auth"
	"github.com/feastly-app/feastly-backend/internal/meals"
	"github.com/feastly-app/feastly-backend/internal/restaurants"
	"github.com/feastly-app/feastly-backend/internal/users"
	"github.com/feastly-app/feastly-backend/pkg/config"
	"github.com/feastly-app/feastly-backend/pkg/db"
	"github.com/feastly-app/feastly-backend/pkg/geocode"
	"github.com/feastly-app/feastly-backend/pkg/logger"
	"github.com/feastly-app/feastly-backend/pkg/metrics"
	"github.com/feastly-app/feastly-backend/pkg/migrate"
	"github.com/feastly-app/feastly-backend/pkg/redis"
	"github.com/feastly-app/feastly-backend/pkg/storage/gcs"
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

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	} else {
		logg.Warn(context.Background(), "redis not configured, auth rate limiting disabled")
	}

	var geocoder *geocode.Client
	if cfg.Geocoder.APIKey != "" {
		geocoder, err = geocode.NewClient(cfg.Geocoder)
		if err != nil {
			logg.Error(context.Background(), "failed to build geocode client", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "geocoder not configured, restaurants will store null locations")
	}

	var storageClient *gcs.Client
	if cfg.Storage.BucketName != "" {
		storageClient, err = gcs.NewClient(context.Background(), cfg.Storage, cfg.GCP, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap storage", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "storage not configured, image endpoints disabled")
	}

	usersRepo := users.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       usersRepo,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	usersService, err := users.NewService(usersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	restaurantsService, err := restaurants.NewService(restaurants.ServiceParams{
		Repo:     restaurants.NewRepository(dbClient.DB()),
		Geocoder: geocoderOrNil(geocoder),
		Storage:  storageOrNil(storageClient),
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create restaurants service", err)
		os.Exit(1)
	}

	mealsService, err := meals.NewService(meals.NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create meals service", err)
		os.Exit(1)
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
		Handler: routes.NewRouter(routes.RouterParams{
			Config:             cfg,
			Logger:             logg,
			Metrics:            httpMetrics,
			MetricsBody:        promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
			DBPinger:           dbClient,
			RedisClient:        redisClient,
			StoragePinger:      storagePinger(storageClient),
			UserLoader:         usersRepo,
			AuthService:        authService,
			UsersService:       usersService,
			RestaurantsService: restaurantsService,
			MealsService:       mealsService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

// The nil-interface helpers keep unconfigured optional dependencies as true
// nils instead of typed nils wrapped in an interface.

func geocoderOrNil(client *geocode.Client) restaurants.Geocoder {
	if client == nil {
		return nil
	}
	return client
}

func storageOrNil(client *gcs.Client) restaurants.ObjectStore {
	if client == nil {
		return nil
	}
	return client
}

func storagePinger(client *gcs.Client) gcs.Pinger {
	if client == nil {
		return nil
	}
	return client
}
