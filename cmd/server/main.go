package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	httpapi "gearshare-backend/internal/api/http"
	"gearshare-backend/internal/cache"
	"gearshare-backend/internal/config"
	"gearshare-backend/internal/geocode"
	"gearshare-backend/internal/jobs"
	"gearshare-backend/internal/logger"
	"gearshare-backend/internal/repository/postgres"
	"gearshare-backend/internal/scheduler"
	"gearshare-backend/internal/security"
	"gearshare-backend/internal/service"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting GearShare backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		// Redis only backs the tracking cache, the system degrades to
		// database reads without it.
		logger.Warn("Redis unreachable, tracking cache disabled", "addr", cfg.Redis.Addr, "error", err)
	}
	trackingCache := cache.NewTrackingCache(redisClient)

	store := postgres.NewStore(db)

	tokenManager := security.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.AccessTTLHours)*time.Hour)

	geocoder, err := geocode.NewGoogleGeocoder(cfg.Maps.APIKey)
	if err != nil {
		log.Fatalf("Failed to initialize geocoder: %v", err)
	}

	emailSvc := service.NewSendGridEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)

	listingSvc := service.NewListingService(store.ListingRepository, geocoder)
	rentalSvc := service.NewRentalService(
		store.RentalRequestRepository,
		store.ListingRepository,
		store.UserRepository,
		store.DeliveryEventRepository,
		geocoder,
		trackingCache,
		emailSvc,
	)
	trackingSvc := service.NewTrackingService(store.RentalRequestRepository, store.DeliveryEventRepository, trackingCache)
	ratingSvc := service.NewRatingService(store.RatingRepository, store.RentalRequestRepository)

	jobRunner := jobs.NewJobRunner(store.RentalRequestRepository, store.DeliveryEventRepository, trackingCache, cfg)
	sched := scheduler.NewScheduler(jobRunner)
	sched.Start()
	defer sched.Stop()

	router := httpapi.NewRouter(tokenManager, listingSvc, rentalSvc, trackingSvc, ratingSvc)

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
	logger.Info("Server stopped")
}
