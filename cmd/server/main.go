package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dias221467/Travel_Planner/internal/config"
	"github.com/Dias221467/Travel_Planner/internal/database"
	"github.com/Dias221467/Travel_Planner/internal/handlers"
	"github.com/Dias221467/Travel_Planner/internal/outbox"
	"github.com/Dias221467/Travel_Planner/internal/repository"
	"github.com/Dias221467/Travel_Planner/internal/scheduler"
	"github.com/Dias221467/Travel_Planner/internal/services"
	"github.com/Dias221467/Travel_Planner/pkg/logger"
	"github.com/Dias221467/Travel_Planner/pkg/middleware"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
)

func main() {
	// Load configuration from .env file
	cfg := config.LoadConfig()

	logger.InitLogger(cfg.LogLevel)
	logger.Log.Info("Logger initialized")

	if cfg.JWTSecret == "" {
		logger.Log.Fatal("JWT_SECRET must be set")
	}

	db, err := database.ConnectDB(cfg)
	if err != nil {
		logger.Log.Fatalf("Database connection error: %v", err)
	}
	defer db.Client().Disconnect(context.Background())

	indexCtx, cancelIndex := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureIndexes(indexCtx, db); err != nil {
		logger.Log.WithError(err).Warn("Failed to ensure indexes")
	}
	cancelIndex()

	// --- Notification outbox (optional) ---
	var (
		notifOutbox services.NotificationOutbox
		queueDepth  handlers.QueueDepth
	)
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Log.Fatalf("Invalid REDIS_URL: %v", err)
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			logger.Log.WithError(err).Warn("Redis unreachable, notification outbox may fail")
		}
		cancelPing()
		redisOutbox := outbox.NewRedisOutbox(rdb, outbox.DefaultKey)
		notifOutbox, queueDepth = redisOutbox, redisOutbox
	} else {
		logger.Log.Info("REDIS_URL not set, notification outbox disabled")
	}

	// --- Repositories ---
	userRepo := repository.NewUserRepository(db)
	itineraryRepo := repository.NewItineraryRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)
	experienceRepo := repository.NewExperienceRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// --- Services ---
	hub := handlers.NewNotificationHub(cfg.JWTSecret)
	notificationService := services.NewNotificationService(notificationRepo, notifOutbox, hub)
	userService := services.NewUserService(userRepo)
	friendService := services.NewFriendService(userRepo, notificationService)
	experienceService := services.NewExperienceService(experienceRepo)
	favoriteService := services.NewFavoriteService(favoriteRepo, experienceRepo)
	itineraryService := services.NewItineraryService(itineraryRepo, userRepo, favoriteRepo, experienceRepo, notificationService)

	// --- Handlers ---
	router := mux.NewRouter()
	router.Use(middleware.LoggingMiddleware)

	handlers.NewUserHandler(userService, friendService, cfg).RegisterRoutes(router)
	handlers.NewItineraryHandler(itineraryService).RegisterRoutes(router, cfg.JWTSecret)
	handlers.NewFavoriteHandler(favoriteService).RegisterRoutes(router, cfg.JWTSecret)
	handlers.NewExperienceHandler(experienceService).RegisterRoutes(router, cfg.JWTSecret)
	handlers.NewNotificationHandler(notificationService).RegisterRoutes(router, cfg.JWTSecret)
	hub.RegisterRoutes(router)

	router.HandleFunc("/health", handlers.NewHealthHandler(queueDepth, hub).HealthCheckHandler).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// --- Cron ---
	if notifOutbox != nil {
		c, err := scheduler.StartNotificationCronJobs(notificationService, cfg.OutboxRetrySpec, cfg.OutboxBatch, cfg.OutboxMaxAttempts)
		if err != nil {
			logger.Log.Fatalf("Failed to schedule outbox retry: %v", err)
		}
		defer c.Stop()
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           c.Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.Infof("Server running on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatalf("Server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Log.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.WithError(err).Error("Graceful shutdown failed")
	}
}
