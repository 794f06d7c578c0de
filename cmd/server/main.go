package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/staybook/service-booking/internal/application"
	"github.com/staybook/service-booking/internal/config"
	bookingEvents "github.com/staybook/service-booking/internal/events"
	"github.com/staybook/service-booking/internal/handler"
	"github.com/staybook/service-booking/internal/platform/auth"
	"github.com/staybook/service-booking/internal/platform/database"
	"github.com/staybook/service-booking/internal/platform/kafka"
	"github.com/staybook/service-booking/internal/platform/logger"
	"github.com/staybook/service-booking/internal/platform/middleware"
	"github.com/staybook/service-booking/internal/repository"
	"github.com/staybook/service-booking/internal/saga"
	"github.com/staybook/service-booking/internal/scheduler"
)

const serviceName = "service-booking"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Initialize logger
	zapLogger, err := logger.NewNamed(cfg.AppEnv, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("starting "+serviceName, zap.String("port", cfg.Port))

	// Connect to database
	db, err := database.Connect(cfg.DBConfig, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.AppEnv == "development" {
		if err := db.AutoMigrate(repository.AllModels()...); err != nil {
			zapLogger.Fatal("failed to auto-migrate", zap.Error(err))
		}
		zapLogger.Info("database migration completed (dev auto-migrate)")
	} else if err := database.RunMigrations(db, zapLogger); err != nil {
		zapLogger.Fatal("failed to run migrations", zap.Error(err))
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, 15*time.Minute)

	kafkaProducer := kafka.NewProducer(cfg.KafkaConfig.Brokers, zapLogger)
	defer kafkaProducer.Close()

	redisClient := connectRedis(cfg.RedisConfig, zapLogger)
	if redisClient != nil {
		defer redisClient.Close()
	}
	rateLimit := middleware.RateLimitMiddleware(cfg.RateLimit, redisClient, zapLogger)

	// Initialize repositories
	bookingRepo := repository.NewGormBookingRepository(db)
	roomRepo := repository.NewGormRoomRepository(db)
	addOnRepo := repository.NewGormAddOnRepository(db)
	couponRepo := repository.NewGormCouponRepository(db)

	// Initialize services
	sagaService := saga.NewBookingSagaService(bookingRepo, kafkaProducer, zapLogger)
	bookingService := application.NewBookingService(bookingRepo, roomRepo, addOnRepo, couponRepo, sagaService, cfg.Currency, zapLogger)
	couponService := application.NewCouponService(couponRepo, zapLogger)
	catalogService := application.NewCatalogService(roomRepo, addOnRepo, zapLogger)

	bgCtx, bgCancel := context.WithCancel(context.Background())
	defer bgCancel()

	// Consume payment events
	paymentConsumer := bookingEvents.NewPaymentEventConsumer(
		cfg.KafkaConfig.Brokers,
		cfg.KafkaConfig.GroupPrefix+serviceName,
		bookingService,
		zapLogger,
	)
	defer paymentConsumer.Close()

	go func() {
		zapLogger.Info("starting payment event consumer")
		if err := paymentConsumer.Start(bgCtx); err != nil && bgCtx.Err() == nil {
			zapLogger.Error("payment event consumer failed", zap.Error(err))
		}
	}()

	// Complete finished stays in the background
	go scheduler.New(bookingService, cfg.CompletionInterval, zapLogger).Start(bgCtx)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(middleware.RecoveryMiddleware(zapLogger))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware(zapLogger))
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	handler.NewHealthHandler(db, serviceName).RegisterRoutes(router)

	apiV1 := router.Group("/api/v1")
	handler.NewRoomHandler(bookingService, catalogService, rateLimit).RegisterRoutes(apiV1, jwtManager)
	handler.NewAddOnHandler(catalogService).RegisterRoutes(apiV1, jwtManager)
	handler.NewBookingHandler(bookingService).RegisterRoutes(apiV1, jwtManager)
	handler.NewCouponHandler(couponService, rateLimit).RegisterRoutes(apiV1, jwtManager)
	handler.NewAdminBookingHandler(bookingService).RegisterRoutes(apiV1, jwtManager)

	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		zapLogger.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("shutting down " + serviceName + "...")
	bgCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info(serviceName + " stopped")
}

// connectRedis returns nil when Redis is unreachable so that rate limiting
// is skipped instead of blocking startup.
func connectRedis(cfg config.RedisConfig, log *zap.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("redis unavailable, rate limiting disabled", zap.String("addr", cfg.Addr), zap.Error(err))
		_ = client.Close()
		return nil
	}
	return client
}
