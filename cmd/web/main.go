// @title MCQ Portal API
// @version 1.0
// @description Upload a document and generate multiple-choice questions from it.
// @host localhost:8090
// @BasePath /api
// @schemes http https
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "mcq-portal/cmd/web/docs"
	"mcq-portal/internal/adapter"
	"mcq-portal/internal/adapter/mcqapi"
	"mcq-portal/internal/cache"
	"mcq-portal/internal/config"
	"mcq-portal/internal/domain"
	"mcq-portal/internal/handler"
	"mcq-portal/internal/logger"
	"mcq-portal/internal/metrics"
	"mcq-portal/internal/middleware"
	"mcq-portal/internal/service"
	"mcq-portal/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	store, err := newSessionStore(cfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize session store", zap.String("backend", cfg.Session.Backend), zap.Error(err))
	}
	appLogger.Info("Session store initialized", zap.String("backend", cfg.Session.Backend))

	client, err := mcqapi.NewClient(cfg.MCQ.BaseURL, cfg.MCQ.Timeout, appLogger.Named("mcqapi"))
	if err != nil {
		appLogger.Fatal("Failed to create MCQ service client", zap.Error(err))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	validator := validation.NewValidator(validation.Rules{
		AllowedExtensions: cfg.Upload.AllowedExtensions,
		MaxUploadBytes:    cfg.Upload.MaxBytes,
		MaxQuestions:      cfg.Generation.MaxQuestions,
	})
	recorder := metrics.NewRecorder(registry)
	ctrl := service.NewController(client, store, validator, service.WithMetrics(recorder))

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept", MaxAge: 300}))

	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	handler.Register(app, handler.Deps{
		Controller:   ctrl,
		Artifacts:    client,
		Store:        store,
		StoreBackend: cfg.Session.Backend,
		CookieName:   cfg.Session.CookieName,
		SessionTTL:   cfg.Session.TTL,
		MaxQuestions: cfg.Generation.MaxQuestions,
		Metrics:      recorder,
	})

	go func() {
		appLogger.Info("Starting server",
			zap.Int("port", cfg.Server.Port),
			zap.String("mcq_base_url", cfg.MCQ.BaseURL),
			zap.String("env", cfg.Logger.Env),
		)
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}

func newSessionStore(cfg *config.Config) (domain.SessionStore, error) {
	if cfg.Session.Backend != config.SessionBackendRedis {
		return adapter.NewMemorySessionStore(cfg.Session.TTL), nil
	}
	redisClient, err := cache.NewRedisClient(context.Background(), cfg.Redis)
	if err != nil {
		return nil, err
	}
	logger.Get().Info("Successfully connected to Redis", zap.String("address", cfg.Redis.Address))
	return adapter.NewRedisSessionStore(adapter.NewRedisCacheAdapter(redisClient), cfg.Session.TTL), nil
}
