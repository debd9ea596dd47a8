package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	_ "github.com/noah-isme/tutoring-schedule-api/api/swagger"
	"github.com/noah-isme/tutoring-schedule-api/internal/events"
	"github.com/noah-isme/tutoring-schedule-api/internal/handler"
	internalmiddleware "github.com/noah-isme/tutoring-schedule-api/internal/middleware"
	"github.com/noah-isme/tutoring-schedule-api/internal/models"
	"github.com/noah-isme/tutoring-schedule-api/internal/repository"
	"github.com/noah-isme/tutoring-schedule-api/internal/service"
	"github.com/noah-isme/tutoring-schedule-api/pkg/cache"
	"github.com/noah-isme/tutoring-schedule-api/pkg/config"
	"github.com/noah-isme/tutoring-schedule-api/pkg/database"
	"github.com/noah-isme/tutoring-schedule-api/pkg/export"
	"github.com/noah-isme/tutoring-schedule-api/pkg/jobs"
	"github.com/noah-isme/tutoring-schedule-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/tutoring-schedule-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/tutoring-schedule-api/pkg/middleware/requestid"
	"github.com/noah-isme/tutoring-schedule-api/pkg/tracing"
)

// @title Tutoring Schedule API
// @version 1.0.0
// @description Availability checks and day agendas for tutoring school branches
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, cfg.ServiceName, cfg.Env, cfg.Tracing)
	if err != nil {
		logr.Error("tracing setup failed", zap.Error(err))
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdownTracing(shutdownCtx)
		}()
	}

	db, err := database.NewPostgres(ctx, cfg)
	if err != nil {
		logr.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()

	var redisClient redis.UniversalClient
	if cfg.Agenda.CacheEnabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, agenda cache disabled", zap.Error(err))
		} else {
			redisClient = client
			defer client.Close()
		}
	}

	metrics := service.NewMetricsService()

	classRepo := repository.NewRecurringClassRepository(db, metrics)
	occurrenceRepo := repository.NewClassOccurrenceRepository(db, metrics)
	makeupRepo := repository.NewMakeupSessionRepository(db, metrics)
	trialRepo := repository.NewTrialSessionRepository(db, metrics)
	holidayRepo := repository.NewHolidayRepository(db, metrics)
	referenceRepo := repository.NewReferenceRepository(db, metrics)
	cacheRepo := repository.NewCacheRepository(redisClient)

	loc := cfg.Scheduling.Location()
	holidays := service.NewHolidayService(holidayRepo, logr)
	sources := service.ScheduleSources{
		Classes:     classRepo,
		Occurrences: occurrenceRepo,
		Makeups:     makeupRepo,
		Trials:      trialRepo,
		Holidays:    holidays,
	}
	labels := service.NewLabelResolver(referenceRepo, classRepo, logr)
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Agenda.CacheTTL, logr, redisClient != nil)

	availabilitySvc := service.NewAvailabilityService(sources, labels, metrics, validator.New(), loc, cfg.Scheduling.CheckTimeout, logr)
	agendaSvc := service.NewAgendaService(sources, labels, cacheSvc, metrics, export.NewPDFExporter(cfg.Export.PDFFontPath), loc, cfg.Agenda.CacheTTL, logr)
	invalidationSvc := service.NewInvalidationService(cacheSvc, metrics, logr)

	if cfg.Events.Enabled {
		queue := jobs.NewQueue[models.ScheduleChange]("agenda-invalidation", invalidationSvc.Process, jobs.QueueConfig{
			Workers:    cfg.Events.InvalidationWorkers,
			MaxRetries: cfg.Events.InvalidationRetries,
			Logger:     logr,
		})
		queue.Start(ctx)
		defer queue.Stop()

		consumer := events.NewConsumer(cfg.Events, queue, logr)
		go consumer.Run(ctx)
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metrics))

	readiness := map[string]handler.ReadinessCheck{
		"database": db.PingContext,
	}
	if redisClient != nil {
		readiness["redis"] = cacheRepo.Ping
	}
	metricsHandler := handler.NewMetricsHandler(metrics, readiness)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	availabilityHandler := handler.NewAvailabilityHandler(availabilitySvc)
	agendaHandler := handler.NewAgendaHandler(agendaSvc)

	api := r.Group(cfg.APIPrefix)
	api.POST("/availability/check", availabilityHandler.Check)
	branches := api.Group("/branches/:id")
	branches.GET("/agenda", agendaHandler.Get)
	branches.GET("/agenda/export", agendaHandler.Export)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           otelhttp.NewHandler(r, cfg.ServiceName),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Error("server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("server shutdown failed", zap.Error(err))
	}
	logr.Info("server stopped")
}
