package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/enrollhq/registration-api/api/swagger"
	"github.com/enrollhq/registration-api/internal/handler"
	"github.com/enrollhq/registration-api/internal/middleware"
	"github.com/enrollhq/registration-api/internal/service"
	"github.com/enrollhq/registration-api/internal/store"
	"github.com/enrollhq/registration-api/pkg/cache"
	"github.com/enrollhq/registration-api/pkg/config"
	"github.com/enrollhq/registration-api/pkg/database"
	"github.com/enrollhq/registration-api/pkg/logger"
	corsmiddleware "github.com/enrollhq/registration-api/pkg/middleware/cors"
	reqidmiddleware "github.com/enrollhq/registration-api/pkg/middleware/requestid"
)

// @title Registration Portal API
// @version 0.1.0
// @description Applicant registration intake and admin review
// @BasePath /
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	metricsSvc := service.NewMetricsService()

	// Primary backend: the mongo client connects lazily, so construction
	// succeeds even while the server is unreachable and each call decides
	// its backend on its own.
	var regPrimary store.RegistrationBackend
	var simplePrimary store.SimpleRegistrationBackend
	if cfg.Mongo.URI != "" {
		client, err := database.NewMongo(cfg.Mongo)
		if err != nil {
			logr.Sugar().Fatalw("invalid mongodb configuration", "error", err)
		}
		regPrimary = store.NewMongoRegistrationStore(client, cfg.Mongo.Database)
		simplePrimary = store.NewMongoSimpleRegistrationStore(client, cfg.Mongo.Database)
	} else {
		logr.Warn("no MONGODB_URI configured, serving from the file store only")
	}

	regStore := store.NewFailoverRegistrationStore(
		regPrimary,
		store.NewFileRegistrationStore(cfg.Storage.DataDir),
		logr,
		metricsSvc.ObserveBackendServed,
	)
	simpleStore := store.NewFailoverSimpleRegistrationStore(
		simplePrimary,
		store.NewFileSimpleRegistrationStore(cfg.Storage.DataDir),
		logr,
		metricsSvc.ObserveBackendServed,
	)

	var statsCache *store.StatsCache
	if cfg.StatsCache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, stats caching disabled", zap.Error(err))
		} else {
			statsCache = store.NewStatsCache(redisClient, logr)
		}
	}

	validate := service.NewValidator()
	var regSvc *service.RegistrationService
	if statsCache != nil {
		regSvc = service.NewRegistrationService(regStore, validate, logr, statsCache, cfg.StatsCache.TTL, metricsSvc)
	} else {
		regSvc = service.NewRegistrationService(regStore, validate, logr, nil, cfg.StatsCache.TTL, metricsSvc)
	}
	simpleSvc := service.NewSimpleRegistrationService(simpleStore, validate, logr)

	var exportSvc *service.ExportService
	if cfg.Exports.Enabled {
		exportSvc = service.NewExportService(regStore, logr)
	}

	regHandler := handler.NewRegistrationHandler(regSvc, exportSvc)
	simpleHandler := handler.NewSimpleRegistrationHandler(simpleSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/registrations", regHandler.Create)
	api.GET("/registrations", regHandler.List)
	api.GET("/registrations/stats", regHandler.Stats)
	if cfg.Exports.Enabled {
		api.GET("/registrations/export", regHandler.Export)
	}
	api.GET("/registrations/:id", regHandler.Get)
	api.PATCH("/registrations/:id", regHandler.UpdateStatus)
	api.DELETE("/registrations/:id", regHandler.Delete)

	api.POST("/simple-registrations", simpleHandler.Create)
	api.GET("/simple-registrations", simpleHandler.List)
	api.GET("/simple-registrations/stats", simpleHandler.Stats)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
