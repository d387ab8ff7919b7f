package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/affcms/festival-api/api/swagger"
	"github.com/affcms/festival-api/internal/handler"
	"github.com/affcms/festival-api/internal/middleware"
	"github.com/affcms/festival-api/internal/repository"
	"github.com/affcms/festival-api/internal/router"
	"github.com/affcms/festival-api/internal/service"
	"github.com/affcms/festival-api/pkg/cache"
	"github.com/affcms/festival-api/pkg/config"
	"github.com/affcms/festival-api/pkg/database"
	"github.com/affcms/festival-api/pkg/logger"
	corsmiddleware "github.com/affcms/festival-api/pkg/middleware/cors"
	reqidmiddleware "github.com/affcms/festival-api/pkg/middleware/requestid"
	"github.com/affcms/festival-api/pkg/storage"
)

// @title Festival CMS API
// @version 1.0.0
// @description Backend for the film festival content management system
// @BasePath /api/v1
// @schemes http https

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	store, err := storage.NewLocalStorage(cfg.Uploads.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init upload storage", "error", err)
	}

	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		} else {
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.TTL, logr, true)
		}
	}

	validate := validator.New()

	planRepo := repository.NewPlanRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	userRepo := repository.NewUserRepository(db)

	categorySvc := service.NewCategoryService(categoryRepo, validate, logr)
	planSvc := service.NewPlanService(planRepo, categorySvc, cacheSvc, validate, logr)
	attachmentSvc := service.NewAttachmentService(planRepo, store, cfg.Uploads.PublicBasePath, logr)
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r.Static(cfg.Uploads.PublicBasePath, cfg.Uploads.StorageDir)

	router.Register(r, cfg.APIPrefix, router.Deps{
		Auth:        authSvc,
		Plans:       handler.NewPlanHandler(planSvc),
		Categories:  handler.NewCategoryHandler(categorySvc),
		Attachments: handler.NewAttachmentHandler(attachmentSvc, cfg.Uploads.MaxFileSizeBytes),
		AuthHandler: handler.NewAuthHandler(authSvc),
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
