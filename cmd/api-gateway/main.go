package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/obe-attainment-api/api/swagger"
	"github.com/noah-isme/obe-attainment-api/internal/handler"
	"github.com/noah-isme/obe-attainment-api/internal/middleware"
	"github.com/noah-isme/obe-attainment-api/internal/repository"
	"github.com/noah-isme/obe-attainment-api/internal/service"
	"github.com/noah-isme/obe-attainment-api/pkg/cache"
	"github.com/noah-isme/obe-attainment-api/pkg/config"
	"github.com/noah-isme/obe-attainment-api/pkg/database"
	"github.com/noah-isme/obe-attainment-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/obe-attainment-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/obe-attainment-api/pkg/middleware/requestid"
	"github.com/noah-isme/obe-attainment-api/pkg/storage"
)

// @title OBE Attainment API
// @version 1.0.0
// @description Course outcome attainment computation for outcome-based education
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("database connect failed", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	store, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("report storage init failed", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)

	// repositories
	courseRepo := repository.NewCourseRepository(db)
	testRepo := repository.NewTestRepository(db)
	markRepo := repository.NewMarkRepository(db)
	thresholdRepo := repository.NewThresholdRepository(db)
	matrixRepo := repository.NewMatrixRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	// services
	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Engine.CacheTTL, logr, cfg.Engine.CacheEnabled && redisClient != nil)
	defaults := service.EngineDefaults{
		COThreshold:      cfg.Engine.DefaultCOThreshold,
		PassingThreshold: cfg.Engine.DefaultPassingThreshold,
	}
	attainmentSvc := service.NewAttainmentService(courseRepo, testRepo, markRepo, thresholdRepo, matrixRepo, cacheSvc, metricsSvc, defaults, logr)
	thresholdSvc := service.NewThresholdService(thresholdRepo, cacheSvc, defaults, nil, logr)
	matrixSvc := service.NewMatrixService(matrixRepo, thresholdRepo, cacheSvc, logr)
	markSvc := service.NewMarkService(courseRepo, markRepo, cacheSvc, logr)
	testSvc := service.NewTestService(testRepo, cacheSvc, cfg.Engine.DefaultPassMarkRatio, nil, logr)
	exportSvc := service.NewExportService(attainmentSvc, store, signer, service.ExportConfig{
		APIPrefix: cfg.APIPrefix,
		ResultTTL: cfg.Reports.SignedURLTTL,
	}, logr, nil, nil, nil)

	// handlers
	attainmentHandler := handler.NewAttainmentHandler(attainmentSvc)
	thresholdHandler := handler.NewThresholdHandler(thresholdSvc)
	matrixHandler := handler.NewMatrixHandler(matrixSvc)
	markHandler := handler.NewMarkHandler(markSvc)
	testHandler := handler.NewTestHandler(testSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
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
	r.Use(middleware.WithReportMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	api := r.Group(cfg.APIPrefix)
	{
		courses := api.Group("/courses/:id")
		courses.GET("/attainment", attainmentHandler.Report)
		courses.GET("/thresholds", thresholdHandler.Get)
		courses.PUT("/thresholds", thresholdHandler.Save)
		courses.GET("/matrix", matrixHandler.Get)
		courses.PUT("/matrix/cells", matrixHandler.UpdateCell)
		courses.POST("/matrix/import", matrixHandler.Import)
		courses.POST("/matrix/commit", matrixHandler.Commit)
		courses.DELETE("/matrix/draft", matrixHandler.Discard)
		courses.GET("/tests", testHandler.List)
		courses.POST("/tests", testHandler.Create)
		courses.POST("/marks/import", markHandler.Import)
		courses.POST("/export", exportHandler.Generate)

		api.GET("/export/:token", exportHandler.Download)
		api.GET("/system/metrics", metricsHandler.System)
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	if cfg.Reports.CleanupInterval > 0 {
		go func() {
			ticker := time.NewTicker(cfg.Reports.CleanupInterval)
			defer ticker.Stop()
			for range ticker.C {
				deleted, err := exportSvc.Cleanup(0)
				if err != nil {
					logr.Warn("export cleanup failed", zap.Error(err))
					continue
				}
				if len(deleted) > 0 {
					logr.Info("export cleanup", zap.Int("deleted", len(deleted)))
				}
			}
		}()
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
