package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/amt-results-api/api/swagger"
	"github.com/noah-isme/amt-results-api/internal/handler"
	"github.com/noah-isme/amt-results-api/internal/middleware"
	"github.com/noah-isme/amt-results-api/internal/models"
	"github.com/noah-isme/amt-results-api/internal/repository"
	"github.com/noah-isme/amt-results-api/internal/service"
	"github.com/noah-isme/amt-results-api/pkg/cache"
	"github.com/noah-isme/amt-results-api/pkg/config"
	"github.com/noah-isme/amt-results-api/pkg/database"
	"github.com/noah-isme/amt-results-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/amt-results-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/amt-results-api/pkg/middleware/requestid"
	"github.com/noah-isme/amt-results-api/pkg/response"
)

// @title AMT Results API
// @version 1.0.0
// @description Mock-exam score aggregation, rankings and gamification for the AMT course
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	cacheEnabled := err == nil
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()

	scoreRepo := repository.NewScoreRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsService := service.NewMetricsService()
	cacheService := service.NewCacheService(cacheRepo, metricsService, cfg.Rankings.CacheTTL, logr, cacheEnabled)

	authService := service.NewAuthService(userRepo, studentRepo, tokenRepo, validate, logr, service.AuthConfig{
		Secret:             cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
	})
	resultService := service.NewResultService(scoreRepo, cacheService, validate, logr, cfg.Imports.MaxRows)
	rankingService := service.NewRankingService(scoreRepo, cacheService, cfg.Rankings.CacheTTL, logr)
	gamificationService := service.NewGamificationService(scoreRepo, logr)
	studentService := service.NewStudentService(studentRepo, validate, logr)
	dashboardService := service.NewDashboardService(scoreRepo, studentRepo, cacheService, logr, service.DashboardServiceConfig{
		CacheTTL:     cfg.Dashboard.CacheTTL,
		RecentScores: cfg.Dashboard.RecentScores,
	})
	exportService := service.NewExportService(rankingService, resultService, gamificationService, logr)

	authHandler := handler.NewAuthHandler(authService)
	resultHandler := handler.NewResultHandler(resultService)
	rankingHandler := handler.NewRankingHandler(rankingService)
	gamificationHandler := handler.NewGamificationHandler(gamificationService)
	studentHandler := handler.NewStudentHandler(studentService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	exportHandler := handler.NewExportHandler(exportService)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.WithResponseMeta())
	r.Use(middleware.Metrics(metricsService))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsService.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/student-login", authHandler.StudentLogin)
		auth.POST("/refresh", authHandler.Refresh)
	}

	protected := api.Group("", middleware.JWT(authService))
	{
		adminOnly := middleware.RBAC(string(models.RoleAdmin))
		selfOrAdmin := middleware.RBAC(string(models.RoleAdmin), "SELF")
		anyRole := middleware.RBAC(string(models.RoleAdmin), string(models.RoleStudent))

		protected.GET("/results", adminOnly, resultHandler.List)
		protected.POST("/results/import", adminOnly, resultHandler.Import)

		protected.GET("/rankings/tests/:testName", anyRole, rankingHandler.TestRanking)

		protected.GET("/students", adminOnly, studentHandler.List)
		protected.POST("/students", adminOnly, studentHandler.Create)
		protected.POST("/students/import", adminOnly, studentHandler.Import)
		protected.GET("/students/:id", selfOrAdmin, studentHandler.Get)
		protected.PUT("/students/:id", adminOnly, studentHandler.Update)
		protected.GET("/students/:id/results", selfOrAdmin, resultHandler.StudentResults)
		protected.GET("/students/:id/stats", selfOrAdmin, resultHandler.StudentStats)
		protected.GET("/students/:id/ranking", selfOrAdmin, rankingHandler.OverallRanking)
		protected.GET("/students/:id/level", selfOrAdmin, gamificationHandler.Level)
		protected.GET("/students/:id/badges", selfOrAdmin, gamificationHandler.Badges)

		if cfg.Dashboard.Enabled {
			protected.GET("/dashboard", adminOnly, dashboardHandler.Summary)
		}

		if cfg.Exports.Enabled {
			protected.GET("/exports/rankings/:testName", adminOnly, exportHandler.RankingsCSV)
			protected.GET("/exports/students/:id/report.pdf", selfOrAdmin, exportHandler.StudentReportPDF)
		}

		protected.GET("/system/metrics", adminOnly, func(c *gin.Context) {
			response.JSON(c, http.StatusOK, metricsService.Snapshot(), nil)
		})
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
