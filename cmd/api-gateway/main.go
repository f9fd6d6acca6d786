package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/exam-planner-api/api/swagger"
	"github.com/noah-isme/exam-planner-api/internal/handler"
	"github.com/noah-isme/exam-planner-api/internal/middleware"
	"github.com/noah-isme/exam-planner-api/internal/models"
	"github.com/noah-isme/exam-planner-api/internal/repository"
	"github.com/noah-isme/exam-planner-api/internal/service"
	"github.com/noah-isme/exam-planner-api/pkg/cache"
	"github.com/noah-isme/exam-planner-api/pkg/config"
	"github.com/noah-isme/exam-planner-api/pkg/database"
	"github.com/noah-isme/exam-planner-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/exam-planner-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/exam-planner-api/pkg/middleware/requestid"
)

// @title Exam Planner API
// @version 1.0.0
// @description Exam timetable planning and seat assignment service
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	var redisClient *redis.Client
	if client, err := cache.NewRedis(cfg.Redis); err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
	} else {
		redisClient = client
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	eventRepo := repository.NewExamEventRepository(db)
	seatRepo := repository.NewSeatAssignmentRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "exam-planner-api",
	})
	roomSvc := service.NewRoomService(roomRepo, validate, logr)
	courseSvc := service.NewCourseService(courseRepo, studentRepo, logr)
	plannerSvc := service.NewPlannerService(courseRepo, roomRepo, eventRepo, cacheRepo, validate, logr, metricsSvc, cfg.Planner)
	seatingSvc := service.NewSeatingService(eventRepo, roomRepo, studentRepo, seatRepo, cacheRepo, logr, metricsSvc, cfg.Seating.CacheTTL)

	var exportSvc *service.ExportService
	if cfg.Exports.Enabled {
		exportSvc = service.NewExportService(eventRepo, seatRepo, roomRepo, cacheRepo, logr, metricsSvc, service.ExportConfig{
			WorkerConcurrency: cfg.Exports.WorkerConcurrency,
			WorkerRetries:     cfg.Exports.WorkerRetries,
			CacheTTL:          cfg.Exports.CacheTTL,
		})
		exportSvc.Queue().Start(context.Background())
		defer exportSvc.Queue().Stop()
	}

	authHandler := handler.NewAuthHandler(authSvc)
	roomHandler := handler.NewRoomHandler(roomSvc)
	courseHandler := handler.NewCourseHandler(courseSvc)
	examHandler := handler.NewExamHandler(plannerSvc)
	seatingHandler := handler.NewSeatingHandler(seatingSvc, exportSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
		}

		authed := api.Group("")
		authed.Use(middleware.JWT(authSvc))
		{
			authed.GET("/courses", courseHandler.List)
			authed.GET("/students/:number", courseHandler.GetStudent)
			authed.GET("/rooms", roomHandler.List)
			authed.GET("/exams", examHandler.List)
			authed.GET("/exams/:id/seating", seatingHandler.Get)

			admin := authed.Group("")
			admin.Use(middleware.RBAC(models.RoleAdmin))
			{
				admin.POST("/users", authHandler.CreateUser)
			}

			coordinator := authed.Group("")
			coordinator.Use(middleware.RBAC(models.RoleAdmin, models.RoleCoordinator))
			{
				coordinator.POST("/rooms", roomHandler.Create)
				coordinator.PUT("/rooms/:id", roomHandler.Update)
				coordinator.DELETE("/rooms/:id", roomHandler.Delete)
				coordinator.POST("/exams/plan", examHandler.Plan)
				coordinator.POST("/exams", examHandler.Create)
				coordinator.DELETE("/exams", examHandler.Clear)
				coordinator.POST("/exams/:id/seating", seatingHandler.Assign)
			}

			if exportSvc != nil {
				exportHandler := handler.NewExportHandler(exportSvc)
				authed.GET("/exports/schedule.csv", exportHandler.ScheduleCSV)
				authed.GET("/exports/seating/:id", exportHandler.SeatingPDF)
			}
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
