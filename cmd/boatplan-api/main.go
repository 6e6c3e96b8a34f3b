package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/oarlock/boatplan-api/api/swagger"
	"github.com/oarlock/boatplan-api/internal/handler"
	internalmiddleware "github.com/oarlock/boatplan-api/internal/middleware"
	"github.com/oarlock/boatplan-api/internal/repository"
	"github.com/oarlock/boatplan-api/internal/service"
	"github.com/oarlock/boatplan-api/pkg/cache"
	"github.com/oarlock/boatplan-api/pkg/config"
	"github.com/oarlock/boatplan-api/pkg/database"
	"github.com/oarlock/boatplan-api/pkg/logger"
	corsmiddleware "github.com/oarlock/boatplan-api/pkg/middleware/cors"
	reqidmiddleware "github.com/oarlock/boatplan-api/pkg/middleware/requestid"
	"github.com/oarlock/boatplan-api/pkg/mip"
)

// @title Boatplan API
// @version 1.0.0
// @description Preference-weighted weekly boat allocation for rowing clubs
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect redis", "error", err)
	}

	validate := validator.New()

	personRepo := repository.NewPersonRepository(db)
	boatRepo := repository.NewBoatRepository(db)
	prefRepo := repository.NewPreferenceRepository(db)
	planRepo := repository.NewAllocationRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	metricsService := service.NewMetricsService()
	cacheService := service.NewCacheService(cacheRepo, metricsService, cfg.Plans.CacheTTL, logr)
	authService := service.NewAuthService(validate, logr, service.AuthConfig{
		AdminUsername:     cfg.Auth.AdminUsername,
		AdminPasswordHash: cfg.Auth.AdminPasswordHash,
		JWTSecret:         cfg.Auth.JWTSecret,
		JWTExpiration:     cfg.Auth.JWTExpiration,
		Issuer:            cfg.Auth.Issuer,
	})
	rosterService := service.NewRosterService(personRepo, validate, logr)
	fleetService := service.NewFleetService(boatRepo, validate, logr)
	preferenceService := service.NewPreferenceService(prefRepo, personRepo, validate, logr)

	solver := mip.NewEngine(cfg.Solver.Engine, cfg.Solver.NodeBudget)
	allocationService := service.NewAllocationService(
		personRepo,
		boatRepo,
		prefRepo,
		planRepo,
		cacheService,
		solver,
		metricsService,
		validate,
		logr,
		service.AllocationConfig{
			SolverTimeout: cfg.Solver.Timeout,
			PreviewTTL:    cfg.Plans.PreviewTTL,
			CacheTTL:      cfg.Plans.CacheTTL,
		},
	)
	exportService := service.NewExportService(allocationService, personRepo, boatRepo, service.ExportConfig{
		PDFTitle: cfg.Exports.PDFTitle,
	}, logr, nil, nil)

	authHandler := handler.NewAuthHandler(authService)
	rosterHandler := handler.NewRosterHandler(rosterService)
	fleetHandler := handler.NewFleetHandler(fleetService)
	preferenceHandler := handler.NewPreferenceHandler(preferenceService)
	cohortHandler := handler.NewCohortHandler()
	allocationHandler := handler.NewAllocationHandler(allocationService, exportService)
	metricsHandler := handler.NewMetricsHandler(metricsService)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsService))

	r.GET("/health", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	auth := internalmiddleware.JWT(authService)

	api.POST("/auth/login", authHandler.Login)
	api.GET("/auth/me", auth, authHandler.Me)

	api.GET("/people", rosterHandler.List)
	api.GET("/people/:id", rosterHandler.Get)
	api.POST("/people", auth, rosterHandler.Create)
	api.PUT("/people/:id", auth, rosterHandler.Update)
	api.DELETE("/people/:id", auth, rosterHandler.Delete)
	api.PUT("/people/:id/preferences", auth, preferenceHandler.Upsert)

	api.GET("/preferences", preferenceHandler.List)

	api.GET("/boats", fleetHandler.List)
	api.GET("/boats/:id", fleetHandler.Get)
	api.POST("/boats", auth, fleetHandler.Create)
	api.PUT("/boats/:id", auth, fleetHandler.Update)
	api.DELETE("/boats/:id", auth, fleetHandler.Delete)

	api.GET("/cohorts", cohortHandler.List)
	api.GET("/cohorts/:name", cohortHandler.Get)

	api.POST("/plans/generate", auth, allocationHandler.Generate)
	api.POST("/plans/save", auth, allocationHandler.Save)
	api.GET("/plans", allocationHandler.List)
	api.GET("/plans/:id", allocationHandler.Get)
	api.DELETE("/plans/:id", auth, allocationHandler.Delete)
	api.GET("/plans/:id/export/csv", allocationHandler.ExportCSV)
	api.GET("/plans/:id/export/pdf", allocationHandler.ExportPDF)

	api.GET("/metrics/status", auth, metricsHandler.Snapshot)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "solver", cfg.Solver.Engine)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
