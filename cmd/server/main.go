package main

import (
	"log"
	"time"

	"apiary_app_go/config"
	"apiary_app_go/db"
	"apiary_app_go/handlers"
	"apiary_app_go/metrics"
	"apiary_app_go/middleware"
	"apiary_app_go/services"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(cfg); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Core tuning
	services.NumberingAttempts = cfg.NumberingMaxAttempts
	services.ConfigureTaskCache(cfg.TaskCacheTTL)

	if _, err := services.SeedTasks(db.DB, cfg.SeedTasks); err != nil {
		log.Fatalf("Failed to seed tasks: %v", err)
	}
	if err := services.SeedBeekeeperFromEnv(db.DB); err != nil {
		log.Printf("[WARNING] Failed to seed beekeeper: %v", err)
	}

	services.InitializeStorage(cfg)

	registry := prometheus.NewRegistry()
	apiaryMetrics, err := metrics.NewApiaryMetrics(registry)
	if err != nil {
		log.Fatalf("Failed to register metrics: %v", err)
	}
	services.Metrics = apiaryMetrics

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(echomiddleware.RequestLogger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowCredentials: true,
	}))

	// Make config available to handlers
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("config", cfg)
			return next(c)
		}
	})

	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// Public routes (no authentication required)
	loginLimiter := middleware.NewLoginRateLimiter(cfg.LoginRateLimit, cfg.LoginRateWindow)
	e.POST("/api/register", handlers.RegisterHandler, loginLimiter.Middleware())
	e.POST("/api/login", handlers.LoginHandler, loginLimiter.Middleware())

	// Protected routes, always scoped to the authenticated beekeeper
	api := e.Group("/api")
	api.Use(middleware.RequireAuth())
	{
		api.POST("/logout", handlers.LogoutHandler)
		api.GET("/me", handlers.MeHandler)
		api.GET("/dashboard", handlers.DashboardHandler)
		api.GET("/tasks", handlers.ListTasksHandler)

		api.GET("/sites", handlers.ListSitesHandler)
		api.POST("/sites", handlers.CreateSiteHandler)
		api.GET("/sites/:id", handlers.GetSiteHandler)
		api.PUT("/sites/:id", handlers.UpdateSiteHandler)
		api.DELETE("/sites/:id", handlers.DeleteSiteHandler)
		api.GET("/sites/:id/export", handlers.ExportSiteHandler)
		api.POST("/sites/:id/archive", handlers.ArchiveSiteHandler)
		api.GET("/sites/:id/archive", handlers.DownloadArchiveHandler)
		api.DELETE("/sites/:id/archive", handlers.DeleteArchiveHandler)
		api.GET("/sites/:id/hives", handlers.ListHivesHandler)
		api.POST("/sites/:id/hives", handlers.CreateHiveHandler)

		api.POST("/hives/relocate", handlers.RelocateHivesHandler)
		api.DELETE("/hives/:id", handlers.DeleteHiveHandler)
		api.GET("/hives/:id/visits", handlers.ListVisitsHandler)
		api.POST("/hives/:id/visits", handlers.CreateVisitHandler)
		api.GET("/hives/:id/visit-defaults", handlers.VisitDefaultsHandler)
		api.POST("/hives/:id/mothers", handlers.CreateMotherHandler)

		api.GET("/mothers", handlers.ListMothersHandler)
		api.GET("/mothers/targets", handlers.RelocationTargetsHandler)
		api.GET("/mothers/:id/lineage", handlers.LineageHandler)
		api.PUT("/mothers/:id", handlers.UpdateMotherHandler)
		api.DELETE("/mothers/:id", handlers.DeleteMotherHandler)
		api.POST("/mothers/:id/erase", handlers.EraseMotherHandler)
		api.POST("/mothers/:id/relocate", handlers.RelocateMotherHandler)

		api.PUT("/visits/:id", handlers.UpdateVisitHandler)
		api.DELETE("/visits/:id", handlers.DeleteVisitHandler)
	}

	// Start background cleanup job (runs every hour)
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			if err := services.CleanupExpiredSessions(db.DB); err != nil {
				log.Printf("Error cleaning up expired sessions: %v", err)
			}
		}
	}()

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
