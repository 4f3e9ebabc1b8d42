package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/vasitha1/lebailleur-app/internal/cache"
	"github.com/vasitha1/lebailleur-app/internal/config"
	"github.com/vasitha1/lebailleur-app/internal/database"
	"github.com/vasitha1/lebailleur-app/internal/handlers"
	"github.com/vasitha1/lebailleur-app/internal/middleware"
	"github.com/vasitha1/lebailleur-app/internal/models"
	"github.com/vasitha1/lebailleur-app/internal/repository"
	"github.com/vasitha1/lebailleur-app/internal/services"
	"github.com/vasitha1/lebailleur-app/internal/storage"
)

func main() {
	// .env is optional, real deployments set the environment directly
	_ = godotenv.Load()

	cfg := config.Load()
	setupLogger(cfg)
	gin.SetMode(cfg.Server.GinMode)

	ctx := context.Background()

	dbManager := database.GetManager(cfg)
	if err := dbManager.InitPool(ctx); err != nil {
		slog.Error("failed to initialize database pool", "error", err)
		os.Exit(1)
	}

	redisClient, err := cache.NewClient(&cfg.Redis)
	if err != nil {
		slog.Error("failed to initialize redis client", "error", err)
		os.Exit(1)
	}

	storageDriver, err := storage.New(&cfg.Storage)
	if err != nil {
		slog.Error("failed to initialize storage driver", "error", err)
		os.Exit(1)
	}

	pool := dbManager.GetPool()

	// repositories
	userRepo := repository.NewUserRepository(pool)
	propertyRepo := repository.NewPropertyRepository(pool)
	leaseRepo := repository.NewLeaseRepository(pool)
	paymentRepo := repository.NewPaymentRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)

	// services
	authService := services.NewAuthService(userRepo, redisClient, cfg)
	userService := services.NewUserService(userRepo, redisClient)
	propertyService := services.NewPropertyService(propertyRepo)
	leaseService := services.NewLeaseService(leaseRepo, userRepo, propertyRepo)
	paymentService := services.NewPaymentService(paymentRepo, leaseRepo)
	analyticsService := services.NewAnalyticsService(propertyRepo, leaseRepo, paymentRepo)
	notificationService := services.NewNotificationService(notificationRepo, userRepo, redisClient)
	photoService := services.NewPhotoService(propertyRepo, storageDriver, redisClient)

	// handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	propertyHandler := handlers.NewPropertyHandler(propertyService, photoService)
	leaseHandler := handlers.NewLeaseHandler(leaseService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	router := setupRouter(cfg,
		authHandler, userHandler, propertyHandler, leaseHandler,
		paymentHandler, analyticsHandler, notificationHandler)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		slog.Info("starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}

	dbManager.Close()
	redisClient.Close()

	slog.Info("server exited")
}

func setupLogger(cfg *config.Config) {
	level := slog.LevelInfo
	switch cfg.App.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
}

func setupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	propertyHandler *handlers.PropertyHandler,
	leaseHandler *handlers.LeaseHandler,
	paymentHandler *handlers.PaymentHandler,
	analyticsHandler *handlers.AnalyticsHandler,
	notificationHandler *handlers.NotificationHandler,
) *gin.Engine {
	router := gin.Default()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// photos uploaded with the local storage driver
	if cfg.Storage.Driver == "local" || cfg.Storage.Driver == "" {
		router.Static("/uploads", cfg.Storage.UploadsPath)
	}

	public := router.Group("/api/v1")
	{
		public.POST("/auth/register", authHandler.Register)
		public.POST("/auth/login", authHandler.Login)
		public.POST("/auth/reset-password", authHandler.ResetPassword)
	}

	protected := router.Group("/api/v1")
	protected.Use(middleware.AuthMiddleware(cfg))
	{
		protected.GET("/auth/profile", authHandler.Profile)
		protected.POST("/auth/switch-role", authHandler.SwitchRole)
		protected.POST("/auth/change-password", authHandler.ChangePassword)

		users := protected.Group("/users")
		{
			users.POST("", middleware.RequireRoles(models.RoleOwner, models.RoleManager), userHandler.Create)
			users.GET("", middleware.RequireRoles(models.RoleOwner), userHandler.List)
			users.GET("/managers", middleware.RequireRoles(models.RoleOwner), userHandler.FindManagers)
			users.GET("/my-users", middleware.RequireRoles(models.RoleOwner), userHandler.FindMyUsers)
			users.GET("/profiles/:email", userHandler.FindProfiles)
			users.GET("/context/:id", userHandler.GetContext)
			users.GET("/:id", userHandler.Get)
			users.PATCH("/:id", userHandler.Update)
			users.DELETE("/:id", middleware.RequireRoles(models.RoleOwner), userHandler.Delete)
			users.POST("/assign-manager/:managerId", middleware.RequireRoles(models.RoleOwner), userHandler.AssignManager)
		}

		properties := protected.Group("/properties")
		{
			properties.POST("", middleware.RequireRoles(models.RoleOwner), propertyHandler.Create)
			properties.GET("", propertyHandler.List)
			properties.GET("/stats", propertyHandler.GetStats)
			properties.GET("/:id", propertyHandler.Get)
			properties.PATCH("/:id", middleware.RequireRoles(models.RoleOwner, models.RoleManager), propertyHandler.Update)
			properties.DELETE("/:id", middleware.RequireRoles(models.RoleOwner), propertyHandler.Delete)
			properties.POST("/:id/units", middleware.RequireRoles(models.RoleOwner, models.RoleManager), propertyHandler.CreateUnit)
			properties.GET("/:id/units", propertyHandler.GetUnits)
			properties.GET("/:id/units/vacant", propertyHandler.GetVacantUnits)
			properties.POST("/:id/photo", middleware.RequireRoles(models.RoleOwner, models.RoleManager), propertyHandler.UploadPhoto)
		}

		leases := protected.Group("/leases")
		{
			leases.POST("", middleware.RequireRoles(models.RoleOwner, models.RoleManager), leaseHandler.Create)
			leases.GET("", leaseHandler.List)
			leases.GET("/stats", leaseHandler.GetStats)
			leases.GET("/by-status", leaseHandler.ListByStatus)
			leases.GET("/:id", leaseHandler.Get)
			leases.PATCH("/:id", middleware.RequireRoles(models.RoleOwner, models.RoleManager), leaseHandler.Update)
			leases.DELETE("/:id", middleware.RequireRoles(models.RoleOwner, models.RoleManager), leaseHandler.Delete)
		}

		payments := protected.Group("/payments")
		{
			payments.POST("", middleware.RequireRoles(models.RoleOwner, models.RoleManager), paymentHandler.Create)
			payments.GET("", paymentHandler.List)
			payments.GET("/stats", paymentHandler.GetStats)
			payments.GET("/by-status", paymentHandler.ListByStatus)
			payments.GET("/by-date-range", paymentHandler.ListByDateRange)
			payments.POST("/generate-monthly", middleware.RequireRoles(models.RoleOwner, models.RoleManager), paymentHandler.GenerateMonthly)
			payments.POST("/mark-overdue", middleware.RequireRoles(models.RoleOwner, models.RoleManager), paymentHandler.MarkOverdue)
			payments.GET("/:id", paymentHandler.Get)
			payments.PATCH("/:id", paymentHandler.Update)
			payments.POST("/:id/process", paymentHandler.Process)
			payments.DELETE("/:id", middleware.RequireRoles(models.RoleOwner, models.RoleManager), paymentHandler.Delete)
		}

		analytics := protected.Group("/analytics")
		{
			analytics.GET("/dashboard", analyticsHandler.Dashboard)
			analytics.GET("/revenue", analyticsHandler.Revenue)
			analytics.GET("/payments", analyticsHandler.Payments)
			analytics.GET("/occupancy-trends", analyticsHandler.OccupancyTrends)
			analytics.GET("/property-performance", analyticsHandler.PropertyPerformance)
		}

		notifications := protected.Group("/notifications")
		notifications.Use(middleware.RequireRoles(models.RoleOwner, models.RoleManager))
		{
			notifications.POST("/payment-reminder", notificationHandler.SendReminder)
			notifications.POST("/custom", notificationHandler.SendCustom)
			notifications.GET("/history", notificationHandler.History)
			notifications.GET("/automatic-reminders", notificationHandler.GetReminders)
			notifications.PATCH("/automatic-reminders", notificationHandler.UpdateReminders)
		}
	}

	return router
}
