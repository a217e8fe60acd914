package routes

import (
	"wecaare-insurance/internal/adapters/http/handlers"
	"wecaare-insurance/internal/adapters/http/middleware"
	"wecaare-insurance/internal/adapters/persistence/repositories"
	"wecaare-insurance/internal/config"
	"wecaare-insurance/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"

	_ "wecaare-insurance/docs"
)

// Setup wires repositories, services and handlers, and registers all
// routes under /api/v1
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) *services.CronService {
	// Repositories
	userRepo := repositories.NewUserRepository(db)
	tokenRepo := repositories.NewRefreshTokenRepository(db)
	recordRepo := repositories.NewInsuranceRecordRepository(db)
	auditRepo := repositories.NewAuditLogRepository(db)

	// Services
	authService := services.NewAuthService(userRepo, tokenRepo, cfg.JWT)
	userService := services.NewUserService(userRepo, tokenRepo)
	recordService := services.NewRecordService(recordRepo, auditRepo)
	analyticsService := services.NewAnalyticsService(recordRepo)
	exportService := services.NewExportService(recordRepo)
	notificationService := services.NewNotificationService()
	cronService := services.NewCronService(recordRepo, notificationService, authService, cfg.Reminder)

	// Handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	recordHandler := handlers.NewRecordHandler(recordService)
	adminHandler := handlers.NewAdminHandler(recordService, exportService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)

	// Health (unauthenticated)
	app.Get("/health", healthHandler.Health)
	app.Get("/health/db", healthHandler.DatabaseHealth)

	// Swagger UI (dev only)
	if cfg.IsDev() {
		app.Get("/swagger/*", swagger.HandlerDefault)
	}

	api := app.Group("/api/v1")
	protected := middleware.Protected(cfg.JWT)

	// Auth
	auth := api.Group("/auth")
	auth.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)
	auth.Post("/logout", authHandler.Logout)
	auth.Post("/logout-all", protected, authHandler.LogoutAll)
	auth.Get("/me", protected, authHandler.Me)

	// Records (staff or admin)
	records := api.Group("/records", protected, middleware.StaffOrAdmin())
	records.Post("/", recordHandler.Create)
	records.Get("/", recordHandler.List)
	records.Get("/expiring", recordHandler.ListExpiring)
	records.Get("/:id", recordHandler.GetByID)
	records.Put("/:id", recordHandler.Update)
	records.Delete("/:id", recordHandler.Delete)
	records.Post("/:id/notify", recordHandler.MarkNotified)
	records.Delete("/:id/notify", recordHandler.UnmarkNotified)

	// Analytics (staff or admin)
	analytics := api.Group("/analytics", protected, middleware.StaffOrAdmin())
	analytics.Get("/monthly-performance", analyticsHandler.MonthlyPerformance)

	// Self-service
	users := api.Group("/users", protected)
	users.Post("/change-password", userHandler.ChangePassword)

	// Admin only
	admin := api.Group("/admin", protected, middleware.AdminOnly())
	admin.Put("/records/:id/financials", adminHandler.UpdateFinancials)
	admin.Get("/records/export", adminHandler.ExportRecords)
	admin.Get("/financial-summary", adminHandler.FinancialSummary)
	admin.Post("/users", userHandler.Create)
	admin.Get("/users", userHandler.List)
	admin.Get("/users/:id", userHandler.GetByID)
	admin.Put("/users/:id", userHandler.Update)
	admin.Delete("/users/:id", userHandler.Delete)
	admin.Post("/users/:id/reset-password", userHandler.ResetPassword)

	return cronService
}
