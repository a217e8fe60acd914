package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"wecaare-insurance/internal/adapters/http/middleware"
	"wecaare-insurance/internal/adapters/http/routes"
	"wecaare-insurance/internal/adapters/persistence/models"
	"wecaare-insurance/internal/config"

	"github.com/gofiber/fiber/v2"
)

// @title WeCaare Insurance Records API
// @version 1.0
// @description Back-office API for insurance policy records, renewals and reporting
// @termsOfService http://swagger.io/terms/

// @host localhost:3000
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT token

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Run migrations
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to run migrations: %v", err)
	}
	log.Println("✅ Database migrations completed")

	// Seed default accounts
	if err := config.SeedDefaultUsers(db); err != nil {
		log.Printf("⚠️ Seeding failed: %v", err)
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "WeCaare Insurance Records",
		ErrorHandler: middleware.CustomErrorHandler,
		BodyLimit:    10 * 1024 * 1024, // 10MB
	})

	// Global middleware
	middleware.Setup(app, cfg)

	// Routes and dependency wiring
	cronService := routes.Setup(app, db, cfg)

	// Scheduled jobs
	if err := cronService.Start(); err != nil {
		log.Fatalf("❌ Failed to start cron service: %v", err)
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		log.Println("🛑 Shutting down server...")
		cronService.Stop()
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server shutdown error: %v", err)
		}
	}()

	// Start server
	addr := ":" + cfg.Port
	log.Printf("🚀 Server starting on %s [MODE: %s]", addr, cfg.AppMode)
	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Server error: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
