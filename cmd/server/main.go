package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"campus-complaintdesk/internal/adapters/http/middleware"
	"campus-complaintdesk/internal/adapters/http/routes"
	"campus-complaintdesk/internal/adapters/persistence/models"
	"campus-complaintdesk/internal/adapters/persistence/repositories"
	"campus-complaintdesk/internal/config"
	"campus-complaintdesk/internal/core/services"

	"github.com/gofiber/fiber/v2"

	_ "campus-complaintdesk/docs" // Swagger docs
)

// @title Campus ComplaintDesk API
// @version 1.0
// @description University complaint tracking portal API
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@campus.edu

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host api.complaintdesk.campus.edu
// @BasePath /api/v1
// @schemes https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// Attachments are carried inline as base64 data URLs, so the request body
// cap has to leave headroom above the attachment limits.
const maxBodySize = 100 * 1024

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

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Seed default accounts
	if err := config.NewSeeder(db).Run(); err != nil {
		log.Printf("⚠️ Warning: Failed to seed database: %v", err)
	}

	// Scheduled housekeeping (expired token purge)
	maintenanceService := services.NewMaintenanceService(repositories.NewRefreshTokenRepository(db))
	if err := maintenanceService.Start(); err != nil {
		log.Fatalf("❌ Failed to start maintenance scheduler: %v", err)
	}
	defer maintenanceService.Stop()

	// Notification poller watches the complaint collection for new arrivals
	notificationService := services.NewNotificationService(
		repositories.NewComplaintRepository(db),
		cfg.Notify.PollInterval,
	)
	notificationService.Start()
	defer notificationService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Campus ComplaintDesk API v1.0",
		BodyLimit:    maxBodySize,
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes
	routes.Setup(app, db, cfg, notificationService)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
