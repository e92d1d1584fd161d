package routes

import (
	"campus-complaintdesk/internal/adapters/http/handlers"
	"campus-complaintdesk/internal/adapters/http/middleware"
	"campus-complaintdesk/internal/adapters/persistence/repositories"
	"campus-complaintdesk/internal/config"
	"campus-complaintdesk/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application. The notification service
// is constructed in main so its poller lifecycle can span server shutdown.
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config, notificationService *services.NotificationService) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	complaintRepo := repositories.NewComplaintRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, refreshTokenRepo, cfg)
	userService := services.NewUserService(userRepo)
	complaintService := services.NewComplaintService(complaintRepo, userRepo)
	dashboardService := services.NewDashboardService(db)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	complaintHandler := handlers.NewComplaintHandler(complaintService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	setupAPIV1Routes(apiV1, healthHandler, authHandler, userHandler,
		complaintHandler, dashboardHandler, notificationHandler, cfg)
}

// setupAPIV1Routes configures API v1 routes
func setupAPIV1Routes(
	router fiber.Router,
	healthHandler *handlers.HealthHandler,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	complaintHandler *handlers.ComplaintHandler,
	dashboardHandler *handlers.DashboardHandler,
	notificationHandler *handlers.NotificationHandler,
	cfg *config.Config,
) {
	// API Info
	router.Get("/", healthHandler.APIInfo)

	// Auth routes (public)
	authRoutes := router.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, cfg)

	// User management routes (Admin only)
	userRoutes := router.Group("/users")
	userRoutes.Use(middleware.AuthMiddleware(cfg))
	userRoutes.Use(middleware.AdminOnly())
	setupUserRoutes(userRoutes, userHandler)

	// Profile routes (Authenticated users)
	profileRoutes := router.Group("/profile")
	profileRoutes.Use(middleware.AuthMiddleware(cfg))
	setupProfileRoutes(profileRoutes, userHandler)

	// Complaint routes (Authenticated users)
	complaintRoutes := router.Group("/complaints")
	complaintRoutes.Use(middleware.AuthMiddleware(cfg))
	setupComplaintRoutes(complaintRoutes, complaintHandler)

	// Dashboard routes
	dashboardRoutes := router.Group("/dashboard")
	dashboardRoutes.Use(middleware.AuthMiddleware(cfg))
	dashboardRoutes.Use(middleware.NoCacheHeaders())
	setupDashboardRoutes(dashboardRoutes, dashboardHandler)

	// Notification routes (Admin only)
	notificationRoutes := router.Group("/notifications")
	notificationRoutes.Use(middleware.AuthMiddleware(cfg))
	notificationRoutes.Use(middleware.AdminOnly())
	notificationRoutes.Use(middleware.NoCacheHeaders())
	setupNotificationRoutes(notificationRoutes, notificationHandler)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes, rate limited against brute force
	router.Post("/register", middleware.AuthRateLimiter(), handler.Register)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
	router.Post("/logout-all", middleware.AuthMiddleware(cfg), handler.LogoutAll)
}

// setupUserRoutes configures user management routes (Admin only)
func setupUserRoutes(router fiber.Router, handler *handlers.UserHandler) {
	router.Get("/", handler.ListUsers)
	router.Get("/staff", handler.ListStaff)
	router.Post("/staff", handler.CreateStaff)
	router.Get("/:id", handler.GetUser)
	router.Put("/:id", handler.UpdateUser)
	router.Delete("/:id", handler.DeleteUser)
}

// setupProfileRoutes configures profile routes (Authenticated)
func setupProfileRoutes(router fiber.Router, handler *handlers.UserHandler) {
	router.Get("/", handler.GetProfile)
	router.Put("/", handler.UpdateProfile)
	router.Put("/password", handler.ChangePassword)
}

// setupComplaintRoutes configures complaint routes
func setupComplaintRoutes(router fiber.Router, handler *handlers.ComplaintHandler) {
	// Role-aware listing: students see their own, staff their queue,
	// admins everything
	router.Get("/", handler.List)
	router.Get("/my", handler.ListMine)
	router.Get("/assigned", middleware.StaffOrAdmin(), handler.ListAssigned)
	router.Get("/:id", handler.Get)

	// Students file complaints
	router.Post("/", middleware.StudentOnly(), handler.Create)

	// Staff work their assigned cases
	router.Patch("/:id/status", middleware.StaffOrAdmin(), handler.UpdateStatus)
	router.Patch("/:id/remarks", middleware.StaffOrAdmin(), handler.UpdateRemarks)

	// Admins route complaints to staff
	router.Patch("/:id/assign", middleware.AdminOnly(), handler.Assign)
}

// setupDashboardRoutes configures dashboard routes
func setupDashboardRoutes(router fiber.Router, handler *handlers.DashboardHandler) {
	// Auto-detect role dashboard (All authenticated users)
	router.Get("/", handler.GetMyDashboard)

	// Student dashboard (All authenticated users)
	router.Get("/student", handler.GetStudentDashboard)

	// Staff dashboard (Staff/Admin only)
	router.Get("/staff", middleware.StaffOrAdmin(), handler.GetStaffDashboard)

	// Admin dashboard (Admin only)
	router.Get("/admin", middleware.AdminOnly(), handler.GetAdminDashboard)
}

// setupNotificationRoutes configures admin notification routes
func setupNotificationRoutes(router fiber.Router, handler *handlers.NotificationHandler) {
	router.Get("/", handler.GetFeed)
	router.Post("/refresh", handler.Refresh)
	router.Delete("/", handler.Clear)
	router.Get("/stream", handler.Stream)
}
