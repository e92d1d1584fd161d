package handlers

import (
	"campus-complaintdesk/internal/core/services"
	"campus-complaintdesk/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler handles dashboard endpoints
type DashboardHandler struct {
	dashboardService *services.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// GetAdminDashboard returns admin dashboard data
// @Summary Admin Dashboard
// @Description Get admin dashboard with system overview (Admin only)
// @Tags Dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /dashboard/admin [get]
func (h *DashboardHandler) GetAdminDashboard(c *fiber.Ctx) error {
	data, err := h.dashboardService.GetAdminDashboard(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to get admin dashboard")
	}

	return response.Success(c, "Admin dashboard retrieved successfully", data)
}

// GetStaffDashboard returns staff dashboard data
// @Summary Staff Dashboard
// @Description Get staff dashboard with assigned cases (Staff only)
// @Tags Dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /dashboard/staff [get]
func (h *DashboardHandler) GetStaffDashboard(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	data, err := h.dashboardService.GetStaffDashboard(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to get staff dashboard")
	}

	return response.Success(c, "Staff dashboard retrieved successfully", data)
}

// GetStudentDashboard returns student dashboard data
// @Summary Student Dashboard
// @Description Get the student's own complaint summary
// @Tags Dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /dashboard/student [get]
func (h *DashboardHandler) GetStudentDashboard(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	data, err := h.dashboardService.GetStudentDashboard(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to get student dashboard")
	}

	return response.Success(c, "Student dashboard retrieved successfully", data)
}

// GetMyDashboard returns dashboard based on user role
// @Summary My Dashboard
// @Description Get dashboard based on current user's role (auto-detect)
// @Tags Dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /dashboard [get]
func (h *DashboardHandler) GetMyDashboard(c *fiber.Ctx) error {
	role, _ := c.Locals("role").(string)
	userID, _ := c.Locals("userID").(uint)

	var data interface{}
	var err error

	switch role {
	case "admin":
		data, err = h.dashboardService.GetAdminDashboard(c.Context())
	case "staff":
		data, err = h.dashboardService.GetStaffDashboard(c.Context(), userID)
	default:
		data, err = h.dashboardService.GetStudentDashboard(c.Context(), userID)
	}

	if err != nil {
		return response.InternalServerError(c, "Failed to get dashboard")
	}

	return response.Success(c, "Dashboard retrieved successfully", fiber.Map{
		"role": role,
		"data": data,
	})
}
