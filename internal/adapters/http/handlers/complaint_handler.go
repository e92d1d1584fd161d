package handlers

import (
	"errors"
	"strconv"

	"campus-complaintdesk/internal/adapters/persistence/models"
	"campus-complaintdesk/internal/core/domain"
	"campus-complaintdesk/internal/core/services"
	"campus-complaintdesk/internal/pkg/pagination"
	"campus-complaintdesk/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ComplaintHandler handles complaint endpoints
type ComplaintHandler struct {
	complaintService *services.ComplaintService
}

// NewComplaintHandler creates a new complaint handler
func NewComplaintHandler(complaintService *services.ComplaintService) *ComplaintHandler {
	return &ComplaintHandler{
		complaintService: complaintService,
	}
}

// CreateComplaintRequest represents create complaint request
type CreateComplaintRequest struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Category    string             `json:"category"`
	Attachment  *models.Attachment `json:"attachment,omitempty"`
}

// AssignRequest represents the admin assignment request
type AssignRequest struct {
	Department string `json:"department"`
	StaffID    uint   `json:"staffId"`
}

// UpdateStatusRequest represents a status change request
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateRemarksRequest represents a remarks update request
type UpdateRemarksRequest struct {
	Remarks string `json:"remarks"`
}

// Create files a new complaint
// @Summary Create complaint
// @Description File a new complaint (Student only)
// @Tags Complaints
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateComplaintRequest true "Complaint data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /complaints [post]
func (h *ComplaintHandler) Create(c *fiber.Ctx) error {
	var req CreateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	userID, _ := c.Locals("userID").(uint)

	input := &services.CreateComplaintInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Attachment:  req.Attachment,
	}

	complaint, err := h.complaintService.Create(c.Context(), input, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTitleRequired):
			return response.BadRequest(c, "Title is required")
		case errors.Is(err, services.ErrDescriptionRequired):
			return response.BadRequest(c, "Description is required")
		case errors.Is(err, services.ErrAttachmentType):
			return response.UnprocessableEntity(c, "Only JPG, JPEG, PNG, or WEBP images are allowed")
		case errors.Is(err, services.ErrAttachmentTooLarge):
			return response.UnprocessableEntity(c, "Image is too large; use an image smaller than 70KB")
		case errors.Is(err, services.ErrAttachmentEncodedBig):
			return response.UnprocessableEntity(c, "Image is too large after encoding; use a smaller JPG/PNG image")
		default:
			return response.InternalServerError(c, "Failed to create complaint")
		}
	}

	return response.Created(c, "Complaint submitted successfully", fiber.Map{
		"complaint": complaint.ToResponse(),
	})
}

// List lists complaints for the caller's role
// @Summary List complaints
// @Description Students see their own complaints; staff see their assignment queue; admins see everything
// @Tags Complaints
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Param q query string false "Search text (admin only)"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /complaints [get]
func (h *ComplaintHandler) List(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(uint)
	role, _ := c.Locals("role").(string)

	switch domain.Role(role) {
	case domain.RoleAdmin:
		params := pagination.GetParams(c)
		search := pagination.GetSearch(c)

		complaints, total, err := h.complaintService.ListAll(c.Context(), params.Offset, params.Limit, search)
		if err != nil {
			return response.InternalServerError(c, "Failed to list complaints")
		}
		return response.Success(c, "Complaints retrieved",
			pagination.NewResponse(toResponses(complaints), params, total))

	case domain.RoleStaff:
		department, _ := c.Locals("department").(string)
		complaints, err := h.complaintService.ListForStaff(c.Context(), userID, department)
		if err != nil {
			return response.InternalServerError(c, "Failed to list complaints")
		}
		return response.Success(c, "Complaints retrieved", fiber.Map{
			"complaints": toResponses(complaints),
		})

	default:
		complaints, err := h.complaintService.ListForUser(c.Context(), userID)
		if err != nil {
			return response.InternalServerError(c, "Failed to list complaints")
		}
		return response.Success(c, "Complaints retrieved", fiber.Map{
			"complaints": toResponses(complaints),
		})
	}
}

// ListMine lists the caller's own complaints regardless of role
// @Summary List my complaints
// @Description List complaints filed by the authenticated user
// @Tags Complaints
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /complaints/my [get]
func (h *ComplaintHandler) ListMine(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(uint)

	complaints, err := h.complaintService.ListForUser(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list complaints")
	}
	return response.Success(c, "Complaints retrieved", fiber.Map{
		"complaints": toResponses(complaints),
	})
}

// ListAssigned lists the staff member's assignment queue
// @Summary List assigned complaints
// @Description List complaints assigned to the authenticated staff member
// @Tags Complaints
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /complaints/assigned [get]
func (h *ComplaintHandler) ListAssigned(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(uint)
	department, _ := c.Locals("department").(string)

	complaints, err := h.complaintService.ListForStaff(c.Context(), userID, department)
	if err != nil {
		return response.InternalServerError(c, "Failed to list complaints")
	}
	return response.Success(c, "Complaints retrieved", fiber.Map{
		"complaints": toResponses(complaints),
	})
}

// Get returns a single complaint
// @Summary Get complaint
// @Description Get a complaint by ID; students may only read their own
// @Tags Complaints
// @Produce json
// @Security BearerAuth
// @Param id path int true "Complaint ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /complaints/{id} [get]
func (h *ComplaintHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid complaint ID")
	}

	userID, _ := c.Locals("userID").(uint)
	role, _ := c.Locals("role").(string)

	complaint, err := h.complaintService.GetByID(c.Context(), id, userID, domain.Role(role))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrComplaintNotFound):
			return response.NotFound(c, "Complaint not found")
		case errors.Is(err, services.ErrNotComplaintOwner):
			return response.Forbidden(c, "You can only view your own complaints")
		default:
			return response.InternalServerError(c, "Failed to get complaint")
		}
	}

	return response.Success(c, "Complaint retrieved", fiber.Map{
		"complaint": complaint.ToResponse(),
	})
}

// Assign routes a complaint to a department and staff member
// @Summary Assign complaint
// @Description Assign a pending complaint to a department and staff member (Admin only)
// @Tags Complaints
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Complaint ID"
// @Param body body AssignRequest true "Assignment"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /complaints/{id}/assign [patch]
func (h *ComplaintHandler) Assign(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid complaint ID")
	}

	var req AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input := &services.AssignInput{
		Department: req.Department,
		StaffID:    req.StaffID,
	}

	complaint, err := h.complaintService.Assign(c.Context(), id, input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrComplaintNotFound):
			return response.NotFound(c, "Complaint not found")
		case errors.Is(err, services.ErrAssignmentIncomplete):
			return response.BadRequest(c, "Both department and staff must be selected")
		case errors.Is(err, services.ErrNotAssignable):
			return response.Conflict(c, "Only pending complaints can be assigned")
		case errors.Is(err, services.ErrStaffNotFound):
			return response.NotFound(c, "Staff member not found")
		default:
			return response.InternalServerError(c, "Failed to assign complaint")
		}
	}

	return response.Success(c, "Complaint assigned", fiber.Map{
		"complaint": complaint.ToResponse(),
	})
}

// UpdateStatus advances a complaint through its lifecycle
// @Summary Update complaint status
// @Description Move an assigned complaint one step forward in its lifecycle (Staff only)
// @Tags Complaints
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Complaint ID"
// @Param body body UpdateStatusRequest true "New status"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /complaints/{id}/status [patch]
func (h *ComplaintHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid complaint ID")
	}

	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	userID, _ := c.Locals("userID").(uint)

	complaint, err := h.complaintService.UpdateStatus(c.Context(), id, userID, domain.Status(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrComplaintNotFound):
			return response.NotFound(c, "Complaint not found")
		case errors.Is(err, domain.ErrInvalidStatus):
			return response.BadRequest(c, "Unknown status")
		case errors.Is(err, services.ErrNotAssignedStaff):
			return response.Forbidden(c, "Complaint is not assigned to you")
		case errors.Is(err, services.ErrBadTransition):
			return response.Conflict(c, "Status can only move forward through the lifecycle")
		default:
			return response.InternalServerError(c, "Failed to update status")
		}
	}

	return response.Success(c, "Status updated", fiber.Map{
		"complaint": complaint.ToResponse(),
	})
}

// UpdateRemarks sets staff remarks on a complaint
// @Summary Update complaint remarks
// @Description Set the staff note on an assigned complaint; the note is overwritten, not appended (Staff only)
// @Tags Complaints
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Complaint ID"
// @Param body body UpdateRemarksRequest true "Remarks"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /complaints/{id}/remarks [patch]
func (h *ComplaintHandler) UpdateRemarks(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid complaint ID")
	}

	var req UpdateRemarksRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	userID, _ := c.Locals("userID").(uint)

	complaint, err := h.complaintService.UpdateRemarks(c.Context(), id, userID, req.Remarks)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrComplaintNotFound):
			return response.NotFound(c, "Complaint not found")
		case errors.Is(err, services.ErrNotAssignedStaff):
			return response.Forbidden(c, "Complaint is not assigned to you")
		default:
			return response.InternalServerError(c, "Failed to update remarks")
		}
	}

	return response.Success(c, "Remarks updated", fiber.Map{
		"complaint": complaint.ToResponse(),
	})
}

// parseID parses the :id path parameter
func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// toResponses converts complaints to their response form
func toResponses(complaints []*models.Complaint) []*models.ComplaintResponse {
	responses := make([]*models.ComplaintResponse, len(complaints))
	for i, complaint := range complaints {
		responses[i] = complaint.ToResponse()
	}
	return responses
}
