package services

import (
	"context"
	"errors"
	"strings"

	"campus-complaintdesk/internal/adapters/persistence/models"
	"campus-complaintdesk/internal/adapters/persistence/repositories"
	"campus-complaintdesk/internal/core/domain"

	"gorm.io/gorm"
)

// Complaint service errors
var (
	ErrComplaintNotFound    = errors.New("complaint not found")
	ErrTitleRequired        = errors.New("title is required")
	ErrDescriptionRequired  = errors.New("description is required")
	ErrNotComplaintOwner    = errors.New("not the owner of this complaint")
	ErrNotAssignable        = errors.New("only pending complaints can be assigned")
	ErrAssignmentIncomplete = errors.New("both department and staff must be selected")
	ErrStaffNotFound        = errors.New("staff member not found")
	ErrNotAssignedStaff     = errors.New("complaint is not assigned to this staff member")
	ErrBadTransition        = errors.New("status can only move forward through the lifecycle")

	ErrAttachmentType       = errors.New("only JPG, JPEG, PNG, or WEBP images are allowed")
	ErrAttachmentTooLarge   = errors.New("image is too large; use an image smaller than 70KB")
	ErrAttachmentEncodedBig = errors.New("image is too large after encoding; use a smaller JPG/PNG image")
)

// Attachment limits. The raw image cap keeps records small enough for the
// store's payload limit once base64 encoding inflates them.
const (
	MaxImageSizeBytes  = 70 * 1024
	MaxDataURLBytes    = 90 * 1024
	ServerPayloadBytes = 100 * 1024
)

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/webp", "image/jpg"}
var allowedImageExtensions = []string{".jpg", ".jpeg", ".png", ".webp"}

// ComplaintService handles complaint business logic
type ComplaintService struct {
	complaintRepo repositories.ComplaintRepository
	userRepo      repositories.UserRepository
}

// NewComplaintService creates a new complaint service
func NewComplaintService(
	complaintRepo repositories.ComplaintRepository,
	userRepo repositories.UserRepository,
) *ComplaintService {
	return &ComplaintService{
		complaintRepo: complaintRepo,
		userRepo:      userRepo,
	}
}

// CreateComplaintInput represents create complaint input
type CreateComplaintInput struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Category    string             `json:"category"`
	Attachment  *models.Attachment `json:"attachment,omitempty"`
}

// Create files a new complaint for a student. Status is always pending and
// the creation timestamp is assigned by the store.
func (s *ComplaintService) Create(ctx context.Context, input *CreateComplaintInput, userID uint) (*models.Complaint, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, ErrDescriptionRequired
	}

	category := strings.TrimSpace(input.Category)
	if category == "" {
		category = "General"
	}

	if input.Attachment != nil {
		if err := ValidateAttachment(input.Attachment); err != nil {
			return nil, err
		}
	}

	complaint := &models.Complaint{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Category:    category,
		Status:      string(domain.StatusPending),
		Attachment:  input.Attachment,
		UserID:      userID,
	}

	if err := s.complaintRepo.Create(ctx, complaint); err != nil {
		return nil, err
	}

	return complaint, nil
}

// ValidateAttachment enforces the inline-image constraints: permitted image
// types (by declared mime or file extension) and the raw/encoded size caps.
func ValidateAttachment(att *models.Attachment) error {
	mimeType := strings.ToLower(strings.TrimSpace(att.MimeType))
	fileName := strings.ToLower(strings.TrimSpace(att.FileName))

	typeOK := false
	for _, allowed := range allowedImageTypes {
		if mimeType == allowed {
			typeOK = true
			break
		}
	}
	extOK := false
	for _, ext := range allowedImageExtensions {
		if strings.HasSuffix(fileName, ext) {
			extOK = true
			break
		}
	}
	if !typeOK && !extOK {
		return ErrAttachmentType
	}

	if att.Size > MaxImageSizeBytes {
		return ErrAttachmentTooLarge
	}
	if len(att.DataURL) > MaxDataURLBytes {
		return ErrAttachmentEncodedBig
	}
	return nil
}

// GetByID returns a single complaint. Students may only read their own;
// staff and admin may read any.
func (s *ComplaintService) GetByID(ctx context.Context, id uint, requesterID uint, role domain.Role) (*models.Complaint, error) {
	complaint, err := s.complaintRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrComplaintNotFound
		}
		return nil, err
	}

	if role == domain.RoleStudent && complaint.UserID != requesterID {
		return nil, ErrNotComplaintOwner
	}
	return complaint, nil
}

// ListForUser returns a student's own complaints, newest first.
func (s *ComplaintService) ListForUser(ctx context.Context, userID uint) ([]*models.Complaint, error) {
	return s.complaintRepo.ListByUser(ctx, userID)
}

// ListAll returns the whole collection with pagination and search (admin).
func (s *ComplaintService) ListAll(ctx context.Context, offset, limit int, search string) ([]*models.Complaint, int64, error) {
	return s.complaintRepo.List(ctx, offset, limit, search)
}

// ListForStaff returns the complaints visible to a staff member. A direct
// assigned-staff match is authoritative. Records that carry some other
// staff's ID are excluded outright. Records with no assigned staff at all
// fall back to matching the staff department against the complaint's
// assigned department or category; these predate per-staff assignment and
// only exist for older data.
func (s *ComplaintService) ListForStaff(ctx context.Context, staffID uint, department string) ([]*models.Complaint, error) {
	all, err := s.complaintRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	dept := normalize(department)
	var visible []*models.Complaint
	for _, complaint := range all {
		if complaint.AssignedStaffID != nil {
			if *complaint.AssignedStaffID == staffID {
				visible = append(visible, complaint)
			}
			continue
		}
		if dept == "" {
			continue
		}
		if normalize(complaint.AssignedDepartment) == dept || normalize(complaint.Category) == dept {
			visible = append(visible, complaint)
		}
	}
	return visible, nil
}

// AssignInput represents the admin assignment action
type AssignInput struct {
	Department string `json:"department"`
	StaffID    uint   `json:"staff_id"`
}

// Assign routes a pending complaint to a department and staff member. Both
// must be selected together; the staff name is resolved and denormalized
// onto the record, and the status advances to assigned.
func (s *ComplaintService) Assign(ctx context.Context, id uint, input *AssignInput) (*models.Complaint, error) {
	if strings.TrimSpace(input.Department) == "" || input.StaffID == 0 {
		return nil, ErrAssignmentIncomplete
	}

	complaint, err := s.complaintRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrComplaintNotFound
		}
		return nil, err
	}

	// "new" appears on records imported from before the lifecycle settled.
	status := normalize(complaint.Status)
	if status != string(domain.StatusPending) && status != "new" {
		return nil, ErrNotAssignable
	}

	staff, err := s.userRepo.GetByID(ctx, input.StaffID)
	if err != nil || domain.Role(staff.Role) != domain.RoleStaff {
		return nil, ErrStaffNotFound
	}

	fields := map[string]interface{}{
		"assigned_department": strings.TrimSpace(input.Department),
		"assigned_staff_id":   staff.ID,
		"assigned_staff_name": staff.Name,
		"status":              string(domain.StatusAssigned),
	}
	if err := s.complaintRepo.UpdateFields(ctx, id, fields); err != nil {
		return nil, err
	}

	return s.complaintRepo.GetByID(ctx, id)
}

// UpdateStatus advances a complaint through its lifecycle on behalf of the
// staff member it is assigned to. Transitions are forward-only, one step at
// a time; skipping or reversing is rejected.
func (s *ComplaintService) UpdateStatus(ctx context.Context, id uint, staffID uint, next domain.Status) (*models.Complaint, error) {
	if !next.Valid() {
		return nil, domain.ErrInvalidStatus
	}

	complaint, err := s.complaintRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrComplaintNotFound
		}
		return nil, err
	}

	if complaint.AssignedStaffID == nil || *complaint.AssignedStaffID != staffID {
		return nil, ErrNotAssignedStaff
	}

	if !complaint.LifecycleStatus().CanTransitionTo(next) {
		return nil, ErrBadTransition
	}

	fields := map[string]interface{}{"status": string(next)}
	if err := s.complaintRepo.UpdateFields(ctx, id, fields); err != nil {
		return nil, err
	}

	return s.complaintRepo.GetByID(ctx, id)
}

// UpdateRemarks sets the staff remarks on a complaint. The field is a single
// note that is overwritten, not appended.
func (s *ComplaintService) UpdateRemarks(ctx context.Context, id uint, staffID uint, remarks string) (*models.Complaint, error) {
	complaint, err := s.complaintRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrComplaintNotFound
		}
		return nil, err
	}

	if complaint.AssignedStaffID == nil || *complaint.AssignedStaffID != staffID {
		return nil, ErrNotAssignedStaff
	}

	fields := map[string]interface{}{"remarks": strings.TrimSpace(remarks)}
	if err := s.complaintRepo.UpdateFields(ctx, id, fields); err != nil {
		return nil, err
	}

	return s.complaintRepo.GetByID(ctx, id)
}

// normalize lowercases and trims a value for case-insensitive comparison.
func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
