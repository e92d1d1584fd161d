package services

import (
	"context"
	"strings"
	"testing"

	"campus-complaintdesk/internal/adapters/persistence/models"
	"campus-complaintdesk/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// mockComplaintRepo mocks the complaint repository
type mockComplaintRepo struct {
	mock.Mock
}

func (m *mockComplaintRepo) Create(ctx context.Context, complaint *models.Complaint) error {
	args := m.Called(ctx, complaint)
	return args.Error(0)
}

func (m *mockComplaintRepo) GetByID(ctx context.Context, id uint) (*models.Complaint, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Complaint), args.Error(1)
}

func (m *mockComplaintRepo) ListAll(ctx context.Context) ([]*models.Complaint, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Complaint), args.Error(1)
}

func (m *mockComplaintRepo) ListByUser(ctx context.Context, userID uint) ([]*models.Complaint, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Complaint), args.Error(1)
}

func (m *mockComplaintRepo) List(ctx context.Context, offset, limit int, search string) ([]*models.Complaint, int64, error) {
	args := m.Called(ctx, offset, limit, search)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.Complaint), args.Get(1).(int64), args.Error(2)
}

func (m *mockComplaintRepo) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *mockComplaintRepo) CountByStatus(ctx context.Context, status string) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

// mockUserRepo mocks the user repository
type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserRepo) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepo) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockUserRepo) List(ctx context.Context, offset, limit int) ([]*models.User, int64, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.User), args.Get(1).(int64), args.Error(2)
}

func (m *mockUserRepo) ListByRole(ctx context.Context, role string) ([]*models.User, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func newComplaintService() (*ComplaintService, *mockComplaintRepo, *mockUserRepo) {
	complaintRepo := new(mockComplaintRepo)
	userRepo := new(mockUserRepo)
	return NewComplaintService(complaintRepo, userRepo), complaintRepo, userRepo
}

func uintPtr(v uint) *uint { return &v }

func TestCreateForcesPendingStatus(t *testing.T) {
	svc, complaintRepo, _ := newComplaintService()

	complaintRepo.On("Create", mock.Anything, mock.MatchedBy(func(c *models.Complaint) bool {
		return c.Status == "pending" && c.UserID == 7
	})).Return(nil)

	complaint, err := svc.Create(context.Background(), &CreateComplaintInput{
		Title:       "Broken heater",
		Description: "Room 12 heater has been out for a week",
		Category:    "Hostel",
	}, 7)

	require.NoError(t, err)
	assert.Equal(t, "pending", complaint.Status)
	complaintRepo.AssertExpectations(t)
}

func TestCreateRequiresTitleAndDescription(t *testing.T) {
	svc, _, _ := newComplaintService()

	_, err := svc.Create(context.Background(), &CreateComplaintInput{
		Title:       "   ",
		Description: "something",
	}, 1)
	assert.ErrorIs(t, err, ErrTitleRequired)

	_, err = svc.Create(context.Background(), &CreateComplaintInput{
		Title:       "something",
		Description: "",
	}, 1)
	assert.ErrorIs(t, err, ErrDescriptionRequired)
}

func TestCreateDefaultsCategory(t *testing.T) {
	svc, complaintRepo, _ := newComplaintService()

	complaintRepo.On("Create", mock.Anything, mock.MatchedBy(func(c *models.Complaint) bool {
		return c.Category == "General"
	})).Return(nil)

	_, err := svc.Create(context.Background(), &CreateComplaintInput{
		Title:       "No water",
		Description: "Block C has had no water since morning",
	}, 3)

	require.NoError(t, err)
	complaintRepo.AssertExpectations(t)
}

func TestAttachmentValidation(t *testing.T) {
	tests := []struct {
		name    string
		att     models.Attachment
		wantErr error
	}{
		{
			name: "valid png",
			att:  models.Attachment{FileName: "leak.png", MimeType: "image/png", Size: 1024, DataURL: "data:image/png;base64,AAAA"},
		},
		{
			name: "extension accepted when mime missing",
			att:  models.Attachment{FileName: "photo.JPG", Size: 2048, DataURL: "data:;base64,AAAA"},
		},
		{
			name:    "pdf rejected",
			att:     models.Attachment{FileName: "scan.pdf", MimeType: "application/pdf", Size: 1024},
			wantErr: ErrAttachmentType,
		},
		{
			name:    "raw size over cap",
			att:     models.Attachment{FileName: "big.png", MimeType: "image/png", Size: MaxImageSizeBytes + 1},
			wantErr: ErrAttachmentTooLarge,
		},
		{
			name: "encoded size over cap",
			att: models.Attachment{
				FileName: "dense.png",
				MimeType: "image/png",
				Size:     1024,
				DataURL:  "data:image/png;base64," + strings.Repeat("A", MaxDataURLBytes),
			},
			wantErr: ErrAttachmentEncodedBig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAttachment(&tt.att)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAssignRequiresDepartmentAndStaff(t *testing.T) {
	svc, _, _ := newComplaintService()

	_, err := svc.Assign(context.Background(), 1, &AssignInput{Department: "", StaffID: 2})
	assert.ErrorIs(t, err, ErrAssignmentIncomplete)

	_, err = svc.Assign(context.Background(), 1, &AssignInput{Department: "Hostel", StaffID: 0})
	assert.ErrorIs(t, err, ErrAssignmentIncomplete)
}

func TestAssignOnlyPendingComplaints(t *testing.T) {
	svc, complaintRepo, _ := newComplaintService()

	complaintRepo.On("GetByID", mock.Anything, uint(1)).Return(&models.Complaint{
		ID:     1,
		Status: "in-progress",
	}, nil)

	_, err := svc.Assign(context.Background(), 1, &AssignInput{Department: "Hostel", StaffID: 2})
	assert.ErrorIs(t, err, ErrNotAssignable)
}

func TestAssignDenormalizesStaffName(t *testing.T) {
	svc, complaintRepo, userRepo := newComplaintService()

	pending := &models.Complaint{ID: 1, Status: "pending"}
	assigned := &models.Complaint{
		ID: 1, Status: "assigned",
		AssignedDepartment: "Hostel",
		AssignedStaffID:    uintPtr(2),
		AssignedStaffName:  "Hostel Warden",
	}

	complaintRepo.On("GetByID", mock.Anything, uint(1)).Return(pending, nil).Once()
	userRepo.On("GetByID", mock.Anything, uint(2)).Return(&models.User{
		ID: 2, Name: "Hostel Warden", Role: "staff", Department: "Hostel",
	}, nil)
	complaintRepo.On("UpdateFields", mock.Anything, uint(1), mock.MatchedBy(func(fields map[string]interface{}) bool {
		return fields["status"] == "assigned" &&
			fields["assigned_staff_name"] == "Hostel Warden" &&
			fields["assigned_department"] == "Hostel"
	})).Return(nil)
	complaintRepo.On("GetByID", mock.Anything, uint(1)).Return(assigned, nil).Once()

	result, err := svc.Assign(context.Background(), 1, &AssignInput{Department: "Hostel", StaffID: 2})

	require.NoError(t, err)
	assert.Equal(t, "assigned", result.Status)
	assert.Equal(t, "Hostel Warden", result.AssignedStaffName)
	complaintRepo.AssertExpectations(t)
	userRepo.AssertExpectations(t)
}

func TestAssignRejectsNonStaffTarget(t *testing.T) {
	svc, complaintRepo, userRepo := newComplaintService()

	complaintRepo.On("GetByID", mock.Anything, uint(1)).Return(&models.Complaint{ID: 1, Status: "pending"}, nil)
	userRepo.On("GetByID", mock.Anything, uint(9)).Return(&models.User{ID: 9, Role: "student"}, nil)

	_, err := svc.Assign(context.Background(), 1, &AssignInput{Department: "IT", StaffID: 9})
	assert.ErrorIs(t, err, ErrStaffNotFound)
}

func TestUpdateStatusForwardOnly(t *testing.T) {
	svc, complaintRepo, _ := newComplaintService()

	complaintRepo.On("GetByID", mock.Anything, uint(1)).Return(&models.Complaint{
		ID:              1,
		Status:          "assigned",
		AssignedStaffID: uintPtr(2),
	}, nil)

	// assigned -> resolved skips in-progress
	_, err := svc.UpdateStatus(context.Background(), 1, 2, domain.StatusResolved)
	assert.ErrorIs(t, err, ErrBadTransition)

	// assigned -> pending reverses
	_, err = svc.UpdateStatus(context.Background(), 1, 2, domain.StatusPending)
	assert.ErrorIs(t, err, ErrBadTransition)
}

func TestUpdateStatusRequiresAssignedStaff(t *testing.T) {
	svc, complaintRepo, _ := newComplaintService()

	complaintRepo.On("GetByID", mock.Anything, uint(1)).Return(&models.Complaint{
		ID:              1,
		Status:          "assigned",
		AssignedStaffID: uintPtr(2),
	}, nil)

	_, err := svc.UpdateStatus(context.Background(), 1, 99, domain.StatusInProgress)
	assert.ErrorIs(t, err, ErrNotAssignedStaff)
}

func TestUpdateStatusAdvancesOneStep(t *testing.T) {
	svc, complaintRepo, _ := newComplaintService()

	current := &models.Complaint{ID: 1, Status: "assigned", AssignedStaffID: uintPtr(2)}
	updated := &models.Complaint{ID: 1, Status: "in-progress", AssignedStaffID: uintPtr(2)}

	complaintRepo.On("GetByID", mock.Anything, uint(1)).Return(current, nil).Once()
	complaintRepo.On("UpdateFields", mock.Anything, uint(1), map[string]interface{}{"status": "in-progress"}).Return(nil)
	complaintRepo.On("GetByID", mock.Anything, uint(1)).Return(updated, nil).Once()

	result, err := svc.UpdateStatus(context.Background(), 1, 2, domain.StatusInProgress)

	require.NoError(t, err)
	assert.Equal(t, "in-progress", result.Status)
	complaintRepo.AssertExpectations(t)
}

func TestGetByIDStudentAccessControl(t *testing.T) {
	svc, complaintRepo, _ := newComplaintService()

	complaintRepo.On("GetByID", mock.Anything, uint(1)).Return(&models.Complaint{ID: 1, UserID: 5}, nil)

	// Owner can read
	_, err := svc.GetByID(context.Background(), 1, 5, domain.RoleStudent)
	assert.NoError(t, err)

	// Another student cannot
	_, err = svc.GetByID(context.Background(), 1, 6, domain.RoleStudent)
	assert.ErrorIs(t, err, ErrNotComplaintOwner)

	// Admin can read anything
	_, err = svc.GetByID(context.Background(), 1, 6, domain.RoleAdmin)
	assert.NoError(t, err)
}

func TestGetByIDNotFound(t *testing.T) {
	svc, complaintRepo, _ := newComplaintService()

	complaintRepo.On("GetByID", mock.Anything, uint(404)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.GetByID(context.Background(), 404, 1, domain.RoleAdmin)
	assert.ErrorIs(t, err, ErrComplaintNotFound)
}

func TestListForStaffVisibility(t *testing.T) {
	svc, complaintRepo, _ := newComplaintService()

	all := []*models.Complaint{
		// Directly assigned to staff 2
		{ID: 1, AssignedStaffID: uintPtr(2), AssignedDepartment: "Hostel"},
		// Assigned to someone else; excluded even though department matches
		{ID: 2, AssignedStaffID: uintPtr(3), AssignedDepartment: "Hostel"},
		// Legacy record with no staff ID; department match applies
		{ID: 3, AssignedDepartment: "Hostel"},
		// Legacy record; category match applies
		{ID: 4, Category: "hostel"},
		// Legacy record in another department
		{ID: 5, AssignedDepartment: "IT"},
	}
	complaintRepo.On("ListAll", mock.Anything).Return(all, nil)

	visible, err := svc.ListForStaff(context.Background(), 2, "Hostel")

	require.NoError(t, err)
	ids := make([]uint, len(visible))
	for i, c := range visible {
		ids[i] = c.ID
	}
	assert.Equal(t, []uint{1, 3, 4}, ids)
}

func TestListForStaffNoDepartmentFallback(t *testing.T) {
	svc, complaintRepo, _ := newComplaintService()

	all := []*models.Complaint{
		{ID: 1, AssignedStaffID: uintPtr(2)},
		{ID: 2, AssignedDepartment: "Hostel"},
	}
	complaintRepo.On("ListAll", mock.Anything).Return(all, nil)

	// Staff with no department only sees direct assignments
	visible, err := svc.ListForStaff(context.Background(), 2, "")

	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, uint(1), visible[0].ID)
}

func TestUpdateRemarksOverwrites(t *testing.T) {
	svc, complaintRepo, _ := newComplaintService()

	current := &models.Complaint{ID: 1, Status: "in-progress", AssignedStaffID: uintPtr(2), Remarks: "old note"}
	updated := &models.Complaint{ID: 1, Status: "in-progress", AssignedStaffID: uintPtr(2), Remarks: "new note"}

	complaintRepo.On("GetByID", mock.Anything, uint(1)).Return(current, nil).Once()
	complaintRepo.On("UpdateFields", mock.Anything, uint(1), map[string]interface{}{"remarks": "new note"}).Return(nil)
	complaintRepo.On("GetByID", mock.Anything, uint(1)).Return(updated, nil).Once()

	result, err := svc.UpdateRemarks(context.Background(), 1, 2, "  new note  ")

	require.NoError(t, err)
	assert.Equal(t, "new note", result.Remarks)
	complaintRepo.AssertExpectations(t)
}
