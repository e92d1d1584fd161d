package services

import (
	"context"
	"testing"

	"campus-complaintdesk/internal/adapters/persistence/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestCreateStaffRequiresDepartment(t *testing.T) {
	svc := NewUserService(new(mockUserRepo))

	_, err := svc.CreateStaff(context.Background(), &CreateStaffInput{
		Name:     "New Staff",
		Email:    "staff@campus.edu",
		Password: "staff123456",
	})
	assert.ErrorIs(t, err, ErrDepartmentRequired)
}

func TestCreateStaffRejectsWeakPassword(t *testing.T) {
	svc := NewUserService(new(mockUserRepo))

	_, err := svc.CreateStaff(context.Background(), &CreateStaffInput{
		Name:       "New Staff",
		Email:      "staff@campus.edu",
		Password:   "short",
		Department: "IT",
	})
	assert.ErrorIs(t, err, ErrWeakPassword)
}

func TestCreateStaffRejectsDuplicateEmail(t *testing.T) {
	userRepo := new(mockUserRepo)
	svc := NewUserService(userRepo)

	userRepo.On("ExistsByEmail", mock.Anything, "staff@campus.edu").Return(true, nil)

	_, err := svc.CreateStaff(context.Background(), &CreateStaffInput{
		Name:       "New Staff",
		Email:      "staff@campus.edu",
		Password:   "staff123456",
		Department: "IT",
	})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestCreateStaffNormalizesEmail(t *testing.T) {
	userRepo := new(mockUserRepo)
	svc := NewUserService(userRepo)

	userRepo.On("ExistsByEmail", mock.Anything, "  Warden@Campus.EDU ").Return(false, nil)
	userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Email == "warden@campus.edu" && u.Role == "staff" && u.Department == "Hostel" && u.IsActive
	})).Return(nil)

	created, err := svc.CreateStaff(context.Background(), &CreateStaffInput{
		Name:       "Hostel Warden",
		Email:      "  Warden@Campus.EDU ",
		Password:   "staff123456",
		Department: "Hostel",
	})

	require.NoError(t, err)
	assert.Equal(t, "warden@campus.edu", created.Email)
	userRepo.AssertExpectations(t)
}

func TestUpdateUserAdminCannotChangeOwnRole(t *testing.T) {
	userRepo := new(mockUserRepo)
	svc := NewUserService(userRepo)

	userRepo.On("GetByID", mock.Anything, uint(1)).Return(&models.User{ID: 1, Role: "admin"}, nil)

	_, err := svc.UpdateUserByAdmin(context.Background(), 1, 1, &UpdateUserByAdminInput{
		Role: strPtr("student"),
	})
	assert.ErrorIs(t, err, ErrCannotChangeOwnRole)
}

func TestUpdateUserStaffMustKeepDepartment(t *testing.T) {
	userRepo := new(mockUserRepo)
	svc := NewUserService(userRepo)

	userRepo.On("GetByID", mock.Anything, uint(2)).Return(&models.User{
		ID: 2, Role: "staff", Department: "IT",
	}, nil)

	_, err := svc.UpdateUserByAdmin(context.Background(), 2, 1, &UpdateUserByAdminInput{
		Department: strPtr("   "),
	})
	assert.ErrorIs(t, err, ErrDepartmentRequired)
}

func TestUpdateUserRejectsUnknownRole(t *testing.T) {
	userRepo := new(mockUserRepo)
	svc := NewUserService(userRepo)

	userRepo.On("GetByID", mock.Anything, uint(2)).Return(&models.User{ID: 2, Role: "student"}, nil)

	_, err := svc.UpdateUserByAdmin(context.Background(), 2, 1, &UpdateUserByAdminInput{
		Role: strPtr("superadmin"),
	})
	assert.Error(t, err)
}

func TestDeleteUserSelfGuard(t *testing.T) {
	svc := NewUserService(new(mockUserRepo))

	err := svc.DeleteUser(context.Background(), 1, 1)
	assert.ErrorIs(t, err, ErrCannotDeleteSelf)
}

func TestListUsersClampsPagination(t *testing.T) {
	userRepo := new(mockUserRepo)
	svc := NewUserService(userRepo)

	userRepo.On("List", mock.Anything, 0, 10).Return([]*models.User{}, int64(0), nil).Once()
	out, err := svc.ListUsers(context.Background(), &ListUsersInput{Page: 0, Limit: 0})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Page)
	assert.Equal(t, 10, out.Limit)

	userRepo.On("List", mock.Anything, 0, 100).Return([]*models.User{}, int64(0), nil).Once()
	out, err = svc.ListUsers(context.Background(), &ListUsersInput{Page: 1, Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, 100, out.Limit)
}
