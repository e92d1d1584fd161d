package services

import (
	"context"
	"math"
	"time"

	"gorm.io/gorm"
)

// DashboardService handles dashboard operations
type DashboardService struct {
	db *gorm.DB
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

// ============================================================
// Admin Dashboard
// ============================================================

// AdminDashboardData represents admin dashboard data
type AdminDashboardData struct {
	// User Statistics
	TotalUsers    int64 `json:"total_users"`
	TotalStudents int64 `json:"total_students"`
	TotalStaff    int64 `json:"total_staff"`
	TotalAdmins   int64 `json:"total_admins"`

	// Complaint Statistics
	TotalComplaints      int64 `json:"total_complaints"`
	PendingComplaints    int64 `json:"pending_complaints"`
	AssignedComplaints   int64 `json:"assigned_complaints"`
	InProgressComplaints int64 `json:"in_progress_complaints"`
	ResolvedComplaints   int64 `json:"resolved_complaints"`

	// ResolutionRate is the percentage of complaints resolved, rounded to
	// the nearest whole number. Zero when there are no complaints.
	ResolutionRate int `json:"resolution_rate"`

	// Monthly Statistics
	ComplaintsThisMonth int64 `json:"complaints_this_month"`

	// Category Breakdown
	TopCategories []CategoryStats `json:"top_categories"`

	// Recent Activity
	RecentComplaints []ComplaintSummary `json:"recent_complaints"`

	// Staff Workload
	StaffWorkload []StaffStats `json:"staff_workload"`
}

// CategoryStats represents per-category complaint counts
type CategoryStats struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
	Percent  int    `json:"percent"`
}

// ComplaintSummary represents complaint summary
type ComplaintSummary struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Category  string    `json:"category"`
	Status    string    `json:"status"`
	OwnerName string    `json:"ownerName"`
	CreatedAt time.Time `json:"createdAt"`
}

// StaffStats represents staff workload statistics
type StaffStats struct {
	StaffID    uint   `json:"staff_id"`
	Name       string `json:"name"`
	Department string `json:"department"`
	TotalCases int64  `json:"total_cases"`
	InProgress int64  `json:"in_progress"`
	Resolved   int64  `json:"resolved"`
}

// GetAdminDashboard returns admin dashboard data
func (s *DashboardService) GetAdminDashboard(ctx context.Context) (*AdminDashboardData, error) {
	data := &AdminDashboardData{}

	// User counts by role
	s.db.WithContext(ctx).Table("users").Where("deleted_at IS NULL").Count(&data.TotalUsers)
	s.db.WithContext(ctx).Table("users").Where("role = ? AND deleted_at IS NULL", "student").Count(&data.TotalStudents)
	s.db.WithContext(ctx).Table("users").Where("role = ? AND deleted_at IS NULL", "staff").Count(&data.TotalStaff)
	s.db.WithContext(ctx).Table("users").Where("role = ? AND deleted_at IS NULL", "admin").Count(&data.TotalAdmins)

	// Complaint counts by status
	s.db.WithContext(ctx).Table("complaints").Where("deleted_at IS NULL").Count(&data.TotalComplaints)
	s.db.WithContext(ctx).Table("complaints").Where("status = ? AND deleted_at IS NULL", "pending").Count(&data.PendingComplaints)
	s.db.WithContext(ctx).Table("complaints").Where("status = ? AND deleted_at IS NULL", "assigned").Count(&data.AssignedComplaints)
	s.db.WithContext(ctx).Table("complaints").Where("status = ? AND deleted_at IS NULL", "in-progress").Count(&data.InProgressComplaints)
	s.db.WithContext(ctx).Table("complaints").Where("status = ? AND deleted_at IS NULL", "resolved").Count(&data.ResolvedComplaints)

	data.ResolutionRate = ResolutionRate(data.ResolvedComplaints, data.TotalComplaints)

	// This month statistics
	startOfMonth := time.Now().AddDate(0, 0, -time.Now().Day()+1).Truncate(24 * time.Hour)
	s.db.WithContext(ctx).Table("complaints").
		Where("created_at >= ? AND deleted_at IS NULL", startOfMonth).
		Count(&data.ComplaintsThisMonth)

	// Category breakdown
	var categories []struct {
		Category string
		Count    int64
	}
	s.db.WithContext(ctx).Table("complaints").
		Select("category, COUNT(*) as count").
		Where("deleted_at IS NULL").
		Group("category").
		Order("count DESC").
		Limit(4).
		Scan(&categories)

	data.TopCategories = make([]CategoryStats, len(categories))
	for i, c := range categories {
		data.TopCategories[i] = CategoryStats{
			Category: c.Category,
			Count:    c.Count,
			Percent:  CategoryPercent(c.Count, data.TotalComplaints),
		}
	}

	// Recent complaints
	var recent []struct {
		ID        uint
		Title     string
		Category  string
		Status    string
		OwnerName string
		CreatedAt time.Time
	}
	s.db.WithContext(ctx).Table("complaints").
		Select("complaints.id, complaints.title, complaints.category, complaints.status, users.name as owner_name, complaints.created_at").
		Joins("LEFT JOIN users ON complaints.user_id = users.id").
		Where("complaints.deleted_at IS NULL").
		Order("complaints.created_at DESC").
		Limit(6).
		Scan(&recent)

	data.RecentComplaints = make([]ComplaintSummary, len(recent))
	for i, c := range recent {
		data.RecentComplaints[i] = ComplaintSummary{
			ID:        c.ID,
			Title:     c.Title,
			Category:  c.Category,
			Status:    c.Status,
			OwnerName: c.OwnerName,
			CreatedAt: c.CreatedAt,
		}
	}

	// Staff workload
	var workload []struct {
		StaffID    uint
		Name       string
		Department string
		TotalCases int64
		InProgress int64
		Resolved   int64
	}
	s.db.WithContext(ctx).Table("complaints").
		Select(`
			complaints.assigned_staff_id as staff_id,
			users.name,
			users.department,
			COUNT(*) as total_cases,
			SUM(CASE WHEN complaints.status = 'in-progress' THEN 1 ELSE 0 END) as in_progress,
			SUM(CASE WHEN complaints.status = 'resolved' THEN 1 ELSE 0 END) as resolved
		`).
		Joins("LEFT JOIN users ON complaints.assigned_staff_id = users.id").
		Where("complaints.deleted_at IS NULL AND complaints.assigned_staff_id IS NOT NULL").
		Group("complaints.assigned_staff_id, users.name, users.department").
		Order("total_cases DESC").
		Limit(5).
		Scan(&workload)

	data.StaffWorkload = make([]StaffStats, len(workload))
	for i, w := range workload {
		data.StaffWorkload[i] = StaffStats{
			StaffID:    w.StaffID,
			Name:       w.Name,
			Department: w.Department,
			TotalCases: w.TotalCases,
			InProgress: w.InProgress,
			Resolved:   w.Resolved,
		}
	}

	return data, nil
}

// ============================================================
// Staff Dashboard
// ============================================================

// StaffDashboardData represents staff dashboard data
type StaffDashboardData struct {
	// My Queue
	TotalAssigned int64 `json:"total_assigned"`
	ActiveCases   int64 `json:"active_cases"`
	InProgress    int64 `json:"in_progress"`
	Resolved      int64 `json:"resolved"`

	// Pending Actions
	OpenComplaints []ComplaintSummary `json:"open_complaints"`
}

// GetStaffDashboard returns staff dashboard data
func (s *DashboardService) GetStaffDashboard(ctx context.Context, staffID uint) (*StaffDashboardData, error) {
	data := &StaffDashboardData{}

	// My statistics
	s.db.WithContext(ctx).Table("complaints").
		Where("assigned_staff_id = ? AND deleted_at IS NULL", staffID).
		Count(&data.TotalAssigned)

	s.db.WithContext(ctx).Table("complaints").
		Where("assigned_staff_id = ? AND status <> ? AND deleted_at IS NULL", staffID, "resolved").
		Count(&data.ActiveCases)

	s.db.WithContext(ctx).Table("complaints").
		Where("assigned_staff_id = ? AND status = ? AND deleted_at IS NULL", staffID, "in-progress").
		Count(&data.InProgress)

	s.db.WithContext(ctx).Table("complaints").
		Where("assigned_staff_id = ? AND status = ? AND deleted_at IS NULL", staffID, "resolved").
		Count(&data.Resolved)

	// Oldest open cases first
	var open []struct {
		ID        uint
		Title     string
		Category  string
		Status    string
		OwnerName string
		CreatedAt time.Time
	}
	s.db.WithContext(ctx).Table("complaints").
		Select("complaints.id, complaints.title, complaints.category, complaints.status, users.name as owner_name, complaints.created_at").
		Joins("LEFT JOIN users ON complaints.user_id = users.id").
		Where("complaints.assigned_staff_id = ? AND complaints.status <> ? AND complaints.deleted_at IS NULL", staffID, "resolved").
		Order("complaints.created_at ASC").
		Limit(10).
		Scan(&open)

	data.OpenComplaints = make([]ComplaintSummary, len(open))
	for i, c := range open {
		data.OpenComplaints[i] = ComplaintSummary{
			ID:        c.ID,
			Title:     c.Title,
			Category:  c.Category,
			Status:    c.Status,
			OwnerName: c.OwnerName,
			CreatedAt: c.CreatedAt,
		}
	}

	return data, nil
}

// ============================================================
// Student Dashboard
// ============================================================

// StudentDashboardData represents student dashboard data
type StudentDashboardData struct {
	TotalComplaints int64 `json:"total_complaints"`
	OpenComplaints  int64 `json:"open_complaints"`
	Resolved        int64 `json:"resolved"`
}

// GetStudentDashboard returns student dashboard data
func (s *DashboardService) GetStudentDashboard(ctx context.Context, userID uint) (*StudentDashboardData, error) {
	data := &StudentDashboardData{}

	s.db.WithContext(ctx).Table("complaints").
		Where("user_id = ? AND deleted_at IS NULL", userID).
		Count(&data.TotalComplaints)

	s.db.WithContext(ctx).Table("complaints").
		Where("user_id = ? AND status <> ? AND deleted_at IS NULL", userID, "resolved").
		Count(&data.OpenComplaints)

	s.db.WithContext(ctx).Table("complaints").
		Where("user_id = ? AND status = ? AND deleted_at IS NULL", userID, "resolved").
		Count(&data.Resolved)

	return data, nil
}

// ============================================================
// Aggregation helpers
// ============================================================

// ResolutionRate returns the resolved percentage rounded to the nearest
// whole number, or zero when total is zero.
func ResolutionRate(resolved, total int64) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(resolved) / float64(total) * 100))
}

// CategoryPercent returns a category's share of the total as a rounded
// percentage, or zero when total is zero.
func CategoryPercent(count, total int64) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(count) / float64(total) * 100))
}
