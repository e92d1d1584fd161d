package repositories

import (
	"context"

	"campus-complaintdesk/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// complaintRepository implements ComplaintRepository interface
type complaintRepository struct {
	db *gorm.DB
}

// NewComplaintRepository creates a new complaint repository
func NewComplaintRepository(db *gorm.DB) ComplaintRepository {
	return &complaintRepository{db: db}
}

// Create creates a new complaint; the store assigns the ID
func (r *complaintRepository) Create(ctx context.Context, complaint *models.Complaint) error {
	return r.db.WithContext(ctx).Create(complaint).Error
}

// GetByID gets a complaint by ID with its owner preloaded
func (r *complaintRepository) GetByID(ctx context.Context, id uint) (*models.Complaint, error) {
	var complaint models.Complaint
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Where("id = ?", id).
		First(&complaint).Error
	if err != nil {
		return nil, err
	}
	return &complaint, nil
}

// ListAll returns the entire collection, newest first
func (r *complaintRepository) ListAll(ctx context.Context) ([]*models.Complaint, error) {
	var complaints []*models.Complaint
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&complaints).Error
	if err != nil {
		return nil, err
	}
	return complaints, nil
}

// ListByUser returns all complaints owned by a user, newest first
func (r *complaintRepository) ListByUser(ctx context.Context, userID uint) ([]*models.Complaint, error) {
	var complaints []*models.Complaint
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&complaints).Error
	if err != nil {
		return nil, err
	}
	return complaints, nil
}

// List lists complaints with pagination and optional free-text search across
// the fields the admin console filters on
func (r *complaintRepository) List(ctx context.Context, offset, limit int, search string) ([]*models.Complaint, int64, error) {
	var complaints []*models.Complaint
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Complaint{})
	if search != "" {
		like := "%" + search + "%"
		query = query.Where(
			"title LIKE ? OR description LIKE ? OR category LIKE ? OR status LIKE ? OR assigned_department LIKE ? OR assigned_staff_name LIKE ?",
			like, like, like, like, like, like,
		)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Owner").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&complaints).Error
	if err != nil {
		return nil, 0, err
	}

	return complaints, total, nil
}

// UpdateFields applies a partial update to a complaint
func (r *complaintRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&models.Complaint{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountByStatus counts complaints in a given lifecycle state
func (r *complaintRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Complaint{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}
