package repositories

import (
	"context"

	"campus-complaintdesk/internal/adapters/persistence/models"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	ListByRole(ctx context.Context, role string) ([]*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	GetByUserID(ctx context.Context, userID uint) ([]*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) error
	CountActiveByUserID(ctx context.Context, userID uint) (int64, error)
}

// ComplaintRepository defines complaint repository interface
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *models.Complaint) error
	GetByID(ctx context.Context, id uint) (*models.Complaint, error)
	// ListAll returns the full current collection, newest first. The
	// notification poller relies on receiving the whole collection on
	// every call.
	ListAll(ctx context.Context) ([]*models.Complaint, error)
	ListByUser(ctx context.Context, userID uint) ([]*models.Complaint, error)
	List(ctx context.Context, offset, limit int, search string) ([]*models.Complaint, int64, error)
	// UpdateFields applies a partial update, merging only the given
	// columns into the stored record.
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error
	CountByStatus(ctx context.Context, status string) (int64, error)
}
