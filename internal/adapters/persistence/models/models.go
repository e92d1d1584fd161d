package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"campus-complaintdesk/internal/core/domain"

	"gorm.io/gorm"
)

// ============================================================
// Auth & User Tables
// ============================================================

// User represents users table
type User struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Name       string         `gorm:"size:100;not null" json:"name"`
	Email      string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password   string         `gorm:"size:255;not null" json:"-"`
	Role       string         `gorm:"size:20;default:'student'" json:"role"`
	Department string         `gorm:"size:100" json:"department,omitempty"`
	IsActive   bool           `gorm:"default:true" json:"is_active"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID         uint      `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	Department string    `json:"department,omitempty"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		Department: u.Department,
		IsActive:   u.IsActive,
		CreatedAt:  u.CreatedAt,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Complaint Table
// ============================================================

// Attachment is an inline base64 image stored directly in the complaint
// record as a JSON column. Keeping the blob in the record matches the
// existing data; a separate blob store remains a possible migration.
type Attachment struct {
	FileName string `json:"fileName"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size"`
	DataURL  string `json:"dataUrl"`
}

// Value implements driver.Valuer so GORM persists the attachment as JSON.
func (a Attachment) Value() (driver.Value, error) {
	return json.Marshal(a)
}

// Scan implements sql.Scanner.
func (a *Attachment) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	}
	return fmt.Errorf("unsupported attachment column type %T", value)
}

// Complaint represents complaints table
type Complaint struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	Title              string         `gorm:"size:200;not null" json:"title"`
	Description        string         `gorm:"type:text;not null" json:"description"`
	Category           string         `gorm:"size:50;not null;index" json:"category"`
	Status             string         `gorm:"size:20;not null;default:'pending';index" json:"status"`
	AssignedDepartment string         `gorm:"size:100" json:"assignedDepartment,omitempty"`
	AssignedStaffID    *uint          `gorm:"index" json:"assignedStaffId,omitempty"`
	AssignedStaffName  string         `gorm:"size:100" json:"assignedStaffName,omitempty"`
	Remarks            string         `gorm:"type:text" json:"remarks,omitempty"`
	Attachment         *Attachment    `gorm:"type:json" json:"attachment,omitempty"`
	UserID             uint           `gorm:"not null;index" json:"userId"`
	CreatedAt          time.Time      `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt          time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Owner         *User `gorm:"foreignKey:UserID" json:"owner,omitempty"`
	AssignedStaff *User `gorm:"foreignKey:AssignedStaffID" json:"assigned_staff,omitempty"`
}

func (Complaint) TableName() string {
	return "complaints"
}

// ComplaintResponse DTO
type ComplaintResponse struct {
	ID                 uint        `json:"id"`
	Title              string      `json:"title"`
	Description        string      `json:"description"`
	Category           string      `json:"category"`
	Status             string      `json:"status"`
	AssignedDepartment string      `json:"assignedDepartment,omitempty"`
	AssignedStaffID    *uint       `json:"assignedStaffId,omitempty"`
	AssignedStaffName  string      `json:"assignedStaffName,omitempty"`
	Remarks            string      `json:"remarks,omitempty"`
	Attachment         *Attachment `json:"attachment,omitempty"`
	UserID             uint        `json:"userId"`
	OwnerName          string      `json:"ownerName,omitempty"`
	CreatedAt          time.Time   `json:"createdAt"`
	UpdatedAt          time.Time   `json:"updatedAt"`
}

func (c *Complaint) ToResponse() *ComplaintResponse {
	resp := &ComplaintResponse{
		ID:                 c.ID,
		Title:              c.Title,
		Description:        c.Description,
		Category:           c.Category,
		Status:             c.Status,
		AssignedDepartment: c.AssignedDepartment,
		AssignedStaffID:    c.AssignedStaffID,
		AssignedStaffName:  c.AssignedStaffName,
		Remarks:            c.Remarks,
		Attachment:         c.Attachment,
		UserID:             c.UserID,
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}

	if c.Owner != nil {
		resp.OwnerName = c.Owner.Name
	}

	return resp
}

// LifecycleStatus returns the typed status.
func (c *Complaint) LifecycleStatus() domain.Status {
	return domain.Status(c.Status)
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&Complaint{},
	)
}
