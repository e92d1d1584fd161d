package domain

import "time"

// Role represents user role in the system
type Role string

const (
	RoleStudent Role = "student"
	RoleStaff   Role = "staff"
	RoleAdmin   Role = "admin"
)

// Valid reports whether the role is one of the closed set.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

// Status represents the complaint lifecycle state
type Status string

const (
	StatusPending    Status = "pending"
	StatusAssigned   Status = "assigned"
	StatusInProgress Status = "in-progress"
	StatusResolved   Status = "resolved"
)

// statusOrder gives each lifecycle state its position; transitions may only
// move forward one step at a time.
var statusOrder = map[Status]int{
	StatusPending:    0,
	StatusAssigned:   1,
	StatusInProgress: 2,
	StatusResolved:   3,
}

// Valid reports whether the status is a known lifecycle state.
func (s Status) Valid() bool {
	_, ok := statusOrder[s]
	return ok
}

// CanTransitionTo reports whether moving from s to next is a legal forward
// step. Skipping or reversing states is rejected.
func (s Status) CanTransitionTo(next Status) bool {
	from, ok := statusOrder[s]
	if !ok {
		return false
	}
	to, ok := statusOrder[next]
	if !ok {
		return false
	}
	return to == from+1
}

// User represents a user in the domain layer
type User struct {
	ID         uint
	Name       string
	Email      string
	Password   string // Hashed
	Role       Role
	Department string // staff only
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Complaint represents a complaint in the domain layer
type Complaint struct {
	ID                 uint
	Title              string
	Description        string
	Category           string
	Status             Status
	AssignedDepartment string
	AssignedStaffID    *uint
	AssignedStaffName  string
	Remarks            string
	UserID             uint
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// RefreshToken represents a refresh token in the domain
type RefreshToken struct {
	ID        uint
	UserID    uint
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
	RevokedAt *time.Time
}

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
