package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from Status
		to   Status
		want bool
	}{
		{"pending to assigned", StatusPending, StatusAssigned, true},
		{"assigned to in-progress", StatusAssigned, StatusInProgress, true},
		{"in-progress to resolved", StatusInProgress, StatusResolved, true},
		{"skip a step", StatusPending, StatusInProgress, false},
		{"skip to resolved", StatusAssigned, StatusResolved, false},
		{"reverse", StatusInProgress, StatusAssigned, false},
		{"same state", StatusAssigned, StatusAssigned, false},
		{"resolved is terminal", StatusResolved, StatusPending, false},
		{"unknown source", Status("new"), StatusAssigned, false},
		{"unknown target", StatusPending, Status("closed"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.True(t, StatusResolved.Valid())
	assert.False(t, Status("new").Valid())
	assert.False(t, Status("").Valid())
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleStudent.Valid())
	assert.True(t, RoleStaff.Valid())
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, Role("superadmin").Valid())
	assert.False(t, Role("").Valid())
}
