package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolutionRate(t *testing.T) {
	tests := []struct {
		name     string
		resolved int64
		total    int64
		want     int
	}{
		{"no complaints", 0, 0, 0},
		{"nothing resolved", 0, 10, 0},
		{"everything resolved", 10, 10, 100},
		{"half resolved", 5, 10, 50},
		{"rounds up", 2, 3, 67},
		{"rounds down", 1, 3, 33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolutionRate(tt.resolved, tt.total))
		})
	}
}

func TestCategoryPercent(t *testing.T) {
	assert.Equal(t, 0, CategoryPercent(5, 0))
	assert.Equal(t, 25, CategoryPercent(1, 4))
	assert.Equal(t, 33, CategoryPercent(1, 3))
	assert.Equal(t, 100, CategoryPercent(7, 7))
}
