package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPaginated(t *testing.T) {
	p := NewPaginated([]int{1, 2, 3}, 13, 2, 6)
	assert.Equal(t, int64(13), p.Total)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 2, p.Page)
}

func TestPageWindow(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		totalPages int
		want       []int
	}{
		{"middle of a long range", 10, 20, []int{8, 9, 10, 11, 12}},
		{"clamped at the start", 1, 20, []int{1, 2, 3, 4, 5}},
		{"clamped at the end", 20, 20, []int{16, 17, 18, 19, 20}},
		{"fewer pages than window", 2, 3, []int{1, 2, 3}},
		{"single page", 1, 1, []int{1}},
		{"no pages", 1, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PageWindow(tt.page, tt.totalPages, 5))
		})
	}
}
