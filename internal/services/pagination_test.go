package services

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func Test_PageNumbers(t *testing.T) {

	tests := []struct {
		name     string
		current  int
		total    int
		expected []int
	}{
		{"no pages", 1, 0, []int{}},
		{"few pages", 2, 5, []int{1, 2, 3, 4, 5}},
		{"near start", 2, 10, []int{1, 2, 3, 4, Ellipsis, 10}},
		{"third page", 3, 10, []int{1, 2, 3, 4, Ellipsis, 10}},
		{"middle", 6, 10, []int{1, Ellipsis, 5, 6, 7, Ellipsis, 10}},
		{"near end", 8, 10, []int{1, Ellipsis, 7, 8, 9, 10}},
		{"last page", 10, 10, []int{1, Ellipsis, 7, 8, 9, 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PageNumbers(tt.current, tt.total))
		})
	}
}
