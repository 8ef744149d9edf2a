package response

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	cases := []struct {
		name       string
		page       int
		perPage    int
		totalItems int64
		wantPages  int
	}{
		{"exact fit", 1, 20, 40, 2},
		{"partial last page", 2, 20, 41, 3},
		{"empty", 1, 20, 0, 0},
		{"single item", 1, 20, 1, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPagination(tc.page, tc.perPage, tc.totalItems)
			assert.Equal(t, tc.page, p.Page)
			assert.Equal(t, tc.perPage, p.PerPage)
			assert.Equal(t, int(tc.totalItems), p.TotalItems)
			assert.Equal(t, tc.wantPages, p.TotalPages)
		})
	}
}
