package utils

import (
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/yukikurage/promptvault-api/internal/constants"
)

func TestNewPaginationParams(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		limit      int
		wantPage   int
		wantLimit  int
		wantOffset int
	}{
		{"defaults", 1, constants.DefaultPageSize, 1, constants.DefaultPageSize, 0},
		{"second page", 2, 10, 2, 10, 10},
		{"page below minimum", 0, 10, 1, 10, 0},
		{"limit above maximum", 1, constants.MaxPageSize + 1, 1, constants.DefaultPageSize, 0},
		{"limit below minimum", 3, 0, 3, constants.DefaultPageSize, 2 * constants.DefaultPageSize},
		{"page above maximum", math.MaxInt, 10, constants.MaxPage, 10, (constants.MaxPage - 1) * 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := NewPaginationParams(tt.page, tt.limit)
			assert.Equal(t, tt.wantPage, params.Page)
			assert.Equal(t, tt.wantLimit, params.Limit)
			assert.Equal(t, tt.wantOffset, params.Offset)
		})
	}
}

func TestGetPaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?page=3&limit=5", nil)

	params := GetPaginationParams(c)
	assert.Equal(t, 3, params.Page)
	assert.Equal(t, 5, params.Limit)
	assert.Equal(t, 10, params.Offset)

	c.Request = httptest.NewRequest(http.MethodGet, "/?page=abc", nil)
	params = GetPaginationParams(c)
	assert.Equal(t, 1, params.Page)
	assert.Equal(t, constants.DefaultPageSize, params.Limit)

	c.Request = httptest.NewRequest(http.MethodGet, "/?page=9223372036854775807&limit=100", nil)
	params = GetPaginationParams(c)
	assert.Equal(t, constants.MaxPage, params.Page)
	assert.Positive(t, params.Offset)
}
