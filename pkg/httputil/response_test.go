package httputil

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/pawclinic/vet-api/pkg/apperror"
)

func TestNewPage(t *testing.T) {
	tests := []struct {
		total, limit, wantPages int
	}{
		{total: 0, limit: 25, wantPages: 0},
		{total: 1, limit: 25, wantPages: 1},
		{total: 25, limit: 25, wantPages: 1},
		{total: 26, limit: 25, wantPages: 2},
		{total: 47, limit: 20, wantPages: 3},
		{total: 100, limit: 100, wantPages: 1},
		{total: 10, limit: 0, wantPages: 0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d/%d", tt.total, tt.limit), func(t *testing.T) {
			p := NewPage(nil, tt.total, 1, tt.limit)
			assert.Equal(t, tt.wantPages, p.TotalPages)
			assert.Equal(t, tt.total, p.Total)
		})
	}
}

func TestParsePagination(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newCtx := func(query string) *gin.Context {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/?"+query, nil)
		return c
	}

	page, limit, err := ParsePagination(newCtx("page=2&limit=50"))
	assert.NoError(t, err)
	assert.Equal(t, 2, page)
	assert.Equal(t, 50, limit)

	// Absent params mean "use service defaults".
	page, limit, err = ParsePagination(newCtx(""))
	assert.NoError(t, err)
	assert.Equal(t, 0, page)
	assert.Equal(t, 0, limit)

	for _, query := range []string{"page=0", "page=-1", "page=abc", "limit=0", "limit=xyz"} {
		_, _, err = ParsePagination(newCtx(query))
		assert.True(t, apperror.IsCode(err, apperror.CodeValidation), query)
	}
}

func TestRespondErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{apperror.Validation("bad input"), http.StatusBadRequest, "validation_error"},
		{apperror.NotFound("appointment", "x"), http.StatusNotFound, "not_found"},
		{apperror.InvalidTransition("completed", "scheduled"), http.StatusConflict, "invalid_transition"},
		{apperror.Conflict("status changed"), http.StatusConflict, "conflict"},
		{errors.New("boom"), http.StatusInternalServerError, "internal_error"},
		{fmt.Errorf("wrapped: %w", apperror.Validation("inner")), http.StatusBadRequest, "validation_error"},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		RespondError(c, tt.err)

		assert.Equal(t, tt.wantStatus, w.Code, tt.err.Error())
		assert.Contains(t, w.Body.String(), tt.wantCode)
	}
}
