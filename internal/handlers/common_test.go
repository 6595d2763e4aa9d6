package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"Planner/internal/recurrence"
	"Planner/internal/service"
)

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", service.ErrNotFound, http.StatusNotFound},
		{"no occurrence", fmt.Errorf("%w: 2023-07-05", service.ErrNoOccurrence), http.StatusNotFound},
		{"overlap", fmt.Errorf("%w: task #3 on 2023-07-05", service.ErrTaskOverlap), http.StatusConflict},
		{"time range", service.ErrInvalidTimeRange, http.StatusBadRequest},
		{"range too large", service.ErrRangeTooLarge, http.StatusBadRequest},
		{"not recurring", service.ErrNotRecurring, http.StatusBadRequest},
		{"repeat option", recurrence.ErrUnknownRepeatOption, http.StatusBadRequest},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			respondError(c, tt.err)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestParseDay(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	day, ok := parseDay(c, "date", "2023-07-05")
	assert.True(t, ok)
	assert.Equal(t, "2023-07-05", day.Format("2006-01-02"))

	for _, raw := range []string{"", "05.07.2023", "2023-13-01", "2023-02-31"} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		_, ok := parseDay(c, "date", raw)
		assert.False(t, ok, raw)
		assert.Equal(t, http.StatusBadRequest, w.Code, raw)
	}
}
