package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"Planner/internal/dateutil"
	"Planner/internal/recurrence"
	"Planner/internal/service"

	"github.com/gin-gonic/gin"
)

func parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// parseDay reads a calendar day from a path or query value.
func parseDay(c *gin.Context, name, raw string) (time.Time, bool) {
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " is required"})
		return time.Time{}, false
	}
	t, ok := dateutil.ParseUTCDate(raw).Get()
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name + ": use YYYY-MM-DD"})
		return time.Time{}, false
	}
	return dateutil.Day(t), true
}

func parseRange(c *gin.Context) (time.Time, time.Time, bool) {
	from, ok := parseDay(c, "from", c.Query("from"))
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	to, ok := parseDay(c, "to", c.Query("to"))
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

func parseRepeat(c *gin.Context, raw string) (recurrence.RepeatOption, bool) {
	opt, err := recurrence.ParseRepeatOption(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", false
	}
	return opt, true
}

// respondError maps service errors to HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrNoOccurrence):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrTaskOverlap):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrEmptyTitle),
		errors.Is(err, service.ErrInvalidTimeRange),
		errors.Is(err, service.ErrInvalidRepeatEnd),
		errors.Is(err, service.ErrInvalidRange),
		errors.Is(err, service.ErrRangeTooLarge),
		errors.Is(err, service.ErrInvalidDate),
		errors.Is(err, service.ErrNotRecurring),
		errors.Is(err, recurrence.ErrUnknownRepeatOption):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		slog.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func dayPtrString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := dateutil.DateString(*t)
	return &s
}
