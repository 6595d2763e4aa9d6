package handlers

import (
	"net/http"

	"Planner/internal/auth"
	"Planner/internal/service"

	"github.com/gin-gonic/gin"
)

type CalendarHandler struct {
	svc *service.CalendarService
}

func NewCalendarHandler(svc *service.CalendarService) *CalendarHandler {
	return &CalendarHandler{svc: svc}
}

// Export godoc
// @Summary      iCalendar feed
// @Description  All tasks and reminders of the current user as text/calendar.
// @Tags         calendar
// @Produce      text/calendar
// @Security     CookieAuth
// @Success      200  {string}  string
// @Failure      500  {object}  map[string]string
// @Router       /calendar.ics [get]
func (h *CalendarHandler) Export(c *gin.Context) {
	data, err := h.svc.Export(c.Request.Context(), auth.UserIDFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="planner.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", data)
}
