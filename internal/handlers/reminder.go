package handlers

import (
	"net/http"

	"Planner/internal/auth"
	"Planner/internal/dateutil"
	dom "Planner/internal/domain"
	"Planner/internal/dto"
	"Planner/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/samber/mo"
)

type ReminderHandler struct {
	svc *service.ReminderService
}

func NewReminderHandler(svc *service.ReminderService) *ReminderHandler {
	return &ReminderHandler{svc: svc}
}

// Create godoc
// @Summary      Create a reminder
// @Tags         reminders
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      dto.CreateReminderRequest  true  "Reminder body"
// @Success      201   {object}  dto.ReminderResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /reminders [post]
func (h *ReminderHandler) Create(c *gin.Context) {
	var req dto.CreateReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	repeat, ok := parseRepeat(c, req.RepeatOption)
	if !ok {
		return
	}
	r, err := h.svc.Create(c.Request.Context(), auth.UserIDFromContext(c), service.ReminderInput{
		Title:        req.Title,
		Description:  req.Description,
		SelectedDay:  req.SelectedDay.Time(),
		SelectedTime: req.SelectedTime.Time(),
		Repeat:       repeat,
		RepeatEndDay: req.RepeatEndDay.Ptr(),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, reminderToResponse(r))
}

// List godoc
// @Summary      List all reminders
// @Tags         reminders
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  dto.ListRemindersResponse
// @Failure      500  {object}  map[string]string
// @Router       /reminders [get]
func (h *ReminderHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context(), auth.UserIDFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]dto.ReminderResponse, len(list))
	for i := range list {
		out[i] = reminderToResponse(list[i])
	}
	c.JSON(http.StatusOK, dto.ListRemindersResponse{Items: out})
}

// GetByID godoc
// @Summary      Get a reminder by ID
// @Tags         reminders
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      int  true  "Reminder ID"
// @Success      200  {object}  dto.ReminderResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /reminders/{id} [get]
func (h *ReminderHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	r, err := h.svc.Get(c.Request.Context(), auth.UserIDFromContext(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reminderToResponse(r))
}

// Update godoc
// @Summary      Update a reminder
// @Tags         reminders
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      int  true  "Reminder ID"
// @Param        body  body      dto.UpdateReminderRequest  true  "Partial update"
// @Success      200   {object}  dto.ReminderResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /reminders/{id} [patch]
func (h *ReminderHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	patch := service.ReminderPatch{Title: req.Title, Description: req.Description}
	if req.SelectedDay != nil {
		patch.SelectedDay = timePtr(req.SelectedDay.Time())
	}
	if req.SelectedTime != nil {
		patch.SelectedTime = timePtr(req.SelectedTime.Time())
	}
	if req.RepeatOption != nil {
		repeat, ok := parseRepeat(c, *req.RepeatOption)
		if !ok {
			return
		}
		patch.Repeat = &repeat
	}
	if req.RepeatEndDay.Set {
		patch.RepeatEndDay = mo.Some(req.RepeatEndDay.Date.Ptr())
	}

	r, err := h.svc.Update(c.Request.Context(), auth.UserIDFromContext(c), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reminderToResponse(r))
}

// Delete godoc
// @Summary      Delete a reminder series
// @Tags         reminders
// @Security     CookieAuth
// @Param        id   path  int  true  "Reminder ID"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /reminders/{id} [delete]
func (h *ReminderHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), auth.UserIDFromContext(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteInstance godoc
// @Summary      Delete one occurrence of a recurring reminder
// @Tags         reminders
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      int     true  "Reminder ID"
// @Param        date  path      string  true  "Occurrence day (YYYY-MM-DD)"
// @Success      200   {object}  dto.ReminderResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /reminders/{id}/instances/{date} [delete]
func (h *ReminderHandler) DeleteInstance(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	day, ok := parseDay(c, "date", c.Param("date"))
	if !ok {
		return
	}
	r, err := h.svc.DeleteInstance(c.Request.Context(), auth.UserIDFromContext(c), id, day)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reminderToResponse(r))
}

// Day godoc
// @Summary      Reminders firing on a day
// @Tags         reminders
// @Produce      json
// @Security     CookieAuth
// @Param        date  query     string  true  "Day (YYYY-MM-DD)"
// @Success      200   {object}  dto.ListReminderOccurrencesResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /reminders/day [get]
func (h *ReminderHandler) Day(c *gin.Context) {
	day, ok := parseDay(c, "date", c.Query("date"))
	if !ok {
		return
	}
	list, err := h.svc.ListForDay(c.Request.Context(), auth.UserIDFromContext(c), day)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ListReminderOccurrencesResponse{Items: reminderOccurrencesToResponses(list)})
}

// Range godoc
// @Summary      Reminder occurrences in a date range
// @Tags         reminders
// @Produce      json
// @Security     CookieAuth
// @Param        from  query     string  true  "First day (YYYY-MM-DD)"
// @Param        to    query     string  true  "Last day, inclusive (YYYY-MM-DD)"
// @Success      200   {object}  dto.ListReminderOccurrencesResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /reminders/range [get]
func (h *ReminderHandler) Range(c *gin.Context) {
	from, to, ok := parseRange(c)
	if !ok {
		return
	}
	list, err := h.svc.ListInRange(c.Request.Context(), auth.UserIDFromContext(c), from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ListReminderOccurrencesResponse{Items: reminderOccurrencesToResponses(list)})
}

// Occurrences godoc
// @Summary      Occurrence days of one reminder
// @Tags         reminders
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      int     true  "Reminder ID"
// @Param        from  query     string  true  "First day (YYYY-MM-DD)"
// @Param        to    query     string  true  "Last day, inclusive (YYYY-MM-DD)"
// @Success      200   {object}  dto.ListOccurrencesResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /reminders/{id}/occurrences [get]
func (h *ReminderHandler) Occurrences(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	from, to, ok := parseRange(c)
	if !ok {
		return
	}
	occ, err := h.svc.Occurrences(c.Request.Context(), auth.UserIDFromContext(c), id, from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ListOccurrencesResponse{Items: occurrencesToResponses(occ)})
}

func reminderToResponse(r dom.Reminder) dto.ReminderResponse {
	return dto.ReminderResponse{
		ID:           r.ID,
		Title:        r.Title,
		Description:  r.Description,
		SelectedDay:  dateutil.DateString(r.SelectedDay),
		SelectedTime: dto.FormatClock(r.SelectedTime),
		RepeatOption: string(r.Repeat),
		RepeatEndDay: dayPtrString(r.RepeatEndDay),
		SkipDates:    r.SkipDates.Strings(),
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func reminderOccurrencesToResponses(list []dom.ReminderOccurrence) []dto.ReminderOccurrenceResponse {
	out := make([]dto.ReminderOccurrenceResponse, len(list))
	for i, o := range list {
		out[i] = dto.ReminderOccurrenceResponse{Date: o.Date, At: o.At, Reminder: reminderToResponse(o.Reminder)}
	}
	return out
}
