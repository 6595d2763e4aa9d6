package handlers

import (
	"net/http"
	"time"

	"Planner/internal/auth"
	"Planner/internal/dateutil"
	dom "Planner/internal/domain"
	"Planner/internal/dto"
	"Planner/internal/recurrence"
	"Planner/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/samber/mo"
)

type TaskHandler struct {
	svc *service.TaskService
}

func NewTaskHandler(svc *service.TaskService) *TaskHandler {
	return &TaskHandler{svc: svc}
}

// Create godoc
// @Summary      Create a task
// @Description  Rejects a task whose time range overlaps any occurrence of another task.
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      dto.CreateTaskRequest  true  "Task body"
// @Success      201   {object}  dto.TaskResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	repeat, ok := parseRepeat(c, req.RepeatOption)
	if !ok {
		return
	}

	t, err := h.svc.Create(c.Request.Context(), auth.UserIDFromContext(c), service.TaskInput{
		Title:        req.Title,
		Description:  req.Description,
		SelectedDay:  req.SelectedDay.Time(),
		StartTime:    req.StartTime.Time(),
		EndTime:      req.EndTime.Time(),
		Repeat:       repeat,
		RepeatEndDay: req.RepeatEndDay.Ptr(),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, taskToResponse(t))
}

// List godoc
// @Summary      List all tasks
// @Description  Stored tasks, one entry per series.
// @Tags         tasks
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  dto.ListTasksResponse
// @Failure      500  {object}  map[string]string
// @Router       /tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context(), auth.UserIDFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ListTasksResponse{Items: tasksToResponses(list)})
}

// GetByID godoc
// @Summary      Get a task by ID
// @Tags         tasks
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      int  true  "Task ID"
// @Success      200  {object}  dto.TaskResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /tasks/{id} [get]
func (h *TaskHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	t, err := h.svc.Get(c.Request.Context(), auth.UserIDFromContext(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, taskToResponse(t))
}

// Update godoc
// @Summary      Update a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      int  true  "Task ID"
// @Param        body  body      dto.UpdateTaskRequest  true  "Partial update"
// @Success      200   {object}  dto.TaskResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /tasks/{id} [patch]
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patch := service.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		IsDone:      req.IsDone,
	}
	if req.SelectedDay != nil {
		patch.SelectedDay = timePtr(req.SelectedDay.Time())
	}
	if req.StartTime != nil {
		patch.StartTime = timePtr(req.StartTime.Time())
	}
	if req.EndTime != nil {
		patch.EndTime = timePtr(req.EndTime.Time())
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

	t, err := h.svc.Update(c.Request.Context(), auth.UserIDFromContext(c), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, taskToResponse(t))
}

// Delete godoc
// @Summary      Delete a task series
// @Tags         tasks
// @Security     CookieAuth
// @Param        id   path  int  true  "Task ID"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
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
// @Summary      Delete one occurrence of a recurring task
// @Tags         tasks
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      int     true  "Task ID"
// @Param        date  path      string  true  "Occurrence day (YYYY-MM-DD)"
// @Success      200   {object}  dto.TaskResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /tasks/{id}/instances/{date} [delete]
func (h *TaskHandler) DeleteInstance(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	day, ok := parseDay(c, "date", c.Param("date"))
	if !ok {
		return
	}
	t, err := h.svc.DeleteInstance(c.Request.Context(), auth.UserIDFromContext(c), id, day)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, taskToResponse(t))
}

// Complete godoc
// @Summary      Mark a task as done
// @Tags         tasks
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      int  true  "Task ID"
// @Success      200  {object}  dto.TaskResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /tasks/{id}/complete [post]
func (h *TaskHandler) Complete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	t, err := h.svc.Complete(c.Request.Context(), auth.UserIDFromContext(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, taskToResponse(t))
}

// Day godoc
// @Summary      Tasks occurring on a day
// @Tags         tasks
// @Produce      json
// @Security     CookieAuth
// @Param        date  query     string  true  "Day (YYYY-MM-DD)"
// @Success      200   {object}  dto.ListTaskOccurrencesResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /tasks/day [get]
func (h *TaskHandler) Day(c *gin.Context) {
	day, ok := parseDay(c, "date", c.Query("date"))
	if !ok {
		return
	}
	list, err := h.svc.ListForDay(c.Request.Context(), auth.UserIDFromContext(c), day)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ListTaskOccurrencesResponse{Items: taskOccurrencesToResponses(list)})
}

// Range godoc
// @Summary      Task occurrences in a date range
// @Tags         tasks
// @Produce      json
// @Security     CookieAuth
// @Param        from  query     string  true  "First day (YYYY-MM-DD)"
// @Param        to    query     string  true  "Last day, inclusive (YYYY-MM-DD)"
// @Success      200   {object}  dto.ListTaskOccurrencesResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /tasks/range [get]
func (h *TaskHandler) Range(c *gin.Context) {
	from, to, ok := parseRange(c)
	if !ok {
		return
	}
	list, err := h.svc.ListInRange(c.Request.Context(), auth.UserIDFromContext(c), from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ListTaskOccurrencesResponse{Items: taskOccurrencesToResponses(list)})
}

// Occurrences godoc
// @Summary      Occurrence days of one task
// @Tags         tasks
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      int     true  "Task ID"
// @Param        from  query     string  true  "First day (YYYY-MM-DD)"
// @Param        to    query     string  true  "Last day, inclusive (YYYY-MM-DD)"
// @Success      200   {object}  dto.ListOccurrencesResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /tasks/{id}/occurrences [get]
func (h *TaskHandler) Occurrences(c *gin.Context) {
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

func timePtr(t time.Time) *time.Time { return &t }

func taskToResponse(t dom.Task) dto.TaskResponse {
	return dto.TaskResponse{
		ID:           t.ID,
		Title:        t.Title,
		Description:  t.Description,
		SelectedDay:  dateutil.DateString(t.SelectedDay),
		StartTime:    dto.FormatClock(t.StartTime),
		EndTime:      dto.FormatClock(t.EndTime),
		RepeatOption: string(t.Repeat),
		RepeatEndDay: dayPtrString(t.RepeatEndDay),
		SkipDates:    t.SkipDates.Strings(),
		IsDone:       t.IsDone,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

func tasksToResponses(list []dom.Task) []dto.TaskResponse {
	out := make([]dto.TaskResponse, len(list))
	for i := range list {
		out[i] = taskToResponse(list[i])
	}
	return out
}

func taskOccurrencesToResponses(list []dom.TaskOccurrence) []dto.TaskOccurrenceResponse {
	out := make([]dto.TaskOccurrenceResponse, len(list))
	for i, o := range list {
		out[i] = dto.TaskOccurrenceResponse{
			Date:    o.Date,
			StartAt: o.StartAt,
			EndAt:   o.EndAt,
			Task:    taskToResponse(o.Task),
		}
	}
	return out
}

func occurrencesToResponses(list []recurrence.Occurrence) []dto.OccurrenceResponse {
	out := make([]dto.OccurrenceResponse, len(list))
	for i, o := range list {
		out[i] = dto.OccurrenceResponse{Date: o.DateStr}
	}
	return out
}
