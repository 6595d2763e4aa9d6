package dto

import "time"

type CreateTaskRequest struct {
	Title        string `json:"title" binding:"required,min=1,max=120"`
	Description  string `json:"description" binding:"max=1000"`
	SelectedDay  Date   `json:"selected_day" swaggertype:"string" example:"2026-02-19"`
	StartTime    Clock  `json:"start_time" swaggertype:"string" example:"09:00"`
	EndTime      Clock  `json:"end_time" swaggertype:"string" example:"10:30"`
	RepeatOption string `json:"repeat_option" example:"weekly"`
	RepeatEndDay Date   `json:"repeat_end_day" swaggertype:"string" example:"2026-06-30"` // optional
}

type UpdateTaskRequest struct {
	Title        *string      `json:"title" binding:"omitempty,min=1,max=120"`
	Description  *string      `json:"description" binding:"omitempty,max=1000"`
	SelectedDay  *Date        `json:"selected_day" swaggertype:"string"`
	StartTime    *Clock       `json:"start_time" swaggertype:"string"`
	EndTime      *Clock       `json:"end_time" swaggertype:"string"`
	RepeatOption *string      `json:"repeat_option"`
	RepeatEndDay NullableDate `json:"repeat_end_day" swaggertype:"string"` // null = убрать границу
	IsDone       *bool        `json:"is_done"`
}

type TaskResponse struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	SelectedDay  string    `json:"selected_day"`
	StartTime    string    `json:"start_time"`
	EndTime      string    `json:"end_time"`
	RepeatOption string    `json:"repeat_option"`
	RepeatEndDay *string   `json:"repeat_end_day"`
	SkipDates    []string  `json:"skip_dates"`
	IsDone       bool      `json:"is_done"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type ListTasksResponse struct {
	Items []TaskResponse `json:"items"`
}

// TaskOccurrenceResponse is one task placed on a concrete day.
type TaskOccurrenceResponse struct {
	Date    string       `json:"date"`
	StartAt time.Time    `json:"start_at"`
	EndAt   time.Time    `json:"end_at"`
	Task    TaskResponse `json:"task"`
}

type ListTaskOccurrencesResponse struct {
	Items []TaskOccurrenceResponse `json:"items"`
}

type OccurrenceResponse struct {
	Date string `json:"date"`
}

type ListOccurrencesResponse struct {
	Items []OccurrenceResponse `json:"items"`
}
