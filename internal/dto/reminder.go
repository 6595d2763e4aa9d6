package dto

import "time"

type CreateReminderRequest struct {
	Title        string `json:"title" binding:"required,min=1,max=120"`
	Description  string `json:"description" binding:"max=1000"`
	SelectedDay  Date   `json:"selected_day" swaggertype:"string" example:"2026-02-19"`
	SelectedTime Clock  `json:"selected_time" swaggertype:"string" example:"08:00"`
	RepeatOption string `json:"repeat_option" example:"daily"`
	RepeatEndDay Date   `json:"repeat_end_day" swaggertype:"string"`
}

type UpdateReminderRequest struct {
	Title        *string      `json:"title" binding:"omitempty,min=1,max=120"`
	Description  *string      `json:"description" binding:"omitempty,max=1000"`
	SelectedDay  *Date        `json:"selected_day" swaggertype:"string"`
	SelectedTime *Clock       `json:"selected_time" swaggertype:"string"`
	RepeatOption *string      `json:"repeat_option"`
	RepeatEndDay NullableDate `json:"repeat_end_day" swaggertype:"string"`
}

type ReminderResponse struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	SelectedDay  string    `json:"selected_day"`
	SelectedTime string    `json:"selected_time"`
	RepeatOption string    `json:"repeat_option"`
	RepeatEndDay *string   `json:"repeat_end_day"`
	SkipDates    []string  `json:"skip_dates"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type ListRemindersResponse struct {
	Items []ReminderResponse `json:"items"`
}

type ReminderOccurrenceResponse struct {
	Date     string           `json:"date"`
	At       time.Time        `json:"at"`
	Reminder ReminderResponse `json:"reminder"`
}

type ListReminderOccurrencesResponse struct {
	Items []ReminderOccurrenceResponse `json:"items"`
}
