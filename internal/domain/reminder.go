package domain

import (
	"time"

	"Planner/internal/recurrence"
)

// Reminder fires at a single point in time on each occurrence day.
type Reminder struct {
	ID           int64
	UserID       int64
	Title        string
	Description  string
	SelectedDay  time.Time
	SelectedTime time.Time
	Repeat       recurrence.RepeatOption
	RepeatEndDay *time.Time
	SkipDates    recurrence.SkipList

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

func (r Reminder) Rule() recurrence.Rule {
	return recurrence.NewRule(r.Repeat, r.SelectedDay, r.RepeatEndDay)
}

// ReminderOccurrence is a reminder placed on one concrete day.
type ReminderOccurrence struct {
	Reminder Reminder
	Date     string
	At       time.Time
}
