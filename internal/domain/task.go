package domain

import (
	"time"

	"github.com/samber/mo"

	"Planner/internal/overlap"
	"Planner/internal/recurrence"
)

// Domain entity: бизнес-объект (истина).
// Не зависит от Gin, Postgres, Redis.
//
// Only the time of day of StartTime and EndTime is meaningful; the calendar
// day of every occurrence comes from SelectedDay and the repeat rule.
type Task struct {
	ID           int64
	UserID       int64
	Title        string
	Description  string
	SelectedDay  time.Time
	StartTime    time.Time
	EndTime      time.Time
	Repeat       recurrence.RepeatOption
	RepeatEndDay *time.Time
	SkipDates    recurrence.SkipList
	IsDone       bool

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// Rule returns the task's recurrence rule.
func (t Task) Rule() recurrence.Rule {
	return recurrence.NewRule(t.Repeat, t.SelectedDay, t.RepeatEndDay)
}

// Candidate converts the task into the overlap detector's input.
func (t Task) Candidate() overlap.Candidate {
	end := mo.None[time.Time]()
	if t.RepeatEndDay != nil {
		end = mo.Some(*t.RepeatEndDay)
	}
	return overlap.Candidate{
		ID:           t.ID,
		StartTime:    t.StartTime,
		EndTime:      t.EndTime,
		SelectedDay:  t.SelectedDay,
		Repeat:       t.Repeat,
		RepeatEndDay: end,
		SkipDates:    t.SkipDates,
	}
}

// TaskOccurrence is a task placed on one concrete day.
type TaskOccurrence struct {
	Task    Task
	Date    string
	StartAt time.Time
	EndAt   time.Time
}
