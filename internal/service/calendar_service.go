package service

import (
	"context"
	"time"

	"Planner/internal/calendar"
)

// CalendarService exports a user's schedule as iCalendar.
type CalendarService struct {
	tasks     *TaskService
	reminders *ReminderService
	now       func() time.Time
}

func NewCalendarService(tasks *TaskService, reminders *ReminderService) *CalendarService {
	return &CalendarService{tasks: tasks, reminders: reminders, now: time.Now}
}

// Export renders every stored task and reminder of the user. Recurring rows
// become a single VEVENT with RRULE and EXDATE.
func (s *CalendarService) Export(ctx context.Context, userID int64) ([]byte, error) {
	tasks, err := s.tasks.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	reminders, err := s.reminders.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	return calendar.Encode(calendar.Build(tasks, reminders, s.now()))
}
