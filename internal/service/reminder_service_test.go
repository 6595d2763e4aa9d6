package service

import (
	"context"
	"testing"
	"time"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Planner/internal/recurrence"
	"Planner/internal/repo/memory"
)

func newReminderService() *ReminderService {
	return NewReminderService(memory.NewReminderStore(), nil, DefaultLimits)
}

func reminderInput(title, selected, at string, repeat recurrence.RepeatOption) ReminderInput {
	return ReminderInput{Title: title, SelectedDay: day(selected), SelectedTime: clock(at), Repeat: repeat}
}

func TestReminderService_CreateAndUpdate(t *testing.T) {
	svc := newReminderService()
	ctx := context.Background()

	r, err := svc.Create(ctx, user, reminderInput("pills", "2023-07-20", "08:00", recurrence.RepeatDaily))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 7, 20, 8, 0, 0, 0, time.UTC), r.SelectedTime)

	// Reminders never conflict.
	_, err = svc.Create(ctx, user, reminderInput("also pills", "2023-07-20", "08:00", recurrence.RepeatDaily))
	require.NoError(t, err)

	_, err = svc.Create(ctx, user, reminderInput("", "2023-07-20", "08:00", recurrence.RepeatNone))
	assert.ErrorIs(t, err, ErrEmptyTitle)

	_, err = svc.Create(ctx, user, ReminderInput{Title: "x", SelectedDay: day("2023-07-20")})
	assert.ErrorIs(t, err, ErrInvalidDate, "missing time")

	weekly := recurrence.RepeatWeekly
	end := dayPtrOf("2023-08-31")
	got, err := svc.Update(ctx, user, r.ID, ReminderPatch{Repeat: &weekly, RepeatEndDay: mo.Some(end)})
	require.NoError(t, err)
	assert.Equal(t, recurrence.RepeatWeekly, got.Repeat)
	require.NotNil(t, got.RepeatEndDay)

	none := recurrence.RepeatNone
	got, err = svc.Update(ctx, user, r.ID, ReminderPatch{Repeat: &none})
	require.NoError(t, err)
	assert.Nil(t, got.RepeatEndDay, "single reminders carry no end bound")
}

func TestReminderService_ListInRange(t *testing.T) {
	svc := newReminderService()
	ctx := context.Background()

	_, err := svc.Create(ctx, user, reminderInput("evening", "2023-07-20", "21:00", recurrence.RepeatDaily))
	require.NoError(t, err)
	_, err = svc.Create(ctx, user, reminderInput("morning", "2023-07-21", "07:00", recurrence.RepeatNone))
	require.NoError(t, err)

	list, err := svc.ListInRange(ctx, user, day("2023-07-20"), day("2023-07-21"))
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "evening", list[0].Reminder.Title)
	assert.Equal(t, "morning", list[1].Reminder.Title)
	assert.Equal(t, "2023-07-21", list[2].Date)
	assert.Equal(t, time.Date(2023, 7, 21, 21, 0, 0, 0, time.UTC), list[2].At)
}

func TestReminderService_Due(t *testing.T) {
	svc := newReminderService()
	ctx := context.Background()

	daily, err := svc.Create(ctx, user, reminderInput("pills", "2023-07-20", "08:00", recurrence.RepeatDaily))
	require.NoError(t, err)
	_, err = svc.Create(ctx, 2, reminderInput("walk", "2023-07-22", "08:00", recurrence.RepeatNone))
	require.NoError(t, err)

	at := func(d string, h, m int) time.Time {
		return day(d).Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
	}

	due, err := svc.Due(ctx, at("2023-07-22", 7, 59), at("2023-07-22", 8, 0))
	require.NoError(t, err)
	assert.Empty(t, due, "window end is exclusive")

	due, err = svc.Due(ctx, at("2023-07-22", 8, 0), at("2023-07-22", 8, 1))
	require.NoError(t, err)
	require.Len(t, due, 2, "every user")

	_, err = svc.DeleteInstance(ctx, user, daily.ID, day("2023-07-23"))
	require.NoError(t, err)
	due, err = svc.Due(ctx, at("2023-07-23", 0, 0), at("2023-07-24", 0, 0))
	require.NoError(t, err)
	assert.Empty(t, due, "skipped day")

	due, err = svc.Due(ctx, at("2023-07-23", 23, 59), at("2023-07-24", 8, 30))
	require.NoError(t, err)
	require.Len(t, due, 1, "window spanning midnight")
	assert.Equal(t, "2023-07-24", due[0].Date)

	due, err = svc.Due(ctx, at("2023-07-24", 9, 0), at("2023-07-24", 9, 0))
	require.NoError(t, err)
	assert.Empty(t, due)

	// The scheduler's default lookback stays inside the range limit.
	_, err = svc.Due(ctx, at("2023-07-24", 9, 0).Add(-365*24*time.Hour), at("2023-07-24", 9, 0))
	require.NoError(t, err)
}

func TestReminderService_DeleteInstanceErrors(t *testing.T) {
	svc := newReminderService()
	ctx := context.Background()

	single, err := svc.Create(ctx, user, reminderInput("once", "2023-07-20", "08:00", recurrence.RepeatNone))
	require.NoError(t, err)
	_, err = svc.DeleteInstance(ctx, user, single.ID, day("2023-07-20"))
	assert.ErrorIs(t, err, ErrNotRecurring)

	_, err = svc.DeleteInstance(ctx, user, 42, day("2023-07-20"))
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.Delete(ctx, user, single.ID))
	assert.ErrorIs(t, svc.Delete(ctx, user, single.ID), ErrNotFound)
}
