package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"Planner/internal/cache"
	"Planner/internal/dateutil"
	dom "Planner/internal/domain"
	"Planner/internal/recurrence"
	"Planner/internal/repo"

	"github.com/samber/mo"
	"golang.org/x/sync/singleflight"
)

type ReminderInput struct {
	Title        string
	Description  string
	SelectedDay  time.Time
	SelectedTime time.Time
	Repeat       recurrence.RepeatOption
	RepeatEndDay *time.Time
}

// ReminderPatch is a partial update; nil fields are left unchanged.
type ReminderPatch struct {
	Title        *string
	Description  *string
	SelectedDay  *time.Time
	SelectedTime *time.Time
	Repeat       *recurrence.RepeatOption
	RepeatEndDay mo.Option[*time.Time]
}

// ReminderService manages reminders. Reminders are instants, so they never
// conflict with each other or with tasks.
type ReminderService struct {
	repo   repo.ReminderRepo
	cache  *cache.ListCache
	limits Limits
	sf     singleflight.Group
}

// NewReminderService creates a ReminderService. If c is nil, caching is disabled.
func NewReminderService(r repo.ReminderRepo, c *cache.ListCache, limits Limits) *ReminderService {
	return &ReminderService{repo: r, cache: c, limits: limits.withDefaults()}
}

func (s *ReminderService) Create(ctx context.Context, userID int64, in ReminderInput) (dom.Reminder, error) {
	r, err := normalizeReminder(dom.Reminder{
		UserID:       userID,
		Title:        in.Title,
		Description:  in.Description,
		SelectedDay:  in.SelectedDay,
		SelectedTime: in.SelectedTime,
		Repeat:       in.Repeat,
		RepeatEndDay: in.RepeatEndDay,
	})
	if err != nil {
		return dom.Reminder{}, err
	}
	created, err := s.repo.Create(ctx, r)
	if err != nil {
		return dom.Reminder{}, err
	}
	s.invalidateCache(ctx, userID)
	return created, nil
}

func (s *ReminderService) List(ctx context.Context, userID int64) ([]dom.Reminder, error) {
	if s.cache == nil {
		return s.repo.List(ctx, userID)
	}
	v, err, _ := s.sf.Do("reminders:"+strconv.FormatInt(userID, 10), func() (interface{}, error) {
		if list, err := s.cache.GetReminders(ctx, userID); err == nil && list != nil {
			return list, nil
		}
		list, err := s.repo.List(ctx, userID)
		if err != nil {
			return nil, err
		}
		_ = s.cache.SetReminders(ctx, userID, list)
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]dom.Reminder), nil
}

func (s *ReminderService) Get(ctx context.Context, userID, id int64) (dom.Reminder, error) {
	r, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return dom.Reminder{}, notFound(err)
	}
	return r, nil
}

func (s *ReminderService) Update(ctx context.Context, userID, id int64, p ReminderPatch) (dom.Reminder, error) {
	r, err := s.Get(ctx, userID, id)
	if err != nil {
		return dom.Reminder{}, err
	}
	if p.Title != nil {
		r.Title = *p.Title
	}
	if p.Description != nil {
		r.Description = *p.Description
	}
	if p.SelectedDay != nil {
		r.SelectedDay = *p.SelectedDay
	}
	if p.SelectedTime != nil {
		r.SelectedTime = *p.SelectedTime
	}
	if p.Repeat != nil {
		r.Repeat = *p.Repeat
	}
	if end, ok := p.RepeatEndDay.Get(); ok {
		r.RepeatEndDay = end
	}
	r, err = normalizeReminder(r)
	if err != nil {
		return dom.Reminder{}, err
	}

	updated, err := s.repo.Update(ctx, userID, id, r)
	if err != nil {
		return dom.Reminder{}, notFound(err)
	}
	s.invalidateCache(ctx, userID)
	return updated, nil
}

func (s *ReminderService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.repo.SoftDelete(ctx, userID, id); err != nil {
		return notFound(err)
	}
	s.invalidateCache(ctx, userID)
	return nil
}

func (s *ReminderService) DeleteInstance(ctx context.Context, userID, id int64, day time.Time) (dom.Reminder, error) {
	r, err := s.Get(ctx, userID, id)
	if err != nil {
		return dom.Reminder{}, err
	}
	if !r.Repeat.Repeats() {
		return dom.Reminder{}, ErrNotRecurring
	}
	if !recurrence.OccursOn(r.Rule(), r.SkipDates, day) {
		return dom.Reminder{}, fmt.Errorf("%w: %s", ErrNoOccurrence, dateutil.DateString(day))
	}

	skip := r.SkipDates.Clone()
	skip.Add(day)
	updated, err := s.repo.UpdateSkipDates(ctx, userID, id, skip)
	if err != nil {
		return dom.Reminder{}, notFound(err)
	}
	s.invalidateCache(ctx, userID)
	return updated, nil
}

func (s *ReminderService) Occurrences(ctx context.Context, userID, id int64, from, to time.Time) ([]recurrence.Occurrence, error) {
	from, to, err := s.limits.checkRange(from, to)
	if err != nil {
		return nil, err
	}
	r, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return recurrence.OccurrencesInRange(r.Rule(), r.SkipDates, from, to), nil
}

func (s *ReminderService) ListForDay(ctx context.Context, userID int64, day time.Time) ([]dom.ReminderOccurrence, error) {
	return s.ListInRange(ctx, userID, day, day)
}

func (s *ReminderService) ListInRange(ctx context.Context, userID int64, from, to time.Time) ([]dom.ReminderOccurrence, error) {
	from, to, err := s.limits.checkRange(from, to)
	if err != nil {
		return nil, err
	}
	list, err := s.repo.ListInWindow(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	return expandReminders(list, from, to), nil
}

// Due returns the reminders of every user whose occurrence instant falls in
// [from, to), ordered by instant.
func (s *ReminderService) Due(ctx context.Context, from, to time.Time) ([]dom.ReminderOccurrence, error) {
	if !to.After(from) {
		return []dom.ReminderOccurrence{}, nil
	}
	fromDay, toDay, err := s.limits.checkRange(from, to)
	if err != nil {
		return nil, err
	}
	list, err := s.repo.ListAllInWindow(ctx, fromDay, toDay)
	if err != nil {
		return nil, err
	}

	due := make([]dom.ReminderOccurrence, 0)
	for _, o := range expandReminders(list, fromDay, toDay) {
		if !o.At.Before(from) && o.At.Before(to) {
			due = append(due, o)
		}
	}
	return due, nil
}

func expandReminders(list []dom.Reminder, from, to time.Time) []dom.ReminderOccurrence {
	out := make([]dom.ReminderOccurrence, 0, len(list))
	for _, r := range list {
		for _, o := range recurrence.OccurrencesInRange(r.Rule(), r.SkipDates, from, to) {
			at, ok := dateutil.CombineDateTime(o.Date, r.SelectedTime).Get()
			if !ok {
				continue
			}
			out = append(out, dom.ReminderOccurrence{Reminder: r, Date: o.DateStr, At: at})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].At.Before(out[j].At)
	})
	return out
}

func normalizeReminder(r dom.Reminder) (dom.Reminder, error) {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	if r.Title == "" {
		return dom.Reminder{}, ErrEmptyTitle
	}
	if !r.Repeat.Valid() {
		return dom.Reminder{}, fmt.Errorf("%w: %q", recurrence.ErrUnknownRepeatOption, string(r.Repeat))
	}
	if !dateutil.IsValid(r.SelectedDay) {
		return dom.Reminder{}, fmt.Errorf("%w: selected day", ErrInvalidDate)
	}
	r.SelectedDay = dateutil.Day(r.SelectedDay)

	at, ok := dateutil.CombineDateTime(r.SelectedDay, r.SelectedTime).Get()
	if !ok {
		return dom.Reminder{}, fmt.Errorf("%w: selected time", ErrInvalidDate)
	}
	r.SelectedTime = at

	if !r.Repeat.Repeats() {
		r.RepeatEndDay = nil
	} else {
		r.RepeatEndDay = dayPtr(r.RepeatEndDay)
		if r.RepeatEndDay != nil && r.RepeatEndDay.Before(r.SelectedDay) {
			return dom.Reminder{}, ErrInvalidRepeatEnd
		}
	}
	if r.SkipDates == nil {
		r.SkipDates = recurrence.SkipList{}
	}
	return r, nil
}

func (s *ReminderService) invalidateCache(ctx context.Context, userID int64) {
	if s.cache != nil {
		_ = s.cache.InvalidateReminders(ctx, userID)
	}
}
