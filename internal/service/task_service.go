package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"Planner/internal/cache"
	"Planner/internal/dateutil"
	dom "Planner/internal/domain"
	"Planner/internal/overlap"
	"Planner/internal/recurrence"
	"Planner/internal/repo"

	"github.com/jackc/pgx/v5"
	"github.com/samber/mo"
	"golang.org/x/sync/singleflight"
)

// TaskInput carries the fields of a new task. Only the time of day of
// StartTime and EndTime is used.
type TaskInput struct {
	Title        string
	Description  string
	SelectedDay  time.Time
	StartTime    time.Time
	EndTime      time.Time
	Repeat       recurrence.RepeatOption
	RepeatEndDay *time.Time
}

// TaskPatch is a partial update; nil fields are left unchanged.
// RepeatEndDay holds Some(nil) to clear the end bound.
type TaskPatch struct {
	Title        *string
	Description  *string
	SelectedDay  *time.Time
	StartTime    *time.Time
	EndTime      *time.Time
	Repeat       *recurrence.RepeatOption
	RepeatEndDay mo.Option[*time.Time]
	IsDone       *bool
}

type TaskService struct {
	repo     repo.TaskRepo
	cache    *cache.ListCache
	detector *overlap.Detector
	limits   Limits
	sf       singleflight.Group
}

// NewTaskService creates a TaskService. If c is nil, caching is disabled.
func NewTaskService(r repo.TaskRepo, c *cache.ListCache, limits Limits) *TaskService {
	limits = limits.withDefaults()
	return &TaskService{
		repo:     r,
		cache:    c,
		detector: overlap.NewDetector(limits.OverlapHorizon),
		limits:   limits,
	}
}

func (s *TaskService) Create(ctx context.Context, userID int64, in TaskInput) (dom.Task, error) {
	t := dom.Task{
		UserID:       userID,
		Title:        in.Title,
		Description:  in.Description,
		SelectedDay:  in.SelectedDay,
		StartTime:    in.StartTime,
		EndTime:      in.EndTime,
		Repeat:       in.Repeat,
		RepeatEndDay: in.RepeatEndDay,
		SkipDates:    recurrence.SkipList{},
	}
	t, err := normalizeTask(t)
	if err != nil {
		return dom.Task{}, err
	}
	if err := s.checkConflict(ctx, t); err != nil {
		return dom.Task{}, err
	}

	created, err := s.repo.Create(ctx, t)
	if err != nil {
		return dom.Task{}, err
	}
	s.invalidateCache(ctx, userID)
	return created, nil
}

func (s *TaskService) List(ctx context.Context, userID int64) ([]dom.Task, error) {
	if s.cache != nil {
		key := "tasks:" + strconv.FormatInt(userID, 10)
		v, err, _ := s.sf.Do(key, func() (interface{}, error) {
			if list, err := s.cache.GetTasks(ctx, userID); err == nil && list != nil {
				return list, nil
			}
			list, err := s.repo.List(ctx, userID)
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetTasks(ctx, userID, list)
			return list, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]dom.Task), nil
	}
	return s.repo.List(ctx, userID)
}

func (s *TaskService) Get(ctx context.Context, userID, id int64) (dom.Task, error) {
	t, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return dom.Task{}, notFound(err)
	}
	return t, nil
}

func (s *TaskService) Update(ctx context.Context, userID, id int64, p TaskPatch) (dom.Task, error) {
	existing, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return dom.Task{}, notFound(err)
	}
	patch := existing
	if p.Title != nil {
		patch.Title = *p.Title
	}
	if p.Description != nil {
		patch.Description = *p.Description
	}
	if p.SelectedDay != nil {
		patch.SelectedDay = *p.SelectedDay
	}
	if p.StartTime != nil {
		patch.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		patch.EndTime = *p.EndTime
	}
	if p.Repeat != nil {
		patch.Repeat = *p.Repeat
	}
	if end, ok := p.RepeatEndDay.Get(); ok {
		patch.RepeatEndDay = end
	}
	if p.IsDone != nil {
		patch.IsDone = *p.IsDone
	}

	patch, err = normalizeTask(patch)
	if err != nil {
		return dom.Task{}, err
	}
	if err := s.checkConflict(ctx, patch); err != nil {
		return dom.Task{}, err
	}

	t, err := s.repo.Update(ctx, userID, id, patch)
	if err != nil {
		return dom.Task{}, notFound(err)
	}
	s.invalidateCache(ctx, userID)
	return t, nil
}

func (s *TaskService) Complete(ctx context.Context, userID, id int64) (dom.Task, error) {
	t, err := s.repo.MarkDone(ctx, userID, id, true)
	if err != nil {
		return dom.Task{}, notFound(err)
	}
	s.invalidateCache(ctx, userID)
	return t, nil
}

// Delete removes the whole series.
func (s *TaskService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.repo.SoftDelete(ctx, userID, id); err != nil {
		return notFound(err)
	}
	s.invalidateCache(ctx, userID)
	return nil
}

// DeleteInstance removes the single occurrence on day from a recurring task.
func (s *TaskService) DeleteInstance(ctx context.Context, userID, id int64, day time.Time) (dom.Task, error) {
	t, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return dom.Task{}, notFound(err)
	}
	if !t.Repeat.Repeats() {
		return dom.Task{}, ErrNotRecurring
	}
	if !recurrence.OccursOn(t.Rule(), t.SkipDates, day) {
		return dom.Task{}, fmt.Errorf("%w: %s", ErrNoOccurrence, dateutil.DateString(day))
	}

	skip := t.SkipDates.Clone()
	skip.Add(day)
	updated, err := s.repo.UpdateSkipDates(ctx, userID, id, skip)
	if err != nil {
		return dom.Task{}, notFound(err)
	}
	s.invalidateCache(ctx, userID)
	return updated, nil
}

// Occurrences lists the days one task occurs on within [from, to].
func (s *TaskService) Occurrences(ctx context.Context, userID, id int64, from, to time.Time) ([]recurrence.Occurrence, error) {
	from, to, err := s.limits.checkRange(from, to)
	if err != nil {
		return nil, err
	}
	t, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return recurrence.OccurrencesInRange(t.Rule(), t.SkipDates, from, to), nil
}

// ListForDay returns the user's task occurrences on one day, by start time.
func (s *TaskService) ListForDay(ctx context.Context, userID int64, day time.Time) ([]dom.TaskOccurrence, error) {
	return s.ListInRange(ctx, userID, day, day)
}

// ListInRange returns every task occurrence within [from, to], ordered by day then start time.
func (s *TaskService) ListInRange(ctx context.Context, userID int64, from, to time.Time) ([]dom.TaskOccurrence, error) {
	from, to, err := s.limits.checkRange(from, to)
	if err != nil {
		return nil, err
	}
	tasks, err := s.repo.ListInWindow(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	out := make([]dom.TaskOccurrence, 0, len(tasks))
	for _, t := range tasks {
		for _, o := range recurrence.OccurrencesInRange(t.Rule(), t.SkipDates, from, to) {
			start, ok1 := dateutil.CombineDateTime(o.Date, t.StartTime).Get()
			end, ok2 := dateutil.CombineDateTime(o.Date, t.EndTime).Get()
			if !ok1 || !ok2 {
				continue
			}
			out = append(out, dom.TaskOccurrence{Task: t, Date: o.DateStr, StartAt: start, EndAt: end})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartAt.Before(out[j].StartAt)
	})
	return out, nil
}

func (s *TaskService) checkConflict(ctx context.Context, t dom.Task) error {
	from := dateutil.Day(t.SelectedDay)
	to := seriesEnd(t.Repeat.Repeats(), t.SelectedDay, t.RepeatEndDay)

	existing, err := s.repo.ListInWindow(ctx, t.UserID, from, to)
	if err != nil {
		return err
	}
	candidates := make([]overlap.Candidate, len(existing))
	for i := range existing {
		candidates[i] = existing[i].Candidate()
	}
	if c, ok := s.detector.FirstConflict(t.Candidate(), candidates); ok {
		return fmt.Errorf("%w: task #%d on %s", ErrTaskOverlap, c.Existing.ID, c.Date)
	}
	return nil
}

// normalizeTask validates a task before it reaches the engine and moves its
// days to UTC midnight.
func normalizeTask(t dom.Task) (dom.Task, error) {
	t.Title = strings.TrimSpace(t.Title)
	t.Description = strings.TrimSpace(t.Description)
	if t.Title == "" {
		return dom.Task{}, ErrEmptyTitle
	}
	if !t.Repeat.Valid() {
		return dom.Task{}, fmt.Errorf("%w: %q", recurrence.ErrUnknownRepeatOption, string(t.Repeat))
	}
	if !dateutil.IsValid(t.SelectedDay) {
		return dom.Task{}, fmt.Errorf("%w: selected day", ErrInvalidDate)
	}
	t.SelectedDay = dateutil.Day(t.SelectedDay)

	start, ok1 := dateutil.CombineDateTime(t.SelectedDay, t.StartTime).Get()
	end, ok2 := dateutil.CombineDateTime(t.SelectedDay, t.EndTime).Get()
	if !ok1 || !ok2 || !end.After(start) {
		return dom.Task{}, ErrInvalidTimeRange
	}
	t.StartTime, t.EndTime = start, end

	if !t.Repeat.Repeats() {
		t.RepeatEndDay = nil
	} else {
		t.RepeatEndDay = dayPtr(t.RepeatEndDay)
		if t.RepeatEndDay != nil && t.RepeatEndDay.Before(t.SelectedDay) {
			return dom.Task{}, ErrInvalidRepeatEnd
		}
	}
	if t.SkipDates == nil {
		t.SkipDates = recurrence.SkipList{}
	}
	return t, nil
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (s *TaskService) invalidateCache(ctx context.Context, userID int64) {
	if s.cache != nil {
		_ = s.cache.InvalidateTasks(ctx, userID)
	}
}
