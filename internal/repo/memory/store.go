// Package memory implements the repo interfaces with in-process maps.
// These are test doubles for service and router tests; the server always
// wires the Postgres repos.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	dom "Planner/internal/domain"
	"Planner/internal/recurrence"
	"Planner/internal/repo"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	_ repo.TaskRepo     = (*TaskStore)(nil)
	_ repo.ReminderRepo = (*ReminderStore)(nil)
	_ repo.UserRepo     = (*UserStore)(nil)
)

// inWindow mirrors the SQL pre-filter of the Postgres repos.
func inWindow(repeat recurrence.RepeatOption, selectedDay time.Time, end *time.Time, from, to time.Time) bool {
	if selectedDay.After(to) {
		return false
	}
	if !repeat.Repeats() {
		return !selectedDay.Before(from)
	}
	return end == nil || !end.Before(from)
}

// TaskStore implements repo.TaskRepo using in-memory maps.
type TaskStore struct {
	mu     sync.RWMutex
	nextID int64
	tasks  map[int64]dom.Task
}

func NewTaskStore() *TaskStore {
	return &TaskStore{tasks: make(map[int64]dom.Task)}
}

func copyTask(t dom.Task) dom.Task {
	t.SkipDates = t.SkipDates.Clone()
	return t
}

func (s *TaskStore) get(userID, id int64) (dom.Task, bool) {
	t, ok := s.tasks[id]
	if !ok || t.UserID != userID || t.DeletedAt != nil {
		return dom.Task{}, false
	}
	return t, true
}

func (s *TaskStore) Create(_ context.Context, t dom.Task) (dom.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	now := time.Now().UTC()
	t.ID = s.nextID
	t.CreatedAt, t.UpdatedAt = now, now
	s.tasks[t.ID] = copyTask(t)
	return copyTask(t), nil
}

func (s *TaskStore) GetByID(_ context.Context, userID, id int64) (dom.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.get(userID, id)
	if !ok {
		return dom.Task{}, pgx.ErrNoRows
	}
	return copyTask(t), nil
}

func (s *TaskStore) filter(keep func(dom.Task) bool) []dom.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []dom.Task
	for _, t := range s.tasks {
		if t.DeletedAt == nil && keep(t) {
			out = append(out, copyTask(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *TaskStore) List(_ context.Context, userID int64) ([]dom.Task, error) {
	return s.filter(func(t dom.Task) bool { return t.UserID == userID }), nil
}

func (s *TaskStore) ListInWindow(_ context.Context, userID int64, from, to time.Time) ([]dom.Task, error) {
	return s.filter(func(t dom.Task) bool {
		return t.UserID == userID && inWindow(t.Repeat, t.SelectedDay, t.RepeatEndDay, from, to)
	}), nil
}

func (s *TaskStore) modify(userID, id int64, fn func(*dom.Task)) (dom.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.get(userID, id)
	if !ok {
		return dom.Task{}, pgx.ErrNoRows
	}
	fn(&t)
	t.UpdatedAt = time.Now().UTC()
	s.tasks[id] = copyTask(t)
	return copyTask(t), nil
}

func (s *TaskStore) Update(_ context.Context, userID, id int64, patch dom.Task) (dom.Task, error) {
	return s.modify(userID, id, func(t *dom.Task) {
		t.Title = patch.Title
		t.Description = patch.Description
		t.SelectedDay = patch.SelectedDay
		t.StartTime = patch.StartTime
		t.EndTime = patch.EndTime
		t.Repeat = patch.Repeat
		t.RepeatEndDay = patch.RepeatEndDay
		t.SkipDates = patch.SkipDates
		t.IsDone = patch.IsDone
	})
}

func (s *TaskStore) UpdateSkipDates(_ context.Context, userID, id int64, skip recurrence.SkipList) (dom.Task, error) {
	return s.modify(userID, id, func(t *dom.Task) { t.SkipDates = skip })
}

func (s *TaskStore) MarkDone(_ context.Context, userID, id int64, done bool) (dom.Task, error) {
	return s.modify(userID, id, func(t *dom.Task) { t.IsDone = done })
}

func (s *TaskStore) SoftDelete(_ context.Context, userID, id int64) error {
	_, err := s.modify(userID, id, func(t *dom.Task) {
		now := time.Now().UTC()
		t.DeletedAt = &now
	})
	return err
}

// ReminderStore implements repo.ReminderRepo using in-memory maps.
type ReminderStore struct {
	mu        sync.RWMutex
	nextID    int64
	reminders map[int64]dom.Reminder
}

func NewReminderStore() *ReminderStore {
	return &ReminderStore{reminders: make(map[int64]dom.Reminder)}
}

func copyReminder(r dom.Reminder) dom.Reminder {
	r.SkipDates = r.SkipDates.Clone()
	return r
}

func (s *ReminderStore) get(userID, id int64) (dom.Reminder, bool) {
	r, ok := s.reminders[id]
	if !ok || r.UserID != userID || r.DeletedAt != nil {
		return dom.Reminder{}, false
	}
	return r, true
}

func (s *ReminderStore) Create(_ context.Context, r dom.Reminder) (dom.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	now := time.Now().UTC()
	r.ID = s.nextID
	r.CreatedAt, r.UpdatedAt = now, now
	s.reminders[r.ID] = copyReminder(r)
	return copyReminder(r), nil
}

func (s *ReminderStore) GetByID(_ context.Context, userID, id int64) (dom.Reminder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.get(userID, id)
	if !ok {
		return dom.Reminder{}, pgx.ErrNoRows
	}
	return copyReminder(r), nil
}

func (s *ReminderStore) filter(keep func(dom.Reminder) bool) []dom.Reminder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []dom.Reminder
	for _, r := range s.reminders {
		if r.DeletedAt == nil && keep(r) {
			out = append(out, copyReminder(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *ReminderStore) List(_ context.Context, userID int64) ([]dom.Reminder, error) {
	return s.filter(func(r dom.Reminder) bool { return r.UserID == userID }), nil
}

func (s *ReminderStore) ListInWindow(_ context.Context, userID int64, from, to time.Time) ([]dom.Reminder, error) {
	return s.filter(func(r dom.Reminder) bool {
		return r.UserID == userID && inWindow(r.Repeat, r.SelectedDay, r.RepeatEndDay, from, to)
	}), nil
}

func (s *ReminderStore) ListAllInWindow(_ context.Context, from, to time.Time) ([]dom.Reminder, error) {
	return s.filter(func(r dom.Reminder) bool {
		return inWindow(r.Repeat, r.SelectedDay, r.RepeatEndDay, from, to)
	}), nil
}

func (s *ReminderStore) modify(userID, id int64, fn func(*dom.Reminder)) (dom.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.get(userID, id)
	if !ok {
		return dom.Reminder{}, pgx.ErrNoRows
	}
	fn(&r)
	r.UpdatedAt = time.Now().UTC()
	s.reminders[id] = copyReminder(r)
	return copyReminder(r), nil
}

func (s *ReminderStore) Update(_ context.Context, userID, id int64, patch dom.Reminder) (dom.Reminder, error) {
	return s.modify(userID, id, func(r *dom.Reminder) {
		r.Title = patch.Title
		r.Description = patch.Description
		r.SelectedDay = patch.SelectedDay
		r.SelectedTime = patch.SelectedTime
		r.Repeat = patch.Repeat
		r.RepeatEndDay = patch.RepeatEndDay
		r.SkipDates = patch.SkipDates
	})
}

func (s *ReminderStore) UpdateSkipDates(_ context.Context, userID, id int64, skip recurrence.SkipList) (dom.Reminder, error) {
	return s.modify(userID, id, func(r *dom.Reminder) { r.SkipDates = skip })
}

func (s *ReminderStore) SoftDelete(_ context.Context, userID, id int64) error {
	_, err := s.modify(userID, id, func(r *dom.Reminder) {
		now := time.Now().UTC()
		r.DeletedAt = &now
	})
	return err
}

// UserStore implements repo.UserRepo using in-memory maps.
type UserStore struct {
	mu     sync.RWMutex
	nextID int64
	users  map[int64]dom.User
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[int64]dom.User)}
}

func (s *UserStore) GetByID(_ context.Context, id int64) (dom.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return dom.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (s *UserStore) GetByUsername(_ context.Context, username string) (dom.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return dom.User{}, pgx.ErrNoRows
}

func (s *UserStore) Create(_ context.Context, username, passwordHash string) (dom.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			return dom.User{}, &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
		}
	}
	s.nextID++
	u := dom.User{ID: s.nextID, Username: username, PasswordHash: passwordHash, CreatedAt: time.Now().UTC()}
	s.users[u.ID] = u
	return u, nil
}
